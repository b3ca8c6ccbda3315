package repository

import (
	"classroom_portal/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) WithContext(ctx context.Context) *SubmissionRepository {
	return &SubmissionRepository{DB: r.DB.WithContext(ctx)}
}

// WithTx 返回绑定到 tx 的仓库，调用会加入调用方的事务
func (r *SubmissionRepository) WithTx(tx *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: tx}
}

// LockOwnedSection 在小节属于该测评、测评属于该课堂时对小节加行锁，
// 不支持行锁的数据库会忽略该子句
func (r *SubmissionRepository) LockOwnedSection(classroomID, assessmentID, sectionID uint) (*model.AssessmentSection, error) {
	var s model.AssessmentSection
	err := r.DB.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Joins("JOIN assessments ON assessments.id = assessment_sections.assessment_id AND assessments.deleted_at IS NULL").
		Where("assessment_sections.id = ? AND assessment_sections.assessment_id = ? AND assessments.classroom_id = ?",
			sectionID, assessmentID, classroomID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepository) Exists(sectionID, studentID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.SectionSubmission{}).
		Where("section_id = ? AND student_id = ?", sectionID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *SubmissionRepository) SectionQuestions(sectionID uint) ([]model.AssessmentQuestion, error) {
	var qs []model.AssessmentQuestion
	err := r.DB.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Where("section_id = ?", sectionID).
		Order("id asc").
		Find(&qs).Error
	return qs, err
}

// Create 写入提交记录及其答案。跳过关联保存，
// 冲突的答案会报错而不是被覆盖
func (r *SubmissionRepository) Create(sub *model.SectionSubmission, answers []model.AssessmentAnswer) error {
	if err := r.DB.Omit(clause.Associations).Create(sub).Error; err != nil {
		return err
	}
	if len(answers) == 0 {
		return nil
	}
	return r.DB.Omit(clause.Associations).CreateInBatches(&answers, 100).Error
}

func (r *SubmissionRepository) CountAnswers(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.AssessmentAnswer{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count, err
}

func (r *SubmissionRepository) ListBySection(ctx context.Context, sectionID uint) ([]model.SectionSubmission, error) {
	var subs []model.SectionSubmission
	err := r.DB.WithContext(ctx).
		Preload("Student").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_id asc")
		}).
		Where("section_id = ?", sectionID).
		Order("submitted_at asc").
		Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepository) ListByStudent(ctx context.Context, assessmentID, studentID uint) ([]model.SectionSubmission, error) {
	var subs []model.SectionSubmission
	err := r.DB.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_id asc")
		}).
		Where("assessment_id = ? AND student_id = ?", assessmentID, studentID).
		Order("submitted_at asc").
		Find(&subs).Error
	return subs, err
}

// LockClassroomAnswer 查找所属测评在该课堂下的答案
func (r *SubmissionRepository) LockClassroomAnswer(classroomID, answerID uint) (*model.AssessmentAnswer, error) {
	var a model.AssessmentAnswer
	err := r.DB.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Joins("JOIN assessments ON assessments.id = assessment_answers.assessment_id AND assessments.deleted_at IS NULL").
		Where("assessment_answers.id = ? AND assessments.classroom_id = ?", answerID, classroomID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SubmissionRepository) FindQuestion(questionID uint) (*model.AssessmentQuestion, error) {
	var q model.AssessmentQuestion
	err := r.DB.First(&q, questionID).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *SubmissionRepository) SaveGrade(answerID uint, marks int, graderID uint, at time.Time) error {
	return r.DB.Model(&model.AssessmentAnswer{}).
		Where("id = ?", answerID).
		Updates(map[string]interface{}{
			"awarded_marks": marks,
			"graded_by":     graderID,
			"graded_at":     at,
		}).Error
}

// RefreshTotal 根据答案重新计算提交总分
func (r *SubmissionRepository) RefreshTotal(submissionID string) (int, error) {
	var total int
	err := r.DB.Model(&model.AssessmentAnswer{}).
		Select("COALESCE(SUM(awarded_marks), 0)").
		Where("submission_id = ?", submissionID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	err = r.DB.Model(&model.SectionSubmission{}).
		Where("id = ?", submissionID).
		Update("total_awarded", total).Error
	return total, err
}
