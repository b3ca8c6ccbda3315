package repository

import (
	"classroom_portal/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) ListByClassroom(ctx context.Context, classroomID uint) ([]model.Assessment, error) {
	var as []model.Assessment
	err := r.DB.WithContext(ctx).
		Where("classroom_id = ?", classroomID).
		Order("created_at desc, id desc").
		Find(&as).Error
	return as, err
}

func (r *AssessmentRepository) FindByID(ctx context.Context, classroomID, assessmentID uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.WithContext(ctx).
		Where("id = ? AND classroom_id = ?", assessmentID, classroomID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindTree 加载课堂下的测评及其小节、题目、选项，
// 每一层都按 id 排序
func (r *AssessmentRepository) FindTree(ctx context.Context, classroomID, assessmentID uint) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Preload("Sections.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Preload("Sections.Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Where("id = ? AND classroom_id = ?", assessmentID, classroomID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create 插入测评以及嵌套的全部小节、题目和选项
func (r *AssessmentRepository) Create(ctx context.Context, a *model.Assessment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(a).Error
	})
}

// FindSection 仅当小节属于该测评、测评属于该课堂时返回小节
func (r *AssessmentRepository) FindSection(ctx context.Context, classroomID, assessmentID, sectionID uint) (*model.AssessmentSection, error) {
	var s model.AssessmentSection
	err := r.DB.WithContext(ctx).
		Joins("JOIN assessments ON assessments.id = assessment_sections.assessment_id AND assessments.deleted_at IS NULL").
		Where("assessment_sections.id = ? AND assessment_sections.assessment_id = ? AND assessments.classroom_id = ?",
			sectionID, assessmentID, classroomID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *AssessmentRepository) UpdateSectionWindow(ctx context.Context, sectionID uint, startAt, endAt time.Time) error {
	return r.DB.WithContext(ctx).Model(&model.AssessmentSection{}).
		Where("id = ?", sectionID).
		Updates(map[string]interface{}{
			"start_at": startAt,
			"end_at":   endAt,
		}).Error
}
