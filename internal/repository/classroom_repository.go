package repository

import (
	"classroom_portal/internal/model"
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClassroomRepository struct {
	DB *gorm.DB
}

func NewClassroomRepository(db *gorm.DB) *ClassroomRepository {
	return &ClassroomRepository{DB: db}
}

// 编号统一存为大写，各数据库下查询都不区分大小写
func (r *ClassroomRepository) FindByCode(ctx context.Context, code string) (*model.Classroom, error) {
	var classroom model.Classroom
	err := r.DB.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&classroom).Error
	return &classroom, err
}

func (r *ClassroomRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Unscoped().Model(&model.Classroom{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error
	return count > 0, err
}

func (r *ClassroomRepository) Create(ctx context.Context, classroom *model.Classroom) error {
	classroom.Code = strings.ToUpper(classroom.Code)
	return r.DB.WithContext(ctx).Create(classroom).Error
}

// CountByIDs 统计 ids 中实际存在的课堂数
func (r *ClassroomRepository) CountByIDs(ctx context.Context, ids []uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Classroom{}).
		Where("id IN ?", ids).
		Count(&count).Error
	return count, err
}

func (r *ClassroomRepository) UpdateLogo(ctx context.Context, classroomID uint, key string) error {
	return r.DB.WithContext(ctx).Model(&model.Classroom{}).
		Where("id = ?", classroomID).
		Update("logo_key", key).Error
}

func (r *ClassroomRepository) IsEnrolled(ctx context.Context, classroomID, studentID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("classroom_id = ? AND student_id = ?", classroomID, studentID).
		Count(&count).Error
	return count > 0, err
}

// Enroll 只插入尚不存在的选课记录，返回新增数量
func (r *ClassroomRepository) Enroll(ctx context.Context, classroomID uint, studentIDs []uint) (int64, error) {
	if len(studentIDs) == 0 {
		return 0, nil
	}
	rows := make([]model.Enrollment, 0, len(studentIDs))
	for _, id := range studentIDs {
		rows = append(rows, model.Enrollment{ClassroomID: classroomID, StudentID: id})
	}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	return res.RowsAffected, res.Error
}
