package repository

import (
	"classroom_portal/internal/model"
	"context"

	"gorm.io/gorm"
)

type TimetableRepository struct {
	DB *gorm.DB
}

func NewTimetableRepository(db *gorm.DB) *TimetableRepository {
	return &TimetableRepository{DB: db}
}

func (r *TimetableRepository) List(ctx context.Context) ([]model.TimetableEntry, error) {
	var entries []model.TimetableEntry
	err := r.DB.WithContext(ctx).
		Order("classroom_id asc, id asc").
		Find(&entries).Error
	return entries, err
}

// Replace 清空全部课表、写入新条目并记录通知，
// 要么全部成功要么全部回滚
func (r *TimetableRepository) Replace(ctx context.Context, entries []model.TimetableEntry, notice *model.Notification) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&model.TimetableEntry{}).Error; err != nil {
			return err
		}
		if len(entries) > 0 {
			if err := tx.CreateInBatches(&entries, 100).Error; err != nil {
				return err
			}
		}
		return tx.Create(notice).Error
	})
}

func (r *TimetableRepository) ListNotifications(ctx context.Context, limit int) ([]model.Notification, error) {
	var ns []model.Notification
	err := r.DB.WithContext(ctx).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&ns).Error
	return ns, err
}
