package repository

import (
	"classroom_portal/internal/model"
	"context"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	return &user, err
}

// FindByIDAndRole 用户不存在或角色不符时返回 gorm.ErrRecordNotFound
func (r *UserRepository) FindByIDAndRole(ctx context.Context, id uint, role model.UserRole) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("id = ? AND role = ?", id, role).First(&user).Error
	return &user, err
}

// CountByIDsAndRole 统计 ids 中具有指定角色的用户数
func (r *UserRepository) CountByIDsAndRole(ctx context.Context, ids []uint, role model.UserRole) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id IN ? AND role = ?", ids, role).
		Count(&count).Error
	return count, err
}
