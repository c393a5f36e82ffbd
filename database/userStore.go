package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursetrack/models"
	"coursetrack/services"

	"gorm.io/gorm"
)

// UserStore holds the accounts that own enrollments and attempts.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a user. A taken email yields gorm.ErrDuplicatedKey.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ? AND is_deleted = ?", email, false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %q: %w", email, services.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) TouchLogin(ctx context.Context, userID uint, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_login", at).Error
}

func (s *UserStore) ByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", userID, services.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List pages through live users, newest first.
func (s *UserStore) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	db := s.db.WithContext(ctx).Model(&models.User{}).Where("is_deleted = ?", false)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := db.Offset(offset).Limit(limit).Order("id desc").Find(&users).Error
	return users, total, err
}

func (s *UserStore) Update(ctx context.Context, userID uint, updates map[string]interface{}) (*models.User, error) {
	if _, err := s.ByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.ByID(ctx, userID)
}
