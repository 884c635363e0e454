package repository

import (
	"fmt"
	"time"

	"gameinsight/internal/http-api/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	UpdateLastLogin(userID string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateLastLogin(userID string) error {
	now := time.Now()
	if err := r.db.Model(&models.User{}).Where("id = ?", userID).Update("last_login", &now).Error; err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
