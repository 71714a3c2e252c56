package repository

import (
	"time"

	"github.com/prodtrack/auth-service/internal/domain"

	"gorm.io/gorm"
)

type LoginAttemptRepository interface {
	Create(attempt *domain.LoginAttempt) error
	CountRecentFailures(email string, since time.Time) (int64, error)
}

type GormLoginAttemptRepository struct{ db *gorm.DB }

func NewLoginAttemptRepository(db *gorm.DB) LoginAttemptRepository {
	return &GormLoginAttemptRepository{db: db}
}

func (r *GormLoginAttemptRepository) Create(attempt *domain.LoginAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *GormLoginAttemptRepository) CountRecentFailures(email string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&domain.LoginAttempt{}).
		Where("email = ? AND success = ? AND attempted_at >= ?", email, false, since).
		Count(&count).Error
	return count, err
}
