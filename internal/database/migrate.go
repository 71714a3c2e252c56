package database

import (
	"github.com/prodtrack/auth-service/internal/domain"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Role{},
		&domain.Permission{},
		&domain.UserRole{},
		&domain.RolePermission{},
		&domain.OAuthAccount{},
		&domain.RefreshToken{},
		&domain.LoginAttempt{},
	)
}
