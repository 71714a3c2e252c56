package repository

import (
	"fmt"
	"testing"

	"github.com/prodtrack/auth-service/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newRepositoryDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Role{},
		&domain.UserRole{},
		&domain.LoginAttempt{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedDefaultRole(t *testing.T, db *gorm.DB) *domain.Role {
	t.Helper()
	role := &domain.Role{Name: DefaultRoleName, IsActive: true}
	if err := db.Create(role).Error; err != nil {
		t.Fatalf("seed default role: %v", err)
	}
	return role
}
