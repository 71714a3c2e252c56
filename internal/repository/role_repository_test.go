package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/prodtrack/auth-service/internal/domain"

	"gorm.io/gorm"
)

func TestRoleRepositoryFindByName(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewRoleRepository(db)

	if err := repo.Create(&domain.Role{Name: "admin", IsActive: true}); err != nil {
		t.Fatalf("create role: %v", err)
	}
	role, err := repo.FindByName("admin")
	if err != nil {
		t.Fatalf("find by name: %v", err)
	}
	if role.Name != "admin" {
		t.Fatalf("unexpected role: %+v", role)
	}
	if _, err := repo.FindByName("nope"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found, got %v", err)
	}
}

func TestLoginAttemptRepositoryCountRecentFailures(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewLoginAttemptRepository(db)

	reason := "invalid_password"
	for i := 0; i < 3; i++ {
		if err := repo.Create(&domain.LoginAttempt{Email: "a@x.com", IPAddress: "127.0.0.1", FailureReason: &reason}); err != nil {
			t.Fatalf("create attempt: %v", err)
		}
	}
	if err := repo.Create(&domain.LoginAttempt{Email: "a@x.com", IPAddress: "127.0.0.1", Success: true}); err != nil {
		t.Fatalf("create success attempt: %v", err)
	}

	count, err := repo.CountRecentFailures("a@x.com", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 recent failures, got %d", count)
	}

	count, err = repo.CountRecentFailures("other@x.com", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("count other: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 failures for other email, got %d", count)
	}
}
