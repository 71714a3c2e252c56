package service

import (
	"testing"

	"github.com/prodtrack/auth-service/internal/security"
)

func TestUserServiceCreateUserHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	hasher := security.NewPasswordHasher(10)
	svc := NewUserService(repo, hasher)

	fullName := "Ada Lovelace"
	user, err := svc.CreateUser(CreateUserParams{Email: "ada@x.com", Password: "secret123", FullName: &fullName})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.HashedPassword == nil || *user.HashedPassword == "secret123" {
		t.Fatal("password must be hashed before persistence")
	}
	if !hasher.Verify(*user.HashedPassword, "secret123") {
		t.Fatal("stored hash must verify")
	}
	if user.FullName == nil || *user.FullName != fullName {
		t.Fatalf("full name not carried through: %+v", user.FullName)
	}
}

func TestUserServiceLookupsReturnNilWhenAbsent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, security.NewPasswordHasher(10))

	u, err := svc.GetUserByEmail("ghost@x.com")
	if err != nil || u != nil {
		t.Fatalf("expected nil, nil for unknown email, got %v, %v", u, err)
	}
	u, err = svc.GetUserByID(404)
	if err != nil || u != nil {
		t.Fatalf("expected nil, nil for unknown id, got %v, %v", u, err)
	}
}
