package service

import (
	"errors"
	"time"

	"github.com/prodtrack/auth-service/internal/domain"
	"github.com/prodtrack/auth-service/internal/repository"
	"github.com/prodtrack/auth-service/internal/security"

	"gorm.io/gorm"
)

type CreateUserParams struct {
	Email    string
	Password string
	Username *string
	FullName *string
}

type UserService struct {
	userRepo repository.UserRepository
	hasher   *security.PasswordHasher
}

func NewUserService(userRepo repository.UserRepository, hasher *security.PasswordHasher) *UserService {
	return &UserService{userRepo: userRepo, hasher: hasher}
}

// CreateUser hashes the plaintext password and persists the user with its
// default role. Callers pass the raw password, never a pre-hashed value.
func (s *UserService) CreateUser(params CreateUserParams) (*domain.User, error) {
	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Email:          params.Email,
		Username:       params.Username,
		FullName:       params.FullName,
		HashedPassword: &hash,
		IsActive:       true,
	}
	return s.userRepo.Create(user)
}

func (s *UserService) GetUserByEmail(email string) (*domain.User, error) {
	u, err := s.userRepo.GetByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return u, err
}

func (s *UserService) GetUserByID(id uint) (*domain.User, error) {
	u, err := s.userRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return u, err
}

// RecordLogin stamps last_login on a successful authentication.
func (s *UserService) RecordLogin(user *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	user.LastLogin = &now
	return s.userRepo.Update(user)
}
