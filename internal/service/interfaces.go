package service

import "github.com/prodtrack/auth-service/internal/domain"

type AuthServiceInterface interface {
	Register(params RegisterParams) (*domain.User, error)
	Authenticate(email, password, ua, ip string) (*domain.User, error)
	IssueToken(user *domain.User) (*Token, error)
	CurrentUser(token string) (*Principal, error)
}

type UserServiceInterface interface {
	CreateUser(params CreateUserParams) (*domain.User, error)
	GetUserByEmail(email string) (*domain.User, error)
	GetUserByID(id uint) (*domain.User, error)
	RecordLogin(user *domain.User) (*domain.User, error)
}
