package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/prodtrack/auth-service/internal/domain"
	"github.com/prodtrack/auth-service/internal/repository"
	"github.com/prodtrack/auth-service/internal/security"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrUsernameAlreadyExists = errors.New("username already taken")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrUnauthorized          = errors.New("could not validate credentials")
)

// repeatedFailureThreshold triggers an audit warning, not a lockout.
const (
	repeatedFailureThreshold = 5
	repeatedFailureWindow    = 15 * time.Minute
)

type RegisterParams struct {
	Email    string
	Password string
	Username *string
	FullName *string
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Principal is the minimal identity resolved from a validated token.
type Principal struct {
	Email string `json:"email"`
}

type AuthService struct {
	userSvc     UserServiceInterface
	hasher      *security.PasswordHasher
	tokens      *security.TokenManager
	attemptRepo repository.LoginAttemptRepository
}

func NewAuthService(
	userSvc UserServiceInterface,
	hasher *security.PasswordHasher,
	tokens *security.TokenManager,
	attemptRepo repository.LoginAttemptRepository,
) *AuthService {
	return &AuthService{userSvc: userSvc, hasher: hasher, tokens: tokens, attemptRepo: attemptRepo}
}

// Register creates a user with the default role. The pre-check and the
// insert are separate store round trips; a registration racing past the
// check is caught by the unique index and mapped to ErrEmailAlreadyExists.
func (s *AuthService) Register(params RegisterParams) (*domain.User, error) {
	email := strings.TrimSpace(params.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if params.Password == "" {
		return nil, security.ErrPasswordEmpty
	}

	existing, err := s.userSvc.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	user, err := s.userSvc.CreateUser(CreateUserParams{
		Email:    email,
		Password: params.Password,
		Username: params.Username,
		FullName: params.FullName,
	})
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, ErrEmailAlreadyExists
	}
	if errors.Is(err, repository.ErrDuplicateUsername) {
		return nil, ErrUsernameAlreadyExists
	}
	return user, err
}

// Authenticate returns the user for matching credentials. Unknown email,
// missing local credential and wrong password all collapse into
// ErrInvalidCredentials so responses never reveal which factor failed.
func (s *AuthService) Authenticate(email, password, ua, ip string) (*domain.User, error) {
	email = strings.TrimSpace(email)

	user, err := s.userSvc.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.recordAttempt(email, ua, ip, false, "unknown_email")
		return nil, ErrInvalidCredentials
	}
	if !user.CanAuthenticate() {
		s.recordAttempt(email, ua, ip, false, "no_local_credential")
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(*user.HashedPassword, password) {
		s.recordAttempt(email, ua, ip, false, "invalid_password")
		return nil, ErrInvalidCredentials
	}

	s.recordAttempt(email, ua, ip, true, "")
	updated, err := s.userSvc.RecordLogin(user)
	if err != nil {
		// Login succeeded; a failed last_login stamp is not worth failing it.
		slog.Warn("failed to record last login", "email", email, "error", err)
		return user, nil
	}
	return updated, nil
}

// IssueToken signs a bearer token bound to the user's email.
func (s *AuthService) IssueToken(user *domain.User) (*Token, error) {
	access, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: access, TokenType: "bearer"}, nil
}

// CurrentUser resolves a bearer token into a principal. Any validation
// failure, including a missing subject, yields ErrUnauthorized.
func (s *AuthService) CurrentUser(token string) (*Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return &Principal{Email: claims.Subject}, nil
}

// recordAttempt is best-effort auditing; it never fails the caller.
func (s *AuthService) recordAttempt(email, ua, ip string, success bool, reason string) {
	if s.attemptRepo == nil {
		return
	}
	attempt := &domain.LoginAttempt{Email: email, IPAddress: ip, Success: success}
	if ua != "" {
		attempt.UserAgent = &ua
	}
	if reason != "" {
		attempt.FailureReason = &reason
	}
	if err := s.attemptRepo.Create(attempt); err != nil {
		slog.Warn("failed to record login attempt", "email", email, "error", err)
		return
	}
	if success {
		return
	}
	failures, err := s.attemptRepo.CountRecentFailures(email, time.Now().Add(-repeatedFailureWindow))
	if err != nil {
		slog.Warn("failed to count login failures", "email", email, "error", err)
		return
	}
	if failures >= repeatedFailureThreshold {
		slog.Warn("repeated login failures",
			"event", "auth.login.repeated_failures",
			"email", email,
			"ip", ip,
			"failures", failures,
		)
	}
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return nil
}
