package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prodtrack/auth-service/internal/domain"
	"github.com/prodtrack/auth-service/internal/service"
)

type stubAuthService struct {
	currentUserFn func(token string) (*service.Principal, error)
}

func (s *stubAuthService) Register(service.RegisterParams) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Authenticate(email, password, ua, ip string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) IssueToken(*domain.User) (*service.Token, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) CurrentUser(token string) (*service.Principal, error) {
	if s.currentUserFn != nil {
		return s.currentUserFn(token)
	}
	return nil, errors.New("not implemented")
}

func TestAuthMiddlewareResolvesPrincipal(t *testing.T) {
	svc := &stubAuthService{
		currentUserFn: func(token string) (*service.Principal, error) {
			if token != "good-token" {
				return nil, service.ErrUnauthorized
			}
			return &service.Principal{Email: "user@example.com"}, nil
		},
	}

	var got *service.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	AuthMiddleware(svc)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got == nil || got.Email != "user@example.com" {
		t.Errorf("principal = %+v", got)
	}
}

func TestAuthMiddlewareRejects(t *testing.T) {
	svc := &stubAuthService{
		currentUserFn: func(token string) (*service.Principal, error) {
			return nil, service.ErrUnauthorized
		},
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without valid token")
	})
	mw := AuthMiddleware(svc)(next)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwdw=="},
		{"invalid token", "Bearer garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if rec.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Error("missing WWW-Authenticate challenge")
			}
		})
	}
}

func TestBearerTokenCaseInsensitiveScheme(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer abc123")
	if got := bearerToken(req); got != "abc123" {
		t.Errorf("bearerToken = %q", got)
	}
}

func TestPrincipalFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := PrincipalFromContext(req.Context()); ok {
		t.Error("expected no principal on bare context")
	}
}
