package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prodtrack/auth-service/internal/domain"
	"github.com/prodtrack/auth-service/internal/repository"
	"github.com/prodtrack/auth-service/internal/security"
	"github.com/prodtrack/auth-service/internal/service"
)

type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type stubAuthService struct {
	registerFn     func(params service.RegisterParams) (*domain.User, error)
	authenticateFn func(email, password, ua, ip string) (*domain.User, error)
	issueTokenFn   func(user *domain.User) (*service.Token, error)
	currentUserFn  func(token string) (*service.Principal, error)

	lastUA string
	lastIP string
}

func (s *stubAuthService) Register(params service.RegisterParams) (*domain.User, error) {
	if s.registerFn != nil {
		return s.registerFn(params)
	}
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Authenticate(email, password, ua, ip string) (*domain.User, error) {
	s.lastUA = ua
	s.lastIP = ip
	if s.authenticateFn != nil {
		return s.authenticateFn(email, password, ua, ip)
	}
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) IssueToken(user *domain.User) (*service.Token, error) {
	if s.issueTokenFn != nil {
		return s.issueTokenFn(user)
	}
	return &service.Token{AccessToken: "tok", TokenType: "bearer"}, nil
}

func (s *stubAuthService) CurrentUser(token string) (*service.Principal, error) {
	if s.currentUserFn != nil {
		return s.currentUserFn(token)
	}
	return nil, errors.New("not implemented")
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if env.Error == nil {
		t.Fatalf("missing error body: %s", rec.Body.String())
	}
	return env
}

func TestRegisterCreated(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(params service.RegisterParams) (*domain.User, error) {
			if params.Email != "new@example.com" {
				t.Errorf("email = %q", params.Email)
			}
			return &domain.User{ID: 7, Email: params.Email, IsActive: true}, nil
		},
	}
	h := NewAuthHandler(svc)

	body := bytes.NewBufferString(`{"email":"new@example.com","password":"hunter2go"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var user domain.User
	if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Email != "new@example.com" || user.ID != 7 {
		t.Errorf("unexpected user: %+v", user)
	}
	if strings.Contains(rec.Body.String(), "hashed_password") {
		t.Error("response leaked password hash field")
	}
}

func TestRegisterErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"duplicate email", service.ErrEmailAlreadyExists, http.StatusConflict, "EMAIL_EXISTS"},
		{"duplicate username", service.ErrUsernameAlreadyExists, http.StatusConflict, "USERNAME_EXISTS"},
		{"invalid email", service.ErrInvalidInput, http.StatusBadRequest, "VALIDATION"},
		{"empty password", security.ErrPasswordEmpty, http.StatusBadRequest, "VALIDATION"},
		{"overlong password", security.ErrPasswordTooLong, http.StatusBadRequest, "VALIDATION"},
		{"missing seed role", repository.ErrDefaultRoleMissing, http.StatusInternalServerError, "INTERNAL"},
		{"store failure", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubAuthService{
				registerFn: func(service.RegisterParams) (*domain.User, error) { return nil, tt.err },
			}
			h := NewAuthHandler(svc)

			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(`{"email":"a@b.c","password":"pw"}`))
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			env := decodeError(t, rec)
			if env.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Error.Code, tt.wantCode)
			}
			if tt.wantStatus == http.StatusInternalServerError && strings.Contains(env.Error.Message, "connection refused") {
				t.Error("internal error detail leaked to client")
			}
		})
	}
}

func TestRegisterMalformedBody(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(`{not json`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env := decodeError(t, rec); env.Error.Code != "BAD_REQUEST" {
		t.Errorf("code = %q", env.Error.Code)
	}
}

func TestTokenWithJSONCredentials(t *testing.T) {
	svc := &stubAuthService{
		authenticateFn: func(email, password, ua, ip string) (*domain.User, error) {
			if email != "user@example.com" || password != "correct horse" {
				return nil, service.ErrInvalidCredentials
			}
			return &domain.User{ID: 3, Email: email}, nil
		},
		issueTokenFn: func(user *domain.User) (*service.Token, error) {
			return &service.Token{AccessToken: "signed-token", TokenType: "bearer"}, nil
		},
	}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString(`{"email":"user@example.com","password":"correct horse"}`))
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	h.Token(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var token service.Token
	if err := json.NewDecoder(rec.Body).Decode(&token); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if token.AccessToken != "signed-token" || token.TokenType != "bearer" {
		t.Errorf("unexpected token: %+v", token)
	}
	if svc.lastUA != "test-agent" {
		t.Errorf("user agent = %q", svc.lastUA)
	}
	if svc.lastIP != "203.0.113.9" {
		t.Errorf("client ip = %q, want first forwarded hop", svc.lastIP)
	}
}

func TestTokenWithPasswordForm(t *testing.T) {
	svc := &stubAuthService{
		authenticateFn: func(email, password, ua, ip string) (*domain.User, error) {
			if email != "form@example.com" {
				t.Errorf("email = %q, want value of username field", email)
			}
			return &domain.User{ID: 4, Email: email}, nil
		},
	}
	h := NewAuthHandler(svc)

	form := url.Values{"username": {"form@example.com"}, "password": {"pw123456"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Token(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestTokenInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{
		authenticateFn: func(email, password, ua, ip string) (*domain.User, error) {
			return nil, service.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString(`{"email":"a@b.c","password":"wrong"}`))
	rec := httptest.NewRecorder()
	h.Token(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	env := decodeError(t, rec)
	if env.Error.Code != "INVALID_CREDENTIALS" {
		t.Errorf("code = %q", env.Error.Code)
	}
	if env.Error.Message != "invalid email or password" {
		t.Errorf("message = %q, must not distinguish failure cause", env.Error.Message)
	}
}

func TestTokenStoreError(t *testing.T) {
	svc := &stubAuthService{
		authenticateFn: func(email, password, ua, ip string) (*domain.User, error) {
			return nil, errors.New("db down")
		},
	}
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString(`{"email":"a@b.c","password":"pw"}`))
	rec := httptest.NewRecorder()
	h.Token(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestMeWithoutPrincipal(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
