package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prodtrack/auth-service/internal/http/middleware"
	"github.com/prodtrack/auth-service/internal/http/response"
	"github.com/prodtrack/auth-service/internal/observability"
	"github.com/prodtrack/auth-service/internal/repository"
	"github.com/prodtrack/auth-service/internal/security"
	"github.com/prodtrack/auth-service/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthServiceInterface
}

func NewAuthHandler(authSvc service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type registerRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Username *string `json:"username,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "register", status, time.Since(start))
	}()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = "failure"
		observability.RecordAuthRegister(r.Context(), "failure")
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed request body", nil)
		return
	}

	user, err := h.authSvc.Register(service.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		FullName: req.FullName,
	})
	if err != nil {
		status = "failure"
		observability.RecordAuthRegister(r.Context(), "failure")
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			observability.Audit(r, "auth.register.failed", "reason", "duplicate_email")
			response.Error(w, r, http.StatusConflict, "EMAIL_EXISTS", "email already registered", nil)
		case errors.Is(err, service.ErrUsernameAlreadyExists):
			observability.Audit(r, "auth.register.failed", "reason", "duplicate_username")
			response.Error(w, r, http.StatusConflict, "USERNAME_EXISTS", "username already taken", nil)
		case errors.Is(err, service.ErrInvalidInput),
			errors.Is(err, security.ErrPasswordEmpty),
			errors.Is(err, security.ErrPasswordTooLong):
			observability.Audit(r, "auth.register.failed", "reason", "validation")
			response.Error(w, r, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		case errors.Is(err, repository.ErrDefaultRoleMissing):
			// Deployment fault, not a user error. Full detail stays server-side.
			observability.Audit(r, "auth.register.failed", "reason", "missing_seed_role", "error", err.Error())
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		default:
			observability.Audit(r, "auth.register.failed", "reason", "store_error", "error", err.Error())
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		}
		return
	}

	observability.Audit(r, "auth.register.success", "user_id", user.ID)
	observability.RecordAuthRegister(r.Context(), "success")
	response.JSON(w, r, http.StatusCreated, user)
}

// Token authenticates credentials and returns a bearer token. It accepts
// JSON {email, password} or an OAuth2-style password form with username
// and password fields.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "token", status, time.Since(start))
	}()

	creds, err := decodeCredentials(r)
	if err != nil {
		status = "failure"
		observability.RecordAuthLogin(r.Context(), "failure")
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed credentials", nil)
		return
	}

	user, err := h.authSvc.Authenticate(creds.Email, creds.Password, r.UserAgent(), clientIP(r))
	if err != nil {
		status = "failure"
		observability.RecordAuthLogin(r.Context(), "failure")
		if errors.Is(err, service.ErrInvalidCredentials) {
			observability.Audit(r, "auth.login.failed", "reason", "invalid_credentials")
			response.Error(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", nil)
			return
		}
		observability.Audit(r, "auth.login.failed", "reason", "store_error", "error", err.Error())
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		return
	}

	token, err := h.authSvc.IssueToken(user)
	if err != nil {
		status = "failure"
		observability.RecordAuthLogin(r.Context(), "failure")
		observability.Audit(r, "auth.login.failed", "reason", "token_issue", "error", err.Error())
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
		return
	}

	observability.Audit(r, "auth.login.success", "user_id", user.ID)
	observability.RecordAuthLogin(r.Context(), "success")
	response.JSON(w, r, http.StatusOK, token)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, principal)
}

func decodeCredentials(r *http.Request) (*credentialsRequest, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		email := r.PostFormValue("username")
		if email == "" {
			email = r.PostFormValue("email")
		}
		return &credentialsRequest{Email: email, Password: r.PostFormValue("password")}, nil
	}
	var creds credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func clientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	return r.RemoteAddr
}
