package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenManager issues and validates self-contained bearer tokens. The
// signing key, algorithm and TTL are loaded once from config and never
// mutated, so a single instance serves all requests.
type TokenManager struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	ttl    time.Duration
}

func NewTokenManager(secret, algorithm, issuer string, ttl time.Duration) (*TokenManager, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("jwt algorithm %q is not symmetric", algorithm)
	}
	return &TokenManager{secret: []byte(secret), method: method, issuer: issuer, ttl: ttl}, nil
}

// Issue signs a claim set {sub, exp, iat, iss, jti} for the given subject.
// Expiry is UTC epoch seconds at now + configured TTL.
func (m *TokenManager) Issue(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("token subject is required")
	}
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
}

// Parse verifies encoding, signing method, signature and expiry, then
// returns the claims. A token without a subject is rejected here rather
// than left for callers to notice downstream.
func (m *TokenManager) Parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != m.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TTL exposes the configured access-token lifetime for callers that
// report expiry alongside issued tokens.
func (m *TokenManager) TTL() time.Duration { return m.ttl }
