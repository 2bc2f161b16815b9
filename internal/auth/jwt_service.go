package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "blogapi/internal/errors"
)

// JWTService issues and verifies signed, self-contained bearer tokens
// carrying the username as the subject claim.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
	}
}

// IssueToken produces an HS256-signed token with {sub: subject, exp: now+ttl}.
// It fails only on a signing problem, which is a misconfiguration rather than
// a per-request condition.
func (s *JWTService) IssueToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken checks signature and expiry and returns the subject claim.
// Routine invalid input is reported as a typed error, never a panic:
// ErrTokenExpired when the expiry has passed, ErrInvalidCredentials for a bad
// signature, a malformed token, or a missing subject.
func (s *JWTService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.ErrTokenExpired
		}
		return "", apperrors.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", apperrors.ErrInvalidCredentials
	}

	return claims.Subject, nil
}
