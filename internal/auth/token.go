package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campusmind/advising-backend/internal/domain"
)

// ErrInvalidToken is returned by Verify for every rejection: empty input,
// signature mismatch, malformed payload, wrong algorithm, or expiry. Callers
// treat all of these identically (reject the request), so the distinctions
// stay in logs only.
var ErrInvalidToken = errors.New("invalid token")

// sessionClaims is the payload embedded inside a session token. Identity
// fields are carried directly in the claims so verification can reconstruct
// the user without a directory lookup.
type sessionClaims struct {
	jwt.RegisteredClaims

	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	Name   string      `json:"name"`
}

// TokenService issues and verifies HMAC-signed session tokens. Issuance and
// verification are pure functions of their inputs plus the secret and the
// injected clock; the service holds no mutable state and is safe for
// concurrent use.
type TokenService struct {
	secret   []byte
	lifetime time.Duration

	// Now is the clock used for issued-at and expiry. Tests pin it;
	// production leaves it nil and gets time.Now.
	Now func() time.Time
}

// NewTokenService constructs a TokenService signing with secret and issuing
// tokens valid for lifetime.
func NewTokenService(secret string, lifetime time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), lifetime: lifetime}
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue creates a signed session token for the identity. The token embeds
// {user id, email, role, name}, issued-at = now, and expires-at = now plus
// the configured lifetime. Expiry is carried as the numeric exp claim; the
// same representation is checked at verification time.
func (s *TokenService) Issue(id domain.Identity) (string, error) {
	now := s.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
		UserID: id.ID,
		Email:  id.Email,
		Role:   id.Role,
		Name:   id.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and validity window of a session token and
// returns the embedded identity. It fails with ErrInvalidToken when the
// token is empty, the signature does not verify, the payload cannot be
// parsed, or the current time is past expiry. The directory is not
// consulted; the token is self-contained.
func (s *TokenService) Verify(tokenString string) (domain.Identity, error) {
	if tokenString == "" {
		return domain.Identity{}, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domain.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return domain.Identity{}, ErrInvalidToken
	}

	return domain.Identity{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
		Name:  claims.Name,
	}, nil
}

// Refresh verifies an existing token and, when valid, issues a fresh one for
// the same identity with a renewed validity window.
func (s *TokenService) Refresh(tokenString string) (string, error) {
	id, err := s.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return s.Issue(id)
}
