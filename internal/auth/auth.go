package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Session identifies the authenticated user behind a request. Core
// operations take it as an explicit parameter instead of consulting
// ambient authentication state.
type Session struct {
	UserID string
	Email  string
}

func (s Session) Anonymous() bool {
	return s.UserID == ""
}

type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates bearer tokens issued by the external auth provider
// sharing the signing secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Verify(token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, ErrInvalidToken
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Session{}, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return Session{}, ErrInvalidToken
	}

	userID := strings.TrimSpace(c.Subject)
	if userID == "" {
		return Session{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return Session{UserID: userID, Email: c.Email}, nil
}

// Issue signs a session token. Token issuance normally lives with the auth
// provider; this exists for tests and local tooling.
func (v *Verifier) Issue(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	return token.SignedString(v.secret)
}
