package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"bookstore/internal/platform/crypto"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

// Service authenticates the single catalog administrator configured through
// the environment.
type Service struct {
	secret       string
	username     string
	passwordHash string
	tokenTTL     time.Duration
}

func NewService(secret, username, passwordHash string, tokenTTL time.Duration) *Service {
	return &Service{
		secret:       secret,
		username:     username,
		passwordHash: passwordHash,
		tokenTTL:     tokenTTL,
	}
}

// Login checks the credentials and returns a signed admin token with its
// lifetime in seconds.
func (s *Service) Login(ctx context.Context, username, password string) (string, int, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	// Always verify so a wrong username costs as much as a wrong password.
	passOK := crypto.VerifyPassword(s.passwordHash, password)
	if !userOK || !passOK {
		return "", 0, ErrUnauthorized
	}

	token, err := crypto.IssueToken(s.secret, s.username, crypto.RoleAdmin, s.tokenTTL)
	if err != nil {
		return "", 0, err
	}
	return token, int(s.tokenTTL.Seconds()), nil
}
