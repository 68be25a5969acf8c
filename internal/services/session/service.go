package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mhkgpt/mhk-gpt/internal/config"
)

// ErrInvalidToken is returned for malformed, expired or forged session tokens
var ErrInvalidToken = errors.New("invalid session token")

type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// Service issues and validates signed session tokens. A token names the
// conversation whose history the chat service replays.
type Service struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewService(cfg config.SessionConfig) *Service {
	return &Service{
		secret:   []byte(cfg.JWTSecret),
		lifetime: cfg.Lifetime,
		now:      time.Now,
	}
}

// CreateSession starts a new session and returns its id and signed token
func (s *Service) CreateSession() (string, string, error) {
	sessionID := uuid.New().String()
	token, err := s.Sign(sessionID)
	if err != nil {
		return "", "", err
	}
	return sessionID, token, nil
}

// Sign issues a fresh token for an existing session id
func (s *Service) Sign(sessionID string) (string, error) {
	now := s.now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		SessionID: sessionID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ValidateSession checks the token signature and expiry and returns the session id
func (s *Service) ValidateSession(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidToken
	}
	return claims.SessionID, nil
}
