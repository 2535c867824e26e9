package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"task-manager/internal/repository"
	"task-manager/pkg/crypto"
	"task-manager/pkg/logger"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// TokenService issues and validates HS256 bearer tokens whose subject is the
// user's email.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

func (s *TokenService) Issue(email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks signature and expiry and returns the email claim.
func (s *TokenService) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", &Error{Kind: ErrUnauthorized, Message: ErrInvalidToken.Message, Err: err}
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

type AuthService struct {
	store  repository.Store
	tokens *TokenService
}

func NewAuthService(store repository.Store, tokens *TokenService) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

// Login verifies the credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.Users().FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		logger.SecurityLogger.Warn("User not found", zap.String("email", email))
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := crypto.CheckPassword(user.Password, password); err != nil {
		logger.SecurityLogger.Warn("Invalid password", zap.String("email", email))
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", err
	}
	logger.AuditLogger.Info("Login success", zap.Int64("user_id", user.ID))
	return token, nil
}
