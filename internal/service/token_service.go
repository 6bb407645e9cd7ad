package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/fingerprint-server/internal/logger"
	"github.com/dtroode/fingerprint-server/internal/model"
)

// TokenService issues operator tokens and resolves them back to operators.
type TokenService struct {
	manager model.TokenManager
	ttl     time.Duration
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, ttl time.Duration, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, ttl: ttl, logger: logger}
}

// Issue signs a token for operator using the configured lifetime.
func (s *TokenService) Issue(_ context.Context, operator string) (string, error) {
	if operator == "" {
		return "", errors.New("operator must not be empty")
	}

	token, err := s.manager.GenerateOperatorToken(operator, s.ttl)
	if err != nil {
		return "", fmt.Errorf("issue operator token: %w", err)
	}

	s.logger.Info("Token service: issued operator token", "operator", operator, "ttl", s.ttl)
	return token, nil
}

// GetOperator validates token and returns the operator it was issued to.
func (s *TokenService) GetOperator(_ context.Context, token string) (string, error) {
	return s.manager.ParseOperatorToken(token)
}
