package model

import "time"

// TokenManager issues and validates operator access tokens.
type TokenManager interface {
	GenerateOperatorToken(operator string, ttl time.Duration) (string, error)
	ParseOperatorToken(token string) (string, error)
}
