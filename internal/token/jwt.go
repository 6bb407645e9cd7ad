package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/fingerprint-server/internal/model"
)

// Claims represents operator JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	Operator  string `json:"operator"`
	TokenType string `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) model.TokenManager {
	return &JWT{secretKey: secretKey}
}

const (
	issuer       = "fingerprintd"
	typeOperator = "operator"
)

// GenerateOperatorToken signs a token naming operator, valid for ttl.
func (j *JWT) GenerateOperatorToken(operator string, ttl time.Duration) (string, error) {
	if operator == "" {
		return "", errors.New("operator must not be empty")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   operator,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Operator:  operator,
		TokenType: typeOperator,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign operator token: %w", err)
	}

	return tokenString, nil
}

// ParseOperatorToken validates an operator token and returns the operator name.
func (j *JWT) ParseOperatorToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("failed to parse operator token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("operator token is invalid")
	}
	if claims.TokenType != typeOperator {
		return "", fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	if claims.Operator == "" {
		return "", fmt.Errorf("operator token has no operator")
	}
	return claims.Operator, nil
}
