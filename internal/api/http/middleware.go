package http

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/fingerprint-server/internal/model"
)

const operatorLocal = "operator"

// TokenService resolves the operator behind a bearer token.
type TokenService interface {
	GetOperator(ctx context.Context, token string) (string, error)
}

// authenticate rejects requests without a valid bearer token and stores the
// operator in the request context.
func (r *Router) authenticate(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing authorization token")
	}

	operator, err := r.tokenService.GetOperator(c.UserContext(), token)
	if err != nil || operator == "" {
		r.logger.Debug("HTTP authenticate: request rejected", "path", c.Path(), "error", err)
		return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization token")
	}

	c.Locals(operatorLocal, operator)
	c.SetUserContext(r.contextManager.SetOperatorToContext(c.UserContext(), operator))
	return c.Next()
}

// withDeadline gives the request a context that expires after the request
// timeout and is canceled once the handler returns, so a device operation
// never outlives the request that started it.
func (r *Router) withDeadline(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), r.requestTimeout)
	defer cancel()

	c.SetUserContext(ctx)
	return c.Next()
}

// logRequest logs method, path, duration and status of every request.
func (r *Router) logRequest(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else {
			status = statusForKind(model.Kind(err))
		}
	}

	r.logger.Info("HTTP request completed",
		"method", c.Method(),
		"path", c.Path(),
		"duration_ms", time.Since(start).Milliseconds(),
		"status", status)

	return err
}
