package model

import "context"

// ContextManager carries the authenticated operator through request contexts.
type ContextManager interface {
	SetOperatorToContext(ctx context.Context, operator string) context.Context
	GetOperatorFromContext(ctx context.Context) (string, bool)
}
