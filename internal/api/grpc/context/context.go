package context

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// operatorKey is the metadata key that carries the authenticated operator.
const operatorKey = "x-operator"

// Manager stores the operator resolved by the auth interceptor in the
// incoming metadata of a request.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetOperatorToContext replaces any operator value the client may have sent.
func (m *Manager) SetOperatorToContext(ctx context.Context, operator string) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.New(nil)
	} else {
		md = md.Copy()
	}
	md.Set(operatorKey, operator)

	return metadata.NewIncomingContext(ctx, md)
}

// GetOperatorFromContext returns the operator and whether one was set.
func (m *Manager) GetOperatorFromContext(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}

	operators := md.Get(operatorKey)
	if len(operators) == 0 || operators[0] == "" {
		return "", false
	}

	return operators[0], true
}
