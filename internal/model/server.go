package model

import (
	"context"
	"net"
)

// SecurityLayer opens the listener a transport serves on (plain TCP or TLS).
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a transport (gRPC or HTTP) exposing the fingerprint operations.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
	Name() string
}
