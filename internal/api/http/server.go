package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/fingerprint-server/internal/model"
)

var _ model.Server = (*Server)(nil)

// Server wraps a fiber application with address and lifecycle methods.
type Server struct {
	app  *fiber.App
	addr string
}

func NewServer(app *fiber.App, addr string) *Server {
	return &Server{app: app, addr: addr}
}

// Start serves on a listener opened by securityLayer.
func (s *Server) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.app.Listener(listener)
}

// Stop waits for in-flight requests until ctx expires. Open event streams end
// once the hub is closed.
func (s *Server) Stop(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) Address() string {
	return s.addr
}

func (s *Server) Name() string {
	return "HTTP"
}
