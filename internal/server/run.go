package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dtroode/fingerprint-server/internal/logger"
	"github.com/dtroode/fingerprint-server/internal/model"
)

// Run starts every server and blocks until ctx is done or one of them fails
// to serve. The beforeStop hooks run first, then all servers are stopped. Hooks
// and servers share one shutdownTimeout budget.
func Run(
	ctx context.Context,
	servers []model.Server,
	securityLayer model.SecurityLayer,
	shutdownTimeout time.Duration,
	logger *logger.Logger,
	beforeStop ...func(ctx context.Context),
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		startErr error
	)

	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			logger.Info("Starting server", "transport", s.Name(), "address", s.Address())
			if err := s.Start(securityLayer); err != nil {
				logger.Error("Server stopped with error", "transport", s.Name(), "error", err)
				mu.Lock()
				startErr = errors.Join(startErr, err)
				mu.Unlock()
				cancel()
			}
		}(s)
	}

	<-ctx.Done()
	logger.Info("Shutting down servers")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, hook := range beforeStop {
		hook(shutdownCtx)
	}

	var stopErr error
	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("Error during server shutdown", "transport", s.Name(), "address", s.Address(), "error", err)
			stopErr = errors.Join(stopErr, err)
		}
	}

	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	return errors.Join(startErr, stopErr)
}
