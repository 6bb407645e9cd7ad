package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gofrs/flock"
	"github.com/samber/mo"

	"github.com/dtroode/fingerprint-server/internal/logger"
	"github.com/dtroode/fingerprint-server/internal/model"
)

// SensorSession owns the single physical sensor. Every transition of the
// device (open, close, capture) runs while holding the session semaphore, so
// they never interleave. CurrentHandle reads the state without waiting.
type SensorSession struct {
	sensor    model.Sensor
	publisher model.Publisher
	logger    *logger.Logger

	// sem is held by Open, Close and Use. It is a channel so waiting honors ctx.
	sem chan struct{}

	mu          sync.RWMutex
	handle      model.DeviceHandle
	initialized bool
	faulted     bool

	lockPath string
	lock     *flock.Flock
}

// NewSensorSession creates a session over sensor. When lockPath is non-empty
// the session also holds an exclusive file lock while the device is open.
func NewSensorSession(sensor model.Sensor, lockPath string, publisher model.Publisher, logger *logger.Logger) *SensorSession {
	return &SensorSession{
		sensor:    sensor,
		publisher: publisher,
		logger:    logger,
		sem:       make(chan struct{}, 1),
		lockPath:  lockPath,
	}
}

func (s *SensorSession) enter(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SensorSession) leave() {
	<-s.sem
}

// Open returns the open device, opening sensor index 0 if needed. It is
// idempotent while the device is healthy. A handle marked faulted by a fatal
// capture is closed and reopened.
func (s *SensorSession) Open(ctx context.Context) (model.DeviceHandle, error) {
	if err := s.enter(ctx); err != nil {
		return 0, err
	}
	defer s.leave()

	s.mu.RLock()
	handle, faulted := s.handle, s.faulted
	s.mu.RUnlock()

	if handle.Valid() && !faulted {
		return handle, nil
	}

	if handle.Valid() {
		s.logger.Warn("Sensor session: reopening faulted device", "handle", handle)
		if err := s.sensor.Close(handle); err != nil {
			s.logger.Warn("Sensor session: failed to close faulted device", "handle", handle, "error", err)
		}
		s.setHandle(0, false)
	}

	if err := s.lockDevice(); err != nil {
		return 0, err
	}

	handle, err := s.openDevice()
	if err != nil {
		s.unlockDevice()
		return 0, err
	}

	s.setHandle(handle, false)
	s.logger.Info("Sensor session: device opened", "handle", handle)
	s.publisher.Publish(model.NewEvent(model.EventDeviceOpened, "Fingerprint sensor opened", "handle", handle.String()))

	return handle, nil
}

func (s *SensorSession) openDevice() (model.DeviceHandle, error) {
	s.mu.RLock()
	initialized := s.initialized
	s.mu.RUnlock()

	if !initialized {
		if err := s.sensor.Init(); err != nil {
			return 0, fmt.Errorf("failed to initialize sensor driver: %w", err)
		}
		s.mu.Lock()
		s.initialized = true
		s.mu.Unlock()
	}

	if s.sensor.DeviceCount() == 0 {
		return 0, model.ErrNoDeviceFound
	}

	handle, err := s.sensor.Open(0)
	if err != nil {
		return 0, fmt.Errorf("failed to open sensor: %w", err)
	}
	if !handle.Valid() {
		return 0, model.ErrNoDeviceFound
	}

	return handle, nil
}

func (s *SensorSession) lockDevice() error {
	if s.lockPath == "" || s.lock != nil {
		return nil
	}

	lock := flock.New(s.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", s.lockPath, err)
	}
	if !locked {
		return model.ErrDeviceBusy
	}

	s.lock = lock
	return nil
}

func (s *SensorSession) unlockDevice() {
	if s.lock == nil {
		return
	}
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("Sensor session: failed to release device lock", "path", s.lockPath, "error", err)
	}
	s.lock = nil
}

// CurrentHandle returns the open handle, if any, without blocking.
func (s *SensorSession) CurrentHandle() mo.Option[model.DeviceHandle] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.handle.Valid() {
		return mo.None[model.DeviceHandle]()
	}
	return mo.Some(s.handle)
}

// Close releases the device and shuts the driver down. Closing a closed
// session is a no-op.
func (s *SensorSession) Close(ctx context.Context) error {
	if err := s.enter(ctx); err != nil {
		return err
	}
	defer s.leave()

	s.mu.RLock()
	handle, initialized := s.handle, s.initialized
	s.mu.RUnlock()

	if !handle.Valid() && !initialized {
		return nil
	}

	var errs []error
	if handle.Valid() {
		if err := s.sensor.Close(handle); err != nil {
			errs = append(errs, fmt.Errorf("failed to close sensor: %w", err))
		}
	}
	if initialized {
		if err := s.sensor.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down sensor driver: %w", err))
		}
	}
	s.unlockDevice()

	s.mu.Lock()
	s.handle = 0
	s.faulted = false
	s.initialized = false
	s.mu.Unlock()

	if handle.Valid() {
		s.logger.Info("Sensor session: device closed", "handle", handle)
		s.publisher.Publish(model.NewEvent(model.EventDeviceClosed, "Fingerprint sensor closed", "handle", handle.String()))
	}

	return errors.Join(errs...)
}

// Use runs fn with exclusive access to the open device. A fatal capture error
// returned by fn marks the handle faulted so the next Open recovers it.
func (s *SensorSession) Use(ctx context.Context, fn func(ctx context.Context, handle model.DeviceHandle) error) error {
	if err := s.enter(ctx); err != nil {
		return err
	}
	defer s.leave()

	s.mu.RLock()
	handle := s.handle
	s.mu.RUnlock()

	if !handle.Valid() {
		return model.ErrDeviceNotOpen
	}

	err := fn(ctx, handle)
	if errors.As(err, new(*model.CaptureFatalError)) {
		s.mu.Lock()
		s.faulted = true
		s.mu.Unlock()
		s.logger.Warn("Sensor session: device marked faulted", "handle", handle, "code", model.FatalCode(err))
	}

	return err
}

// Faulted reports whether the open handle saw a fatal capture.
func (s *SensorSession) Faulted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.faulted
}

func (s *SensorSession) setHandle(handle model.DeviceHandle, faulted bool) {
	s.mu.Lock()
	s.handle = handle
	s.faulted = faulted
	s.mu.Unlock()
}
