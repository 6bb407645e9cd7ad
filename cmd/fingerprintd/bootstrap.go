package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/fingerprint-server/internal/archive"
	"github.com/dtroode/fingerprint-server/internal/config"
	"github.com/dtroode/fingerprint-server/internal/logger"
	"github.com/dtroode/fingerprint-server/internal/model"
	"github.com/dtroode/fingerprint-server/internal/notify"
	"github.com/dtroode/fingerprint-server/internal/repository/memory"
	"github.com/dtroode/fingerprint-server/internal/repository/postgres"
	"github.com/dtroode/fingerprint-server/internal/repository/sqlite"
	"github.com/dtroode/fingerprint-server/internal/sensor/hotplug"
	"github.com/dtroode/fingerprint-server/internal/sensor/simulated"
	"github.com/dtroode/fingerprint-server/internal/sensor/zkfp"
	"github.com/dtroode/fingerprint-server/internal/service"
	storage "github.com/dtroode/fingerprint-server/internal/storage/minio"
	"github.com/dtroode/fingerprint-server/internal/token"
)

// daemon holds the wired components of a running service.
type daemon struct {
	hub         *notify.Hub
	session     *service.SensorSession
	fingerprint *service.Fingerprint
	tokens      *service.TokenService
	monitor     *hotplug.Monitor
	closeStore  func() error
}

func buildDaemon(ctx context.Context, cfg *config.Config, log *logger.Logger) (*daemon, error) {
	store, closeStore, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	sensor, err := newSensor(cfg.Sensor)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	var archiver model.Archiver
	if cfg.Storage.Enabled {
		a, err := newArchiver(ctx, cfg.Storage, log)
		if err != nil {
			_ = closeStore()
			return nil, err
		}
		archiver = a
	}

	hub := notify.NewHub(cfg.Events.Buffer, log.With("component", "events"))
	session := service.NewSensorSession(sensor, cfg.Sensor.LockFile, hub, log.With("component", "session"))
	acquirer := service.NewAcquirer(sensor, service.AcquireOptions{
		MaxAttempts: cfg.Capture.MaxAttempts,
		RetryDelay:  cfg.Capture.RetryDelay,
	}, hub, log)
	matcher := service.NewMatcher(store, sensor, log)
	enroller := service.NewEnroller(acquirer, matcher, sensor, store, archiver, hub, log)

	return &daemon{
		hub:         hub,
		session:     session,
		fingerprint: service.NewFingerprint(session, acquirer, matcher, enroller, store, hub, log),
		tokens:      service.NewTokenService(token.NewJWT(cfg.JWT.Secret), cfg.JWT.TTL, log),
		monitor:     hotplug.NewMonitor(cfg.Sensor.USBVendorID, hub, log),
		closeStore:  closeStore,
	}, nil
}

// openStore opens the configured template store. Durable stores sit behind an
// in-memory mirror that serves population scans.
func openStore(ctx context.Context, cfg config.Database, log *logger.Logger) (model.TemplateStore, func() error, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		mirror, err := loadMirror(ctx, postgres.NewTemplateRepository(conn), log)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return mirror, conn.Close, nil

	case config.DriverSQLite:
		repo, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		mirror, err := loadMirror(ctx, repo, log)
		if err != nil {
			_ = repo.Close()
			return nil, nil, err
		}
		return mirror, repo.Close, nil

	case config.DriverMemory:
		log.Warn("Using in-memory template store, enrollments are lost on restart")
		return memory.NewStore(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func loadMirror(ctx context.Context, backend model.TemplateStore, log *logger.Logger) (*memory.Mirror, error) {
	mirror := memory.NewMirror(backend, log.With("component", "mirror"))
	if err := mirror.Load(ctx); err != nil {
		return nil, err
	}
	return mirror, nil
}

func newSensor(cfg config.Sensor) (model.Sensor, error) {
	switch cfg.Driver {
	case config.SensorSimulated:
		return simulated.New(simulated.Options{
			Finger:    cfg.SimFinger,
			ClearRate: cfg.SimClear,
		}), nil
	case config.SensorZKFP:
		sensor, err := zkfp.New()
		if errors.Is(err, zkfp.ErrNotCompiled) {
			return nil, fmt.Errorf("sensor driver %q: rebuild with -tags zkfp: %w", cfg.Driver, err)
		}
		return sensor, err
	default:
		return nil, fmt.Errorf("unknown sensor driver %q", cfg.Driver)
	}
}

func newArchiver(ctx context.Context, cfg config.Storage, log *logger.Logger) (*archive.Archiver, error) {
	client, err := storage.Connect(ctx, storage.Options{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}
	return archive.New(client, log.With("component", "archive"))
}

// shutdown closes the device first so no capture outlives the transports.
func (d *daemon) shutdown(ctx context.Context, log *logger.Logger) {
	d.monitor.Stop()
	if err := d.session.Close(ctx); err != nil {
		log.Error("Failed to close fingerprint sensor", "error", err)
	}
	d.hub.Close()
}

func (d *daemon) close(log *logger.Logger) {
	if err := d.closeStore(); err != nil {
		log.Error("Failed to close template store", "error", err)
	}
}
