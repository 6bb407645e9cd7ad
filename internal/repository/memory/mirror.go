package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dtroode/fingerprint-server/internal/logger"
	"github.com/dtroode/fingerprint-server/internal/model"
)

// Mirror fronts a durable TemplateStore with an in-memory copy so population
// scans do not hit the backend. Writes go to the backend first and reach the
// copy only when they succeed.
//
// The mirror assumes it fronts the only writer of the backend. Enrollments
// made by another process sharing the database are not seen until Load runs
// again, so duplicate checks only cover templates written by this process or
// present at the last Load.
type Mirror struct {
	backend model.TemplateStore
	cache   *Store
	logger  *logger.Logger

	loadMu sync.Mutex
	loaded bool
}

func NewMirror(backend model.TemplateStore, logger *logger.Logger) *Mirror {
	return &Mirror{
		backend: backend,
		cache:   NewStore(),
		logger:  logger,
	}
}

// Load (re)reads every template from the backend.
func (m *Mirror) Load(ctx context.Context) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	return m.loadLocked(ctx)
}

func (m *Mirror) loadLocked(ctx context.Context) error {
	all, err := m.backend.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load templates into mirror: %w", err)
	}

	m.cache.replace(all)
	m.loaded = true
	m.logger.Info("Template mirror: loaded", "templates", len(all))
	return nil
}

func (m *Mirror) ensureLoaded(ctx context.Context) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	if m.loaded {
		return nil
	}
	return m.loadLocked(ctx)
}

func (m *Mirror) Insert(ctx context.Context, enrolled model.EnrolledTemplate) error {
	if err := m.ensureLoaded(ctx); err != nil {
		return err
	}

	if err := m.backend.Insert(ctx, enrolled); err != nil {
		return err
	}

	if err := m.cache.Insert(ctx, enrolled); err != nil && !errors.Is(err, model.ErrAlreadyExists) {
		return err
	}
	return nil
}

// FindByIdentity is served by the backend so verification always sees the
// durable record.
func (m *Mirror) FindByIdentity(ctx context.Context, identity string) (model.EnrolledTemplate, error) {
	return m.backend.FindByIdentity(ctx, identity)
}

func (m *Mirror) ListAll(ctx context.Context) ([]model.EnrolledTemplate, error) {
	if err := m.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return m.cache.ListAll(ctx)
}
