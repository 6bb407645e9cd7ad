package memory

import (
	"context"
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/dtroode/fingerprint-server/internal/model"
)

// Store is a TemplateStore kept in process memory. It preserves insertion
// order, which is the order population scans visit templates in.
type Store struct {
	mu        sync.RWMutex
	templates *linkedhashmap.Map
}

func NewStore() *Store {
	return &Store{templates: linkedhashmap.New()}
}

func (s *Store) Insert(_ context.Context, enrolled model.EnrolledTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.templates.Get(enrolled.Identity); found {
		return model.ErrAlreadyExists
	}

	enrolled.Template = enrolled.Template.Clone()
	s.templates.Put(enrolled.Identity, enrolled)
	return nil
}

func (s *Store) FindByIdentity(_ context.Context, identity string) (model.EnrolledTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, found := s.templates.Get(identity)
	if !found {
		return model.EnrolledTemplate{}, model.ErrNotFound
	}
	return cloned(value), nil
}

func (s *Store) ListAll(_ context.Context) ([]model.EnrolledTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.EnrolledTemplate, 0, s.templates.Size())
	it := s.templates.Iterator()
	for it.Next() {
		out = append(out, cloned(it.Value()))
	}
	return out, nil
}

// cloned copies a stored entry so callers never share its template bytes.
func cloned(value any) model.EnrolledTemplate {
	enrolled := value.(model.EnrolledTemplate)
	enrolled.Template = enrolled.Template.Clone()
	return enrolled
}

// Len returns the number of stored templates.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templates.Size()
}

// replace drops all templates and loads the given ones in order.
func (s *Store) replace(all []model.EnrolledTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.templates.Clear()
	for _, enrolled := range all {
		enrolled.Template = enrolled.Template.Clone()
		s.templates.Put(enrolled.Identity, enrolled)
	}
}
