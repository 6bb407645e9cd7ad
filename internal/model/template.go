package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	// TemplateSize is the nominal capacity of a sensor template in bytes.
	TemplateSize = 2048
	// MatchThreshold is the score two templates must exceed to be considered the same finger.
	MatchThreshold = 75
	// MaxIdentityLength bounds identities accepted by enrollment and verification.
	MaxIdentityLength = 255
)

// Template is a feature vector extracted from one fingerprint image.
// Templates are produced by the sensor and never modified afterwards.
type Template []byte

// Clone returns a copy that does not share memory with t.
func (t Template) Clone() Template {
	if t == nil {
		return nil
	}
	out := make(Template, len(t))
	copy(out, t)
	return out
}

// EnrolledTemplate is a durable template stored under an identity.
type EnrolledTemplate struct {
	ID        uuid.UUID
	Identity  string
	Template  Template
	CreatedAt time.Time
}

// Enrollment is the listing view of an EnrolledTemplate, without template bytes.
type Enrollment struct {
	ID        uuid.UUID
	Identity  string
	CreatedAt time.Time
}

// TemplateStore persists enrolled templates. Identities are unique.
type TemplateStore interface {
	// Insert stores a new template. It returns ErrAlreadyExists when the identity is taken.
	Insert(ctx context.Context, enrolled EnrolledTemplate) error
	// FindByIdentity returns ErrNotFound when the identity has no template.
	FindByIdentity(ctx context.Context, identity string) (EnrolledTemplate, error)
	// ListAll returns every enrolled template in insertion order.
	ListAll(ctx context.Context) ([]EnrolledTemplate, error)
}
