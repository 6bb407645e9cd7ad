package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScanArchive is the raw material of one successful enrollment.
type ScanArchive struct {
	EnrollmentID uuid.UUID
	Identity     string
	CreatedAt    time.Time
	Scans        []Sample
}

// Archiver keeps raw scans of completed enrollments for later audit.
type Archiver interface {
	Archive(ctx context.Context, archive ScanArchive) error
}
