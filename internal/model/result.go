package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
)

// VerifyResult is the outcome of a verification that reached the matcher.
type VerifyResult struct {
	Matched  bool
	Score    int
	Attempts int
}

// EnrollResult describes a completed enrollment.
type EnrollResult struct {
	EnrollmentID uuid.UUID
	Identity     string
	Template     Template
	CreatedAt    time.Time
	// Attempts is the total number of sensor attempts over all captures.
	Attempts int
}

// DuplicateCheck is the result of comparing a template with every enrolled one.
type DuplicateCheck struct {
	IsDuplicate     bool
	MatchedIdentity mo.Option[string]
	// Score is the matching score when IsDuplicate, otherwise the best score seen.
	Score int
	// Compared counts stored templates scored before the scan stopped.
	Compared int
}
