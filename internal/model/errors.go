package model

import (
	"context"
	"errors"
	"fmt"
)

// Device errors.
var (
	ErrNoDeviceFound = errors.New("device: no fingerprint sensor found")
	ErrDeviceNotOpen = errors.New("device: sensor is not open")
	ErrDeviceBusy    = errors.New("device: sensor is in use by another process")
)

// Capture errors. ErrNoClearScan never leaves the acquisition loop.
var (
	ErrNoClearScan      = errors.New("capture: no clear scan")
	ErrCaptureExhausted = errors.New("capture: no clear scan after all attempts")
)

// Match errors.
var (
	ErrNoStoredTemplate = errors.New("match: no stored template for identity")
	ErrInvalidTemplate  = errors.New("match: invalid template")
)

// Enrollment errors.
var (
	ErrInsufficientScans = errors.New("enroll: could not capture three clear scans")
	ErrFusionFailed      = errors.New("enroll: failed to merge scans")
	ErrIdentityEnrolled  = errors.New("enroll: identity already has an enrolled template")
	ErrInvalidIdentity   = errors.New("enroll: invalid identity")
)

// Store errors.
var (
	ErrNotFound         = errors.New("store: not found")
	ErrAlreadyExists    = errors.New("store: already exists")
	ErrStoreUnavailable = errors.New("store: unavailable")
)

// CaptureFatalError is a hardware or driver failure that stops the acquisition loop.
type CaptureFatalError struct {
	Code int
}

func (e *CaptureFatalError) Error() string {
	return fmt.Sprintf("capture: sensor failed with code %d", e.Code)
}

// DuplicateEnrollmentError reports that the finger already belongs to another identity.
type DuplicateEnrollmentError struct {
	Identity string
}

func (e *DuplicateEnrollmentError) Error() string {
	return fmt.Sprintf("enroll: finger already enrolled as %q", e.Identity)
}

// IsRetryable reports whether a capture attempt may be repeated.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNoClearScan)
}

// FatalCode extracts the driver code from a fatal capture error, or 0.
func FatalCode(err error) int {
	var fatal *CaptureFatalError
	if errors.As(err, &fatal) {
		return fatal.Code
	}
	return 0
}

// ErrorKind is a stable machine-readable name for an error family.
type ErrorKind string

const (
	KindNoDeviceFound       ErrorKind = "no_device_found"
	KindDeviceNotOpen       ErrorKind = "device_not_open"
	KindDeviceBusy          ErrorKind = "device_busy"
	KindCaptureExhausted    ErrorKind = "capture_exhausted"
	KindCaptureFatal        ErrorKind = "capture_fatal"
	KindNoStoredTemplate    ErrorKind = "no_stored_template"
	KindInvalidTemplate     ErrorKind = "invalid_template"
	KindInsufficientScans   ErrorKind = "insufficient_scans"
	KindFusionFailed        ErrorKind = "fusion_failed"
	KindDuplicateEnrollment ErrorKind = "duplicate_enrollment"
	KindIdentityEnrolled    ErrorKind = "identity_enrolled"
	KindInvalidIdentity     ErrorKind = "invalid_identity"
	KindNotFound            ErrorKind = "not_found"
	KindAlreadyExists       ErrorKind = "already_exists"
	KindStoreUnavailable    ErrorKind = "store_unavailable"
	KindCanceled            ErrorKind = "canceled"
	KindDeadlineExceeded    ErrorKind = "deadline_exceeded"
	KindInternal            ErrorKind = "internal"
)

// Kind classifies err. Policy errors win over the capture errors they wrap,
// so an enrollment that failed on a fatal scan reports insufficient_scans.
func Kind(err error) ErrorKind {
	var duplicate *DuplicateEnrollmentError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &duplicate):
		return KindDuplicateEnrollment
	case errors.Is(err, ErrInsufficientScans):
		return KindInsufficientScans
	case errors.Is(err, ErrFusionFailed):
		return KindFusionFailed
	case errors.Is(err, ErrIdentityEnrolled):
		return KindIdentityEnrolled
	case errors.Is(err, ErrInvalidIdentity):
		return KindInvalidIdentity
	case errors.Is(err, ErrNoStoredTemplate):
		return KindNoStoredTemplate
	case errors.Is(err, ErrInvalidTemplate):
		return KindInvalidTemplate
	case errors.Is(err, ErrNoDeviceFound):
		return KindNoDeviceFound
	case errors.Is(err, ErrDeviceNotOpen):
		return KindDeviceNotOpen
	case errors.Is(err, ErrDeviceBusy):
		return KindDeviceBusy
	case errors.Is(err, ErrCaptureExhausted):
		return KindCaptureExhausted
	case errors.As(err, new(*CaptureFatalError)):
		return KindCaptureFatal
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return KindDeadlineExceeded
	default:
		return KindInternal
	}
}
