package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mcuadros/go-defaults"

	"github.com/dtroode/fingerprint-server/internal/logger"
	"github.com/dtroode/fingerprint-server/internal/model"
)

// AcquireOptions configures the scan acquisition loop. The default tags apply
// only when the whole struct is zero; a zero RetryDelay next to a set
// MaxAttempts retries immediately.
type AcquireOptions struct {
	MaxAttempts int           `default:"5"`
	RetryDelay  time.Duration `default:"1s"`
}

// Acquirer runs the bounded retry loop around the sensor's acquire primitive.
type Acquirer struct {
	sensor    model.Sensor
	opts      AcquireOptions
	publisher model.Publisher
	logger    *logger.Logger
}

func NewAcquirer(sensor model.Sensor, opts AcquireOptions, publisher model.Publisher, logger *logger.Logger) *Acquirer {
	if opts == (AcquireOptions{}) {
		defaults.SetDefaults(&opts)
	}
	return &Acquirer{
		sensor:    sensor,
		opts:      opts,
		publisher: publisher,
		logger:    logger,
	}
}

// Options returns the effective loop configuration.
func (a *Acquirer) Options() AcquireOptions {
	return a.opts
}

// Acquire captures one clear scan. It returns as soon as an attempt succeeds,
// retries non-clear scans after RetryDelay up to MaxAttempts, and stops at the
// first fatal attempt.
//
// The returned error is nil for CaptureSucceeded, ErrCaptureExhausted for
// CaptureExhausted and wraps *CaptureFatalError for CaptureFatal. A canceled
// ctx stops the loop between attempts with ctx.Err() and a non-terminal state.
func (a *Acquirer) Acquire(ctx context.Context, handle model.DeviceHandle, scan model.ScanContext) (model.CaptureOutcome, error) {
	outcome := model.CaptureOutcome{State: model.CaptureIdle}

	for attempt := 1; attempt <= a.opts.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, a.opts.RetryDelay); err != nil {
				return outcome, err
			}
		} else if err := ctx.Err(); err != nil {
			return outcome, err
		}

		outcome.State = model.CaptureAttempting
		outcome.Attempts = attempt

		sample, err := a.sensor.Acquire(ctx, handle)
		if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return outcome, err
		}

		result := model.ClassifyAttempt(sample, err)
		switch result.Kind {
		case model.AttemptSuccess:
			outcome.State = model.CaptureSucceeded
			outcome.Sample = result.Sample
			a.publishSuccess(scan, attempt)
			return outcome, nil

		case model.AttemptRetryable:
			remaining := a.opts.MaxAttempts - attempt
			a.logger.Debug("Acquisition: scan not clear",
				"operation", scan.Operation,
				"identity", scan.Identity,
				"attempt", attempt,
				"remaining", remaining,
			)
			if remaining > 0 {
				a.publish(model.EventScanRetry, scan,
					fmt.Sprintf("Scan not clear, place the finger again (%d attempts left)", remaining),
					"attempt", strconv.Itoa(attempt),
					"remaining", strconv.Itoa(remaining),
				)
			}

		case model.AttemptFatal:
			outcome.State = model.CaptureFatal
			a.logger.Error("Acquisition: sensor failure",
				"operation", scan.Operation,
				"identity", scan.Identity,
				"attempt", attempt,
				"code", result.Code,
				"error", err,
			)
			a.publish(model.EventScanFatal, scan, "Sensor failure, scanning stopped",
				"attempt", strconv.Itoa(attempt),
				"code", strconv.Itoa(result.Code),
			)
			return outcome, fmt.Errorf("failed to acquire scan: %w", err)
		}
	}

	outcome.State = model.CaptureExhausted
	a.logger.Info("Acquisition: no clear scan",
		"operation", scan.Operation,
		"identity", scan.Identity,
		"attempts", outcome.Attempts,
	)
	a.publish(model.EventScanFailed, scan, "Scan failed, no clear scan was captured",
		"attempts", strconv.Itoa(outcome.Attempts),
	)

	return outcome, model.ErrCaptureExhausted
}

func (a *Acquirer) publishSuccess(scan model.ScanContext, attempt int) {
	message := "Scan successful"
	kv := []string{"attempt", strconv.Itoa(attempt)}
	if scan.Of > 0 {
		remaining := scan.Of - scan.Scan
		message = fmt.Sprintf("Scan successful, %d scans remaining in this enrollment session", remaining)
		kv = append(kv, "remaining", strconv.Itoa(remaining))
	}
	a.publish(model.EventScanSucceeded, scan, message, kv...)
}

func (a *Acquirer) publish(kind model.EventKind, scan model.ScanContext, message string, kv ...string) {
	kv = append(kv, "operation", scan.Operation)
	if scan.Identity != "" {
		kv = append(kv, "identity", scan.Identity)
	}
	if scan.Of > 0 {
		kv = append(kv, "scan", strconv.Itoa(scan.Scan), "of", strconv.Itoa(scan.Of))
	}
	a.publisher.Publish(model.NewEvent(kind, message, kv...))
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
