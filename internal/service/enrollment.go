package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dtroode/fingerprint-server/internal/logger"
	"github.com/dtroode/fingerprint-server/internal/model"
)

// EnrollScans is the number of captures fused into one enrolled template.
const EnrollScans = 3

// Enroller captures three scans, fuses them and admits the result unless the
// finger or the identity is already enrolled.
type Enroller struct {
	acquirer  *Acquirer
	matcher   *Matcher
	sensor    model.Sensor
	store     model.TemplateStore
	archiver  model.Archiver
	publisher model.Publisher
	logger    *logger.Logger

	// admit serializes duplicate check and insert across enrollments.
	admit sync.Mutex
	now   func() time.Time
}

// NewEnroller creates an Enroller. archiver may be nil.
func NewEnroller(
	acquirer *Acquirer,
	matcher *Matcher,
	sensor model.Sensor,
	store model.TemplateStore,
	archiver model.Archiver,
	publisher model.Publisher,
	logger *logger.Logger,
) *Enroller {
	return &Enroller{
		acquirer:  acquirer,
		matcher:   matcher,
		sensor:    sensor,
		store:     store,
		archiver:  archiver,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Enroll runs the full workflow on handle. Nothing is written unless every
// step succeeds, and the store sees at most one Insert.
func (e *Enroller) Enroll(ctx context.Context, handle model.DeviceHandle, identity string) (model.EnrollResult, error) {
	if err := ValidateIdentity(identity); err != nil {
		return model.EnrollResult{}, err
	}

	if err := e.checkIdentityFree(ctx, identity); err != nil {
		e.fail(identity, err)
		return model.EnrollResult{}, err
	}

	e.logger.Info("Enrollment: started", "identity", identity)
	e.publisher.Publish(model.NewEvent(model.EventEnrollStarted,
		fmt.Sprintf("Place the finger on the sensor %d times", EnrollScans),
		"identity", identity,
	))

	samples := make([]model.Sample, 0, EnrollScans)
	attempts := 0
	for scan := 1; scan <= EnrollScans; scan++ {
		outcome, err := e.acquirer.Acquire(ctx, handle, model.ScanContext{
			Operation: model.OperationEnroll,
			Identity:  identity,
			Scan:      scan,
			Of:        EnrollScans,
		})
		attempts += outcome.Attempts
		if err != nil {
			if ctx.Err() != nil {
				return model.EnrollResult{}, fmt.Errorf("enrollment interrupted at scan %d: %w", scan, err)
			}
			err = fmt.Errorf("%w: scan %d: %w", model.ErrInsufficientScans, scan, err)
			e.fail(identity, err)
			return model.EnrollResult{}, err
		}
		samples = append(samples, outcome.Sample)
	}

	merged, err := e.sensor.Fuse(samples[0].Template, samples[1].Template, samples[2].Template)
	if err != nil {
		if !errors.Is(err, model.ErrFusionFailed) {
			err = fmt.Errorf("%w: %w", model.ErrFusionFailed, err)
		}
		e.fail(identity, err)
		return model.EnrollResult{}, err
	}

	enrolled, err := e.admitTemplate(ctx, identity, merged)
	if err != nil {
		e.fail(identity, err)
		return model.EnrollResult{}, err
	}

	e.logger.Info("Enrollment: completed", "identity", identity, "enrollment", enrolled.ID, "attempts", attempts)
	e.publisher.Publish(model.NewEvent(model.EventEnrollCompleted, "Scan successful, finger enrolled",
		"identity", identity,
		"enrollment", enrolled.ID.String(),
	))
	e.publisher.Publish(model.NewEvent(model.EventSessionReset, "Enrollment session reset",
		"identity", identity,
		"remaining", strconv.Itoa(EnrollScans),
	))

	e.archive(ctx, enrolled, samples)

	return model.EnrollResult{
		EnrollmentID: enrolled.ID,
		Identity:     identity,
		Template:     enrolled.Template,
		CreatedAt:    enrolled.CreatedAt,
		Attempts:     attempts,
	}, nil
}

// admitTemplate is the critical section: re-check identity, check the
// population for the finger, insert.
func (e *Enroller) admitTemplate(ctx context.Context, identity string, merged model.Template) (model.EnrolledTemplate, error) {
	e.admit.Lock()
	defer e.admit.Unlock()

	if err := e.checkIdentityFree(ctx, identity); err != nil {
		return model.EnrolledTemplate{}, err
	}

	check, err := e.matcher.MatchAgainstPopulation(ctx, merged)
	if err != nil {
		return model.EnrolledTemplate{}, fmt.Errorf("failed to check duplicates: %w", err)
	}
	if check.IsDuplicate {
		owner := check.MatchedIdentity.OrEmpty()
		e.publisher.Publish(model.NewEvent(model.EventEnrollDuplicate,
			fmt.Sprintf("Finger is already enrolled as %s", owner),
			"identity", identity,
			"matched_identity", owner,
			"score", strconv.Itoa(check.Score),
		))
		return model.EnrolledTemplate{}, &model.DuplicateEnrollmentError{Identity: owner}
	}

	enrolled := model.EnrolledTemplate{
		ID:        uuid.New(),
		Identity:  identity,
		Template:  merged,
		CreatedAt: e.now().UTC(),
	}

	if err := e.store.Insert(ctx, enrolled); err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.EnrolledTemplate{}, fmt.Errorf("%w: %w", model.ErrIdentityEnrolled, err)
		}
		return model.EnrolledTemplate{}, fmt.Errorf("failed to insert template: %w", err)
	}

	return enrolled, nil
}

func (e *Enroller) checkIdentityFree(ctx context.Context, identity string) error {
	_, err := e.store.FindByIdentity(ctx, identity)
	switch {
	case err == nil:
		return model.ErrIdentityEnrolled
	case errors.Is(err, model.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to look up identity: %w", err)
	}
}

func (e *Enroller) fail(identity string, err error) {
	var duplicate *model.DuplicateEnrollmentError
	if errors.As(err, &duplicate) {
		e.logger.Info("Enrollment: rejected duplicate finger", "identity", identity, "matched_identity", duplicate.Identity)
		return
	}

	e.logger.Warn("Enrollment: failed", "identity", identity, "kind", model.Kind(err), "error", err)
	e.publisher.Publish(model.NewEvent(model.EventEnrollFailed, "Enrollment failed: "+err.Error(),
		"identity", identity,
		"kind", string(model.Kind(err)),
	))
}

// archive stores the raw scans. Failures are reported, never returned.
func (e *Enroller) archive(ctx context.Context, enrolled model.EnrolledTemplate, samples []model.Sample) {
	if e.archiver == nil {
		return
	}

	err := e.archiver.Archive(context.WithoutCancel(ctx), model.ScanArchive{
		EnrollmentID: enrolled.ID,
		Identity:     enrolled.Identity,
		CreatedAt:    enrolled.CreatedAt,
		Scans:        samples,
	})
	if err != nil {
		e.logger.Error("Enrollment: failed to archive scans", "identity", enrolled.Identity, "enrollment", enrolled.ID, "error", err)
		e.publisher.Publish(model.NewEvent(model.EventArchiveFailed, "Scan images were not archived",
			"identity", enrolled.Identity,
			"enrollment", enrolled.ID.String(),
		))
	}
}

// ValidateIdentity rejects identities that are empty, padded, oversized or not UTF-8.
func ValidateIdentity(identity string) error {
	switch {
	case identity == "":
		return fmt.Errorf("%w: empty", model.ErrInvalidIdentity)
	case strings.TrimSpace(identity) != identity:
		return fmt.Errorf("%w: surrounding whitespace", model.ErrInvalidIdentity)
	case len(identity) > model.MaxIdentityLength:
		return fmt.Errorf("%w: longer than %d bytes", model.ErrInvalidIdentity, model.MaxIdentityLength)
	case !utf8.ValidString(identity):
		return fmt.Errorf("%w: not valid UTF-8", model.ErrInvalidIdentity)
	}
	return nil
}
