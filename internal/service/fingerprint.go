package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/dtroode/fingerprint-server/internal/logger"
	"github.com/dtroode/fingerprint-server/internal/model"
	"github.com/dtroode/fingerprint-server/internal/notify"
)

// Fingerprint exposes the device and biometric operations to transports.
type Fingerprint struct {
	session  *SensorSession
	acquirer *Acquirer
	matcher  *Matcher
	enroller *Enroller
	store    model.TemplateStore
	hub      *notify.Hub
	logger   *logger.Logger
}

func NewFingerprint(
	session *SensorSession,
	acquirer *Acquirer,
	matcher *Matcher,
	enroller *Enroller,
	store model.TemplateStore,
	hub *notify.Hub,
	logger *logger.Logger,
) *Fingerprint {
	return &Fingerprint{
		session:  session,
		acquirer: acquirer,
		matcher:  matcher,
		enroller: enroller,
		store:    store,
		hub:      hub,
		logger:   logger,
	}
}

func (s *Fingerprint) OpenDevice(ctx context.Context) (model.DeviceHandle, error) {
	handle, err := s.session.Open(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to open device: %w", err)
	}
	return handle, nil
}

func (s *Fingerprint) CloseDevice(ctx context.Context) error {
	if err := s.session.Close(ctx); err != nil {
		return fmt.Errorf("failed to close device: %w", err)
	}
	return nil
}

// Verify captures a live scan and compares it with the template enrolled for
// identity. An identity with no template yields ErrNoStoredTemplate.
func (s *Fingerprint) Verify(ctx context.Context, identity string) (model.VerifyResult, error) {
	if err := ValidateIdentity(identity); err != nil {
		return model.VerifyResult{}, err
	}

	var outcome model.CaptureOutcome
	err := s.session.Use(ctx, func(ctx context.Context, handle model.DeviceHandle) error {
		var err error
		outcome, err = s.acquirer.Acquire(ctx, handle, model.ScanContext{
			Operation: model.OperationVerify,
			Identity:  identity,
		})
		return err
	})
	if err != nil {
		return model.VerifyResult{}, fmt.Errorf("failed to capture scan: %w", err)
	}

	score, err := s.matcher.MatchAgainstIdentity(ctx, outcome.Sample.Template, identity)
	if errors.Is(err, model.ErrNoStoredTemplate) {
		s.logger.Info("Verification: unknown identity", "identity", identity)
		s.hub.Publish(model.NewEvent(model.EventVerifyUnknownIdentity,
			fmt.Sprintf("No fingerprint is enrolled for %s", identity),
			"identity", identity,
		))
		return model.VerifyResult{}, err
	}
	if err != nil {
		return model.VerifyResult{}, fmt.Errorf("failed to match scan: %w", err)
	}

	result := model.VerifyResult{
		Matched:  s.matcher.Matches(score),
		Score:    score,
		Attempts: outcome.Attempts,
	}

	s.logger.Info("Verification: completed", "identity", identity, "matched", result.Matched, "score", score)
	if result.Matched {
		s.hub.Publish(model.NewEvent(model.EventVerifyMatched, "Fingerprint verified",
			"identity", identity, "score", strconv.Itoa(score)))
	} else {
		s.hub.Publish(model.NewEvent(model.EventVerifyRejected, "Fingerprint does not match",
			"identity", identity, "score", strconv.Itoa(score)))
	}

	return result, nil
}

// Enroll holds the device for the three captures and admits the fused template.
func (s *Fingerprint) Enroll(ctx context.Context, identity string) (model.EnrollResult, error) {
	var result model.EnrollResult
	err := s.session.Use(ctx, func(ctx context.Context, handle model.DeviceHandle) error {
		var err error
		result, err = s.enroller.Enroll(ctx, handle, identity)
		return err
	})
	if err != nil {
		return model.EnrollResult{}, fmt.Errorf("failed to enroll %q: %w", identity, err)
	}
	return result, nil
}

// CheckDuplicate reports whether template matches any enrolled finger.
func (s *Fingerprint) CheckDuplicate(ctx context.Context, template model.Template) (model.DuplicateCheck, error) {
	if len(template) == 0 {
		return model.DuplicateCheck{}, fmt.Errorf("%w: empty template", model.ErrInvalidTemplate)
	}

	check, err := s.matcher.MatchAgainstPopulation(ctx, template)
	if err != nil {
		return model.DuplicateCheck{}, fmt.Errorf("failed to check duplicate: %w", err)
	}
	return check, nil
}

// ListEnrollments returns every enrollment without template bytes, oldest first.
func (s *Fingerprint) ListEnrollments(ctx context.Context) ([]model.Enrollment, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	return lo.Map(all, func(t model.EnrolledTemplate, _ int) model.Enrollment {
		return model.Enrollment{ID: t.ID, Identity: t.Identity, CreatedAt: t.CreatedAt}
	}), nil
}

// Subscribe registers an event observer.
func (s *Fingerprint) Subscribe() *notify.Subscription {
	return s.hub.Subscribe()
}

func (s *Fingerprint) Unsubscribe(id uuid.UUID) {
	s.hub.Unsubscribe(id)
}

// DeviceStatus returns the open handle, or false when the device is closed.
func (s *Fingerprint) DeviceStatus() (model.DeviceHandle, bool) {
	return s.session.CurrentHandle().Get()
}
