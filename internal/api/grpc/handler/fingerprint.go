package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dtroode/fingerprint-server/internal/api/grpc/fingerprintpb"
	"github.com/dtroode/fingerprint-server/internal/logger"
	"github.com/dtroode/fingerprint-server/internal/model"
	"github.com/dtroode/fingerprint-server/internal/notify"
)

// FingerprintService defines the device and biometric operations.
type FingerprintService interface {
	OpenDevice(ctx context.Context) (model.DeviceHandle, error)
	CloseDevice(ctx context.Context) error
	DeviceStatus() (model.DeviceHandle, bool)
	Verify(ctx context.Context, identity string) (model.VerifyResult, error)
	Enroll(ctx context.Context, identity string) (model.EnrollResult, error)
	CheckDuplicate(ctx context.Context, template model.Template) (model.DuplicateCheck, error)
	ListEnrollments(ctx context.Context) ([]model.Enrollment, error)
	Subscribe() *notify.Subscription
	Unsubscribe(id uuid.UUID)
}

var _ fingerprintpb.FingerprintServer = (*Fingerprint)(nil)

// Fingerprint handles gRPC endpoints of the fingerprint service.
type Fingerprint struct {
	service        FingerprintService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewFingerprint creates a new Fingerprint handler.
func NewFingerprint(service FingerprintService, contextManager model.ContextManager, logger *logger.Logger) *Fingerprint {
	return &Fingerprint{
		service:        service,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Fingerprint) operator(ctx context.Context) string {
	operator, _ := h.contextManager.GetOperatorFromContext(ctx)
	return operator
}

// OpenDevice opens the sensor, or returns the handle of the already open one.
func (h *Fingerprint) OpenDevice(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	handle, err := h.service.OpenDevice(ctx)
	if err != nil {
		h.logger.Error("Fingerprint handler: open device failed",
			"operator", h.operator(ctx),
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Fingerprint handler: device opened",
		"operator", h.operator(ctx),
		"handle", handle.String())

	return fingerprintpb.DeviceStatusToStruct(handle, true), nil
}

func (h *Fingerprint) CloseDevice(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if err := h.service.CloseDevice(ctx); err != nil {
		h.logger.Error("Fingerprint handler: close device failed",
			"operator", h.operator(ctx),
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Fingerprint handler: device closed", "operator", h.operator(ctx))
	return &emptypb.Empty{}, nil
}

func (h *Fingerprint) DeviceStatus(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	handle, open := h.service.DeviceStatus()
	return fingerprintpb.DeviceStatusToStruct(handle, open), nil
}

// Verify captures a live scan and compares it with the identity's template.
func (h *Fingerprint) Verify(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	identity := req.GetValue()
	h.logger.Debug("Fingerprint handler: processing verify request",
		"operator", h.operator(ctx),
		"identity", identity)

	result, err := h.service.Verify(ctx, identity)
	if err != nil {
		h.logger.Error("Fingerprint handler: verify failed",
			"identity", identity,
			"error", err.Error())
		return nil, handleError(err)
	}

	return fingerprintpb.VerifyResultToStruct(result), nil
}

// Enroll captures three scans, fuses them and stores the result for identity.
func (h *Fingerprint) Enroll(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	identity := req.GetValue()
	h.logger.Debug("Fingerprint handler: processing enroll request",
		"operator", h.operator(ctx),
		"identity", identity)

	result, err := h.service.Enroll(ctx, identity)
	if err != nil {
		h.logger.Error("Fingerprint handler: enroll failed",
			"identity", identity,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Fingerprint handler: enrollment completed",
		"operator", h.operator(ctx),
		"identity", identity,
		"enrollment_id", result.EnrollmentID.String())

	return fingerprintpb.EnrollResultToStruct(result), nil
}

func (h *Fingerprint) CheckDuplicate(ctx context.Context, req *wrapperspb.BytesValue) (*structpb.Struct, error) {
	check, err := h.service.CheckDuplicate(ctx, model.Template(req.GetValue()))
	if err != nil {
		h.logger.Error("Fingerprint handler: duplicate check failed", "error", err.Error())
		return nil, handleError(err)
	}

	return fingerprintpb.DuplicateCheckToStruct(check), nil
}

func (h *Fingerprint) ListEnrollments(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	enrollments, err := h.service.ListEnrollments(ctx)
	if err != nil {
		h.logger.Error("Fingerprint handler: list enrollments failed", "error", err.Error())
		return nil, handleError(err)
	}

	return fingerprintpb.EnrollmentsToList(enrollments), nil
}

// Subscribe streams events until the client leaves or the hub shuts down.
func (h *Fingerprint) Subscribe(_ *emptypb.Empty, stream fingerprintpb.Fingerprint_SubscribeServer) error {
	ctx := stream.Context()
	sub := h.service.Subscribe()
	defer h.service.Unsubscribe(sub.ID)

	h.logger.Info("Fingerprint handler: subscriber attached",
		"operator", h.operator(ctx),
		"subscription", sub.ID.String())

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Fingerprint handler: subscriber detached", "subscription", sub.ID.String())
			return nil
		case event, ok := <-sub.C:
			if !ok {
				return status.Error(codes.Unavailable, "event stream closed")
			}
			if err := stream.Send(fingerprintpb.EventToStruct(event)); err != nil {
				h.logger.Warn("Fingerprint handler: failed to send event",
					"subscription", sub.ID.String(),
					"error", err.Error())
				return err
			}
		}
	}
}
