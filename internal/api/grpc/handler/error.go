package handler

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/fingerprint-server/internal/model"
)

// handleError maps a service error onto a gRPC status. The message carries the
// error kind so clients can branch on it without parsing text.
func handleError(err error) error {
	kind := model.Kind(err)

	var code codes.Code
	switch kind {
	case model.KindNotFound, model.KindNoStoredTemplate:
		code = codes.NotFound
	case model.KindDuplicateEnrollment, model.KindIdentityEnrolled, model.KindAlreadyExists:
		code = codes.AlreadyExists
	case model.KindDeviceNotOpen, model.KindNoDeviceFound, model.KindCaptureFatal:
		code = codes.FailedPrecondition
	case model.KindDeviceBusy, model.KindStoreUnavailable:
		code = codes.Unavailable
	case model.KindCaptureExhausted, model.KindInsufficientScans, model.KindFusionFailed:
		code = codes.Aborted
	case model.KindInvalidIdentity, model.KindInvalidTemplate:
		code = codes.InvalidArgument
	case model.KindCanceled:
		code = codes.Canceled
	case model.KindDeadlineExceeded:
		code = codes.DeadlineExceeded
	default:
		return status.Error(codes.Internal, string(model.KindInternal)+": internal server error")
	}

	return status.Error(code, string(kind)+": "+err.Error())
}
