package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/fingerprint-server/internal/model"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string          `json:"error"`
	Kind  model.ErrorKind `json:"kind"`
}

func statusForKind(kind model.ErrorKind) int {
	switch kind {
	case model.KindNotFound, model.KindNoStoredTemplate:
		return fiber.StatusNotFound
	case model.KindDuplicateEnrollment, model.KindIdentityEnrolled, model.KindAlreadyExists:
		return fiber.StatusConflict
	case model.KindDeviceNotOpen, model.KindNoDeviceFound, model.KindCaptureFatal:
		return fiber.StatusPreconditionFailed
	case model.KindDeviceBusy, model.KindStoreUnavailable:
		return fiber.StatusServiceUnavailable
	case model.KindCaptureExhausted, model.KindInsufficientScans, model.KindFusionFailed:
		return fiber.StatusUnprocessableEntity
	case model.KindInvalidIdentity, model.KindInvalidTemplate:
		return fiber.StatusBadRequest
	case model.KindCanceled:
		// nginx "client closed request"
		return 499
	case model.KindDeadlineExceeded:
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

// handleError renders err as JSON. Fiber errors keep their own status.
func (r *Router) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(errorResponse{Error: fe.Message, Kind: kindForStatus(fe.Code)})
	}

	kind := model.Kind(err)
	code := statusForKind(kind)
	message := err.Error()
	if code == fiber.StatusInternalServerError {
		r.logger.Error("HTTP request failed", "path", c.Path(), "error", err)
		kind, message = model.KindInternal, "internal server error"
	}

	return c.Status(code).JSON(errorResponse{Error: message, Kind: kind})
}

func kindForStatus(code int) model.ErrorKind {
	switch code {
	case fiber.StatusNotFound:
		return model.KindNotFound
	case fiber.StatusUnauthorized:
		return "unauthenticated"
	case fiber.StatusBadRequest:
		return "bad_request"
	default:
		return model.KindInternal
	}
}
