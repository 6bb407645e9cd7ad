package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

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

type deviceResponse struct {
	Open   bool   `json:"open"`
	Handle string `json:"handle,omitempty"`
}

type verifyResponse struct {
	Identity string `json:"identity"`
	Matched  bool   `json:"matched"`
	Score    int    `json:"score"`
	Attempts int    `json:"attempts"`
}

type enrollResponse struct {
	EnrollmentID string    `json:"enrollment_id"`
	Identity     string    `json:"identity"`
	TemplateSize int       `json:"template_size"`
	CreatedAt    time.Time `json:"created_at"`
	Attempts     int       `json:"attempts"`
}

type duplicateResponse struct {
	IsDuplicate     bool   `json:"is_duplicate"`
	MatchedIdentity string `json:"matched_identity,omitempty"`
	Score           int    `json:"score"`
	Compared        int    `json:"compared"`
}

type enrollmentResponse struct {
	ID        string    `json:"id"`
	Identity  string    `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
}

func deviceStatus(handle model.DeviceHandle, open bool) deviceResponse {
	if !open {
		return deviceResponse{}
	}
	return deviceResponse{Open: true, Handle: handle.String()}
}

func (r *Router) health(c *fiber.Ctx) error {
	_, open := r.service.DeviceStatus()
	return c.JSON(fiber.Map{
		"status":      "ok",
		"device_open": open,
		"time":        time.Now().UTC(),
	})
}

func (r *Router) openDevice(c *fiber.Ctx) error {
	handle, err := r.service.OpenDevice(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(deviceStatus(handle, true))
}

func (r *Router) closeDevice(c *fiber.Ctx) error {
	if err := r.service.CloseDevice(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (r *Router) deviceStatus(c *fiber.Ctx) error {
	return c.JSON(deviceStatus(r.service.DeviceStatus()))
}

func (r *Router) verify(c *fiber.Ctx) error {
	identity := c.Params("identity")
	result, err := r.service.Verify(c.UserContext(), identity)
	if err != nil {
		return err
	}

	return c.JSON(verifyResponse{
		Identity: identity,
		Matched:  result.Matched,
		Score:    result.Score,
		Attempts: result.Attempts,
	})
}

func (r *Router) enroll(c *fiber.Ctx) error {
	result, err := r.service.Enroll(c.UserContext(), c.Params("identity"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(enrollResponse{
		EnrollmentID: result.EnrollmentID.String(),
		Identity:     result.Identity,
		TemplateSize: len(result.Template),
		CreatedAt:    result.CreatedAt,
		Attempts:     result.Attempts,
	})
}

// checkDuplicate takes the raw template as the request body.
func (r *Router) checkDuplicate(c *fiber.Ctx) error {
	template := model.Template(append([]byte(nil), c.Body()...))
	check, err := r.service.CheckDuplicate(c.UserContext(), template)
	if err != nil {
		return err
	}

	return c.JSON(duplicateResponse{
		IsDuplicate:     check.IsDuplicate,
		MatchedIdentity: check.MatchedIdentity.OrEmpty(),
		Score:           check.Score,
		Compared:        check.Compared,
	})
}

func (r *Router) listEnrollments(c *fiber.Ctx) error {
	enrollments, err := r.service.ListEnrollments(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]enrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		out = append(out, enrollmentResponse{ID: e.ID.String(), Identity: e.Identity, CreatedAt: e.CreatedAt})
	}
	return c.JSON(out)
}
