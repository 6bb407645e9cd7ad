package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/fingerprint-server/internal/mocks"
	"github.com/dtroode/fingerprint-server/internal/model"
	"github.com/dtroode/fingerprint-server/internal/notify"
	"github.com/dtroode/fingerprint-server/internal/testutil"
)

const validToken = "good-token"

func newApp(t *testing.T) (*fiber.App, *mocks.FingerprintService) {
	t.Helper()
	return newAppWithTimeout(t, 0)
}

func newAppWithTimeout(t *testing.T, timeout time.Duration) (*fiber.App, *mocks.FingerprintService) {
	t.Helper()

	svc := mocks.NewFingerprintService(t)
	tokens := mocks.NewTokenService(t)
	tokens.On("GetOperator", mock.Anything, validToken).Return("kiosk-1", nil).Maybe()
	tokens.On("GetOperator", mock.Anything, mock.Anything).Return("", errors.New("token is expired")).Maybe()

	cm := mocks.NewContextManager(t)
	cm.On("SetOperatorToContext", mock.Anything, "kiosk-1").
		Return(func(ctx context.Context, _ string) context.Context { return ctx }).Maybe()

	return New(svc, tokens, cm, testutil.MakeNoopLogger()).WithRequestTimeout(timeout).Register(), svc
}

func do(t *testing.T, app *fiber.App, method, path, token string, body []byte) (int, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decodeError(t *testing.T, body []byte) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e
}

func TestHealth_NoAuth(t *testing.T) {
	t.Parallel()

	app, svc := newApp(t)
	svc.On("DeviceStatus").Return(model.DeviceHandle(0), false).Once()

	code, body := do(t, app, fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestAuthentication(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "rejected token", token: "expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app, _ := newApp(t)
			code, body := do(t, app, fiber.MethodGet, "/fingerprint/enrollments", tt.token, nil)
			assert.Equal(t, fiber.StatusUnauthorized, code)
			assert.Equal(t, model.ErrorKind("unauthenticated"), decodeError(t, body).Kind)
		})
	}
}

func TestOpenAndCloseDevice(t *testing.T) {
	t.Parallel()

	app, svc := newApp(t)
	svc.On("OpenDevice", mock.Anything).Return(model.DeviceHandle(0x10), nil).Once()
	svc.On("CloseDevice", mock.Anything).Return(nil).Once()

	code, body := do(t, app, fiber.MethodPost, "/fingerprint/open", validToken, nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"open":true,"handle":"0x10"}`, string(body))

	code, _ = do(t, app, fiber.MethodPost, "/fingerprint/close", validToken, nil)
	assert.Equal(t, fiber.StatusNoContent, code)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		result   model.VerifyResult
		err      error
		wantCode int
		wantKind model.ErrorKind
	}{
		{
			name:     "matched",
			result:   model.VerifyResult{Matched: true, Score: 90, Attempts: 1},
			wantCode: fiber.StatusOK,
		},
		{
			name:     "unknown identity",
			err:      model.ErrNoStoredTemplate,
			wantCode: fiber.StatusNotFound,
			wantKind: model.KindNoStoredTemplate,
		},
		{
			name:     "device busy",
			err:      model.ErrDeviceBusy,
			wantCode: fiber.StatusServiceUnavailable,
			wantKind: model.KindDeviceBusy,
		},
		{
			name:     "capture exhausted",
			err:      model.ErrCaptureExhausted,
			wantCode: fiber.StatusUnprocessableEntity,
			wantKind: model.KindCaptureExhausted,
		},
		{
			name:     "unexpected error is hidden",
			err:      errors.New("disk on fire"),
			wantCode: fiber.StatusInternalServerError,
			wantKind: model.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app, svc := newApp(t)
			svc.On("Verify", mock.Anything, "alice").Return(tt.result, tt.err).Once()

			code, body := do(t, app, fiber.MethodPost, "/fingerprint/verify/alice", validToken, nil)
			assert.Equal(t, tt.wantCode, code)

			if tt.err == nil {
				var got verifyResponse
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, verifyResponse{Identity: "alice", Matched: true, Score: 90, Attempts: 1}, got)
				return
			}

			e := decodeError(t, body)
			assert.Equal(t, tt.wantKind, e.Kind)
			assert.NotContains(t, e.Error, "disk on fire")
		})
	}
}

func TestVerify_RequestDeadline(t *testing.T) {
	t.Parallel()

	app, svc := newAppWithTimeout(t, 30*time.Millisecond)
	svc.On("Verify", mock.Anything, "alice").
		Return(func(ctx context.Context, _ string) (model.VerifyResult, error) {
			<-ctx.Done()
			return model.VerifyResult{}, ctx.Err()
		}).Once()

	start := time.Now()
	code, body := do(t, app, fiber.MethodPost, "/fingerprint/verify/alice", validToken, nil)
	assert.Equal(t, fiber.StatusGatewayTimeout, code)
	assert.Equal(t, model.KindDeadlineExceeded, decodeError(t, body).Kind)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestEnroll(t *testing.T) {
	t.Parallel()

	app, svc := newApp(t)
	id := uuid.New()
	svc.On("Enroll", mock.Anything, "bob").Return(model.EnrollResult{
		EnrollmentID: id,
		Identity:     "bob",
		Template:     make(model.Template, 2048),
		CreatedAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Attempts:     3,
	}, nil).Once()
	svc.On("Enroll", mock.Anything, "carol").Return(model.EnrollResult{}, &model.DuplicateEnrollmentError{Identity: "bob"}).Once()

	code, body := do(t, app, fiber.MethodPost, "/fingerprint/enroll/bob", validToken, nil)
	assert.Equal(t, fiber.StatusCreated, code)

	var got enrollResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, id.String(), got.EnrollmentID)
	assert.Equal(t, 2048, got.TemplateSize)

	code, body = do(t, app, fiber.MethodPost, "/fingerprint/enroll/carol", validToken, nil)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, model.KindDuplicateEnrollment, decodeError(t, body).Kind)
}

func TestCheckDuplicate_RawBody(t *testing.T) {
	t.Parallel()

	app, svc := newApp(t)
	svc.On("CheckDuplicate", mock.Anything, model.Template{0xde, 0xad}).
		Return(model.DuplicateCheck{IsDuplicate: true, MatchedIdentity: mo.Some("alice"), Score: 97, Compared: 2}, nil).Once()

	code, body := do(t, app, fiber.MethodPost, "/fingerprint/duplicates", validToken, []byte{0xde, 0xad})
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"is_duplicate":true,"matched_identity":"alice","score":97,"compared":2}`, string(body))
}

func TestListEnrollments(t *testing.T) {
	t.Parallel()

	app, svc := newApp(t)
	svc.On("ListEnrollments", mock.Anything).Return([]model.Enrollment{
		{ID: uuid.New(), Identity: "alice", CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}, nil).Once()

	code, body := do(t, app, fiber.MethodGet, "/fingerprint/enrollments", validToken, nil)
	assert.Equal(t, fiber.StatusOK, code)

	var got []enrollmentResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].Identity)
}

func TestEvents_StreamsUntilHubCloses(t *testing.T) {
	t.Parallel()

	hub := notify.NewHub(4, testutil.MakeNoopLogger())
	app, svc := newApp(t)
	svc.On("Subscribe").Return(func() *notify.Subscription { return hub.Subscribe() }).Once()
	svc.On("Unsubscribe", mock.Anything).Run(func(args mock.Arguments) {
		hub.Unsubscribe(args.Get(0).(uuid.UUID))
	}).Return().Once()

	go func() {
		for hub.Subscribers() == 0 {
			time.Sleep(5 * time.Millisecond)
		}
		hub.Publish(model.NewEvent(model.EventScanRetry, "Place your finger again", "attempt", "2"))
		hub.Close()
	}()

	code, body := do(t, app, fiber.MethodGet, "/fingerprint/events", validToken, nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(body), "event: scan.retry\n")
	assert.Contains(t, string(body), `"message":"Place your finger again"`)
	assert.Contains(t, string(body), `"attempt":"2"`)
}

func TestStatusForKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, fiber.StatusPreconditionFailed, statusForKind(model.KindDeviceNotOpen))
	assert.Equal(t, fiber.StatusBadRequest, statusForKind(model.KindInvalidIdentity))
	assert.Equal(t, fiber.StatusConflict, statusForKind(model.KindIdentityEnrolled))
	assert.Equal(t, fiber.StatusGatewayTimeout, statusForKind(model.KindDeadlineExceeded))
	assert.Equal(t, fiber.StatusInternalServerError, statusForKind(""))
}
