package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/fingerprint-server/internal/mocks"
	"github.com/dtroode/fingerprint-server/internal/model"
	"github.com/dtroode/fingerprint-server/internal/notify"
	"github.com/dtroode/fingerprint-server/internal/testutil"
)

type fingerprintFixture struct {
	sensor *mocks.Sensor
	store  *mocks.TemplateStore
	hub    *notify.Hub
	events *notify.Subscription
	svc    *Fingerprint
}

func newFingerprintFixture(t *testing.T, open bool) *fingerprintFixture {
	t.Helper()

	lg := testutil.MakeNoopLogger()
	f := &fingerprintFixture{
		sensor: mocks.NewSensor(t),
		store:  mocks.NewTemplateStore(t),
		hub:    notify.NewHub(64, lg),
	}
	f.events = f.hub.Subscribe()
	t.Cleanup(f.hub.Close)

	session := NewSensorSession(f.sensor, "", f.hub, lg)
	acquirer := NewAcquirer(f.sensor, fastOptions(), f.hub, lg)
	matcher := NewMatcher(f.store, f.sensor, lg)
	enroller := NewEnroller(acquirer, matcher, f.sensor, f.store, nil, f.hub, lg)
	f.svc = NewFingerprint(session, acquirer, matcher, enroller, f.store, f.hub, lg)

	if open {
		f.sensor.On("Init").Return(nil).Once()
		f.sensor.On("DeviceCount").Return(1).Once()
		f.sensor.On("Open", 0).Return(testHandle, nil).Once()
		_, err := f.svc.OpenDevice(context.Background())
		require.NoError(t, err)
	}
	return f
}

// drain returns the kinds of events published so far.
func (f *fingerprintFixture) drain() []model.EventKind {
	var kinds []model.EventKind
	for {
		select {
		case ev := <-f.events.C:
			kinds = append(kinds, ev.Kind)
		default:
			return kinds
		}
	}
}

func TestFingerprint_Verify(t *testing.T) {
	t.Parallel()

	live := sampleOf(4)
	bob := enrolledAs("bob", 9)

	tests := []struct {
		name      string
		score     int
		wantMatch bool
		wantEvent model.EventKind
	}{
		{name: "score 80 verifies", score: 80, wantMatch: true, wantEvent: model.EventVerifyMatched},
		{name: "score 70 rejects", score: 70, wantMatch: false, wantEvent: model.EventVerifyRejected},
		{name: "score 76 verifies", score: 76, wantMatch: true, wantEvent: model.EventVerifyMatched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFingerprintFixture(t, true)
			f.sensor.On("Acquire", mock.Anything, testHandle).Return(live, nil).Once()
			f.store.On("FindByIdentity", mock.Anything, "bob").Return(bob, nil).Once()
			f.sensor.On("Score", live.Template, bob.Template).Return(tt.score).Once()

			res, err := f.svc.Verify(context.Background(), "bob")
			require.NoError(t, err)
			assert.Equal(t, tt.wantMatch, res.Matched)
			assert.Equal(t, tt.score, res.Score)
			assert.Equal(t, 1, res.Attempts)
			assert.Contains(t, f.drain(), tt.wantEvent)
		})
	}
}

func TestFingerprint_Verify_UnknownIdentity(t *testing.T) {
	t.Parallel()

	f := newFingerprintFixture(t, true)
	f.sensor.On("Acquire", mock.Anything, testHandle).Return(sampleOf(4), nil).Once()
	f.store.On("FindByIdentity", mock.Anything, "alice").Return(model.EnrolledTemplate{}, model.ErrNotFound).Once()

	res, err := f.svc.Verify(context.Background(), "alice")
	require.ErrorIs(t, err, model.ErrNoStoredTemplate)
	assert.Equal(t, model.KindNoStoredTemplate, model.Kind(err))
	assert.False(t, res.Matched)
	f.sensor.AssertNotCalled(t, "Score", mock.Anything, mock.Anything)
	assert.Contains(t, f.drain(), model.EventVerifyUnknownIdentity)
}

func TestFingerprint_Verify_DeviceNotOpen(t *testing.T) {
	t.Parallel()

	f := newFingerprintFixture(t, false)

	_, err := f.svc.Verify(context.Background(), "bob")
	require.ErrorIs(t, err, model.ErrDeviceNotOpen)
	assert.Equal(t, model.KindDeviceNotOpen, model.Kind(err))
}

func TestFingerprint_Verify_CaptureExhausted(t *testing.T) {
	t.Parallel()

	f := newFingerprintFixture(t, true)
	f.sensor.On("Acquire", mock.Anything, testHandle).Return(model.Sample{}, model.ErrNoClearScan).Times(5)

	_, err := f.svc.Verify(context.Background(), "bob")
	require.ErrorIs(t, err, model.ErrCaptureExhausted)
	f.store.AssertNotCalled(t, "FindByIdentity", mock.Anything, mock.Anything)
}

func TestFingerprint_Enroll(t *testing.T) {
	t.Parallel()

	f := newFingerprintFixture(t, true)
	merged := model.Template{1, 2, 3}
	f.store.On("FindByIdentity", mock.Anything, "carol").Return(model.EnrolledTemplate{}, model.ErrNotFound).Twice()
	f.sensor.On("Acquire", mock.Anything, testHandle).Return(sampleOf(1), nil).Times(3)
	f.sensor.On("Fuse", mock.Anything, mock.Anything, mock.Anything).Return(merged, nil).Once()
	f.store.On("ListAll", mock.Anything).Return([]model.EnrolledTemplate{}, nil).Once()
	f.store.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()

	res, err := f.svc.Enroll(context.Background(), "carol")
	require.NoError(t, err)
	assert.Equal(t, merged, res.Template)

	kinds := f.drain()
	assert.Contains(t, kinds, model.EventEnrollCompleted)
	assert.Contains(t, kinds, model.EventSessionReset)
}

func TestFingerprint_Enroll_DeviceNotOpen(t *testing.T) {
	t.Parallel()

	f := newFingerprintFixture(t, false)

	_, err := f.svc.Enroll(context.Background(), "carol")
	require.ErrorIs(t, err, model.ErrDeviceNotOpen)
	f.store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestFingerprint_CheckDuplicate(t *testing.T) {
	t.Parallel()

	alice := enrolledAs("alice", 1)
	candidate := model.Template{1, 1, 1, 1}

	f := newFingerprintFixture(t, false)
	f.store.On("ListAll", mock.Anything).Return([]model.EnrolledTemplate{alice}, nil).Once()
	f.sensor.On("Score", candidate, alice.Template).Return(99).Once()

	check, err := f.svc.CheckDuplicate(context.Background(), candidate)
	require.NoError(t, err)
	assert.True(t, check.IsDuplicate)
	assert.Equal(t, "alice", check.MatchedIdentity.OrEmpty())

	_, err = f.svc.CheckDuplicate(context.Background(), nil)
	assert.ErrorIs(t, err, model.ErrInvalidTemplate)
}

func TestFingerprint_ListEnrollments(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	all := []model.EnrolledTemplate{
		{ID: uuid.New(), Identity: "alice", Template: model.Template{1}, CreatedAt: created},
		{ID: uuid.New(), Identity: "bob", Template: model.Template{2}, CreatedAt: created.Add(time.Hour)},
	}

	f := newFingerprintFixture(t, false)
	f.store.On("ListAll", mock.Anything).Return(all, nil).Once()

	got, err := f.svc.ListEnrollments(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.Enrollment{ID: all[0].ID, Identity: "alice", CreatedAt: created}, got[0])
	assert.Equal(t, "bob", got[1].Identity)
}

func TestFingerprint_DeviceLifecycle(t *testing.T) {
	t.Parallel()

	f := newFingerprintFixture(t, true)
	f.sensor.On("Close", testHandle).Return(nil).Once()
	f.sensor.On("Shutdown").Return(nil).Once()

	h, ok := f.svc.DeviceStatus()
	assert.True(t, ok)
	assert.Equal(t, testHandle, h)

	require.NoError(t, f.svc.CloseDevice(context.Background()))

	_, ok = f.svc.DeviceStatus()
	assert.False(t, ok)
	assert.Equal(t, []model.EventKind{model.EventDeviceOpened, model.EventDeviceClosed}, f.drain())
}
