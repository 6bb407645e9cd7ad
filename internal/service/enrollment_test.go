package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/fingerprint-server/internal/mocks"
	"github.com/dtroode/fingerprint-server/internal/model"
	"github.com/dtroode/fingerprint-server/internal/repository/memory"
	"github.com/dtroode/fingerprint-server/internal/testutil"
)

type enrollFixture struct {
	sensor   *mocks.Sensor
	store    *mocks.TemplateStore
	archiver *mocks.Archiver
	events   *testutil.EventRecorder
	enroller *Enroller
}

func newEnrollFixture(t *testing.T, withArchiver bool) *enrollFixture {
	t.Helper()

	f := &enrollFixture{
		sensor: mocks.NewSensor(t),
		store:  mocks.NewTemplateStore(t),
		events: &testutil.EventRecorder{},
	}
	lg := testutil.MakeNoopLogger()

	var archiver model.Archiver
	if withArchiver {
		f.archiver = mocks.NewArchiver(t)
		archiver = f.archiver
	}

	acquirer := NewAcquirer(f.sensor, fastOptions(), f.events, lg)
	matcher := NewMatcher(f.store, f.sensor, lg)
	f.enroller = NewEnroller(acquirer, matcher, f.sensor, f.store, archiver, f.events, lg)
	return f
}

func TestEnroller_Enroll_Success(t *testing.T) {
	t.Parallel()

	t1, t2, t3 := sampleOf(1), sampleOf(2), sampleOf(3)
	merged := model.Template{0xA, 0xB, 0xC}
	alice := enrolledAs("alice", 0xF)

	f := newEnrollFixture(t, false)
	f.store.On("FindByIdentity", mock.Anything, "carol").Return(model.EnrolledTemplate{}, model.ErrNotFound).Twice()
	f.sensor.On("Acquire", mock.Anything, testHandle).Return(t1, nil).Once()
	f.sensor.On("Acquire", mock.Anything, testHandle).Return(t2, nil).Once()
	f.sensor.On("Acquire", mock.Anything, testHandle).Return(t3, nil).Once()
	f.sensor.On("Fuse", t1.Template, t2.Template, t3.Template).Return(merged, nil).Once()
	f.store.On("ListAll", mock.Anything).Return([]model.EnrolledTemplate{alice}, nil).Once()
	f.sensor.On("Score", merged, alice.Template).Return(30).Once()
	f.store.On("Insert", mock.Anything, mock.MatchedBy(func(e model.EnrolledTemplate) bool {
		return e.Identity == "carol" && bytes.Equal(e.Template, merged)
	})).Return(nil).Once()

	res, err := f.enroller.Enroll(context.Background(), testHandle, "carol")
	require.NoError(t, err)

	assert.Equal(t, "carol", res.Identity)
	assert.Equal(t, merged, res.Template)
	assert.Equal(t, 3, res.Attempts)
	assert.NotEqual(t, uuid.Nil, res.EnrollmentID)
	assert.False(t, res.CreatedAt.IsZero())
	f.store.AssertNumberOfCalls(t, "Insert", 1)

	assert.Equal(t, []model.EventKind{
		model.EventEnrollStarted,
		model.EventScanSucceeded,
		model.EventScanSucceeded,
		model.EventScanSucceeded,
		model.EventEnrollCompleted,
		model.EventSessionReset,
	}, f.events.Kinds())

	remaining := f.events.OfKind(model.EventScanSucceeded)
	assert.Equal(t, "2", remaining[0].Context["remaining"])
	assert.Equal(t, "1", remaining[1].Context["remaining"])
	assert.Equal(t, "0", remaining[2].Context["remaining"])
}

func TestEnroller_Enroll_CaptureFailureWritesNothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		failScan int
		failErr  error
	}{
		{name: "first scan exhausted", failScan: 1, failErr: model.ErrNoClearScan},
		{name: "second scan fatal", failScan: 2, failErr: &model.CaptureFatalError{Code: -7}},
		{name: "third scan exhausted", failScan: 3, failErr: model.ErrNoClearScan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newEnrollFixture(t, false)
			f.store.On("FindByIdentity", mock.Anything, "carol").Return(model.EnrolledTemplate{}, model.ErrNotFound).Once()
			if tt.failScan > 1 {
				f.sensor.On("Acquire", mock.Anything, testHandle).Return(sampleOf(1), nil).Times(tt.failScan - 1)
			}
			f.sensor.On("Acquire", mock.Anything, testHandle).Return(model.Sample{}, tt.failErr)

			_, err := f.enroller.Enroll(context.Background(), testHandle, "carol")
			require.ErrorIs(t, err, model.ErrInsufficientScans)
			assert.Equal(t, model.KindInsufficientScans, model.Kind(err))

			if errors.Is(tt.failErr, model.ErrNoClearScan) {
				assert.ErrorIs(t, err, model.ErrCaptureExhausted)
			} else {
				var fatal *model.CaptureFatalError
				assert.True(t, errors.As(err, &fatal))
			}

			f.sensor.AssertNotCalled(t, "Fuse", mock.Anything, mock.Anything, mock.Anything)
			f.store.AssertNotCalled(t, "ListAll", mock.Anything)
			f.store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
			assert.Len(t, f.events.OfKind(model.EventEnrollFailed), 1)
		})
	}
}

func TestEnroller_Enroll_FusionFailed(t *testing.T) {
	t.Parallel()

	f := newEnrollFixture(t, false)
	f.store.On("FindByIdentity", mock.Anything, "carol").Return(model.EnrolledTemplate{}, model.ErrNotFound).Once()
	f.sensor.On("Acquire", mock.Anything, testHandle).Return(sampleOf(1), nil).Times(3)
	f.sensor.On("Fuse", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("merge code -22")).Once()

	_, err := f.enroller.Enroll(context.Background(), testHandle, "carol")
	require.ErrorIs(t, err, model.ErrFusionFailed)
	assert.Equal(t, model.KindFusionFailed, model.Kind(err))
	f.store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestEnroller_Enroll_DuplicateFingerRejected(t *testing.T) {
	t.Parallel()

	merged := model.Template{0xA}
	alice := enrolledAs("alice", 0xA)

	f := newEnrollFixture(t, false)
	f.store.On("FindByIdentity", mock.Anything, "mallory").Return(model.EnrolledTemplate{}, model.ErrNotFound).Twice()
	f.sensor.On("Acquire", mock.Anything, testHandle).Return(sampleOf(0xA), nil).Times(3)
	f.sensor.On("Fuse", mock.Anything, mock.Anything, mock.Anything).Return(merged, nil).Once()
	f.store.On("ListAll", mock.Anything).Return([]model.EnrolledTemplate{alice}, nil).Once()
	f.sensor.On("Score", merged, alice.Template).Return(92).Once()

	_, err := f.enroller.Enroll(context.Background(), testHandle, "mallory")
	require.Error(t, err)

	var duplicate *model.DuplicateEnrollmentError
	require.True(t, errors.As(err, &duplicate))
	assert.Equal(t, "alice", duplicate.Identity)
	assert.Equal(t, model.KindDuplicateEnrollment, model.Kind(err))
	f.store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)

	dup := f.events.OfKind(model.EventEnrollDuplicate)
	require.Len(t, dup, 1)
	assert.Equal(t, "alice", dup[0].Context["matched_identity"])
	assert.Empty(t, f.events.OfKind(model.EventEnrollCompleted))
}

func TestEnroller_Enroll_IdentityAlreadyEnrolled(t *testing.T) {
	t.Parallel()

	f := newEnrollFixture(t, false)
	f.store.On("FindByIdentity", mock.Anything, "alice").Return(enrolledAs("alice", 1), nil).Once()

	_, err := f.enroller.Enroll(context.Background(), testHandle, "alice")
	require.ErrorIs(t, err, model.ErrIdentityEnrolled)
	f.sensor.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestEnroller_Enroll_InsertConflict(t *testing.T) {
	t.Parallel()

	f := newEnrollFixture(t, false)
	f.store.On("FindByIdentity", mock.Anything, "carol").Return(model.EnrolledTemplate{}, model.ErrNotFound).Twice()
	f.sensor.On("Acquire", mock.Anything, testHandle).Return(sampleOf(1), nil).Times(3)
	f.sensor.On("Fuse", mock.Anything, mock.Anything, mock.Anything).Return(model.Template{1}, nil).Once()
	f.store.On("ListAll", mock.Anything).Return([]model.EnrolledTemplate{}, nil).Once()
	f.store.On("Insert", mock.Anything, mock.Anything).Return(model.ErrAlreadyExists).Once()

	_, err := f.enroller.Enroll(context.Background(), testHandle, "carol")
	require.ErrorIs(t, err, model.ErrIdentityEnrolled)
	assert.Equal(t, model.KindIdentityEnrolled, model.Kind(err))
}

func TestEnroller_Enroll_StoreUnavailable(t *testing.T) {
	t.Parallel()

	f := newEnrollFixture(t, false)
	f.store.On("FindByIdentity", mock.Anything, "carol").Return(model.EnrolledTemplate{}, model.ErrStoreUnavailable).Once()

	_, err := f.enroller.Enroll(context.Background(), testHandle, "carol")
	require.ErrorIs(t, err, model.ErrStoreUnavailable)
	assert.Equal(t, model.KindStoreUnavailable, model.Kind(err))
	f.sensor.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything)
}

func TestEnroller_Enroll_InvalidIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		identity string
	}{
		{name: "empty", identity: ""},
		{name: "padded", identity: " alice "},
		{name: "too long", identity: strings.Repeat("a", model.MaxIdentityLength+1)},
		{name: "invalid utf8", identity: string([]byte{0xff, 0xfe})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newEnrollFixture(t, false)
			_, err := f.enroller.Enroll(context.Background(), testHandle, tt.identity)
			require.ErrorIs(t, err, model.ErrInvalidIdentity)
			f.store.AssertNotCalled(t, "FindByIdentity", mock.Anything, mock.Anything)
		})
	}
}

func TestEnroller_Enroll_ArchivesScans(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		archiveErr error
	}{
		{name: "archived"},
		{name: "archive failure is not returned", archiveErr: errors.New("bucket missing")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newEnrollFixture(t, true)
			f.store.On("FindByIdentity", mock.Anything, "carol").Return(model.EnrolledTemplate{}, model.ErrNotFound).Twice()
			f.sensor.On("Acquire", mock.Anything, testHandle).Return(sampleOf(1), nil).Times(3)
			f.sensor.On("Fuse", mock.Anything, mock.Anything, mock.Anything).Return(model.Template{1}, nil).Once()
			f.store.On("ListAll", mock.Anything).Return([]model.EnrolledTemplate{}, nil).Once()
			f.store.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()
			f.archiver.On("Archive", mock.Anything, mock.MatchedBy(func(a model.ScanArchive) bool {
				return a.Identity == "carol" && len(a.Scans) == EnrollScans
			})).Return(tt.archiveErr).Once()

			res, err := f.enroller.Enroll(context.Background(), testHandle, "carol")
			require.NoError(t, err)
			assert.Equal(t, "carol", res.Identity)

			if tt.archiveErr != nil {
				assert.Len(t, f.events.OfKind(model.EventArchiveFailed), 1)
			} else {
				assert.Empty(t, f.events.OfKind(model.EventArchiveFailed))
			}
		})
	}
}

func TestEnroller_Enroll_ConcurrentSameFinger(t *testing.T) {
	t.Parallel()

	finger := model.Template{0x5, 0x5, 0x5, 0x5}
	sensor := mocks.NewSensor(t)
	sensor.On("Acquire", mock.Anything, mock.Anything).Return(model.Sample{Template: finger}, nil)
	sensor.On("Fuse", mock.Anything, mock.Anything, mock.Anything).Return(finger, nil)
	sensor.On("Score", mock.Anything, mock.Anything).Return(func(a, b model.Template) int {
		if bytes.Equal(a, b) {
			return 100
		}
		return 0
	})

	store := memory.NewStore()
	events := &testutil.EventRecorder{}
	lg := testutil.MakeNoopLogger()
	acquirer := NewAcquirer(sensor, fastOptions(), events, lg)
	enroller := NewEnroller(acquirer, NewMatcher(store, sensor, lg), sensor, store, nil, events, lg)

	identities := []string{"alice", "mallory"}
	errs := make([]error, len(identities))

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, identity := range identities {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, errs[i] = enroller.Enroll(context.Background(), testHandle, identity)
		}()
	}
	close(start)
	wg.Wait()

	var ok, duplicates int
	for _, err := range errs {
		var duplicate *model.DuplicateEnrollmentError
		switch {
		case err == nil:
			ok++
		case errors.As(err, &duplicate):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, duplicates)
	assert.Equal(t, 1, store.Len())
}

func TestValidateIdentity(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateIdentity("alice"))
	assert.NoError(t, ValidateIdentity("employee-4711"))
	assert.NoError(t, ValidateIdentity(strings.Repeat("a", model.MaxIdentityLength)))
	assert.ErrorIs(t, ValidateIdentity("\talice"), model.ErrInvalidIdentity)
}
