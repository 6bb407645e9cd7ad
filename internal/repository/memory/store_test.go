package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/fingerprint-server/internal/model"
)

func newEnrolled(identity string) model.EnrolledTemplate {
	return model.EnrolledTemplate{
		ID:        uuid.New(),
		Identity:  identity,
		Template:  model.Template(identity),
		CreatedAt: time.Now().UTC(),
	}
}

func TestStore_InsertAndFind(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStore()

	alice := newEnrolled("alice")
	require.NoError(t, s.Insert(ctx, alice))

	got, err := s.FindByIdentity(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	_, err = s.FindByIdentity(ctx, "bob")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestStore_InsertDuplicateIdentity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Insert(ctx, newEnrolled("alice")))
	err := s.Insert(ctx, newEnrolled("alice"))
	assert.ErrorIs(t, err, model.ErrAlreadyExists)
	assert.Equal(t, 1, s.Len())
}

func TestStore_ListAllKeepsInsertionOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStore()

	names := []string{"zed", "alice", "mike", "bob"}
	for _, n := range names {
		require.NoError(t, s.Insert(ctx, newEnrolled(n)))
	}

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(names))
	for i, n := range names {
		assert.Equal(t, n, all[i].Identity)
	}
}

func TestStore_InsertCopiesTemplate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStore()

	e := newEnrolled("alice")
	require.NoError(t, s.Insert(ctx, e))
	e.Template[0] = 'X'

	got, err := s.FindByIdentity(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.Template("alice"), got.Template)
}

func TestStore_ReadsReturnCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Insert(ctx, newEnrolled("alice")))

	found, err := s.FindByIdentity(ctx, "alice")
	require.NoError(t, err)
	found.Template[0] = 'X'

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.Template("alice"), all[0].Template)
	all[0].Template[1] = 'Y'

	again, err := s.FindByIdentity(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.Template("alice"), again.Template)
}

func TestStore_ConcurrentInsertSameIdentity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStore()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Insert(ctx, newEnrolled("same"))
		}()
	}
	wg.Wait()
	close(errs)

	var ok, exists int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, model.ErrAlreadyExists):
			exists++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 15, exists)
}

func TestStore_ManyIdentities(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStore()

	for i := 0; i < 100; i++ {
		require.NoError(t, s.Insert(ctx, newEnrolled(fmt.Sprintf("user-%03d", i))))
	}
	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 100)
	assert.Equal(t, "user-099", all[99].Identity)
}
