package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/hansard/storage"
)

func TestRetryTransient_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := RetryTransient(context.Background(), func() error {
		calls++
		return nil
	}, 3, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryTransient_RetriesTransientFailures(t *testing.T) {
	calls := 0
	err := RetryTransient(context.Background(), func() error {
		calls++
		if calls < 3 {
			return storage.ErrTransient
		}
		return nil
	}, 3, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryTransient_NonTransientReturnsImmediately(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := RetryTransient(context.Background(), func() error {
		calls++
		return boom
	}, 3, time.Millisecond)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRetryTransient_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := RetryTransient(context.Background(), func() error {
		calls++
		return storage.ErrTransient
	}, 3, time.Millisecond)

	require.ErrorIs(t, err, storage.ErrTransient)
	assert.Equal(t, 3, calls)
}

func TestRetryTransient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryTransient(ctx, func() error {
		calls++
		return storage.ErrTransient
	}, 3, time.Millisecond)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestRetryTransient_InvalidMaxAttempts(t *testing.T) {
	err := RetryTransient(context.Background(), func() error { return nil }, 0, time.Millisecond)
	require.ErrorIs(t, err, ErrInvalidMaxAttempts)
}
