package ingest

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolQueue_RunsAllTasks(t *testing.T) {
	queue, err := NewPoolQueue(2)
	require.NoError(t, err)
	defer queue.Release()

	var mu sync.Mutex
	var wg sync.WaitGroup
	ran := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		require.NoError(t, queue.Enqueue(func() {
			defer wg.Done()
			mu.Lock()
			ran++
			mu.Unlock()
		}))
	}
	wg.Wait()

	assert.Equal(t, 10, ran)
}

func TestPoolQueue_MinimumSize(t *testing.T) {
	queue, err := NewPoolQueue(0)
	require.NoError(t, err)
	defer queue.Release()

	done := make(chan struct{})
	require.NoError(t, queue.Enqueue(func() { close(done) }))
	<-done
}

func TestInlineQueue_RunsSynchronously(t *testing.T) {
	queue := &InlineQueue{}
	defer queue.Release()

	ran := false
	require.NoError(t, queue.Enqueue(func() { ran = true }))
	assert.True(t, ran, "task must have completed before Enqueue returns")
}
