package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsTasks(t *testing.T) {
	p, err := New("test", DefaultConfig())
	require.NoError(t, err)
	defer p.Release()

	var wg sync.WaitGroup
	var count int64
	var mu sync.Mutex

	for i := 0; i < 50; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			mu.Lock()
			count++
			mu.Unlock()
		}))
	}
	wg.Wait()

	assert.Equal(t, int64(50), count)
	assert.Equal(t, int64(50), p.Stats().Submitted)
}

func TestSubmitAfterRelease(t *testing.T) {
	p, err := New("test", AnalyticsConfig())
	require.NoError(t, err)

	p.Release()
	p.Release() // second release is a no-op

	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolClosed)
}

func TestPanicDoesNotKillPool(t *testing.T) {
	p, err := New("test", DefaultConfig())
	require.NoError(t, err)
	defer p.Release()

	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, p.Submit(func() {
		defer wg.Done()
		panic("branch blew up")
	}))
	wg.Wait()

	// Pool still accepts work after a recovered panic.
	wg.Add(1)
	require.NoError(t, p.Submit(func() { wg.Done() }))
	wg.Wait()
}
