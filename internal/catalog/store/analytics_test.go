package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopstack-io/shopstack/pkg/component/mongodb"
	"github.com/shopstack-io/shopstack/pkg/infra/pool"
)

func newTestDatastore(t *testing.T) *Datastore {
	t.Helper()

	client, err := mongodb.NewClient(mongodb.NewOptions())
	require.NoError(t, err)

	workers, err := pool.New("analytics-test", pool.AnalyticsConfig())
	require.NoError(t, err)
	t.Cleanup(workers.Release)

	return New(client, workers)
}

func TestRunBranchesJoinsAll(t *testing.T) {
	ds := newTestDatastore(t)

	var mu sync.Mutex
	ran := map[string]bool{}
	mark := func(name string) func(context.Context) error {
		return func(context.Context) error {
			mu.Lock()
			ran[name] = true
			mu.Unlock()
			return nil
		}
	}

	branches := []branch{
		{"a", mark("a")},
		{"b", mark("b")},
		{"c", mark("c")},
	}

	errs := ds.runBranches(context.Background(), branches)

	require.Len(t, errs, 3)
	for i, err := range errs {
		assert.NoError(t, err, "branch %d", i)
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, ran)
}

func TestRunBranchesIsolatesFailures(t *testing.T) {
	ds := newTestDatastore(t)

	boom := errors.New("aggregation failed")
	branches := []branch{
		{"ok", func(context.Context) error { return nil }},
		{"broken", func(context.Context) error { return boom }},
		{"slow-ok", func(context.Context) error {
			time.Sleep(10 * time.Millisecond)
			return nil
		}},
	}

	errs := ds.runBranches(context.Background(), branches)

	require.Len(t, errs, 3)
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], boom)
	assert.NoError(t, errs[2])
}

func TestRunBranchesConcurrent(t *testing.T) {
	ds := newTestDatastore(t)

	// With sequential execution three 50ms branches take 150ms; the
	// fan-out should finish well under that.
	var branches []branch
	for i := 0; i < 3; i++ {
		branches = append(branches, branch{"sleep", func(context.Context) error {
			time.Sleep(50 * time.Millisecond)
			return nil
		}})
	}

	start := time.Now()
	errs := ds.runBranches(context.Background(), branches)
	elapsed := time.Since(start)

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Less(t, elapsed, 120*time.Millisecond)
}

func TestRunBranchesPropagatesDeadline(t *testing.T) {
	ds := newTestDatastore(t)

	branches := []branch{
		{"deadline", func(ctx context.Context) error {
			deadline, ok := ctx.Deadline()
			if !ok {
				return errors.New("expected a branch deadline")
			}
			if time.Until(deadline) > branchTimeout {
				return errors.New("deadline looser than the branch budget")
			}
			return nil
		}},
	}

	errs := ds.runBranches(context.Background(), branches)
	require.Len(t, errs, 1)
	assert.NoError(t, errs[0])
}

func TestRunBranchesClosedPoolFailsSlot(t *testing.T) {
	ds := newTestDatastore(t)
	ds.workers.Release()

	branches := []branch{
		{"never-runs", func(context.Context) error { return nil }},
	}

	errs := ds.runBranches(context.Background(), branches)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], pool.ErrPoolClosed)
}

func TestDashboardAnalyticsRequiresConnection(t *testing.T) {
	ds := newTestDatastore(t)

	snap, err := ds.DashboardAnalytics(context.Background())
	assert.Nil(t, snap)
	assert.Error(t, err)
}
