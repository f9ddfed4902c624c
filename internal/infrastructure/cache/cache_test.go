package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/logging"
)

// unreachableCache builds a Cache whose backend connection always fails.
// Every Get degrades to a miss and every Set is a silent no-op, which is
// exactly the contract under backend trouble.
func unreachableCache() *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 50 * time.Millisecond,
			ReadTimeout: 50 * time.Millisecond,
			MaxRetries:  -1,
		}),
		keyPrefix:  "test:",
		defaultTTL: time.Minute,
		logger:     logging.NewNopLogger(),
	}
}

func TestGet_MissWhenBackendDown(t *testing.T) {
	c := unreachableCache()
	defer c.Close()

	var dest string
	err := c.Get(context.Background(), "k", &dest)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSet_SilentWhenBackendDown(t *testing.T) {
	c := unreachableCache()
	defer c.Close()

	assert.NotPanics(t, func() {
		c.Set(context.Background(), "k", map[string]int{"a": 1}, 0)
	})
}

func TestGetOrSet_ComputesOnMiss(t *testing.T) {
	c := unreachableCache()
	defer c.Close()

	var dest map[string]int
	err := c.GetOrSet(context.Background(), "k", 0, &dest,
		func(context.Context) (any, error) {
			return map[string]int{"answer": 42}, nil
		})
	require.NoError(t, err)
	assert.Equal(t, 42, dest["answer"])
}

func TestGetOrSet_PropagatesComputeError(t *testing.T) {
	c := unreachableCache()
	defer c.Close()

	wantErr := assert.AnError
	var dest string
	err := c.GetOrSet(context.Background(), "k", 0, &dest,
		func(context.Context) (any, error) { return nil, wantErr })
	assert.ErrorIs(t, err, wantErr)
}

func TestGetOrSet_CollapsesConcurrentComputes(t *testing.T) {
	c := unreachableCache()
	defer c.Close()

	var calls int32
	gate := make(chan struct{})
	compute := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-gate
		return "value", nil
	}

	const n = 8
	var wg sync.WaitGroup
	results := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var dest string
			if err := c.GetOrSet(context.Background(), "hot", 0, &dest, compute); err == nil {
				results[i] = dest
			}
		}(i)
	}

	// Give every goroutine time to join the in-flight call, then release.
	time.Sleep(300 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, "value", r)
	}
}
