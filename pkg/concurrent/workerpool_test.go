// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPool(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  int
	}{
		{"positive", 4, 4},
		{"zero falls back to one", 0, 1},
		{"negative falls back to one", -3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewWorkerPool(tt.count).Size())
		})
	}
}

func TestWorkerPool_RunAll_Empty(t *testing.T) {
	assert.Nil(t, NewWorkerPool(3).RunAll(context.Background()))
}

func TestWorkerPool_RunAll_IndexAlignedErrors(t *testing.T) {
	pool := NewWorkerPool(3)
	failure := errors.New("member 2 failed")

	var executed int64
	errs := pool.RunAll(context.Background(),
		func(context.Context) error { atomic.AddInt64(&executed, 1); return nil },
		func(context.Context) error { atomic.AddInt64(&executed, 1); return failure },
		func(context.Context) error {
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&executed, 1)
			return nil
		},
	)

	require.Len(t, errs, 3)
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], failure)
	assert.NoError(t, errs[2])
	assert.Equal(t, int64(3), atomic.LoadInt64(&executed))
}

func TestWorkerPool_RunAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executed atomic.Bool
	errs := NewWorkerPool(2).RunAll(ctx,
		func(context.Context) error { executed.Store(true); return nil },
		func(context.Context) error { executed.Store(true); return nil },
	)

	assert.False(t, executed.Load())
	for _, err := range errs {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestWorkerPool_RespectsLimit(t *testing.T) {
	pool := NewWorkerPool(2)

	var running, peak int64
	jobs := make([]Job, 8)
	for i := range jobs {
		jobs[i] = func(context.Context) error {
			now := atomic.AddInt64(&running, 1)
			for {
				old := atomic.LoadInt64(&peak)
				if now <= old || atomic.CompareAndSwapInt64(&peak, old, now) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&running, -1)
			return nil
		}
	}

	for _, err := range pool.RunAll(context.Background(), jobs...) {
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
}

func TestForEach(t *testing.T) {
	members := []string{"alice", "bob", "carol"}
	errs := ForEach(context.Background(), NewWorkerPool(2), members, func(_ context.Context, name string) error {
		if name == "bob" {
			return errors.New("not connected")
		}
		return nil
	})

	require.Len(t, errs, 3)
	assert.NoError(t, errs[0])
	assert.EqualError(t, errs[1], "not connected")
	assert.NoError(t, errs[2])
}
