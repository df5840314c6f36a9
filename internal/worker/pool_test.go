package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolPreservesOrder(t *testing.T) {
	pool := NewPool(4, func(_ context.Context, n int) (int, error) {
		if n == 3 {
			return 0, errors.New("three")
		}
		return n * n, nil
	})

	inputs := []int{1, 2, 3, 4, 5, 6, 7, 8}
	results := pool.Execute(context.Background(), inputs)
	require.Len(t, results, len(inputs))

	for i, r := range results {
		assert.Equal(t, inputs[i], r.Input)
		if r.Input == 3 {
			assert.EqualError(t, r.Err, "three")
			continue
		}
		require.NoError(t, r.Err)
		assert.Equal(t, r.Input*r.Input, r.Result)
	}
}

func TestPoolCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	pool := NewPool(0, func(_ context.Context, n int) (int, error) {
		calls.Add(1)
		return n, nil
	})

	results := pool.Execute(ctx, []int{1, 2, 3})
	require.Len(t, results, 3)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			assert.ErrorIs(t, r.Err, context.Canceled)
			failed++
		}
	}
	assert.Equal(t, 3, failed+int(calls.Load()))
}

func TestBatch(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Batch([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1}, {2}}, Batch([]int{1, 2}, 0))
	assert.Nil(t, Batch([]int{}, 3))
}
