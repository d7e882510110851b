package ingestion

import (
	"bytes"
	"context"
	"testing"

	"github.com/poiesic/milvusprovider/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch(t *testing.T) {
	records := make([]core.Record, 7)
	for i := range records {
		records[i] = core.Record{"id": i}
	}

	tests := []struct {
		name  string
		size  int
		sizes []int
	}{
		{"no batching", 0, []int{7}},
		{"exact fit", 7, []int{7}},
		{"larger than input", 100, []int{7}},
		{"uneven", 3, []int{3, 3, 1}},
		{"single rows", 1, []int{1, 1, 1, 1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches, err := Batch(records, tt.size)
			require.NoError(t, err)
			require.Len(t, batches, len(tt.sizes))
			for i, want := range tt.sizes {
				assert.Len(t, batches[i], want)
			}
		})
	}
}

func TestBatch_SingleMapping(t *testing.T) {
	batches, err := Batch(map[string]any{"id": 1}, 10)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 1)
}

func TestBatch_Empty(t *testing.T) {
	_, err := Batch(nil, 10)
	assert.ErrorIs(t, err, core.ErrNoRecords)
}

func TestRunner_BatchedWithProgress(t *testing.T) {
	th := newTestHooks()
	var progress bytes.Buffer
	r, err := NewRunner(th.build, WithPoolSize(2), WithProgress(&progress, 1))
	require.NoError(t, err)
	defer r.Release()

	records := make([]core.Record, 10)
	for i := range records {
		records[i] = core.Record{"id": i}
	}
	batches, err := Batch(records, 4)
	require.NoError(t, err)

	var tasks []*Task
	for _, batch := range batches {
		task, err := NewTask(th.build, "docs", batch)
		require.NoError(t, err)
		tasks = append(tasks, task)
	}

	var total int64
	for _, o := range r.Run(context.Background(), tasks...) {
		require.NoError(t, o.Err)
		total += o.Result.InsertCount
	}
	assert.Equal(t, int64(10), total)
	assert.Equal(t, 1, th.factory.Constructions())
	assert.Contains(t, progress.String(), "3/3 tasks (100.0%)")
	assert.Contains(t, progress.String(), "10 rows")
}
