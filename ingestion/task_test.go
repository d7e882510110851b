package ingestion

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	aimock "github.com/poiesic/milvusprovider/ai/mock"
	"github.com/poiesic/milvusprovider/core"
	"github.com/poiesic/milvusprovider/hook"
	"github.com/poiesic/milvusprovider/hook/mock"
	"github.com/poiesic/milvusprovider/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHooks builds hooks against a static registry and counts how many it made.
type testHooks struct {
	resolver *registry.Resolver
	factory  *mock.MockFactory
	created  atomic.Int64
}

func newTestHooks(conns ...*core.Connection) *testHooks {
	if len(conns) == 0 {
		conns = []*core.Connection{{ID: core.DefaultConnID, URI: "http://localhost:19530"}}
	}
	return &testHooks{
		resolver: registry.NewResolver(registry.NewStaticSource(conns...)),
		factory:  mock.NewMockFactory(),
	}
}

func (th *testHooks) build(connID string) (*hook.Hook, error) {
	th.created.Add(1)
	return hook.New(th.resolver, th.factory.Build, hook.WithConnID(connID))
}

func TestNewTask_Options(t *testing.T) {
	th := newTestHooks()

	_, err := NewTask(nil, "docs", core.Record{"id": 1})
	assert.ErrorIs(t, err, ErrHookFactoryRequired)

	_, err = NewTask(th.build, "docs", core.Record{"id": 1}, WithConnID(""))
	assert.ErrorIs(t, err, core.ErrInvalidConnectionID)

	_, err = NewTask(th.build, "docs", core.Record{"id": 1}, WithEmbedder("text", "vector", nil))
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewTask(th.build, "docs", core.Record{"id": 1}, WithEmbedder("", "vector", aimock.NewMockEmbedder()))
	assert.ErrorIs(t, err, ErrEmbeddingFieldsRequired)

	_, err = NewTask(th.build, "docs", core.Record{"id": 1}, WithTimeout(0))
	assert.ErrorIs(t, err, ErrInvalidTimeout)

	_, err = NewTask(th.build, "docs", core.Record{"id": 1}, WithTimeout(-time.Second))
	assert.ErrorIs(t, err, ErrInvalidTimeout)

	task, err := NewTask(th.build, "docs", core.Record{"id": 1})
	require.NoError(t, err)
	assert.Equal(t, core.DefaultConnID, task.ConnID())
	assert.Equal(t, "docs", task.Collection())
}

func TestExecute_SingleMappingNormalized(t *testing.T) {
	th := newTestHooks()
	task, err := NewTask(th.build, "docs", map[string]any{"id": 7, "text": "hello"})
	require.NoError(t, err)

	result, err := task.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.InsertCount)
	assert.Equal(t, []any{int64(1)}, result.IDs)

	requests := th.factory.Last().Requests()
	require.Len(t, requests, 1)
	require.Len(t, requests[0].Records, 1)
	assert.Equal(t, "hello", requests[0].Records[0]["text"])
}

func TestExecute_ForwardsPartitionAndTimeout(t *testing.T) {
	th := newTestHooks()
	data := []map[string]any{{"id": 1}, {"id": 2}, {"id": 3}}
	task, err := NewTask(th.build, "docs", data,
		WithPartition("2025_10"),
		WithTimeout(3*time.Second),
	)
	require.NoError(t, err)

	result, err := task.Execute(context.Background(), &TaskContext{RunID: "manual__1"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.InsertCount)

	req := th.factory.Last().Requests()[0]
	assert.Equal(t, "docs", req.CollectionName)
	assert.Equal(t, "2025_10", req.PartitionName)
	require.NotNil(t, req.Timeout)
	assert.Equal(t, 3*time.Second, *req.Timeout)
	assert.Len(t, req.Records, 3)
}

func TestExecute_InsertErrorPropagatedUnchanged(t *testing.T) {
	insertErr := errors.New("schema mismatch: field vector missing")
	th := newTestHooks()
	th.factory.Configure = func(c *mock.MockClient) {
		c.InsertFunc = func(ctx context.Context, req *core.IngestRequest) (*core.InsertResult, error) {
			return nil, insertErr
		}
	}
	task, err := NewTask(th.build, "docs", core.Record{"id": 1})
	require.NoError(t, err)

	result, err := task.Execute(context.Background(), nil)
	assert.Nil(t, result)
	assert.Same(t, insertErr, err)
	assert.Equal(t, 1, th.factory.Last().InsertCalls())
}

func TestExecute_InvalidPayload(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		data       any
		wantErr    error
	}{
		{"empty collection", "", core.Record{"id": 1}, core.ErrEmptyCollectionName},
		{"nil data", "docs", nil, core.ErrNoRecords},
		{"empty sequence", "docs", []core.Record{}, core.ErrNoRecords},
		{"empty mapping", "docs", map[string]any{}, core.ErrNoRecords},
		{"unsupported data", "docs", "not a record", core.ErrUnsupportedData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := newTestHooks()
			task, err := NewTask(th.build, tt.collection, tt.data)
			require.NoError(t, err)

			_, err = task.Execute(context.Background(), nil)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, core.ErrInvalidIngestRequest)
			assert.Equal(t, 0, th.factory.Constructions())
		})
	}
}

func TestExecute_ConnectionNotFound(t *testing.T) {
	th := newTestHooks()
	task, err := NewTask(th.build, "docs", core.Record{"id": 1}, WithConnID("missing"))
	require.NoError(t, err)

	_, err = task.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrConnectionNotFound)
	assert.Equal(t, 0, th.factory.Constructions())
}

func TestExecute_ReusesHookAcrossRuns(t *testing.T) {
	th := newTestHooks()
	task, err := NewTask(th.build, "docs", core.Record{"id": 1})
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := task.Execute(ctx, nil)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), th.created.Load())
	assert.Equal(t, 1, th.factory.Constructions())
	assert.Equal(t, 5, th.factory.Last().InsertCalls())
}

func TestExecute_WithSharedHook(t *testing.T) {
	th := newTestHooks()
	shared, err := th.build(core.DefaultConnID)
	require.NoError(t, err)

	first, err := NewTask(nil, "docs", core.Record{"id": 1}, WithHook(shared))
	require.NoError(t, err)
	second, err := NewTask(nil, "notes", core.Record{"id": 2}, WithHook(shared))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = first.Execute(ctx, nil)
	require.NoError(t, err)
	_, err = second.Execute(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, th.factory.Constructions())
	assert.Equal(t, 2, th.factory.Last().InsertCalls())
}

func TestExecute_Embedding(t *testing.T) {
	th := newTestHooks()
	embedder := aimock.NewMockEmbedder()
	preset := []float32{1, 0, 0}
	data := []core.Record{
		{"id": 1, "text": "first"},
		{"id": 2, "text": "second", "vector": preset},
		{"id": 3},
	}
	task, err := NewTask(th.build, "docs", data, WithEmbedder("text", "vector", embedder))
	require.NoError(t, err)

	_, err = task.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.CallCount())

	records := th.factory.Last().Requests()[0].Records
	require.Len(t, records, 3)
	assert.Len(t, records[0]["vector"], aimock.DefaultDimension)
	assert.Equal(t, preset, records[1]["vector"])
	assert.NotContains(t, records[2], "vector")

	// The caller's records are left untouched.
	assert.NotContains(t, data[0], "vector")
}

func TestExecute_EmbeddingError(t *testing.T) {
	th := newTestHooks()
	embedErr := errors.New("embedding service down")
	embedder := aimock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, embedErr
	}
	task, err := NewTask(th.build, "docs", core.Record{"text": "hello"}, WithEmbedder("text", "vector", embedder))
	require.NoError(t, err)

	_, err = task.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, embedErr)
	assert.Equal(t, 0, th.factory.Constructions())
}

func TestTaskContext_Normalize(t *testing.T) {
	var nilCtx *TaskContext
	generated := nilCtx.normalize()
	assert.NotEmpty(t, generated.RunID)
	assert.False(t, generated.LogicalDate.IsZero())

	date := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	given := &TaskContext{RunID: "scheduled__2025-10-01", LogicalDate: date}
	normalized := given.normalize()
	assert.Equal(t, "scheduled__2025-10-01", normalized.RunID)
	assert.Equal(t, date, normalized.LogicalDate)
	assert.NotSame(t, given, normalized)
}

func TestExecute_NormalizedEmbedding(t *testing.T) {
	th := newTestHooks()
	embedder := aimock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{3, 4}}, nil
	}
	task, err := NewTask(th.build, "docs", core.Record{"text": "hello"},
		WithNormalizedVectors(),
		WithEmbedder("text", "vector", embedder),
	)
	require.NoError(t, err)

	_, err = task.Execute(context.Background(), nil)
	require.NoError(t, err)

	vector, ok := th.factory.Last().Requests()[0].Records[0]["vector"].([]float32)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float32{0.6, 0.8}, vector, 1e-6)
}
