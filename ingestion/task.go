package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/milvusprovider/ai"
	"github.com/poiesic/milvusprovider/core"
	"github.com/poiesic/milvusprovider/hook"
)

// HookFactory creates the hook serving a connection identifier.
type HookFactory func(connID string) (*hook.Hook, error)

// TaskContext is supplied by the caller that schedules a task.
type TaskContext struct {
	// RunID identifies this execution. A random one is assigned when empty.
	RunID string

	// LogicalDate is the scheduled time of the run. Defaults to now.
	LogicalDate time.Time

	// Params carries free-form values from the scheduler. Only logged.
	Params map[string]any
}

func (tc *TaskContext) normalize() *TaskContext {
	out := TaskContext{}
	if tc != nil {
		out = *tc
	}
	if out.RunID == "" {
		out.RunID = uuid.NewString()
	}
	if out.LogicalDate.IsZero() {
		out.LogicalDate = time.Now().UTC()
	}
	return &out
}

// Task inserts one payload into a collection.
type Task struct {
	connID     string
	collection string
	data       any
	partition  string
	timeout    *time.Duration

	newHook   HookFactory
	embed     *embedStep
	normalize bool
	logger    *slog.Logger

	mu   sync.Mutex
	hook *hook.Hook
}

// TaskOption configures a Task.
type TaskOption func(*Task) error

// WithConnID sets the connection identifier.
// Default is core.DefaultConnID.
func WithConnID(id string) TaskOption {
	return func(t *Task) error {
		if id == "" {
			return core.ErrInvalidConnectionID
		}
		t.connID = id
		return nil
	}
}

// WithPartition targets a partition of the collection.
func WithPartition(name string) TaskOption {
	return func(t *Task) error {
		t.partition = name
		return nil
	}
}

// WithTimeout overrides the connection timeout for the insert call.
// The duration must be positive.
func WithTimeout(d time.Duration) TaskOption {
	return func(t *Task) error {
		if d <= 0 {
			return fmt.Errorf("%w: timeout must be positive, got %v", ErrInvalidTimeout, d)
		}
		t.timeout = &d
		return nil
	}
}

// WithHook makes the task use an existing hook instead of creating its own.
func WithHook(h *hook.Hook) TaskOption {
	return func(t *Task) error {
		if h != nil {
			t.hook = h
			t.connID = h.ConnID()
		}
		return nil
	}
}

// WithEmbedder fills vectorField from textField for every record before inserting.
func WithEmbedder(textField, vectorField string, embedder ai.Embedder) TaskOption {
	return func(t *Task) error {
		if embedder == nil {
			return ErrEmbedderRequired
		}
		if textField == "" || vectorField == "" {
			return ErrEmbeddingFieldsRequired
		}
		t.embed = &embedStep{textField: textField, vectorField: vectorField, embedder: embedder}
		return nil
	}
}

// WithNormalizedVectors scales embeddings to unit length before inserting.
// Use it for collections indexed with the IP metric. It has no effect without WithEmbedder.
func WithNormalizedVectors() TaskOption {
	return func(t *Task) error {
		t.normalize = true
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) TaskOption {
	return func(t *Task) error {
		if logger == nil {
			logger = slog.Default()
		}
		t.logger = logger
		return nil
	}
}

// NewTask creates a task inserting data into collection.
// data may be a single record or a sequence of records; it is validated on Execute.
func NewTask(newHook HookFactory, collection string, data any, opts ...TaskOption) (*Task, error) {
	t := &Task{
		connID:     core.DefaultConnID,
		collection: collection,
		data:       data,
		newHook:    newHook,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	if t.hook == nil && t.newHook == nil {
		return nil, ErrHookFactoryRequired
	}
	if t.embed != nil {
		t.embed.normalize = t.normalize
	}
	t.logger = t.logger.With("component", "milvus-ingest", "conn_id", t.connID, "collection", collection)
	return t, nil
}

// ConnID returns the connection identifier the task writes through.
func (t *Task) ConnID() string {
	return t.connID
}

// Collection returns the target collection name.
func (t *Task) Collection() string {
	return t.collection
}

// Hook returns the task's hook, creating it on first use.
func (t *Task) Hook() (*hook.Hook, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hook != nil {
		return t.hook, nil
	}
	h, err := t.newHook(t.connID)
	if err != nil {
		return nil, err
	}
	t.hook = h
	return h, nil
}

// shareHook installs h unless the task already has one.
func (t *Task) shareHook(h *hook.Hook) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hook == nil {
		t.hook = h
	}
}

func (t *Task) hasHook() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hook != nil
}

// Request builds the validated insert request without contacting the remote service.
func (t *Task) Request() (*core.IngestRequest, error) {
	if t.collection == "" {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidIngestRequest, core.ErrEmptyCollectionName)
	}
	records, err := core.NormalizeRecords(t.data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidIngestRequest, err)
	}
	req := &core.IngestRequest{
		CollectionName: t.collection,
		Records:        records,
		PartitionName:  t.partition,
		Timeout:        t.timeout,
	}
	if err := core.ValidateIngestRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Execute validates the payload and forwards one insert to the hook's client.
// Hook and insert errors are returned unchanged.
func (t *Task) Execute(ctx context.Context, tc *TaskContext) (*core.InsertResult, error) {
	tc = tc.normalize()
	logger := t.logger.With("run_id", tc.RunID, "logical_date", tc.LogicalDate)
	if len(tc.Params) > 0 {
		logger.Debug("task params", "params", tc.Params)
	}

	req, err := t.Request()
	if err != nil {
		logger.Error("invalid ingest request", "err", err)
		return nil, err
	}

	if t.embed != nil {
		req.Records, err = t.embed.apply(ctx, req.Records, logger)
		if err != nil {
			logger.Error("failed to embed records", "err", err)
			return nil, err
		}
	}

	h, err := t.Hook()
	if err != nil {
		logger.Error("failed to create hook", "err", err)
		return nil, err
	}
	client, err := h.Client(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug("inserting records", "records", len(req.Records), "partition", req.PartitionName)
	result, err := client.Insert(ctx, req)
	if err != nil {
		logger.Error("insert failed", "err", err)
		return nil, err
	}

	logger.Info("inserted records", "count", result.InsertCount)
	return result, nil
}
