package ingestion

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/milvusprovider/core"
	"github.com/poiesic/milvusprovider/hook"
)

// Outcome is the result of one task run by a Runner.
type Outcome struct {
	Task     *Task
	RunID    string
	Result   *core.InsertResult
	Err      error
	Duration time.Duration
}

// Runner executes tasks concurrently on a worker pool.
// Tasks without their own hook share one hook per connection identifier.
type Runner struct {
	newHook HookFactory
	pool    *ants.Pool
	logger  *slog.Logger

	progress       io.Writer
	reportInterval int

	mu    sync.Mutex
	hooks map[string]*hook.Hook
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner) error

// WithPoolSize sets the worker pool size.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) RunnerOption {
	return func(r *Runner) error {
		if size < 1 {
			size = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithRunnerLogger sets a custom logger.
// Default is slog.Default().
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithProgress writes a progress line to w every reportInterval finished tasks.
func WithProgress(w io.Writer, reportInterval int) RunnerOption {
	return func(r *Runner) error {
		r.progress = w
		r.reportInterval = reportInterval
		return nil
	}
}

// NewRunner creates a runner that builds shared hooks with newHook.
func NewRunner(newHook HookFactory, opts ...RunnerOption) (*Runner, error) {
	if newHook == nil {
		return nil, ErrHookFactoryRequired
	}

	poolSize := runtime.NumCPU()
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		newHook: newHook,
		pool:    pool,
		logger:  slog.Default(),
		hooks:   make(map[string]*hook.Hook),
	}
	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}
	r.logger = r.logger.With("component", "ingest-runner")
	return r, nil
}

// Hook returns the shared hook for connID, creating it on first use.
func (r *Runner) Hook(connID string) (*hook.Hook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.hooks[connID]; ok {
		return h, nil
	}
	h, err := r.newHook(connID)
	if err != nil {
		return nil, err
	}
	r.hooks[connID] = h
	return h, nil
}

// Run executes every task and waits for all of them.
// Outcomes are returned in task order. A failing task does not stop the others.
func (r *Runner) Run(ctx context.Context, tasks ...*Task) []Outcome {
	outcomes := make([]Outcome, len(tasks))
	var wg sync.WaitGroup

	var tracker *progressTracker
	if r.progress != nil {
		tracker = newProgressTracker(r.progress, len(tasks), r.reportInterval)
	}

	for i, task := range tasks {
		if task == nil {
			outcomes[i].Err = ErrTaskRequired
			continue
		}
		outcomes[i].Task = task

		if !task.hasHook() {
			h, err := r.Hook(task.ConnID())
			if err != nil {
				outcomes[i].Err = err
				continue
			}
			task.shareHook(h)
		}

		tc := (&TaskContext{}).normalize()
		outcomes[i].RunID = tc.RunID

		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			start := time.Now()
			outcomes[i].Result, outcomes[i].Err = task.Execute(ctx, tc)
			outcomes[i].Duration = time.Since(start)
			if tracker != nil {
				var rows int64
				if outcomes[i].Result != nil {
					rows = outcomes[i].Result.InsertCount
				}
				tracker.done(rows)
			}
		})
		if err != nil {
			wg.Done()
			outcomes[i].Err = err
		}
	}

	wg.Wait()
	if tracker != nil {
		tracker.finish()
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	r.logger.Info("run complete", "tasks", len(tasks), "failed", failed)
	return outcomes
}

// Release releases the worker pool. Shared hooks stay open; see Close.
func (r *Runner) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// Close releases the worker pool and closes every shared hook.
func (r *Runner) Close(ctx context.Context) error {
	r.Release()

	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for id, h := range r.hooks {
		if err := h.Close(ctx); err != nil {
			errs = append(errs, err)
		}
		delete(r.hooks, id)
	}
	return errors.Join(errs...)
}
