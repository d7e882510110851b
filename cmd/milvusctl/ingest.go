package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/poiesic/milvusprovider"
	"github.com/poiesic/milvusprovider/ai"
	"github.com/poiesic/milvusprovider/core"
	"github.com/poiesic/milvusprovider/ingestion"
	"github.com/urfave/cli/v2"
)

func (cmds *commands) ingest(c *cli.Context) error {
	data, err := readRecords(c)
	if err != nil {
		return err
	}

	var providerOpts []milvusprovider.Option
	embedField := c.String("embed-field")
	if embedField != "" {
		providerOpts = append(providerOpts, milvusprovider.WithAIConfig(ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
		)))
	}

	p, err := cmds.open(c, providerOpts...)
	if err != nil {
		return err
	}
	defer p.Close()

	taskOpts := []ingestion.TaskOption{ingestion.WithConnID(c.String("conn"))}
	if partition := c.String("partition"); partition != "" {
		taskOpts = append(taskOpts, ingestion.WithPartition(partition))
	}
	if c.IsSet("timeout") {
		taskOpts = append(taskOpts, ingestion.WithTimeout(c.Duration("timeout")))
	}
	if embedField != "" {
		embedder, err := p.Embedder()
		if err != nil {
			return fmt.Errorf("failed to create embedder: %w", err)
		}
		if c.Bool("normalize") {
			taskOpts = append(taskOpts, ingestion.WithNormalizedVectors())
		}
		taskOpts = append(taskOpts, ingestion.WithEmbedder(embedField, c.String("vector-field"), embedder))
	}

	var result *core.InsertResult
	if c.Int("batch-size") > 0 {
		result, err = ingestBatches(c, p, data, taskOpts)
	} else {
		result, err = ingestOnce(c, p, data, taskOpts)
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "inserted %d record(s) into %s\n", result.InsertCount, c.String("collection"))
	for _, id := range result.IDs {
		fmt.Fprintln(c.App.Writer, id)
	}
	return nil
}

func ingestOnce(c *cli.Context, p *milvusprovider.Provider, data any, opts []ingestion.TaskOption) (*core.InsertResult, error) {
	task, err := p.NewTask(c.String("collection"), data, opts...)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result, err := task.Execute(c.Context, &ingestion.TaskContext{
		RunID:       "manual__" + now.Format(time.RFC3339),
		LogicalDate: now,
	})
	if h, hookErr := task.Hook(); hookErr == nil {
		defer h.Close(c.Context)
	}
	return result, err
}

func ingestBatches(c *cli.Context, p *milvusprovider.Provider, data any, opts []ingestion.TaskOption) (*core.InsertResult, error) {
	batches, err := ingestion.Batch(data, c.Int("batch-size"))
	if err != nil {
		return nil, err
	}

	tasks := make([]*ingestion.Task, len(batches))
	for i, batch := range batches {
		if tasks[i], err = p.NewTask(c.String("collection"), batch, opts...); err != nil {
			return nil, err
		}
	}

	runner, err := p.NewRunner(
		ingestion.WithPoolSize(c.Int("concurrency")),
		ingestion.WithProgress(c.App.ErrWriter, 1),
	)
	if err != nil {
		return nil, err
	}
	defer runner.Close(c.Context)

	total := &core.InsertResult{}
	var errs []error
	for i, o := range runner.Run(c.Context, tasks...) {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("batch %d: %w", i, o.Err))
			continue
		}
		total.InsertCount += o.Result.InsertCount
		total.IDs = append(total.IDs, o.Result.IDs...)
	}
	if len(errs) > 0 {
		fmt.Fprintf(c.App.ErrWriter, "%d of %d batch(es) failed after inserting %d record(s)\n",
			len(errs), len(batches), total.InsertCount)
		return nil, errors.Join(errs...)
	}
	return total, nil
}

func readRecords(c *cli.Context) (any, error) {
	path := c.String("data")

	var r io.Reader
	if path == "-" {
		r = c.App.Reader
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open data file: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := decodeRecords(r, c.String("vector-field"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return data, nil
}
