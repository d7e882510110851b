package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/poiesic/milvusprovider/ai"
	"github.com/poiesic/milvusprovider/core"
)

// embedStep fills a vector field from a text field.
type embedStep struct {
	textField   string
	vectorField string
	embedder    ai.Embedder
	normalize   bool
}

// apply returns copies of records with the vector field populated.
// Records without a string text field, or that already carry the vector field, pass through untouched.
func (e *embedStep) apply(ctx context.Context, records []core.Record, logger *slog.Logger) ([]core.Record, error) {
	out := make([]core.Record, len(records))
	copy(out, records)

	var (
		texts   []string
		indexes []int
	)
	for i, record := range records {
		if _, ok := record[e.vectorField]; ok {
			continue
		}
		text, ok := record[e.textField].(string)
		if !ok {
			continue
		}
		texts = append(texts, text)
		indexes = append(indexes, i)
	}

	if len(texts) == 0 {
		return out, nil
	}

	logger.Debug("generating embeddings", "records", len(texts), "field", e.vectorField)
	vectors, err := e.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ai.ErrEmbeddingFailed, len(vectors), len(texts))
	}

	for j, i := range indexes {
		record := maps.Clone(records[i])
		vector := vectors[j]
		if e.normalize {
			vector = normalizeVector(vector)
		}
		record[e.vectorField] = vector
		out[i] = record
	}
	return out, nil
}
