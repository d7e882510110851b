package ai

import "errors"

var (
	// ErrEmbedderUnavailable indicates the embedding client could not be constructed.
	ErrEmbedderUnavailable = errors.New("embedder unavailable")

	// ErrEmbeddingFailed indicates the embedding service rejected or failed a request.
	ErrEmbeddingFailed = errors.New("embedding failed")
)
