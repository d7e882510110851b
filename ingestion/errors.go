package ingestion

import "errors"

var (
	// ErrHookFactoryRequired is returned when neither a hook factory nor a shared hook is provided.
	ErrHookFactoryRequired = errors.New("hook factory required")

	// ErrEmbedderRequired is returned when embedding is requested without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmbeddingFieldsRequired is returned when embedding is requested without text and vector fields.
	ErrEmbeddingFieldsRequired = errors.New("embedding text and vector fields required")

	// ErrInvalidTimeout is returned when a timeout override is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrTaskRequired is returned when a nil task is submitted to a runner.
	ErrTaskRequired = errors.New("task required")
)
