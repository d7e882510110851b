// Package mock provides a test double for ai.Embedder.
//
// MockEmbedder returns deterministic vectors derived from a hash of the input
// text, so ingestion tests can assert on embedded rows without an external
// service.
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("service down")
//	}
//	count := embedder.CallCount()
package mock
