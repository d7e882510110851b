// Package mock provides test doubles for the hook package.
//
// MockClient records every call and lets tests inject behavior through
// function fields. MockFactory builds MockClients and counts constructions,
// which is how tests observe that a Hook constructs its client only once.
//
// Example:
//
//	factory := mock.NewMockFactory()
//	h, _ := hook.New(resolver, factory.Build)
//	h.Client(ctx)
//	h.Client(ctx)
//	factory.Constructions() // 1
//
// Counters are atomic so the doubles can be shared across goroutines.
package mock
