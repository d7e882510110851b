package milvus

import (
	"context"
	"errors"
	"fmt"

	"github.com/poiesic/milvusprovider/core"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// classify tags err with the matching core sentinel.
// The SDK error stays in the chain, so errors.As still reaches it.
// Errors with no transport meaning get fallback, or are returned as-is when fallback is nil.
func classify(err error, fallback error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", core.ErrTimeout, err)
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unauthenticated, codes.PermissionDenied:
			return fmt.Errorf("%w: %w", core.ErrAuthenticationFailed, err)
		case codes.Unavailable:
			return fmt.Errorf("%w: %w", core.ErrConnectionRefused, err)
		case codes.DeadlineExceeded:
			return fmt.Errorf("%w: %w", core.ErrTimeout, err)
		}
	}

	if fallback != nil {
		return fmt.Errorf("%w: %w", fallback, err)
	}
	return err
}
