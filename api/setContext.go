package api

import (
	"context"
	"time"
)

// SetContext derives a context bounded by timeout from parent.
func SetContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}
