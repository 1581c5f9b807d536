package taskqueue

import (
	"context"
	"math"
	"time"
)

const defaultMaxRetries = 3

func backoffFor(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
}

// waitBackoff sleeps before the given retry attempt or returns early when ctx
// is done.
func waitBackoff(ctx context.Context, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(backoffFor(attempt)):
		return nil
	}
}
