package utils

import (
	"context"
	"time"
)

// CtxLoop blocks and fires fn every delay until ctx is done. When final is
// set fn fires once more after ctx is done, so buffered metrics get flushed
// on shutdown.
func CtxLoop(ctx context.Context, delay time.Duration, final bool, fn func()) {
	ticker := time.NewTicker(delay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if final {
				fn()
			}
			return
		case <-ticker.C:
			fn()
		}
	}
}
