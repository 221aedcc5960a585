package command

import (
	"context"
	"log/slog"
	"time"
)

// Probe reports whether c runs and exits zero within timeout. It never fails:
// a missing executable, a spawn error and a non-zero exit all yield false.
func Probe(ctx context.Context, r Runner, c Command, timeout time.Duration) bool {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	c.Quiet = true
	if err := r.Run(ctx, c); err != nil {
		slog.Debug("probe failed", "command", c.String(), "error", err)
		return false
	}
	return true
}
