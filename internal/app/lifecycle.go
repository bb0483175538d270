package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// Lifecycle bounds one invocation of the calculator: the -timeout
// deadline and SIGINT/SIGTERM both cancel the query context.
type Lifecycle struct {
	cancelDeadline context.CancelFunc
	stopSignals    context.CancelFunc
}

// SetupLifecycle derives the query context from ctx. Whichever of the
// deadline or a termination signal comes first cancels it. Cleanup must be
// called once the query has settled.
func SetupLifecycle(ctx context.Context, timeout time.Duration) (context.Context, *Lifecycle) {
	lc := &Lifecycle{}
	ctx, lc.cancelDeadline = context.WithTimeout(ctx, timeout)
	ctx, lc.stopSignals = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, lc
}

// Cleanup releases the signal handler and the deadline timer.
func (lc *Lifecycle) Cleanup() {
	if lc.stopSignals != nil {
		lc.stopSignals()
	}
	if lc.cancelDeadline != nil {
		lc.cancelDeadline()
	}
}
