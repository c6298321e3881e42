package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Final status lines.
const (
	DoneLine          = "dwmstatus: done."
	signalLineFormat  = "dwmstatus stopped with signal %s."
	finalWriteTimeout = 2 * time.Second
)

// Runner is anything with a blocking Run, such as Scheduler.
type Runner interface {
	Run(ctx context.Context) error
}

// NotifySignals subscribes to SIGINT and SIGTERM. Call it before starting
// the scheduler so no signal is missed; call stop when done.
func NotifySignals() (signals <-chan os.Signal, stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	return ch, func() { signal.Stop(ch) }
}

// SignalName returns the short name used in the final status line.
func SignalName(sig os.Signal) string {
	switch sig {
	case syscall.SIGINT:
		return "INT"
	case syscall.SIGTERM:
		return "TERM"
	default:
		return sig.String()
	}
}

// Coordinator races termination signals against the scheduler finishing
// and writes one final status line.
type Coordinator struct {
	scheduler Runner
	publisher Publisher
	signals   <-chan os.Signal
	logger    *slog.Logger
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(scheduler Runner, publisher Publisher, signals <-chan os.Signal, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		scheduler: scheduler,
		publisher: publisher,
		signals:   signals,
		logger:    logger,
	}
}

// Run starts the scheduler and blocks until a signal arrives or the
// scheduler returns. On a signal the scheduler is stopped before the final
// line is written, so nothing overwrites it. A scheduler error is returned
// without a final write.
func (c *Coordinator) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- c.scheduler.Run(ctx)
	}()

	select {
	case sig := <-c.signals:
		c.logger.Info("received signal, shutting down", "signal", sig)
		cancel()
		if err := <-done; err != nil {
			c.logger.Warn("scheduler failed during shutdown", "error", err)
		}
		c.finalWrite(fmt.Sprintf(signalLineFormat, SignalName(sig)))
		return nil

	case err := <-done:
		if err != nil {
			return fmt.Errorf("scheduler failed: %w", err)
		}
		c.finalWrite(DoneLine)
		return nil
	}
}

// finalWrite publishes line on a fresh context. Failure is only logged.
func (c *Coordinator) finalWrite(line string) {
	ctx, cancel := context.WithTimeout(context.Background(), finalWriteTimeout)
	defer cancel()

	if err := c.publisher.Publish(ctx, line); err != nil {
		c.logger.Warn("failed to publish final status", "line", line, "error", err)
		return
	}
	c.logger.Debug("published final status", "line", line)
}
