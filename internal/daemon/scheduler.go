package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jmylchreest/dwmstatus/internal/config"
	"github.com/jmylchreest/dwmstatus/internal/model"
)

// Composer produces the computed status line.
type Composer interface {
	Compose(ctx context.Context) string
}

// Publisher puts a line on the bar. It is satisfied by publish.Worker.
type Publisher interface {
	Publish(ctx context.Context, line string) error
}

// Settings are the parts of the scheduler that change on config reload.
type Settings struct {
	Composer     Composer
	PollInterval time.Duration
	MaxBanner    time.Duration
}

// NewSettings takes the timing from cfg.
func NewSettings(cfg *config.Config, composer Composer) Settings {
	return Settings{
		Composer:     composer,
		PollInterval: cfg.Timing.PollInterval.Duration(),
		MaxBanner:    cfg.Timing.MaxBanner.Duration(),
	}
}

// Scheduler is the update loop. Each iteration shows a waiting
// notification for its display time, then evaluates the computed status
// line and publishes it if it changed, then sleeps for the poll interval.
type Scheduler struct {
	mailbox   *Mailbox
	publisher Publisher
	logger    *slog.Logger

	settings  atomic.Pointer[Settings]
	onRelease ReleaseHandler

	machine Machine
}

// NewScheduler creates a Scheduler.
func NewScheduler(mailbox *Mailbox, publisher Publisher, settings Settings, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		mailbox:   mailbox,
		publisher: publisher,
		logger:    logger,
	}
	s.settings.Store(&settings)
	return s
}

// SetSettings replaces the composer and timing. It is safe to call while
// Run is in progress; the change applies from the next evaluation.
func (s *Scheduler) SetSettings(settings Settings) {
	s.settings.Store(&settings)
}

// ReleaseHandler is called once for every notification the scheduler took
// from the mailbox, and for any left waiting when Run returns. expired is
// true only for a banner that was shown for its whole display time.
type ReleaseHandler func(n *model.Notification, expired bool)

// SetReleaseHandler sets the function called when the scheduler is done
// with a notification. Set it before Run.
func (s *Scheduler) SetReleaseHandler(handler ReleaseHandler) {
	s.onRelease = handler
}

// Run loops until ctx is cancelled, returning nil, or until publishing
// fails, returning that error.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Debug("scheduler started")
	defer s.logger.Debug("scheduler stopped")
	defer s.releasePending()

	for {
		if err := s.Step(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := sleep(ctx, s.settings.Load().PollInterval); err != nil {
			return nil
		}
	}
}

// Step runs one iteration of the loop without the trailing poll sleep.
func (s *Scheduler) Step(ctx context.Context) error {
	if n, ok := s.mailbox.TryTake(); ok {
		if err := s.showBanner(ctx, n); err != nil {
			return err
		}
	}

	line := s.settings.Load().Composer.Compose(ctx)
	return s.publishIfChanged(ctx, line)
}

func (s *Scheduler) showBanner(ctx context.Context, n *model.Notification) error {
	line := s.machine.ShowBanner(n)
	d := n.EffectiveTimeout(s.settings.Load().MaxBanner)

	s.logger.Info("showing notification",
		"id", n.ID,
		"notification", n.String(),
		"duration", d,
	)

	err := s.publishIfChanged(ctx, line)
	if err == nil {
		err = sleep(ctx, d)
	}
	shown := s.machine.Expire()
	if err != nil {
		s.logger.Debug("notification cut short", "id", shown.ID, "error", err)
		s.release(shown, false)
		return err
	}

	s.logger.Debug("notification expired", "id", shown.ID)
	s.release(shown, true)
	return nil
}

func (s *Scheduler) release(n *model.Notification, expired bool) {
	if s.onRelease != nil && n != nil {
		s.onRelease(n, expired)
	}
}

// releasePending hands back a notification that arrived but was never shown.
func (s *Scheduler) releasePending() {
	if n, ok := s.mailbox.TryTake(); ok {
		s.logger.Debug("dropping unshown notification", "id", n.ID)
		s.release(n, false)
	}
}

func (s *Scheduler) publishIfChanged(ctx context.Context, line string) error {
	if !s.machine.NeedsPublish(line) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, line); err != nil {
		return fmt.Errorf("failed to publish status line: %w", err)
	}
	s.machine.MarkPublished(line)
	return nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
