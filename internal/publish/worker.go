package publish

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrWorkerClosed is returned by Publish after the worker has stopped.
var ErrWorkerClosed = errors.New("publish worker closed")

type request struct {
	line   string
	result chan error
}

// Worker serializes all writes to a Publisher on one goroutine.
// The first publish failure is fatal: the worker stops and every later
// Publish returns that error.
type Worker struct {
	pub    Publisher
	logger *slog.Logger

	requests chan request
	quit     chan struct{}
	done     chan struct{}

	startOnce sync.Once
	closeOnce sync.Once

	mu  sync.Mutex
	err error
}

// NewWorker creates a Worker for pub. Call Start before Publish.
func NewWorker(pub Publisher, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		pub:      pub,
		logger:   logger,
		requests: make(chan request),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (w *Worker) Start() {
	w.startOnce.Do(func() {
		go w.run()
	})
}

func (w *Worker) run() {
	defer close(w.done)
	defer func() {
		if err := w.pub.Close(); err != nil {
			w.logger.Warn("failed to close publisher", "error", err)
		}
	}()

	for {
		select {
		case <-w.quit:
			return
		case req := <-w.requests:
			err := w.pub.Publish(req.line)
			req.result <- err
			if err != nil {
				w.logger.Error("publisher failed", "error", err)
				w.mu.Lock()
				w.err = err
				w.mu.Unlock()
				return
			}
			w.logger.Debug("published status line", "line", req.line)
		}
	}
}

// Publish hands line to the worker and waits for the result.
func (w *Worker) Publish(ctx context.Context, line string) error {
	req := request{line: line, result: make(chan error, 1)}

	select {
	case w.requests <- req:
	case <-w.done:
		return w.stoppedErr()
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the publish failure that stopped the worker, if any.
func (w *Worker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Done is closed once the worker goroutine has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

func (w *Worker) stoppedErr() error {
	if err := w.Err(); err != nil {
		return err
	}
	return ErrWorkerClosed
}

// Close stops the worker and closes the publisher, waiting until ctx expires.
func (w *Worker) Close(ctx context.Context) error {
	w.closeOnce.Do(func() {
		close(w.quit)
	})
	w.Start()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
