package daemon

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/dwmstatus/internal/dbus"
	"github.com/jmylchreest/dwmstatus/internal/model"
)

var errPublish = errors.New("connection lost")

type fakePublisher struct {
	mu     sync.Mutex
	lines  []string
	failOn string
}

func (p *fakePublisher) Publish(_ context.Context, line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failOn != "" && line == p.failOn {
		return errPublish
	}
	p.lines = append(p.lines, line)
	return nil
}

func (p *fakePublisher) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.lines...)
}

func (p *fakePublisher) Last() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.lines) == 0 {
		return ""
	}
	return p.lines[len(p.lines)-1]
}

// fakeComposer returns whatever line was last set.
type fakeComposer struct {
	line  atomic.Value
	calls atomic.Int64
}

func newFakeComposer(line string) *fakeComposer {
	c := &fakeComposer{}
	c.Set(line)
	return c
}

func (c *fakeComposer) Set(line string) { c.line.Store(line) }

func (c *fakeComposer) Compose(context.Context) string {
	c.calls.Add(1)
	return c.line.Load().(string)
}

type runnerFunc func(ctx context.Context) error

func (f runnerFunc) Run(ctx context.Context) error { return f(ctx) }

func newNotification(t *testing.T, summary, body string, timeout int32) *model.Notification {
	t.Helper()
	n, err := model.NewNotification("test", summary, body, timeout)
	require.NoError(t, err)
	return n
}

type closedCall struct {
	id     uint32
	reason dbus.CloseReason
}

type fakeCloser struct {
	mu    sync.Mutex
	calls []closedCall
}

func (c *fakeCloser) CloseWithReason(id uint32, reason dbus.CloseReason) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, closedCall{id: id, reason: reason})
	return nil
}

func (c *fakeCloser) Calls() []closedCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]closedCall(nil), c.calls...)
}
