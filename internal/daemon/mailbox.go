package daemon

import (
	"sync/atomic"

	"github.com/jmylchreest/dwmstatus/internal/model"
)

// DropHandler is called for a notification evicted from the Mailbox before
// the scheduler took it. by is the notification that displaced it.
type DropHandler func(dropped, by *model.Notification)

// Mailbox is a single-slot handoff from notification producers to the
// scheduler. Put never blocks: a notification that has not been taken yet
// is replaced by the newer one.
type Mailbox struct {
	slot   chan *model.Notification
	onDrop atomic.Pointer[DropHandler]
}

// NewMailbox creates an empty Mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{slot: make(chan *model.Notification, 1)}
}

// SetDropHandler sets the function called for every evicted notification.
func (m *Mailbox) SetDropHandler(handler DropHandler) {
	m.onDrop.Store(&handler)
}

// Put stores n, returning the notification it displaced, if any.
func (m *Mailbox) Put(n *model.Notification) *model.Notification {
	var replaced *model.Notification
	for {
		select {
		case m.slot <- n:
			return replaced
		default:
		}
		// Full: evict the waiting one and retry. Another producer may win
		// the slot in between, in which case its entry is evicted too.
		select {
		case old := <-m.slot:
			if replaced == nil {
				replaced = old
			}
			m.dropped(old, n)
		default:
		}
	}
}

// TryTake removes and returns the waiting notification without blocking.
func (m *Mailbox) TryTake() (*model.Notification, bool) {
	select {
	case n := <-m.slot:
		return n, true
	default:
		return nil, false
	}
}

func (m *Mailbox) dropped(old, by *model.Notification) {
	if h := m.onDrop.Load(); h != nil && *h != nil && old != by {
		(*h)(old, by)
	}
}
