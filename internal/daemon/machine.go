package daemon

import (
	"github.com/jmylchreest/dwmstatus/internal/model"
)

// State is the scheduler's display state.
type State int

const (
	// StateIdle shows the computed status line.
	StateIdle State = iota
	// StateBannerActive shows a notification banner.
	StateBannerActive
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBannerActive:
		return "banner"
	default:
		return "unknown"
	}
}

// Machine tracks what the bar shows and decides whether a candidate line
// needs publishing. It is owned by the scheduler goroutine.
type Machine struct {
	state     State
	banner    *model.Notification
	published string
	hasLine   bool
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Banner returns the notification being shown, or nil when idle.
func (m *Machine) Banner() *model.Notification {
	return m.banner
}

// Published returns the last line known to be on the bar.
func (m *Machine) Published() (string, bool) {
	return m.published, m.hasLine
}

// ShowBanner enters StateBannerActive for n and returns the banner line.
func (m *Machine) ShowBanner(n *model.Notification) string {
	m.state = StateBannerActive
	m.banner = n
	return n.BannerText()
}

// Expire returns to StateIdle and hands back the banner that was shown.
func (m *Machine) Expire() *model.Notification {
	n := m.banner
	m.state = StateIdle
	m.banner = nil
	return n
}

// NeedsPublish reports whether line differs from what the bar shows.
// The first line always needs publishing.
func (m *Machine) NeedsPublish(line string) bool {
	return !m.hasLine || line != m.published
}

// MarkPublished records that line is now on the bar.
func (m *Machine) MarkPublished(line string) {
	m.published = line
	m.hasLine = true
}
