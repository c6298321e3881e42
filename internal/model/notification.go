// Package model defines the core data structures for dwmstatus.
package model

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Urgency levels as sent in the freedesktop "urgency" hint.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// UrgencyNames maps urgency levels to human-readable names.
var UrgencyNames = map[int]string{
	UrgencyLow:      "low",
	UrgencyNormal:   "normal",
	UrgencyCritical: "critical",
}

// Notification is a desktop notification handed from the listener to the
// scheduler. It is consumed once and then discarded.
type Notification struct {
	// ID correlates log lines for a single notification.
	ID string `json:"id" yaml:"id"`
	// DBusID is the id returned to the sender (0 for internal notifications).
	DBusID uint32 `json:"dbus_id,omitempty" yaml:"dbus_id,omitempty"`

	AppName string `json:"app_name" yaml:"app_name"`
	Summary string `json:"summary" yaml:"summary"`
	Body    string `json:"body" yaml:"body"`
	Urgency int    `json:"urgency" yaml:"urgency"`

	// Timeout is the requested display time in milliseconds.
	// Negative means "use the default".
	Timeout int32 `json:"timeout" yaml:"timeout"`

	ReceivedAt time.Time `json:"received_at" yaml:"received_at"`
}

// NewNotification creates a Notification with a generated ULID.
func NewNotification(appName, summary, body string, timeout int32) (*Notification, error) {
	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}

	return &Notification{
		ID:         id.String(),
		AppName:    appName,
		Summary:    summary,
		Body:       body,
		Urgency:    UrgencyNormal,
		Timeout:    timeout,
		ReceivedAt: now,
	}, nil
}

// SetUrgency sets the urgency level, falling back to normal for unknown values.
func (n *Notification) SetUrgency(level int) {
	if level < 0 || level > 2 {
		level = UrgencyNormal
	}
	n.Urgency = level
}

// UrgencyName returns the human-readable urgency.
func (n *Notification) UrgencyName() string {
	return UrgencyNames[n.Urgency]
}

// BannerText returns the line shown while the notification is on the bar:
// summary and body separated by a single space.
func (n *Notification) BannerText() string {
	return fmt.Sprintf("%s %s", n.Summary, n.Body)
}

// EffectiveTimeout clamps the requested timeout to [0, ceiling].
// A negative request means "server default", which is the ceiling.
func (n *Notification) EffectiveTimeout(ceiling time.Duration) time.Duration {
	if n.Timeout < 0 {
		return ceiling
	}
	requested := time.Duration(n.Timeout) * time.Millisecond
	if requested > ceiling {
		return ceiling
	}
	return requested
}

// String returns a short description for logs.
func (n *Notification) String() string {
	summary := strings.Join(strings.Fields(n.Summary), " ")
	if n.AppName == "" {
		return summary
	}
	return n.AppName + ": " + summary
}
