package dbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

// Monitor passively observes D-Bus notification traffic without claiming ownership.
// This allows running alongside another notification daemon (like dunst).
type Monitor struct {
	conn   *dbus.Conn
	logger *slog.Logger

	onNotify NotificationHandler
}

// NewMonitor creates a new notification monitor.
func NewMonitor(logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		logger: logger,
	}
}

// SetNotifyHandler sets the callback for received notifications.
func (m *Monitor) SetNotifyHandler(handler NotificationHandler) {
	m.onNotify = handler
}

// Start begins monitoring D-Bus for notification traffic.
// A monitoring connection cannot be used for anything else, so it is
// private rather than the shared session bus.
func (m *Monitor) Start() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	m.conn = conn

	rules := []string{
		"type='method_call',interface='org.freedesktop.Notifications',member='Notify'",
	}

	err = conn.BusObject().Call(
		"org.freedesktop.DBus.Monitoring.BecomeMonitor",
		0,
		rules,
		uint32(0),
	).Err

	if err != nil {
		// Older buses lack BecomeMonitor
		m.logger.Warn("BecomeMonitor not available, trying AddMatch", "error", err)
		return m.startWithAddMatch()
	}

	m.logger.Info("started D-Bus monitor using BecomeMonitor")

	go m.processMessages()

	return nil
}

// startWithAddMatch uses the older AddMatch API for eavesdropping.
func (m *Monitor) startWithAddMatch() error {
	matchRule := "type='method_call',interface='org.freedesktop.Notifications',member='Notify',eavesdrop='true'"

	err := m.conn.BusObject().Call(
		"org.freedesktop.DBus.AddMatch",
		0,
		matchRule,
	).Err

	if err != nil {
		return fmt.Errorf("failed to add match rule (eavesdrop may require permissions): %w", err)
	}

	m.logger.Info("started D-Bus monitor using AddMatch with eavesdrop")

	go m.processMessages()

	return nil
}

// processMessages reads and processes D-Bus messages.
func (m *Monitor) processMessages() {
	ch := make(chan *dbus.Message, 100)
	m.conn.Eavesdrop(ch)

	for msg := range ch {
		if msg.Type != dbus.TypeMethodCall {
			continue
		}
		if msg.Headers[dbus.FieldInterface].Value() != notificationsIface {
			continue
		}
		if msg.Headers[dbus.FieldMember].Value() != "Notify" {
			continue
		}

		m.handleNotify(msg)
	}
}

// handleNotify parses a Notify method call and invokes the handler.
func (m *Monitor) handleNotify(msg *dbus.Message) {
	notification, err := parseNotifyBody(msg.Body)
	if err != nil {
		m.logger.Warn("malformed Notify call", "error", err)
		return
	}

	// The reply carrying the real id goes to the sender, not to us
	id := generateMonitorID(notification)

	m.logger.Debug("captured notification",
		"app", notification.AppName,
		"summary", notification.Summary,
		"id", id)

	if m.onNotify != nil {
		m.onNotify(notification, id)
	}
}

// parseNotifyBody decodes Notify(app_name, replaces_id, app_icon, summary,
// body, actions, hints, expire_timeout).
func parseNotifyBody(body []any) (*DBusNotification, error) {
	if len(body) < 8 {
		return nil, fmt.Errorf("expected 8 arguments, got %d", len(body))
	}

	notification := &DBusNotification{}

	var ok bool
	if notification.AppName, ok = body[0].(string); !ok {
		return nil, errors.New("invalid app_name type")
	}
	if notification.ReplacesID, ok = body[1].(uint32); !ok {
		return nil, errors.New("invalid replaces_id type")
	}
	if notification.AppIcon, ok = body[2].(string); !ok {
		return nil, errors.New("invalid app_icon type")
	}
	if notification.Summary, ok = body[3].(string); !ok {
		return nil, errors.New("invalid summary type")
	}
	if notification.Body, ok = body[4].(string); !ok {
		return nil, errors.New("invalid body type")
	}

	if actions, ok := body[5].([]string); ok {
		notification.Actions = actions
	}
	if hints, ok := body[6].(map[string]dbus.Variant); ok {
		notification.Hints = hints
	}

	notification.ExpireTimeout = -1
	if timeout, ok := body[7].(int32); ok {
		notification.ExpireTimeout = timeout
	}

	return notification, nil
}

// generateMonitorID creates a pseudo-ID for monitored notifications from
// their content.
func generateMonitorID(n *DBusNotification) uint32 {
	data := []byte(n.AppName + n.Summary)
	var hash uint32
	for _, b := range data {
		hash = hash*31 + uint32(b)
	}
	hash ^= binary.LittleEndian.Uint32([]byte{
		byte(len(n.Body)),
		byte(len(n.Actions)),
		byte(n.ExpireTimeout),
		byte(n.ExpireTimeout >> 8),
	})
	return hash
}

// Stop closes the monitoring connection, which ends processMessages.
func (m *Monitor) Stop() error {
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}
