package dbus

import (
	"fmt"
	"log/slog"

	"github.com/jmylchreest/dwmstatus/internal/config"
)

// NotificationHandler is called when a new notification is received.
type NotificationHandler func(notification *DBusNotification, id uint32)

// Listener delivers incoming notifications to a handler.
type Listener interface {
	SetNotifyHandler(handler NotificationHandler)
	Start() error
	Stop() error
}

// NewListener returns the listener for the configured mode.
func NewListener(mode string, logger *slog.Logger) (Listener, error) {
	switch mode {
	case config.NotifyModeServer:
		return NewNotificationServer(logger), nil
	case config.NotifyModeMonitor:
		return NewMonitor(logger), nil
	default:
		return nil, fmt.Errorf("unknown notifications mode %q", mode)
	}
}
