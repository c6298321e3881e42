package daemon

import (
	"log/slog"

	"github.com/jmylchreest/dwmstatus/internal/dbus"
	"github.com/jmylchreest/dwmstatus/internal/model"
)

// NotificationCloser reports a notification closed to the client that sent it.
// It is satisfied by dbus.NotificationServer.
type NotificationCloser interface {
	CloseWithReason(id uint32, reason dbus.CloseReason) error
}

// ReportClosed connects mailbox evictions and scheduler releases to closer,
// so every notification received over D-Bus is closed exactly once.
// A banner shown for its full time closes as expired; anything evicted,
// never shown or cut short by shutdown closes as undefined.
func ReportClosed(closer NotificationCloser, mailbox *Mailbox, scheduler *Scheduler, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	closeNotification := func(n *model.Notification, reason dbus.CloseReason) {
		if n.DBusID == 0 {
			return
		}
		if err := closer.CloseWithReason(n.DBusID, reason); err != nil {
			logger.Debug("failed to report notification closed",
				"id", n.DBusID,
				"reason", reason.String(),
				"error", err,
			)
		}
	}

	mailbox.SetDropHandler(func(dropped, by *model.Notification) {
		// replaces_id: the newer notification carries the id on
		if by != nil && by.DBusID == dropped.DBusID {
			return
		}
		closeNotification(dropped, dbus.CloseReasonUndefined)
	})

	scheduler.SetReleaseHandler(func(n *model.Notification, expired bool) {
		if expired {
			closeNotification(n, dbus.CloseReasonExpired)
			return
		}
		closeNotification(n, dbus.CloseReasonUndefined)
	})
}
