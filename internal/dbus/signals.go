package dbus

import (
	"errors"
	"fmt"
)

var errNotConnected = errors.New("not connected to D-Bus")

// EmitNotificationClosed sends NotificationClosed for id.
func (s *NotificationServer) EmitNotificationClosed(id uint32, reason CloseReason) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return errNotConnected
	}

	if err := conn.Emit(notificationsPath, notificationsIface+".NotificationClosed", id, uint32(reason)); err != nil {
		return fmt.Errorf("failed to emit NotificationClosed: %w", err)
	}
	s.logger.Debug("notification closed", "id", id, "reason", reason.String())
	return nil
}

// CloseWithReason reports id closed, once. Ids that are not open are ignored.
func (s *NotificationServer) CloseWithReason(id uint32, reason CloseReason) error {
	if !s.MarkClosed(id) {
		return nil
	}
	return s.EmitNotificationClosed(id, reason)
}
