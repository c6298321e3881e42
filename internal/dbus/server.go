package dbus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	notificationsName  = "org.freedesktop.Notifications"
	notificationsIface = "org.freedesktop.Notifications"
	notificationsPath  = dbus.ObjectPath("/org/freedesktop/Notifications")
)

const notificationsIntrospection = `
<node>
	<interface name="` + notificationsIface + `">
		<method name="GetCapabilities">
			<arg name="capabilities" type="as" direction="out"/>
		</method>
		<method name="GetServerInformation">
			<arg name="name" type="s" direction="out"/>
			<arg name="vendor" type="s" direction="out"/>
			<arg name="version" type="s" direction="out"/>
			<arg name="spec_version" type="s" direction="out"/>
		</method>
		<method name="Notify">
			<arg name="app_name" type="s" direction="in"/>
			<arg name="replaces_id" type="u" direction="in"/>
			<arg name="app_icon" type="s" direction="in"/>
			<arg name="summary" type="s" direction="in"/>
			<arg name="body" type="s" direction="in"/>
			<arg name="actions" type="as" direction="in"/>
			<arg name="hints" type="a{sv}" direction="in"/>
			<arg name="expire_timeout" type="i" direction="in"/>
			<arg name="id" type="u" direction="out"/>
		</method>
		<method name="CloseNotification">
			<arg name="id" type="u" direction="in"/>
		</method>
		<signal name="NotificationClosed">
			<arg name="id" type="u"/>
			<arg name="reason" type="u"/>
		</signal>
	</interface>` + introspect.IntrospectDataString + `</node>`

var errServerStarted = errors.New("notification server already started")

// NotificationServer owns org.freedesktop.Notifications on the session bus
// and hands every Notify call to the handler. It keeps the set of ids that
// have not been reported closed yet.
type NotificationServer struct {
	logger  *slog.Logger
	handler NotificationHandler
	info    ServerInfo

	mu      sync.Mutex
	conn    *dbus.Conn
	started bool
	lastID  uint32
	open    map[uint32]struct{}
}

// NewNotificationServer returns a server that is not on the bus yet.
func NewNotificationServer(logger *slog.Logger) *NotificationServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationServer{
		logger: logger,
		info:   DefaultServerInfo(),
		open:   make(map[uint32]struct{}),
	}
}

func (s *NotificationServer) SetNotifyHandler(handler NotificationHandler) {
	s.handler = handler
}

// SetServerInfo changes what GetServerInformation reports. Call before Start.
func (s *NotificationServer) SetServerInfo(info ServerInfo) {
	s.info = info
}

// Start exports the server and claims the well-known name. Another running
// notification daemon makes this fail; dwmstatus does not queue for the name.
func (s *NotificationServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errServerStarted
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	if err := export(conn, s); err != nil {
		return err
	}
	if err := claimName(conn); err != nil {
		return err
	}

	s.conn = conn
	s.started = true
	s.logger.Info("notification server listening", "name", notificationsName, "path", notificationsPath)
	return nil
}

func export(conn *dbus.Conn, s *NotificationServer) error {
	if err := conn.Export(s, notificationsPath, notificationsIface); err != nil {
		return fmt.Errorf("failed to export %s: %w", notificationsIface, err)
	}
	err := conn.Export(introspect.Introspectable(notificationsIntrospection), notificationsPath,
		"org.freedesktop.DBus.Introspectable")
	if err != nil {
		return fmt.Errorf("failed to export introspection data: %w", err)
	}
	return nil
}

func claimName(conn *dbus.Conn) error {
	reply, err := conn.RequestName(notificationsName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request %s: %w", notificationsName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("%s is owned by another notification daemon", notificationsName)
	}
	return nil
}

// Stop gives up the bus name. The session bus connection is shared by the
// process and stays open.
func (s *NotificationServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	s.started = false

	if _, err := s.conn.ReleaseName(notificationsName); err != nil {
		s.logger.Warn("failed to release bus name", "name", notificationsName, "error", err)
	}
	s.logger.Info("notification server stopped")
	return nil
}

// GetCapabilities implements the D-Bus method of the same name.
func (s *NotificationServer) GetCapabilities() ([]string, *dbus.Error) {
	return ServerCapabilities, nil
}

// GetServerInformation implements the D-Bus method of the same name.
func (s *NotificationServer) GetServerInformation() (string, string, string, string, *dbus.Error) {
	return s.info.Name, s.info.Vendor, s.info.Version, s.info.SpecVersion, nil
}

// Notify implements the D-Bus method. A non-zero replacesID is returned as
// the id; otherwise a fresh one is assigned. The sender waits for the reply,
// so the handler must not block.
func (s *NotificationServer) Notify(
	appName string,
	replacesID uint32,
	appIcon string,
	summary string,
	body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (uint32, *dbus.Error) {
	id := s.track(replacesID)

	s.logger.Debug("notify",
		"id", id,
		"replaces_id", replacesID,
		"app", appName,
		"summary", summary,
		"expire_timeout", expireTimeout,
	)

	if s.handler != nil {
		s.handler(&DBusNotification{
			AppName:       appName,
			ReplacesID:    replacesID,
			AppIcon:       appIcon,
			Summary:       summary,
			Body:          body,
			Actions:       actions,
			Hints:         hints,
			ExpireTimeout: expireTimeout,
		}, id)
	}
	return id, nil
}

// track picks the id for a Notify call and marks it open.
func (s *NotificationServer) track(replacesID uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := replacesID
	if id == 0 {
		s.lastID++
		id = s.lastID
	}
	s.open[id] = struct{}{}
	return id
}

// CloseNotification implements the D-Bus method. The bar cannot withdraw a
// banner early, so a showing banner stays until its time is up; the sender
// is told it was closed straight away.
func (s *NotificationServer) CloseNotification(id uint32) *dbus.Error {
	if err := s.CloseWithReason(id, CloseReasonClosed); err != nil {
		s.logger.Warn("failed to report notification closed", "id", id, "error", err)
	}
	return nil
}

// MarkClosed forgets id and reports whether it was still open.
func (s *NotificationServer) MarkClosed(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.open[id]; !ok {
		return false
	}
	delete(s.open, id)
	return true
}

// IsActive reports whether id was handed out and not closed since.
func (s *NotificationServer) IsActive(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.open[id]
	return ok
}
