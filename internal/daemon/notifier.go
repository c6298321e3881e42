package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/dwmstatus/internal/model"
)

// NotificationLevel indicates the severity of an internal notification.
type NotificationLevel int

const (
	// NotificationLevelInfo is for informational messages (low urgency).
	NotificationLevelInfo NotificationLevel = iota
	// NotificationLevelWarning is for warning messages (normal urgency).
	NotificationLevelWarning
	// NotificationLevelError is for error messages (critical urgency).
	NotificationLevelError
)

const internalTimeoutMs = 5000

// InternalNotifier shows dwmstatus's own events as banners. Repeats of the
// same key within the minimum interval are dropped.
type InternalNotifier struct {
	mu      sync.Mutex
	logger  *slog.Logger
	mailbox *Mailbox

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration
	now            func() time.Time

	enabled bool
}

// NewInternalNotifier creates an InternalNotifier that posts to mailbox.
func NewInternalNotifier(mailbox *Mailbox, logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		mailbox:        mailbox,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		now:            time.Now,
		enabled:        true,
	}
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between notifications with the same key.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify posts a banner unless disabled or rate limited.
// It reports whether the notification was posted.
func (n *InternalNotifier) Notify(key, summary, body string, level NotificationLevel) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.enabled {
		return false
	}

	now := n.now()
	if last, ok := n.lastNotifyTime[key]; ok && now.Sub(last) < n.minInterval {
		n.logger.Debug("internal notification rate-limited", "key", key, "summary", summary)
		return false
	}

	notification, err := model.NewNotification("dwmstatus", summary, body, internalTimeoutMs)
	if err != nil {
		n.logger.Error("failed to create internal notification", "error", err)
		return false
	}
	switch level {
	case NotificationLevelInfo:
		notification.SetUrgency(model.UrgencyLow)
	case NotificationLevelWarning:
		notification.SetUrgency(model.UrgencyNormal)
	case NotificationLevelError:
		notification.SetUrgency(model.UrgencyCritical)
	}

	n.lastNotifyTime[key] = now
	n.logger.Debug("sending internal notification", "key", key, "summary", summary, "level", level)

	if replaced := n.mailbox.Put(notification); replaced != nil {
		n.logger.Debug("replaced pending notification", "replaced", replaced.String())
	}
	return true
}

// NotifyConfigReloaded reports a successful config reload.
func (n *InternalNotifier) NotifyConfigReloaded() bool {
	return n.Notify("config-reload", "dwmstatus:", "configuration reloaded", NotificationLevelInfo)
}

// NotifyConfigError reports a config file that failed to load.
func (n *InternalNotifier) NotifyConfigError(err error) bool {
	return n.Notify("config-error", "dwmstatus:", "config error: "+err.Error(), NotificationLevelWarning)
}
