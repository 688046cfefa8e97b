package feedback

import (
	"log/slog"
	"sync"
	"time"
)

// Permission mirrors the browser notification permission state.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notifier sends system notifications and vibration pulses, gated on what
// the browser reported it allows.
type Notifier struct {
	sink Sink

	mu         sync.RWMutex
	permission Permission
	vibrate    bool
}

// NewNotifier creates a Notifier with default (not yet asked) permission.
func NewNotifier(sink Sink) *Notifier {
	return &Notifier{sink: sink, permission: PermissionDefault}
}

// Apply records a capability report from a browser.
func (n *Notifier) Apply(r Report) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch r.Type {
	case ReportPermission:
		switch r.Permission {
		case PermissionGranted, PermissionDenied, PermissionDefault:
			n.permission = r.Permission
		default:
			slog.Debug("Ignoring unknown permission state", "permission", r.Permission)
		}
	case ReportCapabilities:
		n.vibrate = r.Vibrate
	}
}

// Permission returns the current notification permission.
func (n *Notifier) Permission() Permission {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.permission
}

// Notify shows a system notification. Without granted permission it is
// silently skipped and false is returned.
func (n *Notifier) Notify(title, body string) bool {
	if n.Permission() != PermissionGranted {
		slog.Debug("Notification skipped, permission not granted", "title", title)
		return false
	}
	n.sink.Emit(Event{
		Type:  EventNotification,
		Title: title,
		Body:  body,
		Icon:  notificationIcon,
		Sound: notificationSound,
	})
	return true
}

// Vibrate pulses the device vibration motor when the browser supports it.
func (n *Notifier) Vibrate(d time.Duration) bool {
	n.mu.RLock()
	supported := n.vibrate
	n.mu.RUnlock()
	if !supported {
		return false
	}
	n.sink.Emit(Event{Type: EventVibrate, DurationMS: d.Milliseconds()})
	return true
}
