package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	dbusDestination  = "org.freedesktop.Notifications"
	dbusPath         = "/org/freedesktop/Notifications"
	dbusNotifyMethod = dbusDestination + ".Notify"

	urgencyNormal   byte = 1
	urgencyCritical byte = 2
)

// DBus talks to the desktop notification daemon over the session bus
type DBus struct {
	appName string
}

// NewDBus creates a freedesktop notifications backend
func NewDBus(appName string) *DBus {
	if appName == "" {
		appName = defaultAppName
	}
	return &DBus{appName: appName}
}

// Name implements Backend
func (d *DBus) Name() string {
	return "dbus"
}

// Show implements Backend
func (d *DBus) Show(n Notification) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	obj := conn.Object(dbusDestination, dbus.ObjectPath(dbusPath))
	call := obj.Call(dbusNotifyMethod, 0, d.notifyArgs(n)...)
	if call.Err != nil {
		return fmt.Errorf("failed to call %s: %w", dbusNotifyMethod, call.Err)
	}

	return nil
}

// notifyArgs builds the Notify(susssasa{sv}i) arguments
func (d *DBus) notifyArgs(n Notification) []interface{} {
	urgency := urgencyNormal
	if n.Critical {
		urgency = urgencyCritical
	}

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgency),
	}

	return []interface{}{
		d.appName,
		uint32(0), // replaces_id
		n.Icon,
		n.Title,
		n.Body,
		[]string{}, // actions
		hints,
		int32(n.Timeout.Milliseconds()),
	}
}
