// Package notify delivers desktop notifications over the session bus.
//
// Title and body arrive from rendered web content, so both are stripped of
// markup before they reach the notification daemon, which may interpret
// body text as Pango/HTML markup.
package notify

import (
	"fmt"
	"html"

	"github.com/godbus/dbus/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/olafkfreund/cosmic-ext-web-apps/internal/logging"
)

const (
	notificationsDest = "org.freedesktop.Notifications"
	notificationsPath = "/org/freedesktop/Notifications"
	notifyMethod      = "org.freedesktop.Notifications.Notify"
)

// stripper removes every tag; only text nodes survive.
var stripper = bluemonday.StrictPolicy()

// Notifier shows desktop notifications.
type Notifier interface {
	Notify(summary, body string) error
}

// DBusNotifier sends notifications via org.freedesktop.Notifications.
type DBusNotifier struct {
	conn    *dbus.Conn
	appName string
	icon    string
	breaker *breaker
	log     *logging.Logger
}

// NewDBusNotifier connects to the session bus. appName identifies the
// sender to the daemon; icon may be empty.
func NewDBusNotifier(appName, icon string, log *logging.Logger) (*DBusNotifier, error) {
	if log == nil {
		log = logging.NewNop()
	}
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &DBusNotifier{conn: conn, appName: appName, icon: icon, breaker: newBreaker(), log: log}, nil
}

// Notify shows one desktop notification. Each call is a discrete event;
// nothing is deduplicated. Delivery pauses behind a breaker once the
// daemon stops answering.
func (n *DBusNotifier) Notify(summary, body string) error {
	return n.breaker.call(func() error {
		obj := n.conn.Object(notificationsDest, dbus.ObjectPath(notificationsPath))
		call := obj.Call(notifyMethod, 0,
			n.appName,
			uint32(0), // never replace an earlier notification
			n.icon,
			SanitizeSummary(summary),
			SanitizeBody(body),
			[]string{},
			map[string]dbus.Variant{},
			int32(-1),
		)
		if call.Err != nil {
			return fmt.Errorf("failed to show notification: %w", call.Err)
		}
		n.log.Debug("Notification shown", zap.String("summary", summary))
		return nil
	})
}

// Close releases the bus connection.
func (n *DBusNotifier) Close() error {
	return n.conn.Close()
}

// SanitizeSummary strips markup and entity-escaping from a summary. The
// daemon treats summaries as plain text, so unescaping is safe.
func SanitizeSummary(s string) string {
	return html.UnescapeString(stripper.Sanitize(s))
}

// SanitizeBody strips markup from a body. Entities stay escaped because
// many daemons render body text as markup.
func SanitizeBody(s string) string {
	return stripper.Sanitize(s)
}
