package ipc

import (
	"fmt"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/olafkfreund/cosmic-ext-web-apps/internal/logging"
)

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(summary, body string) error
}

// URLSaver queues a last-visited URL persist.
type URLSaver interface {
	SaveURL(url string)
}

// Config sets the policy gates for a gateway.
type Config struct {
	AppTitle             string
	ForwardNotifications bool
	RestoreSession       bool
}

// Gateway is the single inbound message channel from rendered content.
// Payloads are untrusted: anything malformed is dropped, never escalated.
type Gateway struct {
	cfg      Config
	notifier Notifier
	saver    URLSaver
	log      *logging.Logger
}

// NewGateway builds a gateway. notifier and saver may be nil when the
// corresponding policy gate is closed.
func NewGateway(cfg Config, notifier Notifier, saver URLSaver, log *logging.Logger) *Gateway {
	if log == nil {
		log = logging.NewNop()
	}
	return &Gateway{cfg: cfg, notifier: notifier, saver: saver, log: log}
}

// Handle processes one raw payload from the content side. It never blocks
// on I/O and never returns an error to the caller: the engine invokes it
// on the UI thread and garbage from the page must not crash the host.
// Fields are read individually so one wrong-typed field degrades to its
// default instead of discarding the message.
func (g *Gateway) Handle(raw string) {
	var msg map[string]any
	if err := sonic.UnmarshalString(raw, &msg); err != nil {
		g.log.Debug("Dropping unparseable IPC payload", zap.Error(err))
		return
	}

	typ, _ := msg["type"].(string)
	switch typ {
	case "notification":
		g.handleNotification(msg)
	case "media":
		if state, ok := msg["state"].(string); ok && state != "" {
			g.log.Debug("Media state", zap.String("state", state))
		}
	case "badge":
		if count, ok := msg["count"].(float64); ok {
			g.log.Debug("Badge count", zap.Int64("count", int64(count)))
		}
	case "save_url":
		g.handleSaveURL(msg)
	default:
		g.log.Debug("Dropping IPC message of unknown type", zap.String("type", typ))
	}
}

func (g *Gateway) handleNotification(msg map[string]any) {
	if !g.cfg.ForwardNotifications || g.notifier == nil {
		g.log.Debug("Dropping notification, permission not granted")
		return
	}
	// A missing or non-string title falls back; an explicit empty string
	// stays empty.
	title, ok := msg["title"].(string)
	if !ok {
		title = "Notification"
	}
	body, _ := msg["body"].(string)
	summary := fmt.Sprintf("%s — %s", g.cfg.AppTitle, title)
	if err := g.notifier.Notify(summary, body); err != nil {
		g.log.Warn("Failed to show notification", zap.Error(err))
	}
}

func (g *Gateway) handleSaveURL(msg map[string]any) {
	if !g.cfg.RestoreSession || g.saver == nil {
		return
	}
	url, ok := msg["url"].(string)
	if !ok || url == "" {
		return
	}
	g.saver.SaveURL(url)
}
