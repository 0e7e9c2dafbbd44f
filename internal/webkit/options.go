package webkit

import (
	"github.com/olafkfreund/cosmic-ext-web-apps/internal/launcher"
	"github.com/olafkfreund/cosmic-ext-web-apps/internal/policy"
)

// Options is everything the native engine needs to host one app window.
type Options struct {
	Title      string
	Width      int
	Height     int
	Decorated  bool
	Ephemeral  bool
	ProfileDir string

	// UserAgent overrides the engine default when non-empty.
	UserAgent string

	// Engine-level permission grants. The injected guards shadow the same
	// policy inside the page; these answer the toolkit's own prompts.
	AllowCamera        bool
	AllowMicrophone    bool
	AllowGeolocation   bool
	AllowNotifications bool

	BlockThirdPartyCookies bool

	// Scripts are injected at document start in slice order.
	Scripts []policy.Script

	StartURL string

	// MinimizeToBackground turns window close into hide instead of quit.
	MinimizeToBackground bool
}

// BuildOptions assembles engine options from a normalized launcher record.
// private forces an ephemeral context regardless of the stored flags, and
// profileDir is only consulted for persistent non-private apps.
func BuildOptions(l *launcher.Launcher, scripts []policy.Script, private bool, profileDir string) Options {
	opts := Options{
		Title:                l.Title(),
		Width:                int(l.Window.Width),
		Height:               int(l.Window.Height),
		Decorated:            l.Window.Decorations,
		Scripts:              scripts,
		StartURL:             StartURL(l),
		MinimizeToBackground: l.Session.MinimizeToBackground,

		AllowCamera:        l.Permissions.Camera,
		AllowMicrophone:    l.Permissions.Microphone,
		AllowGeolocation:   l.Permissions.Geolocation,
		AllowNotifications: l.Permissions.Notifications,

		BlockThirdPartyCookies: l.Content.BlockThirdPartyCookies,
	}

	if private || l.Privacy.PrivateMode || !l.Persistent {
		opts.Ephemeral = true
	} else {
		opts.ProfileDir = profileDir
	}

	if ua, ok := l.EffectiveUserAgent(); ok {
		opts.UserAgent = ua
	}

	return opts
}

// StartURL picks the first page to load. A saved session URL wins when
// session restore is on, the saved URL is safe to load, and it differs
// from the configured start page.
func StartURL(l *launcher.Launcher) string {
	if l.Session.RestoreSession && l.LastURL != "" && l.LastURL != l.URL && policy.IsSafeURL(l.LastURL) {
		return l.LastURL
	}
	return l.URL
}
