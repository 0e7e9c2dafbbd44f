package launcher

import (
	"fmt"
	"strings"
)

// Window dimension and zoom clamp bounds.
const (
	MinWindowDim = 200.0
	MaxWindowDim = 8192.0
	MinZoom      = 0.25
	MaxZoom      = 5.0

	DefaultWindowWidth  = 1024.0
	DefaultWindowHeight = 768.0
)

// MobileUA is the user agent applied for the Mobile selection and for the
// simulate-mobile flag.
const MobileUA = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Mobile Safari/537.36"

// UserAgentKind selects which user agent the engine reports.
type UserAgentKind string

const (
	UADefault UserAgentKind = "default"
	UAMobile  UserAgentKind = "mobile"
	UACustom  UserAgentKind = "custom"
)

// MarshalText implements encoding.TextMarshaler for TOML encoding.
func (k UserAgentKind) MarshalText() ([]byte, error) {
	switch k {
	case UADefault, UAMobile, UACustom:
		return []byte(k), nil
	case "":
		return []byte(UADefault), nil
	default:
		return nil, fmt.Errorf("unknown user agent kind: %q", string(k))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown values fall
// back to the engine default rather than failing the whole record.
func (k *UserAgentKind) UnmarshalText(text []byte) error {
	switch UserAgentKind(strings.ToLower(string(text))) {
	case UAMobile:
		*k = UAMobile
	case UACustom:
		*k = UACustom
	default:
		*k = UADefault
	}
	return nil
}

// UserAgent is the variant-typed user agent selection.
type UserAgent struct {
	Kind   UserAgentKind `toml:"kind"`
	Custom string        `toml:"custom,omitempty"`
}

// Resolve returns the user agent string to apply and whether one should be
// applied at all. Default, and Custom with an empty string, leave the
// engine's own user agent untouched.
func (ua UserAgent) Resolve() (string, bool) {
	switch ua.Kind {
	case UAMobile:
		return MobileUA, true
	case UACustom:
		custom := strings.TrimSpace(ua.Custom)
		if custom == "" {
			return "", false
		}
		return custom, true
	case UADefault, "":
		return "", false
	default:
		return "", false
	}
}

// Window holds the native window geometry and chrome.
type Window struct {
	Width       float64 `toml:"width"`
	Height      float64 `toml:"height"`
	Decorations bool    `toml:"decorations"`
}

// Permissions holds the four independent content permission grants.
type Permissions struct {
	Camera        bool `toml:"camera"`
	Microphone    bool `toml:"microphone"`
	Geolocation   bool `toml:"geolocation"`
	Notifications bool `toml:"notifications"`
}

// Privacy holds the privacy and identity flags.
type Privacy struct {
	PrivateMode    bool      `toml:"private_mode"`
	SimulateMobile bool      `toml:"simulate_mobile"`
	UserAgent      UserAgent `toml:"user_agent"`
}

// ContentPolicy holds the content restriction flags.
type ContentPolicy struct {
	ContentBlocking        bool `toml:"content_blocking"`
	BlockThirdPartyCookies bool `toml:"block_third_party_cookies"`
	BlockWebRTC            bool `toml:"block_webrtc"`
}

// Rendering holds presentation tweaks applied inside the page.
type Rendering struct {
	ZoomLevel    float64 `toml:"zoom_level"`
	AutoDarkMode bool    `toml:"auto_dark_mode"`
}

// Session holds session lifecycle flags.
type Session struct {
	RestoreSession       bool `toml:"restore_session"`
	MinimizeToBackground bool `toml:"minimize_to_background"`
}

// Usage holds read-only display statistics maintained by the host.
type Usage struct {
	LaunchCount  uint64 `toml:"launch_count"`
	LastLaunched int64  `toml:"last_launched,omitempty"` // unix seconds, 0 = never
}

// Launcher is the persisted per-app record. The app id doubles as the
// storage filename stem after sanitization.
type Launcher struct {
	AppID    string `toml:"app_id"`
	Name     string `toml:"name"`
	Icon     string `toml:"icon,omitempty"`
	Category string `toml:"category,omitempty"`

	URL     string `toml:"url,omitempty"`
	LastURL string `toml:"last_url,omitempty"`

	Window Window `toml:"window"`

	// Persistent profile flag. When set the engine keeps site data in a
	// per-app profile directory; otherwise the context is ephemeral.
	Persistent bool `toml:"persistent"`

	Privacy     Privacy       `toml:"privacy"`
	Permissions Permissions   `toml:"permissions"`
	Content     ContentPolicy `toml:"content_policy"`

	ProxyURL string `toml:"proxy_url,omitempty"`

	Rendering Rendering `toml:"rendering"`
	Session   Session   `toml:"session"`

	CustomCSS string `toml:"custom_css,omitempty"`
	CustomJS  string `toml:"custom_js,omitempty"`

	URLSchemes []string `toml:"url_schemes,omitempty"`

	Usage Usage `toml:"usage"`
}

// New returns a launcher record with defaults applied.
func New(appID, name string) *Launcher {
	return &Launcher{
		AppID: appID,
		Name:  name,
		Window: Window{
			Width:       DefaultWindowWidth,
			Height:      DefaultWindowHeight,
			Decorations: true,
		},
		Privacy:   Privacy{UserAgent: UserAgent{Kind: UADefault}},
		Rendering: Rendering{ZoomLevel: 1.0},
	}
}

// Normalize clamps numeric fields into their allowed bounds and fills
// zero-valued geometry with defaults. Applied after decode and before
// every save so no out-of-bounds value ever round-trips.
func (l *Launcher) Normalize() {
	if l.Window.Width == 0 {
		l.Window.Width = DefaultWindowWidth
	}
	if l.Window.Height == 0 {
		l.Window.Height = DefaultWindowHeight
	}
	l.Window.Width = clamp(l.Window.Width, MinWindowDim, MaxWindowDim)
	l.Window.Height = clamp(l.Window.Height, MinWindowDim, MaxWindowDim)

	if l.Rendering.ZoomLevel == 0 {
		l.Rendering.ZoomLevel = 1.0
	}
	l.Rendering.ZoomLevel = clamp(l.Rendering.ZoomLevel, MinZoom, MaxZoom)

	if l.Privacy.UserAgent.Kind == "" {
		l.Privacy.UserAgent.Kind = UADefault
	}
}

// Title returns the display title, falling back to a generic one.
func (l *Launcher) Title() string {
	if strings.TrimSpace(l.Name) == "" {
		return "Web App"
	}
	return l.Name
}

// EffectiveUserAgent resolves the user agent with simulate-mobile taking
// precedence over the variant selection.
func (l *Launcher) EffectiveUserAgent() (string, bool) {
	if l.Privacy.SimulateMobile {
		return MobileUA, true
	}
	return l.Privacy.UserAgent.Resolve()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
