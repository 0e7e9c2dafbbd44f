package launcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeClampsWindow(t *testing.T) {
	tests := []struct {
		name       string
		width      float64
		height     float64
		wantWidth  float64
		wantHeight float64
	}{
		{"oversized width", 99999, 768, 8192, 768},
		{"undersized width", 10, 768, 200, 768},
		{"oversized height", 1024, 99999, 1024, 8192},
		{"undersized height", 1024, 10, 1024, 200},
		{"in bounds untouched", 1280, 720, 1280, 720},
		{"zero gets defaults", 0, 0, DefaultWindowWidth, DefaultWindowHeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New("test", "Test")
			l.Window.Width = tt.width
			l.Window.Height = tt.height
			l.Normalize()
			assert.Equal(t, tt.wantWidth, l.Window.Width)
			assert.Equal(t, tt.wantHeight, l.Window.Height)
		})
	}
}

func TestNormalizeClampsZoom(t *testing.T) {
	tests := []struct {
		name string
		zoom float64
		want float64
	}{
		{"too large", 10.0, 5.0},
		{"too small", 0.01, 0.25},
		{"in bounds", 1.5, 1.5},
		{"zero defaults to one", 0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New("test", "Test")
			l.Rendering.ZoomLevel = tt.zoom
			l.Normalize()
			assert.Equal(t, tt.want, l.Rendering.ZoomLevel)
		})
	}
}

func TestUserAgentResolve(t *testing.T) {
	tests := []struct {
		name    string
		ua      UserAgent
		want    string
		applied bool
	}{
		{"default leaves engine UA", UserAgent{Kind: UADefault}, "", false},
		{"empty kind leaves engine UA", UserAgent{}, "", false},
		{"mobile", UserAgent{Kind: UAMobile}, MobileUA, true},
		{"custom", UserAgent{Kind: UACustom, Custom: "MyAgent/1.0"}, "MyAgent/1.0", true},
		{"custom empty falls back", UserAgent{Kind: UACustom, Custom: "   "}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, applied := tt.ua.Resolve()
			assert.Equal(t, tt.applied, applied)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveUserAgentSimulateMobilePrecedence(t *testing.T) {
	l := New("test", "Test")
	l.Privacy.SimulateMobile = true
	l.Privacy.UserAgent = UserAgent{Kind: UACustom, Custom: "MyAgent/1.0"}

	got, applied := l.EffectiveUserAgent()
	assert.True(t, applied)
	assert.Equal(t, MobileUA, got)
}

func TestUserAgentKindUnmarshalUnknownFallsBack(t *testing.T) {
	var k UserAgentKind
	assert.NoError(t, k.UnmarshalText([]byte("spaceship")))
	assert.Equal(t, UADefault, k)

	assert.NoError(t, k.UnmarshalText([]byte("Mobile")))
	assert.Equal(t, UAMobile, k)
}

func TestTitleFallback(t *testing.T) {
	l := New("x", "")
	assert.Equal(t, "Web App", l.Title())

	l.Name = "Mail"
	assert.Equal(t, "Mail", l.Title())
}
