package policy

import (
	"net/url"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/olafkfreund/cosmic-ext-web-apps/internal/logging"
)

// IsSafeURL reports whether a URL is allowed to be navigated to, opened in
// a new window, or downloaded from. Safe means it parses and its scheme is
// exactly http or https.
func IsSafeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Decisions holds the synchronous gate functions the engine invokes for
// navigation, new-window, and download events. All state is read-only.
type Decisions struct {
	downloadDir string
	log         *logging.Logger
}

// NewDecisions builds the decision set. downloadDir is where allowed
// downloads are redirected; empty leaves the engine's suggestion alone.
func NewDecisions(downloadDir string, log *logging.Logger) *Decisions {
	if log == nil {
		log = logging.NewNop()
	}
	return &Decisions{downloadDir: downloadDir, log: log}
}

// AllowNavigation gates in-page navigation. Denials keep the render
// surface alive; only the navigation itself is blocked.
func (d *Decisions) AllowNavigation(target string) bool {
	if IsSafeURL(target) {
		return true
	}
	d.log.Warn("Blocked navigation to unsafe URL", zap.String("url", target))
	return false
}

// AllowNewWindow gates new-window requests.
func (d *Decisions) AllowNewWindow(target string) bool {
	if IsSafeURL(target) {
		return true
	}
	d.log.Warn("Blocked new window with unsafe URL", zap.String("url", target))
	return false
}

// DecideDownload gates a download and redirects its destination into the
// configured download directory. Downloads without a usable filename are
// denied.
func (d *Decisions) DecideDownload(sourceURL, suggestedName string) (string, bool) {
	if !IsSafeURL(sourceURL) {
		d.log.Warn("Blocked download from unsafe URL", zap.String("url", sourceURL))
		return "", false
	}
	name := filepath.Base(suggestedName)
	if name == "" || name == "." || name == string(filepath.Separator) {
		d.log.Warn("Blocked download with no valid filename", zap.String("url", sourceURL))
		return "", false
	}
	if d.downloadDir == "" {
		return name, true
	}
	return filepath.Join(d.downloadDir, name), true
}
