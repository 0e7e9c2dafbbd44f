package launcher

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// safeIDPattern is the character set allowed in a storage filename stem.
var safeIDPattern = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// schemePattern matches one custom URI scheme from the allow-list.
var schemePattern = regexp.MustCompile(`^[a-z0-9+.-]+$`)

// SanitizeAppID reduces an app id to a filesystem-safe filename stem.
// Anything outside [a-zA-Z0-9_-] is dropped.
func SanitizeAppID(appID string) string {
	return safeIDPattern.ReplaceAllString(appID, "")
}

// ValidateAppID checks that an app id is usable as a storage key.
func ValidateAppID(appID string) error {
	if appID == "" {
		return fmt.Errorf("app id cannot be empty")
	}
	if SanitizeAppID(appID) == "" {
		return fmt.Errorf("app id %q contains no filesystem-safe characters", appID)
	}
	if filepath.IsAbs(appID) || filepath.Clean(appID) != appID {
		return fmt.Errorf("app id %q contains path components", appID)
	}
	return nil
}

// ParseSchemes parses a comma-separated custom URI scheme list, lowercasing
// entries and dropping anything outside [a-z0-9+.-].
func ParseSchemes(raw string) []string {
	var schemes []string
	for _, part := range strings.Split(raw, ",") {
		s := strings.ToLower(strings.TrimSpace(part))
		if s == "" || !schemePattern.MatchString(s) {
			continue
		}
		schemes = append(schemes, s)
	}
	return schemes
}
