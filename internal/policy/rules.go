package policy

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// defaultAdSelectors is the built-in ad/tracker selector set applied when
// content blocking is enabled and no rules file overrides it.
var defaultAdSelectors = []string{
	`iframe[src*="ads"]`,
	`iframe[src*="doubleclick"]`,
	`div[class*="ad-"]`,
	`div[class*="advert"]`,
	`div[id*="google_ads"]`,
	`ins.adsbygoogle`,
	`[data-ad]`,
	`[data-ads]`,
	`[data-ad-slot]`,
}

// DefaultAdSelectors returns a copy of the built-in selector list.
func DefaultAdSelectors() []string {
	out := make([]string, len(defaultAdSelectors))
	copy(out, defaultAdSelectors)
	return out
}

// rulesFile is the on-disk shape of a selector override.
type rulesFile struct {
	Selectors []string `yaml:"selectors"`
}

// LoadSelectors reads a YAML rules file with a `selectors` list. A missing
// file is not an error: the defaults apply. An unreadable or empty rules
// file falls back to the defaults as well, with the parse error reported so
// a broken rules file never silently disables blocking.
func LoadSelectors(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultAdSelectors(), nil
	}
	if err != nil {
		return DefaultAdSelectors(), fmt.Errorf("failed to read blocking rules: %w", err)
	}
	var rules rulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return DefaultAdSelectors(), fmt.Errorf("failed to parse blocking rules: %w", err)
	}
	if len(rules.Selectors) == 0 {
		return DefaultAdSelectors(), nil
	}
	return rules.Selectors, nil
}
