package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSelectorsMissingFileUsesDefaults(t *testing.T) {
	selectors, err := LoadSelectors(filepath.Join(t.TempDir(), "rules.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAdSelectors(), selectors)
}

func TestLoadSelectorsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rules := `
selectors:
  - ".promo-banner"
  - "iframe[src*='tracking']"
`
	require.NoError(t, os.WriteFile(path, []byte(rules), 0o644))

	selectors, err := LoadSelectors(path)
	require.NoError(t, err)
	assert.Equal(t, []string{".promo-banner", "iframe[src*='tracking']"}, selectors)
}

func TestLoadSelectorsUnparseableFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - ["), 0o644))

	selectors, err := LoadSelectors(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultAdSelectors(), selectors)
}

func TestLoadSelectorsEmptyListFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("selectors: []"), 0o644))

	selectors, err := LoadSelectors(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultAdSelectors(), selectors)
}

func TestDefaultAdSelectorsCopy(t *testing.T) {
	first := DefaultAdSelectors()
	first[0] = "mutated"
	assert.NotEqual(t, first[0], DefaultAdSelectors()[0])
}
