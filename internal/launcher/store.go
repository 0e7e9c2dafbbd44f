package launcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/olafkfreund/cosmic-ext-web-apps/internal/logging"
)

const appDirName = "cosmic-ext-web-apps"

// DataDir resolves the launcher record directory. An explicit override wins,
// then XDG_DATA_HOME, then ~/.local/share.
func DataDir(override string) string {
	if override != "" {
		return override
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return appDirName
	}
	return filepath.Join(home, ".local", "share", appDirName)
}

// Store persists launcher records, one TOML file per app.
type Store struct {
	dir string
	log *logging.Logger
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, log *logging.Logger) *Store {
	if log == nil {
		log = logging.NewNop()
	}
	return &Store{dir: dir, log: log}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the record path for an app id.
func (s *Store) Path(appID string) string {
	return filepath.Join(s.dir, SanitizeAppID(appID)+".toml")
}

// ProfileDir returns the persistent profile directory for an app id.
func (s *Store) ProfileDir(appID string) string {
	return filepath.Join(s.dir, "profiles", SanitizeAppID(appID))
}

// SelectorsPath returns the user-editable blocking rules file. The file is
// optional; built-in selectors apply when it is absent.
func (s *Store) SelectorsPath() string {
	return filepath.Join(s.dir, "blocking.yaml")
}

// Load reads and normalizes a launcher record. A missing or unparseable
// record is an error; callers treat it as "no config" and abort gracefully.
func (s *Store) Load(appID string) (*Launcher, error) {
	if err := ValidateAppID(appID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(appID))
	if err != nil {
		return nil, fmt.Errorf("failed to read launcher record: %w", err)
	}
	var l Launcher
	if err := toml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse launcher record: %w", err)
	}
	l.Normalize()
	return &l, nil
}

// Save writes a full launcher record atomically.
func (s *Store) Save(l *Launcher) error {
	if err := ValidateAppID(l.AppID); err != nil {
		return err
	}
	l.Normalize()
	data, err := toml.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode launcher record: %w", err)
	}
	return s.writeAtomic(s.Path(l.AppID), data)
}

// PersistLastURL updates only the last_url field of the stored record.
// Best-effort: if the record is missing or unparseable nothing is written
// and no record is fabricated.
func (s *Store) PersistLastURL(appID, url string) {
	l, err := s.Load(appID)
	if err != nil {
		s.log.Debug("Skipping last URL persist", zap.String("app_id", appID), zap.Error(err))
		return
	}
	l.LastURL = url
	if err := s.Save(l); err != nil {
		s.log.Debug("Failed to persist last URL", zap.String("app_id", appID), zap.Error(err))
	}
}

// RecordLaunch bumps the usage counters for an app. Best-effort.
func (s *Store) RecordLaunch(appID string) {
	l, err := s.Load(appID)
	if err != nil {
		s.log.Debug("Skipping launch stats update", zap.String("app_id", appID), zap.Error(err))
		return
	}
	l.Usage.LaunchCount++
	l.Usage.LastLaunched = time.Now().Unix()
	if err := s.Save(l); err != nil {
		s.log.Debug("Failed to update launch stats", zap.String("app_id", appID), zap.Error(err))
	}
}

// List returns every readable launcher record, sorted by name. Unparseable
// files are skipped.
func (s *Store) List() ([]*Launcher, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read launcher directory: %w", err)
	}

	var launchers []*Launcher
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		appID := strings.TrimSuffix(entry.Name(), ".toml")
		l, err := s.Load(appID)
		if err != nil {
			s.log.Warn("Skipping unreadable launcher record", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		launchers = append(launchers, l)
	}
	sort.Slice(launchers, func(i, j int) bool { return launchers[i].Name < launchers[j].Name })
	return launchers, nil
}

// Delete removes a launcher record.
func (s *Store) Delete(appID string) error {
	if err := ValidateAppID(appID); err != nil {
		return err
	}
	if err := os.Remove(s.Path(appID)); err != nil {
		return fmt.Errorf("failed to delete launcher record: %w", err)
	}
	return nil
}

// ClearData removes an app's persistent profile directory.
func (s *Store) ClearData(appID string) error {
	if err := ValidateAppID(appID); err != nil {
		return err
	}
	if err := os.RemoveAll(s.ProfileDir(appID)); err != nil {
		return fmt.Errorf("failed to clear app data: %w", err)
	}
	return nil
}

// writeAtomic writes via a temp file and rename so readers never observe a
// partial record.
func (s *Store) writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create launcher directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".launcher-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp record: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp record: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace launcher record: %w", err)
	}
	return nil
}
