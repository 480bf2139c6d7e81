// Package settings persists viewer preferences in
// ~/.config/logpeek/settings.toml.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"logpeek/internal/loader"
	"logpeek/internal/markup"
	"logpeek/internal/render"
	"logpeek/internal/util/logx"
)

// Settings are the preferences that survive between runs.
type Settings struct {
	DateTimePattern string   `toml:"date_time_pattern"`
	Theme           string   `toml:"theme"`
	FilePatterns    []string `toml:"file_patterns"`
	RecursiveLoad   bool     `toml:"recursive_load"`
	LastFolder      string   `toml:"last_folder"`
}

const defaultPath = "~/.config/logpeek/settings.toml"

func DefaultPath() string { return defaultPath }

// Defaults returns the settings used when nothing is stored.
func Defaults() Settings {
	return Settings{
		DateTimePattern: render.DefaultDateFormat,
		Theme:           markup.StyleDark,
		FilePatterns:    append([]string(nil), loader.DefaultPatterns...),
	}
}

// Load reads settings from path, or the default path when empty. A missing
// or unreadable file yields the defaults; only a malformed file is reported,
// together with the defaults so the caller can carry on.
func Load(path string) (Settings, error) {
	s := Defaults()
	resolved, err := resolvePath(path)
	if err != nil {
		return s, nil
	}
	b, err := os.ReadFile(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logx.Warnf("settings: read %s: %v", resolved, err)
		}
		return s, nil
	}
	if err := toml.Unmarshal(b, &s); err != nil {
		return Defaults(), fmt.Errorf("parse settings %s: %w", resolved, err)
	}
	s.normalize()
	return s, nil
}

// Save writes s to path, creating directories as needed.
func Save(path string, s Settings) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	b, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(resolved, b, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func (s *Settings) normalize() {
	d := Defaults()
	if strings.TrimSpace(s.DateTimePattern) == "" {
		s.DateTimePattern = d.DateTimePattern
	}
	switch s.Theme {
	case markup.StyleDark, markup.StyleLight, markup.StyleNoTTY:
	default:
		s.Theme = d.Theme
	}
	var pats []string
	for _, p := range s.FilePatterns {
		if p = strings.TrimSpace(p); p != "" {
			pats = append(pats, p)
		}
	}
	if len(pats) == 0 {
		pats = d.FilePatterns
	}
	s.FilePatterns = pats
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPath
	}
	trimmed := strings.TrimSpace(path)
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
