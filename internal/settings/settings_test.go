package settings

import (
	"os"
	"path/filepath"
	"testing"

	"logpeek/internal/markup"
	"logpeek/internal/render"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.DateTimePattern != render.DefaultDateFormat || s.Theme != markup.StyleDark {
		t.Fatalf("defaults = %+v", s)
	}
	if len(s.FilePatterns) == 0 || s.RecursiveLoad {
		t.Fatalf("defaults = %+v", s)
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "logpeek")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := "date_time_pattern = \"15:04:05\"\ntheme = \"light\"\nfile_patterns = [\"*.out\", \" \"]\nrecursive_load = true\n"
	if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.DateTimePattern != "15:04:05" || s.Theme != "light" || !s.RecursiveLoad {
		t.Fatalf("settings = %+v", s)
	}
	if len(s.FilePatterns) != 1 || s.FilePatterns[0] != "*.out" {
		t.Fatalf("patterns = %q", s.FilePatterns)
	}
}

func TestLoad_NormalizesBadValues(t *testing.T) {
	p := filepath.Join(t.TempDir(), "s.toml")
	if err := os.WriteFile(p, []byte("theme = \"neon\"\ndate_time_pattern = \"\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	s, err := Load(p)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.Theme != markup.StyleDark || s.DateTimePattern != render.DefaultDateFormat {
		t.Fatalf("settings = %+v", s)
	}
}

func TestLoad_MalformedReturnsDefaultsAndError(t *testing.T) {
	p := filepath.Join(t.TempDir(), "s.toml")
	if err := os.WriteFile(p, []byte("theme = \n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	s, err := Load(p)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if s.Theme != markup.StyleDark {
		t.Fatalf("settings = %+v", s)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "settings.toml")
	in := Settings{DateTimePattern: "2006", Theme: markup.StyleNoTTY, FilePatterns: []string{"*.log"}, RecursiveLoad: true, LastFolder: "/var/log"}
	if err := Save(p, in); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	out, err := Load(p)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if out.DateTimePattern != in.DateTimePattern || out.Theme != in.Theme || out.LastFolder != in.LastFolder || !out.RecursiveLoad {
		t.Fatalf("round trip = %+v", out)
	}
}
