package config

import (
	"io"
	"testing"

	"logpeek/internal/settings"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("LOGPEEK_MAX_BUFFER", "")
	cfg, err := Parse(nil, false, io.Discard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Theme != ThemeDark || cfg.UseStdin || cfg.MaxBuffer != 50000 || len(cfg.Files) != 0 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := Parse([]string{"-file", "a.log, b.log", "-theme", "light", "-max-buffer", "10", "-export", "html", "-out", "r.html", "-time-layout", "02.01.2006 15:04"}, false, io.Discard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Files) != 2 || cfg.Files[1] != "b.log" {
		t.Fatalf("files = %q", cfg.Files)
	}
	if cfg.Theme != ThemeLight || cfg.MaxBuffer != minBuffer || cfg.ExportFormat != "html" || cfg.TimeLayout != "02.01.2006 15:04" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestParseStdin(t *testing.T) {
	cfg, err := Parse(nil, true, io.Discard)
	if err != nil || !cfg.UseStdin {
		t.Fatalf("piped stdin should be used: %+v %v", cfg, err)
	}
	cfg, err = Parse([]string{"-file", "x.log"}, true, io.Discard)
	if err != nil || cfg.UseStdin {
		t.Fatalf("explicit file wins over pipe: %+v %v", cfg, err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"export without out", []string{"-file", "a", "-export", "csv"}},
		{"export without file", []string{"-export", "csv", "-out", "x"}},
		{"bad export", []string{"-file", "a", "-export", "xml", "-out", "x"}},
		{"bad theme", []string{"-theme", "neon"}},
		{"follow many", []string{"-file", "a,b", "-follow"}},
		{"unknown flag", []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.args, false, io.Discard); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestMerge(t *testing.T) {
	s := settings.Settings{DateTimePattern: "15:04", Theme: "light", FilePatterns: []string{"*.out"}, RecursiveLoad: true}

	cfg, _ := Parse(nil, false, io.Discard)
	cfg.Merge(s)
	if cfg.Theme != ThemeLight || cfg.DateFormat != "15:04" || !cfg.Recursive || cfg.Patterns[0] != "*.out" {
		t.Fatalf("merged = %+v", cfg)
	}

	cfg, _ = Parse([]string{"-theme", "dark", "-date-format", "2006", "-pattern", "*.log", "-recursive=false"}, false, io.Discard)
	cfg.Merge(s)
	if cfg.Theme != ThemeDark || cfg.DateFormat != "2006" || cfg.Recursive || cfg.Patterns[0] != "*.log" {
		t.Fatalf("flags should win: %+v", cfg)
	}
	if !cfg.Explicit("theme") || cfg.Explicit("follow") {
		t.Fatalf("Explicit mismatch")
	}
}
