package detect

import (
	"path/filepath"
	"testing"
)

func TestHeuristics(t *testing.T) {
	tests := []struct {
		name   string
		sample []string
		want   string
	}{
		{"json", []string{`{"ts":"2025-01-01T12:00:00Z","level":"info","msg":"ok"}`, `{"level":"warn"}`}, "json_lines"},
		{"logfmt", []string{`time=2025-01-01T12:00:00Z level=warn msg="slow"`, `level=info msg=ok`}, "logfmt"},
		{"apache", []string{`127.0.0.1 - - [01/Jan/2025:12:00:02 +0000] "GET /index.html HTTP/1.1" 200 1234 "-" "curl/8.0"`}, "apache_combined"},
		{"syslog", []string{`<34>1 2025-01-01T12:00:03Z myhost app - - - User login ok`}, "syslog_rfc5424"},
		{"text with continuation", []string{"2025-01-01 12:00:00.000 INFO [api] started", "  continued line", "  and another"}, "text"},
		{"empty", []string{"", "   "}, "unknown"},
		{"prose", []string{"hello there", "nothing structured"}, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Heuristics(tt.sample)
			if g.Format.Name != tt.want {
				t.Fatalf("Heuristics = %s, want %s", g.Format.Name, tt.want)
			}
		})
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "logfmt", "text", "apache", "syslog", "raw"} {
		if _, ok := ByName(name); !ok {
			t.Errorf("ByName(%q) not found", name)
		}
	}
	if _, ok := ByName("xml"); ok {
		t.Errorf("ByName(xml) should not resolve")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	prev := CacheDir
	CacheDir = func() string { return dir }
	defer func() { CacheDir = prev }()

	logPath := filepath.Join(dir, "app.log")
	if _, ok := LoadCached(logPath); ok {
		t.Fatalf("unexpected cache hit before save")
	}
	if err := SaveCached(logPath, Logfmt()); err != nil {
		t.Fatalf("SaveCached: %v", err)
	}
	got, ok := LoadCached(logPath)
	if !ok || got.Name != "logfmt" {
		t.Fatalf("LoadCached = %+v, %v", got, ok)
	}
	if err := SaveCached("  ", Logfmt()); err == nil {
		t.Fatalf("SaveCached with empty path should fail")
	}
}
