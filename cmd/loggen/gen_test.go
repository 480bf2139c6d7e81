package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"logpeek/internal/detect"
	"logpeek/internal/ingest"
	"logpeek/internal/parse"
)

func generate(t *testing.T, format string, n int) []string {
	t.Helper()
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	runStream(w, format, streamOptions{count: n, shouldStop: func() bool { return false }})
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestGeneratedLinesParse(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{formatJSONLines, "json_lines"},
		{formatLogfmt, "logfmt"},
		{formatText, "text"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			lines := generate(t, tt.format, 40)
			g := detect.Heuristics(lines)
			if g.Format.Name != tt.want {
				t.Fatalf("detected %q, want %q", g.Format.Name, tt.want)
			}
			c := parse.NewCollector(g.Format, "", "gen")
			for _, l := range lines {
				c.Add(l)
			}
			if len(c.Messages()) != 40 || c.Invalid() != 0 {
				t.Fatalf("messages = %d, invalid = %d", len(c.Messages()), c.Invalid())
			}
			for _, m := range c.Messages() {
				if m.Date.IsZero() || m.Source == "" {
					t.Fatalf("message not fully parsed: %+v", m)
				}
			}
		})
	}
}

func TestGeneratorIsMonotonic(t *testing.T) {
	g := newGenerator(formatJSONLines, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	prev := g.now
	for i := 0; i < 50; i++ {
		g.next()
		if g.now.Before(prev) {
			t.Fatalf("time went backwards")
		}
		prev = g.now
	}
}

func TestCompressedOutputReadsBack(t *testing.T) {
	for _, kind := range []string{"gzip", "zstd", "xz"} {
		t.Run(kind, func(t *testing.T) {
			var buf bytes.Buffer
			cw, err := compressWriter(&buf, kind)
			if err != nil {
				t.Fatalf("compressWriter: %v", err)
			}
			w := bufio.NewWriter(cw)
			runStream(w, formatLogfmt, streamOptions{count: 5, shouldStop: func() bool { return false }})
			if err := w.Flush(); err != nil {
				t.Fatalf("flush: %v", err)
			}
			if err := cw.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}
			rc, _, err := ingest.Decompress(&buf)
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			defer rc.Close()
			var n int
			sc := bufio.NewScanner(rc)
			for sc.Scan() {
				n++
			}
			if n != 5 {
				t.Fatalf("read back %d lines", n)
			}
		})
	}
	if _, err := compressWriter(&bytes.Buffer{}, "lz4"); err == nil {
		t.Fatalf("unknown compression should fail")
	}
}

func TestNormalizeFormat(t *testing.T) {
	for in, want := range map[string]string{"JSON": formatJSONLines, " txt ": formatText, "kv": formatLogfmt, "csv": "csv"} {
		if got := normalizeFormat(in); got != want {
			t.Fatalf("normalizeFormat(%q) = %q, want %q", in, got, want)
		}
	}
	if got := splitFormats("json, bogus,logfmt"); len(got) != 2 {
		t.Fatalf("splitFormats = %v", got)
	}
}
