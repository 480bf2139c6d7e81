package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"logpeek/internal/detect"
	"logpeek/internal/model"
)

func useTempCache(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	prev := detect.CacheDir
	detect.CacheDir = func() string { return dir }
	t.Cleanup(func() { detect.CacheDir = prev })
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return p
}

func TestSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b.log", "x\n")
	write(t, dir, "a.json", "{}\n")
	write(t, dir, "notes.md", "ignored\n")
	write(t, dir, "sub/c.log", "y\n")

	got, err := SupportedFiles(dir, []string{"*.log", "*.json"}, false)
	if err != nil {
		t.Fatalf("SupportedFiles: %v", err)
	}
	if len(got) != 2 || got[0].Name != "a.json" || got[1].Name != "b.log" {
		t.Fatalf("non-recursive = %+v", got)
	}

	got, err = SupportedFiles(dir, []string{"*.log"}, true)
	if err != nil {
		t.Fatalf("SupportedFiles recursive: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("recursive found %d files, want 2: %+v", len(got), got)
	}
	if got[1].Size != 2 || got[1].Modified.IsZero() {
		t.Fatalf("file info not populated: %+v", got[1])
	}
}

func TestSupportedFilesErrors(t *testing.T) {
	if _, err := SupportedFiles("", nil, false); err == nil {
		t.Fatalf("empty folder should fail")
	}
	f := write(t, t.TempDir(), "file.log", "x")
	if _, err := SupportedFiles(f, nil, false); err == nil {
		t.Fatalf("file path should fail")
	}
}

func TestLoadFilesSingleKeepsOrder(t *testing.T) {
	useTempCache(t)
	dir := t.TempDir()
	p := write(t, dir, "app.log", `{"ts":"2025-01-01T12:00:02Z","level":"info","msg":"second by time","id":"99"}
{"ts":"2025-01-01T12:00:01Z","level":"error","msg":"first by time"}
`)
	res, err := LoadFiles(context.Background(), []string{p}, Options{})
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if res.DataSource != "app.log" {
		t.Fatalf("DataSource = %q", res.DataSource)
	}
	if _, err := uuid.Parse(res.Session); err != nil {
		t.Fatalf("Session = %q: %v", res.Session, err)
	}
	if len(res.Messages) != 2 || res.Messages[0].Text != "second by time" {
		t.Fatalf("single file order changed: %+v", res.Messages)
	}
	if res.Messages[0].ID != 1 || res.Messages[1].ID != 2 {
		t.Fatalf("ids = %d,%d", res.Messages[0].ID, res.Messages[1].ID)
	}
	if res.Messages[0].AdditionalInformation["id"] != "99" {
		t.Fatalf("source id not kept: %v", res.Messages[0].AdditionalInformation)
	}
	if res.Messages[1].Level != model.LevelError {
		t.Fatalf("level = %v", res.Messages[1].Level)
	}
}

func TestLoadFilesMergesByDate(t *testing.T) {
	useTempCache(t)
	dir := t.TempDir()
	a := write(t, dir, "a.log", "2025-01-01 12:00:00.000 INFO [a] one\n2025-01-01 12:00:02.000 INFO [a] three\n")
	b := write(t, dir, "b.log", "2025-01-01 12:00:01.000 WARN [b] two\n  detail line\n")
	res, err := LoadFiles(context.Background(), []string{a, b}, Options{})
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if res.DataSource != "2 files" {
		t.Fatalf("DataSource = %q", res.DataSource)
	}
	var texts []string
	for _, m := range res.Messages {
		texts = append(texts, m.Text)
	}
	want := []string{"one", "two\n  detail line", "three"}
	if len(texts) != len(want) {
		t.Fatalf("texts = %q", texts)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("texts = %q, want %q", texts, want)
		}
	}
	for i, m := range res.Messages {
		if m.ID != int64(i+1) {
			t.Fatalf("message %d has id %d", i, m.ID)
		}
	}
}

func TestLoadFilesForcedFormatAndWarnings(t *testing.T) {
	useTempCache(t)
	dir := t.TempDir()
	a := write(t, dir, "a.log", "level=info msg=hello\n")
	res, err := LoadFiles(context.Background(), []string{a, filepath.Join(dir, "missing.log")}, Options{Format: "logfmt"})
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v", res.Warnings)
	}
	if len(res.Messages) != 1 || res.Messages[0].Text != "hello" {
		t.Fatalf("messages = %+v", res.Messages)
	}
}

func TestLoadFilesTimeLayout(t *testing.T) {
	useTempCache(t)
	dir := t.TempDir()
	p := write(t, dir, "a.log", "ts=\"02.01.2025 13:04\" level=info msg=hello\n")
	res, err := LoadFiles(context.Background(), []string{p}, Options{Format: "logfmt", TimeLayout: "02.01.2006 15:04"})
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	want := time.Date(2025, 1, 2, 13, 4, 0, 0, time.UTC)
	if len(res.Messages) != 1 || !res.Messages[0].Date.Equal(want) {
		t.Fatalf("messages = %+v", res.Messages)
	}
}

func TestLoadFilesErrors(t *testing.T) {
	if _, err := LoadFiles(context.Background(), nil, Options{}); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("err = %v, want ErrNoFiles", err)
	}
	if _, err := LoadFiles(context.Background(), []string{filepath.Join(t.TempDir(), "x.log")}, Options{NoCache: true}); err == nil {
		t.Fatalf("missing single file should fail")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LoadFiles(ctx, []string{"whatever"}, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled ctx err = %v", err)
	}
}
