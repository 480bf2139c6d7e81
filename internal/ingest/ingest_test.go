package ingest

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

var sample = []string{"line one", "line two", "line three"}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return p
}

func plain() []byte { return []byte(strings.Join(sample, "\n") + "\n") }

func gzipped(t *testing.T) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(plain()); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	w.Close()
	return buf.Bytes()
}

func xzed(t *testing.T) []byte {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("xz writer: %v", err)
	}
	if _, err := w.Write(plain()); err != nil {
		t.Fatalf("xz write: %v", err)
	}
	w.Close()
	return buf.Bytes()
}

func zstded(t *testing.T) []byte {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	defer enc.Close()
	return enc.EncodeAll(plain(), nil)
}

func TestReadAllDecompresses(t *testing.T) {
	tests := []struct {
		name string
		data func(t *testing.T) []byte
		kind Compression
	}{
		{"plain", func(*testing.T) []byte { return plain() }, CompressionNone},
		{"gzip", gzipped, CompressionGzip},
		{"xz", xzed, CompressionXZ},
		{"zstd", zstded, CompressionZstd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data(t)
			if got := DetectCompression(data); got != tt.kind {
				t.Fatalf("DetectCompression = %v, want %v", got, tt.kind)
			}
			p := writeFile(t, "app.log", data)
			got, err := ReadAll(context.Background(), p)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if !reflect.DeepEqual(got, sample) {
				t.Fatalf("ReadAll = %v, want %v", got, sample)
			}
		})
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, _, err := Open(filepath.Join(t.TempDir(), "nope.log")); err == nil {
		t.Fatalf("Open of missing file returned nil error")
	}
	if _, err := ReadAll(context.Background(), filepath.Join(t.TempDir(), "nope.log")); err == nil {
		t.Fatalf("ReadAll of missing file returned nil error")
	}
}

func TestDecompressPassThrough(t *testing.T) {
	rc, kind, err := Decompress(strings.NewReader("hi"))
	if err != nil || kind != CompressionNone {
		t.Fatalf("Decompress = %v, %v", kind, err)
	}
	b, _ := io.ReadAll(rc)
	if string(b) != "hi" {
		t.Fatalf("read %q", b)
	}
	_ = rc.Close()
}

func TestReadBlockDropsPartialLine(t *testing.T) {
	p := writeFile(t, "big.log", plain())
	lines, errs := Read(context.Background(), Options{Source: SourceFile, Path: p, BlockSizeBytes: int64(len("line three\n") + 3)})
	var got []string
	for l := range lines {
		got = append(got, l.Text)
	}
	if err := <-errs; err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"line three"}) {
		t.Fatalf("got %v", got)
	}
}

func TestReadStdin(t *testing.T) {
	lines, _ := Read(context.Background(), Options{Source: SourceStdin, Stdin: strings.NewReader("a\nb\n")})
	var got []string
	for l := range lines {
		if l.Source != "stdin" {
			t.Fatalf("source = %q", l.Source)
		}
		got = append(got, l.Text)
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("got %v", got)
	}
}

func TestReadUnknownSource(t *testing.T) {
	lines, errs := Read(context.Background(), Options{Source: "carrier-pigeon"})
	for range lines {
	}
	if err := <-errs; err == nil {
		t.Fatalf("expected error for unknown source")
	}
}
