package ingest

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression is the container format of a log file.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionBzip2
	CompressionXZ
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionBzip2:
		return "bzip2"
	case CompressionXZ:
		return "xz"
	case CompressionZstd:
		return "zstd"
	default:
		return "none"
	}
}

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte{0x42, 0x5a, 0x68}
	xzMagic    = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
	zstdMagic  = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// DetectCompression inspects the leading bytes of a stream.
func DetectCompression(header []byte) Compression {
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(header, bzip2Magic):
		return CompressionBzip2
	case bytes.HasPrefix(header, xzMagic):
		return CompressionXZ
	case bytes.HasPrefix(header, zstdMagic):
		return CompressionZstd
	}
	return CompressionNone
}

type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens path and transparently decompresses it when the content starts
// with a known magic number.
func Open(path string) (io.ReadCloser, Compression, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, CompressionNone, err
	}
	rc, kind, err := decompress(f)
	if err != nil {
		f.Close()
		return nil, kind, fmt.Errorf("open %s: %w", path, err)
	}
	rc.closers = append([]func() error{f.Close}, rc.closers...)
	return rc, kind, nil
}

// Decompress wraps r in a decompressing reader chosen by magic bytes. Close
// releases decoder resources but does not close r.
func Decompress(r io.Reader) (io.ReadCloser, Compression, error) {
	rc, kind, err := decompress(r)
	if err != nil {
		return nil, kind, err
	}
	return rc, kind, nil
}

func decompress(r io.Reader) (*readCloser, Compression, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	header, _ := br.Peek(6)
	kind := DetectCompression(header)
	switch kind {
	case CompressionGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, kind, fmt.Errorf("gzip reader: %w", err)
		}
		return &readCloser{Reader: gz, closers: []func() error{gz.Close}}, kind, nil
	case CompressionBzip2:
		return &readCloser{Reader: bzip2.NewReader(br)}, kind, nil
	case CompressionXZ:
		x, err := xz.NewReader(br)
		if err != nil {
			return nil, kind, fmt.Errorf("xz reader: %w", err)
		}
		return &readCloser{Reader: x}, kind, nil
	case CompressionZstd:
		z, err := zstd.NewReader(br)
		if err != nil {
			return nil, kind, fmt.Errorf("zstd reader: %w", err)
		}
		return &readCloser{Reader: z, closers: []func() error{func() error { z.Close(); return nil }}}, kind, nil
	}
	return &readCloser{Reader: br}, kind, nil
}
