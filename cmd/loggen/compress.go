package main

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// compressWriter wraps w in the named compressor. Closing the result flushes
// the compressor but leaves w open.
func compressWriter(w io.Writer, kind string) (io.WriteCloser, error) {
	switch kind {
	case "", "none":
		return nopWriteCloser{w}, nil
	case "gzip", "gz":
		return gzip.NewWriter(w), nil
	case "zstd", "zst":
		return zstd.NewWriter(w)
	case "xz":
		return xz.NewWriter(w)
	}
	return nil, fmt.Errorf("unknown compression %q", kind)
}

func compressExt(kind string) string {
	switch kind {
	case "gzip", "gz":
		return ".gz"
	case "zstd", "zst":
		return ".zst"
	case "xz":
		return ".xz"
	}
	return ""
}
