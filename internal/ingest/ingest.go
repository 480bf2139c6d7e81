package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nxadm/tail"

	"logpeek/internal/util/logx"
)

type SourceKind string

const (
	SourceStdin SourceKind = "stdin"
	SourceFile  SourceKind = "file"
	SourceDemo  SourceKind = "demo"
)

type Options struct {
	Source         SourceKind
	Path           string
	Follow         bool
	FromStart      bool  // follow: emit existing content before new lines
	ScanBufSize    int   // per-line max (bytes)
	BlockSizeBytes int64 // only for non-follow uncompressed reads; 0 = all
	Stdin          io.Reader
}

type Line struct {
	Text   string
	Source string
	When   time.Time
}

const defaultScanBuf = 1024 * 1024

// Read streams lines until the source is exhausted or ctx is cancelled. Both
// channels are closed when reading stops.
func Read(ctx context.Context, opt Options) (<-chan Line, <-chan error) {
	out := make(chan Line, 1024)
	errs := make(chan error, 1)
	if opt.ScanBufSize <= 0 {
		opt.ScanBufSize = defaultScanBuf
	}

	go func() {
		defer close(out)
		defer close(errs)

		switch opt.Source {
		case SourceStdin:
			in := opt.Stdin
			if in == nil {
				in = os.Stdin
			}
			readFromReader(ctx, in, "stdin", opt.ScanBufSize, out, errs)
		case SourceFile:
			switch {
			case opt.Follow:
				readFromTail(ctx, opt.Path, opt.FromStart, out, errs)
			case opt.BlockSizeBytes > 0:
				readFromFileBlock(ctx, opt.Path, opt.BlockSizeBytes, opt.ScanBufSize, out, errs)
			default:
				rc, kind, err := Open(opt.Path)
				if err != nil {
					errs <- err
					return
				}
				defer rc.Close()
				if kind != CompressionNone {
					logx.Infof("ingest: %s is %s compressed", opt.Path, kind)
				}
				readFromReader(ctx, rc, opt.Path, opt.ScanBufSize, out, errs)
			}
		case SourceDemo:
			demo(ctx, out)
		default:
			errs <- errors.New("unknown source kind")
		}
	}()

	return out, errs
}

// ReadAll collects every line of a file, decompressing as needed.
func ReadAll(ctx context.Context, path string) ([]string, error) {
	lines, errs := Read(ctx, Options{Source: SourceFile, Path: path})
	var out []string
	for l := range lines {
		out = append(out, l.Text)
	}
	if err := <-errs; err != nil {
		return out, fmt.Errorf("read %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

func readFromReader(ctx context.Context, r io.Reader, src string, maxBuf int, out chan<- Line, errs chan<- error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 1024*64)
	scanner.Buffer(buf, maxBuf)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		case out <- Line{Text: scanner.Text(), Source: src, When: time.Now()}:
		}
	}
	if err := scanner.Err(); err != nil {
		errs <- err
	}
}

func readFromTail(ctx context.Context, path string, fromStart bool, out chan<- Line, errs chan<- error) {
	loc := &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	if fromStart {
		loc = &tail.SeekInfo{Offset: 0, Whence: io.SeekStart}
	}
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
		Poll:      true,
		Location:  loc,
	})
	if err != nil {
		errs <- err
		return
	}
	defer t.Cleanup()
	logx.Infof("ingest: following %s", path)
	for {
		select {
		case <-ctx.Done():
			_ = t.Stop()
			return
		case l, ok := <-t.Lines:
			if !ok {
				return
			}
			if l.Err != nil {
				logx.Warnf("ingest: tail %s: %v", path, l.Err)
				continue
			}
			select {
			case out <- Line{Text: l.Text, Source: path, When: time.Now()}:
			case <-ctx.Done():
				_ = t.Stop()
				return
			}
		}
	}
}

func readFromFileBlock(ctx context.Context, path string, blockBytes int64, maxBuf int, out chan<- Line, errs chan<- error) {
	f, err := os.Open(path)
	if err != nil {
		errs <- err
		return
	}
	defer f.Close()
	var start int64
	if st, err := f.Stat(); err == nil && st.Size() > blockBytes {
		start = st.Size() - blockBytes
	}
	if start == 0 {
		readFromReader(ctx, f, path, maxBuf, out, errs)
		return
	}
	if _, err := f.Seek(start, io.SeekStart); err != nil {
		errs <- err
		return
	}
	// Drop partial first line
	br := bufio.NewReader(f)
	if _, err := br.ReadString('\n'); err != nil && err != io.EOF {
		errs <- err
		return
	}
	readFromReader(ctx, br, path, maxBuf, out, errs)
}

var demoLines = []string{
	`{"ts":"2025-01-01T12:00:00Z","level":"info","service":"api","host":"web-1","pid":4121,"msg":"server **started** on port 8080","port":8080}`,
	`{"ts":"2025-01-01T12:00:01Z","level":"warning","service":"api","host":"web-1","pid":4121,"msg":"slow request to ` + "`/v1/items`" + ` took 512ms","user":"alice"}`,
	`{"ts":"2025-01-01T12:00:02Z","level":"error","service":"worker","host":"web-2","pid":77,"file":"job.go","line":88,"method":"Run","msg":"job failed:\n\n- retry 1\n- retry 2\n\n` + "```go\\nreturn errTimeout\\n```" + `"}`,
	`{"ts":"2025-01-01T12:00:03Z","level":"debug","service":"cache","host":"web-1","msg":"evicted 12 keys","region":"eu"}`,
}

func demo(ctx context.Context, out chan<- Line) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	i := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case out <- Line{Text: demoLines[i%len(demoLines)], Source: "demo", When: time.Now()}:
				i++
			case <-ctx.Done():
				return
			}
		}
	}
}
