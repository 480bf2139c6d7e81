package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

func main() {
	var (
		formatsCSV  string
		format      string
		rate        float64
		count       int
		outPath     string
		toStdout    bool
		compress    string
		durationStr string
	)

	flag.StringVar(&formatsCSV, "formats", "", "Comma-separated list: text,json_lines,logfmt. Generates each to simulateddata/<format>.log")
	flag.StringVar(&format, "format", "", "Single format: text, json_lines or logfmt. Use with --stdout or --out")
	flag.Float64Var(&rate, "rate", 5.0, "Messages per second per stream")
	flag.IntVar(&count, "count", 0, "Write this many messages as fast as possible and exit (0 = stream at --rate)")
	flag.StringVar(&outPath, "out", "", "Output file path (only when --format is set). Defaults to simulateddata/<format>.log")
	flag.BoolVar(&toStdout, "stdout", false, "Write to stdout instead of file (only when --format is set)")
	flag.StringVar(&compress, "compress", "", "Compress the output file: gzip, zstd or xz (needs --count)")
	flag.StringVar(&durationStr, "duration", "", "Optional run duration (e.g., 30s, 2m). Empty means run until interrupted")
	flag.Parse()

	var interrupted atomic.Bool
	abort := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		interrupted.Store(true)
		close(abort)
	}()

	var deadline time.Time
	if durationStr != "" {
		d, err := time.ParseDuration(durationStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid duration: %v\n", err)
			os.Exit(2)
		}
		deadline = time.Now().Add(d)
	}
	if compress != "" && count <= 0 {
		fmt.Fprintln(os.Stderr, "--compress needs --count")
		os.Exit(2)
	}

	shouldStop := func() bool {
		select {
		case <-abort:
			return true
		default:
		}
		return !deadline.IsZero() && time.Now().After(deadline)
	}
	opts := streamOptions{rate: rate, count: count, compress: compress, shouldStop: shouldStop}

	if formatsCSV != "" {
		formats := splitFormats(formatsCSV)
		if len(formats) == 0 {
			fmt.Fprintln(os.Stderr, "no valid formats provided")
			os.Exit(2)
		}
		dir := "simulateddata"
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create %s: %v\n", dir, err)
			os.Exit(1)
		}
		var wg sync.WaitGroup
		var created []string
		for _, f := range formats {
			p := filepath.Join(dir, f+".log"+compressExt(compress))
			if err := runStreamToFile(&wg, f, p, opts); err != nil {
				fmt.Fprintf(os.Stderr, "error starting %s stream: %v\n", f, err)
				os.Exit(1)
			}
			created = append(created, p)
			fmt.Fprintf(os.Stderr, "generating %s logs -> %s\n", f, p)
		}
		wg.Wait()
		if interrupted.Load() {
			for _, p := range created {
				_ = os.Remove(p)
			}
		}
		return
	}

	if format == "" {
		fmt.Fprintln(os.Stderr, "either --formats or --format is required")
		os.Exit(2)
	}
	format = normalizeFormat(format)
	if !isSupported(format) {
		fmt.Fprintf(os.Stderr, "unsupported format: %s\n", format)
		os.Exit(2)
	}

	if toStdout {
		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()
		runStream(w, format, opts)
		return
	}

	if outPath == "" {
		if err := os.MkdirAll("simulateddata", 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create simulateddata: %v\n", err)
			os.Exit(1)
		}
		outPath = filepath.Join("simulateddata", format+".log"+compressExt(compress))
	}
	var wg sync.WaitGroup
	if err := runStreamToFile(&wg, format, outPath, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "generating %s logs -> %s\n", format, outPath)
	wg.Wait()
	if interrupted.Load() {
		_ = os.Remove(outPath)
	}
}

type streamOptions struct {
	rate       float64
	count      int
	compress   string
	shouldStop func() bool
}

func splitFormats(csv string) []string {
	var out []string
	for _, p := range strings.Split(csv, ",") {
		p = normalizeFormat(p)
		if isSupported(p) {
			out = append(out, p)
		}
	}
	return out
}

func runStreamToFile(wg *sync.WaitGroup, format, path string, opts streamOptions) error {
	// Always clear the existing log at the start
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	cw, err := compressWriter(f, opts.compress)
	if err != nil {
		f.Close()
		return err
	}
	w := bufio.NewWriter(cw)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer f.Close()
		defer cw.Close()
		defer w.Flush()
		runStream(w, format, opts)
	}()
	return nil
}

// runStream writes generated lines until count is reached or shouldStop
// reports true.
func runStream(w *bufio.Writer, format string, opts streamOptions) {
	gen := newGenerator(format, time.Now())
	if opts.count > 0 {
		for i := 0; i < opts.count && !opts.shouldStop(); i++ {
			writeLine(w, gen.next())
		}
		return
	}
	rate := opts.rate
	if rate <= 0 {
		rate = 1
	}
	interval := time.Duration(float64(time.Second) / rate)
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for !opts.shouldStop() {
		<-ticker.C
		gen.now = time.Now()
		writeLine(w, gen.next())
		_ = w.Flush()
	}
}

func writeLine(w io.StringWriter, s string) {
	_, _ = w.WriteString(s)
	_, _ = w.WriteString("\n")
}
