// Package loader enumerates log files in a folder and loads one or more of
// them into an ordered message set ready for a viewing session.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"logpeek/internal/detect"
	"logpeek/internal/ingest"
	"logpeek/internal/model"
	"logpeek/internal/parse"
	"logpeek/internal/util/logx"
)

// ErrNoFiles is returned when LoadFiles is called without paths.
var ErrNoFiles = errors.New("no files to load")

// DefaultPatterns are used when the caller supplies none.
var DefaultPatterns = []string{"*.log", "*.log.*", "*.txt", "*.json", "*.ndjson", "*.jsonl", "*.gz", "*.xz", "*.zst"}

// FileInfo describes one supported file in a folder.
type FileInfo struct {
	Name     string
	Path     string
	Size     int64
	Modified time.Time
}

// SupportedFiles lists files in dir matching any of patterns. With recursive
// set, subfolders are searched too. Results are sorted by path.
func SupportedFiles(dir string, patterns []string, recursive bool) ([]FileInfo, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("folder is empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve folder: %w", err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat folder: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%s is not a folder", abs)
	}
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	seen := map[string]bool{}
	var out []FileInfo
	for _, pat := range patterns {
		pat = strings.TrimSpace(pat)
		if pat == "" {
			continue
		}
		if recursive && !strings.HasPrefix(pat, "**/") {
			pat = "**/" + pat
		}
		matches, err := doublestar.FilepathGlob(filepath.Join(abs, pat))
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pat, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			seen[m] = true
			out = append(out, FileInfo{Name: info.Name(), Path: m, Size: info.Size(), Modified: info.ModTime()})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Options tune LoadFiles.
type Options struct {
	// Format forces a format by name instead of detecting it per file.
	Format string
	// TimeLayout parses timestamps the built-in layouts do not recognize.
	TimeLayout string
	// NoCache skips reading and writing the detected format cache.
	NoCache bool
}

// Result is a loaded message set.
type Result struct {
	Messages   []*model.LogMessage
	DataSource string
	// Session is a random id tagging this load in the app log, the status
	// line and headless export output.
	Session  string
	Warnings []string
	Invalid  int
}

// LoadFiles reads every path, parses it and returns the messages. IDs are
// assigned sequentially from 1. When more than one file is loaded the
// messages are merged by date; messages of a single file keep file order.
func LoadFiles(ctx context.Context, paths []string, opts Options) (Result, error) {
	if len(paths) == 0 {
		return Result{}, ErrNoFiles
	}
	session := uuid.NewString()
	logx.Infof("loader[%s]: loading %d file(s)", session[:8], len(paths))
	res := Result{Session: session}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		ms, invalid, err := loadFile(ctx, p, opts)
		if err != nil {
			if len(paths) == 1 {
				return Result{}, err
			}
			res.Warnings = append(res.Warnings, err.Error())
			logx.Warnf("loader[%s]: %v", session[:8], err)
			continue
		}
		res.Invalid += invalid
		res.Messages = append(res.Messages, ms...)
	}
	if len(paths) > 1 {
		sort.SliceStable(res.Messages, func(i, j int) bool {
			return res.Messages[i].Date.Before(res.Messages[j].Date)
		})
	}
	Number(res.Messages, 1)
	res.DataSource = DataSourceLabel(paths)
	logx.Infof("loader[%s]: %d messages from %s (%d invalid lines)", session[:8], len(res.Messages), res.DataSource, res.Invalid)
	return res, nil
}

// Number assigns sequential IDs starting at first. Ids found in the source
// data stay in AdditionalInformation under their original key.
func Number(ms []*model.LogMessage, first int64) {
	for i, m := range ms {
		m.ID = first + int64(i)
	}
}

// DataSourceLabel names a set of loaded files for display.
func DataSourceLabel(paths []string) string {
	switch len(paths) {
	case 0:
		return ""
	case 1:
		return filepath.Base(paths[0])
	}
	return fmt.Sprintf("%d files", len(paths))
}

func loadFile(ctx context.Context, path string, opts Options) ([]*model.LogMessage, int, error) {
	lines, err := ingest.ReadAll(ctx, path)
	if err != nil {
		return nil, 0, err
	}
	format := resolveFormat(path, lines, opts)
	c := parse.NewCollector(format, opts.TimeLayout, filepath.Base(path))
	for _, l := range lines {
		c.Add(l)
	}
	logx.Debugf("loader: %s parsed as %s (%d lines)", path, format.Name, len(lines))
	return c.Messages(), c.Invalid(), nil
}

func resolveFormat(path string, lines []string, opts Options) detect.Format {
	if f, ok := detect.ByName(opts.Format); ok {
		return f
	}
	if !opts.NoCache {
		if f, ok := detect.LoadCached(path); ok {
			return f
		}
	}
	sample := lines
	if len(sample) > 50 {
		sample = sample[:50]
	}
	g := detect.Heuristics(sample)
	logx.Infof("detect: %s looks like %s (conf=%.2f)", filepath.Base(path), g.Format.Name, g.Confidence)
	if !opts.NoCache && g.Format.Name != "unknown" {
		if err := detect.SaveCached(path, g.Format); err != nil {
			logx.Warnf("detect: cache save failed: %v", err)
		}
	}
	return g.Format
}
