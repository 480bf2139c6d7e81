package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"logpeek/internal/markup"
	"logpeek/internal/settings"
)

type Theme string

const (
	ThemeDark  Theme = markup.StyleDark
	ThemeLight Theme = markup.StyleLight
)

const minBuffer = 1000

type Config struct {
	Files            []string
	Dir              string
	Patterns         []string
	Recursive        bool
	UseStdin         bool
	Follow           bool
	MaxBuffer        int
	Theme            Theme
	DateFormat       string
	ForceFormat      string
	TimeLayout       string
	SettingsPath     string
	Offline          bool
	NoCache          bool
	OpenAIModel      string
	OpenAIBase       string
	OpenAITimeoutSec int
	ExportFormat     string
	ExportOut        string
	ShowVersion      bool

	// Internal
	IsPipedStdin bool
	set          map[string]bool
}

// Load parses the process arguments.
func Load() (*Config, error) {
	fi, err := os.Stdin.Stat()
	piped := err == nil && (fi.Mode()&os.ModeCharDevice) == 0
	return Parse(os.Args[1:], piped, os.Stderr)
}

// Parse parses args. piped tells whether stdin is a pipe; usage errors are
// written to errOut.
func Parse(args []string, piped bool, errOut io.Writer) (*Config, error) {
	cfg := &Config{IsPipedStdin: piped, set: map[string]bool{}}

	fs := flag.NewFlagSet("logpeek", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var files, patterns string
	fs.StringVar(&files, "file", "", "log file to open; a comma separated list merges several files by date")
	fs.StringVar(&cfg.Dir, "dir", getenvDefault("LOGPEEK_DIR", ""), "folder to browse for log files")
	fs.StringVar(&patterns, "pattern", "", "comma separated glob patterns for -dir (default from settings)")
	fs.BoolVar(&cfg.Recursive, "recursive", false, "search -dir recursively")
	fs.BoolVar(&cfg.Follow, "follow", false, "follow file (tail -f)")
	fs.BoolVar(&cfg.UseStdin, "stdin", false, "read from stdin (default: auto if piped)")
	fs.IntVar(&cfg.MaxBuffer, "max-buffer", getenvDefaultInt("LOGPEEK_MAX_BUFFER", 50000), "messages kept while streaming (min 1000)")
	theme := string(ThemeDark)
	fs.StringVar(&theme, "theme", string(ThemeDark), "theme: dark|light")
	fs.StringVar(&cfg.DateFormat, "date-format", "", "date layout for the detail view (Go format)")
	fs.StringVar(&cfg.ForceFormat, "format", "", "force format: json|logfmt|text|apache|syslog")
	fs.StringVar(&cfg.TimeLayout, "time-layout", getenvDefault("LOGPEEK_TIME_LAYOUT", ""), "Go layout for parsing timestamps in the source (default: auto)")
	fs.StringVar(&cfg.SettingsPath, "settings", getenvDefault("LOGPEEK_SETTINGS", ""), "settings file (default "+settings.DefaultPath()+")")
	fs.BoolVar(&cfg.Offline, "offline", false, "disable OpenAI and work offline only")
	fs.BoolVar(&cfg.NoCache, "no-cache", false, "disable detected format cache (skip read/write)")
	fs.StringVar(&cfg.OpenAIModel, "openai-model", getenvDefault("LOGPEEK_OPENAI_MODEL", "gpt-4o-mini"), "OpenAI model override")
	fs.StringVar(&cfg.OpenAIBase, "openai-base-url", getenvDefault("LOGPEEK_OPENAI_BASE_URL", ""), "OpenAI base URL override")
	fs.IntVar(&cfg.OpenAITimeoutSec, "openai-timeout-sec", getenvDefaultInt("LOGPEEK_OPENAI_TIMEOUT_SEC", 60), "OpenAI request timeout in seconds")
	fs.StringVar(&cfg.ExportFormat, "export", "", "export loaded messages: csv|json|html")
	fs.StringVar(&cfg.ExportOut, "out", "", "output path for export")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })

	cfg.Files = splitList(files)
	cfg.Patterns = splitList(patterns)
	switch Theme(theme) {
	case ThemeDark, ThemeLight:
		cfg.Theme = Theme(theme)
	default:
		return nil, fmt.Errorf("unknown theme %q", theme)
	}

	switch cfg.ExportFormat {
	case "", "csv", "json", "html":
	default:
		return nil, fmt.Errorf("unknown export format %q", cfg.ExportFormat)
	}
	if cfg.ExportFormat != "" && cfg.ExportOut == "" {
		return nil, errors.New("--export requires --out path")
	}
	if cfg.ExportFormat != "" && len(cfg.Files) == 0 {
		return nil, errors.New("--export requires --file")
	}
	if len(cfg.Files) > 1 && cfg.Follow {
		return nil, errors.New("--follow works with a single file")
	}

	if cfg.UseStdin || (cfg.IsPipedStdin && len(cfg.Files) == 0 && cfg.Dir == "") {
		cfg.UseStdin = true
	}

	if cfg.MaxBuffer < minBuffer {
		cfg.MaxBuffer = minBuffer
	}

	return cfg, nil
}

// Merge fills whatever was not given on the command line from persisted
// settings.
func (c *Config) Merge(s settings.Settings) {
	if !c.set["theme"] && (s.Theme == string(ThemeDark) || s.Theme == string(ThemeLight)) {
		c.Theme = Theme(s.Theme)
	}
	if !c.set["date-format"] && c.DateFormat == "" {
		c.DateFormat = s.DateTimePattern
	}
	if !c.set["pattern"] {
		c.Patterns = append([]string(nil), s.FilePatterns...)
	}
	if !c.set["recursive"] {
		c.Recursive = s.RecursiveLoad
	}
}

// Explicit reports whether the named flag was given on the command line.
func (c *Config) Explicit(name string) bool { return c.set[name] }

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func (c *Config) OpenAIKey() string { return os.Getenv("OPENAI_API_KEY") }

func (c *Config) String() string {
	return fmt.Sprintf("files=%v dir=%s stdin=%v follow=%v theme=%s offline=%v", c.Files, c.Dir, c.UseStdin, c.Follow, c.Theme, c.Offline)
}
