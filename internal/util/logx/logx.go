// Package logx is a small leveled logger that keeps recent lines in memory so
// the TUI can show them. Nothing goes to stderr unless LOGPEEK_LOG_STDERR is
// set, since writing there would corrupt the terminal UI.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	default:
		return "ERROR"
	}
}

var (
	mu       sync.Mutex
	level    = Info
	buf      = make([]string, 0, 500)
	maxLines = 500
	mirror   io.Writer
	now      = time.Now
)

func SetLevel(l Level) { mu.Lock(); level = l; mu.Unlock() }

// ParseLevel accepts debug, info, warn/warning and error.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, true
	case "info":
		return Info, true
	case "warn", "warning":
		return Warn, true
	case "error":
		return Error, true
	}
	return Info, false
}

// SetLevelFromEnv reads LOGPEEK_LOG_LEVEL and LOGPEEK_LOG_STDERR.
func SetLevelFromEnv() {
	if l, ok := ParseLevel(os.Getenv("LOGPEEK_LOG_LEVEL")); ok {
		SetLevel(l)
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("LOGPEEK_LOG_STDERR"))); v != "" {
		if v != "0" && v != "false" && v != "no" {
			SetOutput(os.Stderr)
		} else {
			SetOutput(nil)
		}
	}
}

// SetOutput mirrors every retained line to w. nil disables mirroring.
func SetOutput(w io.Writer) { mu.Lock(); mirror = w; mu.Unlock() }

// SetMaxLines bounds how many lines are retained; older lines are dropped.
func SetMaxLines(n int) {
	if n < 1 {
		n = 1
	}
	mu.Lock()
	defer mu.Unlock()
	maxLines = n
	if len(buf) > n {
		buf = append(buf[:0], buf[len(buf)-n:]...)
	}
}

func Debugf(format string, a ...any) { logf(Debug, format, a...) }
func Infof(format string, a ...any)  { logf(Info, format, a...) }
func Warnf(format string, a ...any)  { logf(Warn, format, a...) }
func Errorf(format string, a ...any) { logf(Error, format, a...) }

func logf(l Level, format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l < level {
		return
	}
	ts := now().Format("2006-01-02T15:04:05.000Z07:00")
	line := fmt.Sprintf("%s %-5s %s", ts, l, fmt.Sprintf(format, a...))
	if len(buf) >= maxLines {
		// drop oldest
		copy(buf[0:], buf[1:])
		buf = buf[:len(buf)-1]
	}
	buf = append(buf, line)
	if mirror != nil {
		fmt.Fprintln(mirror, line)
	}
}

func Dump() string {
	mu.Lock()
	defer mu.Unlock()
	return strings.Join(buf, "\n")
}

func Lines() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(buf))
	copy(out, buf)
	return out
}

// Reset clears retained lines. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	buf = buf[:0]
}
