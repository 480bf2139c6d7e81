package model

import (
	"sort"
	"strings"
	"time"
)

// Level is the severity of a log message.
type Level int

const (
	LevelUnknown Level = iota
	LevelTrace
	LevelDebug
	LevelVerbose
	LevelInfo
	LevelEvent
	LevelWarning
	LevelError
	LevelCritical
	LevelFatal
)

var levelNames = [...]string{
	LevelUnknown:  "Unknown",
	LevelTrace:    "Trace",
	LevelDebug:    "Debug",
	LevelVerbose:  "Verbose",
	LevelInfo:     "Info",
	LevelEvent:    "Event",
	LevelWarning:  "Warning",
	LevelError:    "Error",
	LevelCritical: "Critical",
	LevelFatal:    "Fatal",
}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return levelNames[LevelUnknown]
	}
	return levelNames[l]
}

// ParseLevel maps the common spellings found in log files onto a Level.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE", "TRC":
		return LevelTrace
	case "DEBUG", "DBG":
		return LevelDebug
	case "VERBOSE", "VRB":
		return LevelVerbose
	case "INFO", "INF", "INFORMATION", "NOTICE":
		return LevelInfo
	case "EVENT":
		return LevelEvent
	case "WARN", "WARNING", "WRN":
		return LevelWarning
	case "ERROR", "ERR", "ERRO":
		return LevelError
	case "CRITICAL", "CRIT", "CRT", "ALERT", "EMERG":
		return LevelCritical
	case "FATAL", "FTL", "PANIC":
		return LevelFatal
	}
	return LevelUnknown
}

// Levels lists every level from least to most severe.
func Levels() []Level {
	out := make([]Level, 0, len(levelNames))
	for i := range levelNames {
		out = append(out, Level(i))
	}
	return out
}

// LogMessage is one parsed log entry. Loaders create messages and hand out
// pointers; everything downstream treats them as read-only.
type LogMessage struct {
	ID          int64
	Date        time.Time
	Level       Level
	Text        string
	Source      string
	Module      string
	MachineName string
	User        string
	FileName    string
	MethodName  string
	ProcessID   int
	ThreadID    int
	LineNumber  int

	AdditionalInformation map[string]string

	// Raw is the line the message was parsed from.
	Raw string
}

// HasAdditionalInformation reports whether any extra key/value pairs exist.
func (m *LogMessage) HasAdditionalInformation() bool {
	return m != nil && len(m.AdditionalInformation) > 0
}

// AdditionalKeys returns the additional information keys in sorted order.
func (m *LogMessage) AdditionalKeys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.AdditionalInformation))
	for k := range m.AdditionalInformation {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
