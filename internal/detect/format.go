package detect

import "time"

// Strategies understood by the parse package.
const (
	StrategyJSON   = "json"
	StrategyLogfmt = "logfmt"
	StrategyRegex  = "regex"
)

// Format describes how the lines of one file are laid out.
type Format struct {
	Name         string `json:"name"`
	Strategy     string `json:"strategy"`
	RegexPattern string `json:"regexPattern,omitempty"`
	TimeLayout   string `json:"timeLayout,omitempty"`
}

// Multiline reports whether lines that do not match the pattern continue the
// previous message.
func (f Format) Multiline() bool {
	return f.Strategy == StrategyRegex && f.Name != "unknown"
}

func JSONLines() Format {
	return Format{Name: "json_lines", Strategy: StrategyJSON, TimeLayout: time.RFC3339Nano}
}

func Logfmt() Format {
	return Format{Name: "logfmt", Strategy: StrategyLogfmt, TimeLayout: time.RFC3339Nano}
}

// Text is the common "<timestamp> <LEVEL> [source] message" layout.
func Text() Format {
	return Format{
		Name:         "text",
		Strategy:     StrategyRegex,
		RegexPattern: `^(?P<ts>\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}(?:[.,]\d+)?(?:Z|[+-]\d{2}:?\d{2})?)\s+(?P<level>[A-Za-z]+)\s+(?:\[(?P<source>[^\]]+)\]\s+)?(?:-\s+)?(?P<msg>.*)$`,
		TimeLayout:   "2006-01-02 15:04:05.000",
	}
}

func Apache() Format {
	return Format{
		Name:         "apache_combined",
		Strategy:     StrategyRegex,
		RegexPattern: `^(?P<host>\S+) \S+ (?P<user>\S+) \[(?P<ts>[^\]]+)\] "(?P<method>[A-Z]+) (?P<path>[^\s]+) [^"]+" (?P<status>\d{3}) (?P<size>\d+) "(?P<ref>[^"]*)" "(?P<ua>[^"]*)"`,
		TimeLayout:   "02/Jan/2006:15:04:05 -0700",
	}
}

func Syslog() Format {
	return Format{
		Name:         "syslog_rfc5424",
		Strategy:     StrategyRegex,
		RegexPattern: `^<(?P<pri>\d+)>1 (?P<ts>\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})) (?P<host>\S+) (?P<app>\S+) (?P<pid>\S+) \S+ (?:-|\[.*?\]) (?P<msg>.*)$`,
		TimeLayout:   time.RFC3339Nano,
	}
}

func Unknown() Format {
	return Format{Name: "unknown", Strategy: StrategyRegex, RegexPattern: `^(?P<msg>.*)$`}
}

// ByName returns the built-in format with the given name or strategy.
func ByName(name string) (Format, bool) {
	switch name {
	case "json", "json_lines":
		return JSONLines(), true
	case "logfmt", "kv":
		return Logfmt(), true
	case "text":
		return Text(), true
	case "apache", "apache_combined":
		return Apache(), true
	case "syslog", "syslog_rfc5424":
		return Syslog(), true
	case "unknown", "raw":
		return Unknown(), true
	}
	return Format{}, false
}
