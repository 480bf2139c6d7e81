package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"logpeek/internal/detect"
	"logpeek/internal/model"
)

// Parser turns one line into a message. ok is false when the line does not
// follow the parser's format; the returned message then carries the raw line
// as its text.
type Parser interface {
	Parse(line, source string) (msg *model.LogMessage, ok bool)
}

func NewParser(f detect.Format, forcedLayout string) Parser {
	layout := fallbackLayout(f.TimeLayout, forcedLayout)
	switch f.Strategy {
	case detect.StrategyJSON:
		return &JSONParser{format: f, layout: layout}
	case detect.StrategyLogfmt:
		return &LogfmtParser{format: f, layout: layout}
	}
	return NewRegexParser(f, forcedLayout)
}

func fallbackLayout(a, forced string) string {
	if forced != "" {
		return forced
	}
	if a != "" {
		return a
	}
	return time.RFC3339Nano
}

func rawMessage(line, source string) *model.LogMessage {
	return &model.LogMessage{Text: line, Raw: line, Source: source}
}

// JSON lines
type JSONParser struct {
	format detect.Format
	layout string
	pool   fastjson.ParserPool
}

func (p *JSONParser) Parse(line, source string) (*model.LogMessage, bool) {
	fp := p.pool.Get()
	defer p.pool.Put(fp)

	v, err := fp.Parse(line)
	if err != nil {
		return rawMessage(line, source), false
	}
	obj, err := v.Object()
	if err != nil {
		return rawMessage(line, source), false
	}
	m := &model.LogMessage{Raw: line}
	obj.Visit(func(key []byte, val *fastjson.Value) {
		assign(m, string(key), jsonString(val), p.layout)
	})
	// Some shippers wrap the real record in a string field, e.g. k8s `log`.
	if m.Level == model.LevelUnknown {
		wrapped := m.Text
		if wrapped == "" {
			wrapped = m.AdditionalInformation["log"]
		}
		t := strings.TrimSpace(wrapped)
		if strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}") {
			if inner, err := fp.Parse(t); err == nil {
				if innerObj, err := inner.Object(); err == nil {
					m.Text = ""
					innerObj.Visit(func(key []byte, val *fastjson.Value) {
						assign(m, string(key), jsonString(val), p.layout)
					})
					if m.Text == "" {
						m.Text = t
					}
				}
			}
		}
	}
	if m.Source == "" {
		m.Source = source
	}
	return m, true
}

func jsonString(v *fastjson.Value) string {
	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNull:
		return ""
	}
	return v.String()
}

// Regex parser
type RegexParser struct {
	format detect.Format
	layout string
	re     *regexp.Regexp
}

func NewRegexParser(f detect.Format, forced string) Parser {
	p := &RegexParser{format: f, layout: fallbackLayout(f.TimeLayout, forced)}
	if re, err := regexp.Compile(f.RegexPattern); err == nil && f.RegexPattern != "" {
		p.re = re
	}
	return p
}

func (p *RegexParser) Parse(line, source string) (*model.LogMessage, bool) {
	if p.re == nil {
		return rawMessage(line, source), false
	}
	match := p.re.FindStringSubmatch(line)
	if match == nil {
		return rawMessage(line, source), false
	}
	m := &model.LogMessage{Raw: line}
	for i, name := range p.re.SubexpNames() {
		if i == 0 || name == "" || match[i] == "" {
			continue
		}
		assign(m, name, match[i], p.layout)
	}
	if m.Source == "" {
		m.Source = source
	}
	return m, true
}

// logfmt parser (supports quoted values)
type LogfmtParser struct {
	format detect.Format
	layout string
}

func (p *LogfmtParser) Parse(line, source string) (*model.LogMessage, bool) {
	parts := splitLogfmt(line)
	if len(parts) == 0 {
		return rawMessage(line, source), false
	}
	m := &model.LogMessage{Raw: line}
	for _, kv := range parts {
		assign(m, kv[0], kv[1], p.layout)
	}
	if m.Source == "" {
		m.Source = source
	}
	return m, true
}

// splitLogfmt returns key/value pairs in line order.
func splitLogfmt(s string) [][2]string {
	var res [][2]string
	var cur strings.Builder
	inQuote := false
	escaped := false
	key := ""
	haveKey := false
	flush := func() {
		if haveKey {
			res = append(res, [2]string{key, cur.String()})
		}
		key, haveKey = "", false
		cur.Reset()
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			switch c {
			case 'n':
				cur.WriteByte('\n')
			case 't':
				cur.WriteByte('\t')
			default:
				cur.WriteByte(c)
			}
			escaped = false
			continue
		}
		if inQuote && c == '\\' {
			escaped = true
			continue
		}
		if c == '"' {
			inQuote = !inQuote
			continue
		}
		if !inQuote && (c == ' ' || c == '\t') {
			flush()
			continue
		}
		if !inQuote && c == '=' && !haveKey {
			key = cur.String()
			haveKey = true
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	flush()
	return res
}

// assign maps a well-known key onto its field and keeps the rest as
// additional information.
func assign(m *model.LogMessage, key, val, layout string) {
	switch strings.ToLower(key) {
	case "ts", "time", "timestamp", "date", "@timestamp":
		if t, ok := parseTime(val, layout); ok {
			m.Date = t
			return
		}
	case "level", "lvl", "severity", "loglevel":
		m.Level = model.ParseLevel(val)
		return
	case "msg", "message", "text", "body":
		m.Text = val
		return
	case "source", "logger", "component", "category":
		m.Source = val
		return
	case "module", "app", "service", "application":
		m.Module = val
		return
	case "machine", "machinename", "host", "hostname":
		m.MachineName = val
		return
	case "user", "username":
		if val != "-" {
			m.User = val
		}
		return
	case "file", "filename", "caller_file":
		m.FileName = val
		return
	case "method", "func", "function", "methodname":
		m.MethodName = val
		return
	case "line", "lineno", "linenumber":
		if n, err := strconv.Atoi(val); err == nil {
			m.LineNumber = n
			return
		}
	case "pid", "processid", "process_id":
		if n, err := strconv.Atoi(val); err == nil {
			m.ProcessID = n
			return
		}
		if val == "-" {
			return
		}
	case "tid", "thread", "threadid", "thread_id":
		if n, err := strconv.Atoi(val); err == nil {
			m.ThreadID = n
			return
		}
	}
	if m.AdditionalInformation == nil {
		m.AdditionalInformation = map[string]string{}
	}
	m.AdditionalInformation[key] = val
}

var extraLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05,000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"02/Jan/2006:15:04:05 -0700",
}

func parseTime(val, layout string) (time.Time, bool) {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(layout, val); err == nil {
		return t, true
	}
	for _, l := range extraLayouts {
		if t, err := time.Parse(l, val); err == nil {
			return t, true
		}
	}
	// Epoch seconds or milliseconds.
	if n, err := strconv.ParseFloat(val, 64); err == nil && n > 0 {
		if n > 1e12 {
			return time.UnixMilli(int64(n)).UTC(), true
		}
		sec := int64(n)
		return time.Unix(sec, int64((n-float64(sec))*1e9)).UTC(), true
	}
	return time.Time{}, false
}
