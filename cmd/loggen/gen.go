package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Supported formats
const (
	formatText      = "text"
	formatJSONLines = "json_lines"
	formatLogfmt    = "logfmt"
)

func normalizeFormat(f string) string {
	f = strings.ToLower(strings.TrimSpace(f))
	switch f {
	case "json", "ndjson", "jsonl":
		return formatJSONLines
	case "plain", "txt":
		return formatText
	case "kv":
		return formatLogfmt
	default:
		return f
	}
}

func isSupported(f string) bool {
	switch f {
	case formatText, formatJSONLines, formatLogfmt:
		return true
	default:
		return false
	}
}

type generator struct {
	format string
	rnd    *rand.Rand
	now    time.Time
	step   time.Duration
}

func newGenerator(format string, start time.Time) *generator {
	return &generator{format: format, rnd: rand.New(rand.NewSource(start.UnixNano())), now: start, step: 150 * time.Millisecond}
}

// next returns one record. Text records may span several lines.
func (g *generator) next() string {
	g.now = g.now.Add(time.Duration(g.rnd.Int63n(int64(g.step))))
	r := g.record()
	switch g.format {
	case formatJSONLines:
		b, _ := json.Marshal(r)
		return string(b)
	case formatLogfmt:
		return r.logfmt()
	default:
		return r.text()
	}
}

type record struct {
	TS      string `json:"ts"`
	Level   string `json:"level"`
	Source  string `json:"source"`
	Module  string `json:"module"`
	Host    string `json:"host"`
	PID     int    `json:"pid"`
	TID     int    `json:"tid"`
	User    string `json:"user,omitempty"`
	Msg     string `json:"msg"`
	Region  string `json:"region,omitempty"`
	Request string `json:"request_id,omitempty"`
}

func (g *generator) record() record {
	r := record{
		TS:     g.now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Level:  g.level(),
		Source: g.pick(services),
		Module: g.pick(modules),
		Host:   g.pick(hosts),
		PID:    1000 + g.rnd.Intn(50),
		TID:    1 + g.rnd.Intn(16),
		Msg:    g.body(),
	}
	if g.rnd.Intn(2) == 0 {
		r.User = g.pick(users)
	}
	if g.rnd.Intn(3) == 0 {
		r.Region = g.pick(regions)
		r.Request = g.hex(16)
	}
	return r
}

func (r record) logfmt() string {
	var b strings.Builder
	kv := func(k, v string) {
		if v == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		if strings.ContainsAny(v, " \"=\n") {
			v = strings.ReplaceAll(v, `\`, `\\`)
			v = strings.ReplaceAll(v, `"`, `\"`)
			v = strings.ReplaceAll(v, "\n", `\n`)
			v = `"` + v + `"`
		}
		b.WriteString(v)
	}
	kv("ts", r.TS)
	kv("level", r.Level)
	kv("source", r.Source)
	kv("module", r.Module)
	kv("host", r.Host)
	kv("pid", fmt.Sprint(r.PID))
	kv("tid", fmt.Sprint(r.TID))
	kv("user", r.User)
	kv("region", r.Region)
	kv("request_id", r.Request)
	kv("msg", r.Msg)
	return b.String()
}

// text lays out "<ts> LEVEL [source] message"; a multi-line body continues
// on the following lines.
func (r record) text() string {
	ts := strings.Replace(r.TS[:23], "T", " ", 1)
	return fmt.Sprintf("%s %s [%s] %s", ts, strings.ToUpper(r.Level), r.Source, r.Msg)
}

func (g *generator) level() string {
	x := g.rnd.Float64()
	switch {
	case x < 0.55:
		return "info"
	case x < 0.75:
		return "debug"
	case x < 0.9:
		return "warning"
	case x < 0.98:
		return "error"
	default:
		return "fatal"
	}
}

// body returns a short message, sometimes a markdown document.
func (g *generator) body() string {
	if g.rnd.Intn(4) != 0 {
		return g.pick(messages)
	}
	switch g.rnd.Intn(3) {
	case 0:
		return fmt.Sprintf("## Slow request\nRequest to `%s` took **%d ms**.\n\n- retries: %d\n- cache: _miss_", g.pick(paths), 200+g.rnd.Intn(4000), g.rnd.Intn(4))
	case 1:
		return fmt.Sprintf("Job failed with exit code %d\n\n```go\npanic: runtime error: index out of range [%d] with length %d\n```", 1+g.rnd.Intn(3), g.rnd.Intn(9), g.rnd.Intn(9))
	default:
		return fmt.Sprintf("| metric | value |\n|---|---|\n| queue depth | %d |\n| workers | %d |", g.rnd.Intn(500), 1+g.rnd.Intn(32))
	}
}

func (g *generator) pick(xs []string) string { return xs[g.rnd.Intn(len(xs))] }

func (g *generator) hex(n int) string {
	const digits = "0123456789abcdef"
	b := make([]byte, n)
	for i := range b {
		b[i] = digits[g.rnd.Intn(len(digits))]
	}
	return string(b)
}

var (
	services = []string{"api", "worker", "auth", "gateway", "billing"}
	modules  = []string{"Ingest", "Scheduler", "Payments", "Sessions", "Search"}
	hosts    = []string{"web-01", "web-02", "batch-01", "edge-sfo5"}
	users    = []string{"alice", "bob", "carol", "dave", "erin"}
	regions  = []string{"us-east-1", "eu-west-1", "sa-east-1", "ap-northeast-1"}
	paths    = []string{"/api/v1/items", "/login", "/api/v1/orders", "/health"}
	messages = []string{
		"user authenticated",
		"request completed",
		"cache miss",
		"db query executed",
		"rate limit exceeded",
		"background job started",
		"background job finished",
		"invalid credentials",
	}
)
