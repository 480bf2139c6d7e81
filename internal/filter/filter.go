package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Knetic/govaluate"

	"logpeek/internal/model"
)

type Criteria struct {
	Query    string // plain contains or regex if UseRegex
	UseRegex bool
	Levels   map[model.Level]bool
	Expr     string // govaluate expression
}

// FromInput turns what the user typed in the filter prompt into criteria:
// "/re/" is a regular expression, "expr:" starts a govaluate expression and
// anything else is a case-insensitive substring.
func FromInput(s string) Criteria {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "expr:"):
		return Criteria{Expr: strings.TrimSpace(strings.TrimPrefix(s, "expr:"))}
	case len(s) >= 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/"):
		return Criteria{Query: s[1 : len(s)-1], UseRegex: true}
	}
	return Criteria{Query: s}
}

// Empty reports whether c lets every message through.
func (c Criteria) Empty() bool {
	return c.Query == "" && len(c.Levels) == 0 && strings.TrimSpace(c.Expr) == ""
}

func (c Criteria) String() string {
	switch {
	case strings.TrimSpace(c.Expr) != "":
		return "expr:" + c.Expr
	case c.UseRegex:
		return "/" + c.Query + "/"
	}
	return c.Query
}

type Evaluator struct {
	c     Criteria
	re    *regexp.Regexp
	query string
	expr  *govaluate.EvaluableExpression
}

func NewEvaluator(c Criteria) (*Evaluator, error) {
	e := &Evaluator{c: c, query: strings.ToLower(c.Query)}
	var err error
	if c.UseRegex && c.Query != "" {
		e.re, err = regexp.Compile(c.Query)
		if err != nil {
			return nil, fmt.Errorf("filter regex: %w", err)
		}
	}
	if strings.TrimSpace(c.Expr) != "" {
		e.expr, err = govaluate.NewEvaluableExpression(c.Expr)
		if err != nil {
			return nil, fmt.Errorf("filter expression: %w", err)
		}
	}
	return e, nil
}

func (e *Evaluator) Match(m *model.LogMessage) bool {
	if m == nil {
		return false
	}
	if len(e.c.Levels) > 0 && !e.c.Levels[m.Level] {
		return false
	}
	if e.c.Query != "" {
		if !e.matchQuery(m.Text) && !e.matchQuery(m.Source) && !e.matchQuery(m.Module) {
			return false
		}
	}
	if e.expr != nil {
		result, err := e.expr.Evaluate(Params(m))
		if err != nil {
			return false
		}
		b, ok := result.(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}

func (e *Evaluator) matchQuery(s string) bool {
	if s == "" {
		return false
	}
	if e.re != nil {
		return e.re.MatchString(s)
	}
	return strings.Contains(strings.ToLower(s), e.query)
}

// Apply keeps the messages that match, in their original order. The
// returned slice shares the message pointers with ms.
func (e *Evaluator) Apply(ms []*model.LogMessage) []*model.LogMessage {
	out := make([]*model.LogMessage, 0, len(ms))
	for _, m := range ms {
		if e.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

// Params exposes a message to govaluate. Additional information keys are
// added first so the named fields win on collision.
func Params(m *model.LogMessage) map[string]any {
	p := make(map[string]any, 12+len(m.AdditionalInformation))
	for k, v := range m.AdditionalInformation {
		p[k] = v
	}
	p["level"] = m.Level.String()
	p["text"] = m.Text
	p["source"] = m.Source
	p["module"] = m.Module
	p["machine"] = m.MachineName
	p["user"] = m.User
	p["file"] = m.FileName
	p["method"] = m.MethodName
	p["pid"] = float64(m.ProcessID)
	p["tid"] = float64(m.ThreadID)
	p["line"] = float64(m.LineNumber)
	p["id"] = float64(m.ID)
	return p
}
