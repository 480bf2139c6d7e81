package parse

import (
	"strings"

	"logpeek/internal/detect"
	"logpeek/internal/model"
)

// Collector builds messages from a stream of lines. For multi-line formats a
// line that does not start a new record is appended to the previous
// message's text, so markup bodies spanning several lines stay together.
type Collector struct {
	parser    Parser
	multiline bool
	source    string
	out       []*model.LogMessage
	invalid   int
}

func NewCollector(f detect.Format, forcedLayout, source string) *Collector {
	return &Collector{parser: NewParser(f, forcedLayout), multiline: f.Multiline(), source: source}
}

// Add feeds one line. Blank lines outside a message are skipped.
func (c *Collector) Add(line string) {
	m, ok := c.parser.Parse(line, c.source)
	if ok {
		c.out = append(c.out, m)
		return
	}
	if c.multiline && len(c.out) > 0 {
		prev := c.out[len(c.out)-1]
		prev.Text += "\n" + line
		prev.Raw += "\n" + line
		return
	}
	if strings.TrimSpace(line) == "" {
		return
	}
	c.invalid++
	c.out = append(c.out, m)
}

// Messages returns everything collected so far.
func (c *Collector) Messages() []*model.LogMessage { return c.out }

// Invalid counts lines that did not match the format and were kept as raw
// messages.
func (c *Collector) Invalid() int { return c.invalid }
