// Package markup turns message bodies written in lightweight markup into
// styled rich text. Engines are built once and reused for every message;
// Convert never fails, it falls back to a plain rendition of the input.
package markup

import (
	"bytes"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"logpeek/internal/util/logx"
)

// Converter converts one message body. Implementations must be pure: the
// same input always yields the same output.
type Converter interface {
	Convert(src string) string
}

// HTML renders markdown to an HTML fragment with GFM tables, task lists,
// strikethrough, autolinks, footnotes, definition lists, typographic quotes
// and chroma highlighted code blocks. Raw HTML in the input is escaped.
type HTML struct {
	md goldmark.Markdown
}

func NewHTML() *HTML {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(chromahtml.WithClasses(false)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	return &HTML{md: md}
}

func (h *HTML) Convert(src string) string {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(src), &buf); err != nil {
		logx.Warnf("markup: html conversion failed, using plain text: %v", err)
		return "<pre>" + html.EscapeString(src) + "</pre>\n"
	}
	return buf.String()
}

// Terminal styles accepted by NewTerminal.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// Terminal renders markdown to ANSI styled text for the detail pane.
type Terminal struct {
	r *glamour.TermRenderer
}

// NewTerminal builds a terminal engine. The style is fixed up front instead of
// being detected from the terminal so output depends only on the input.
func NewTerminal(style string, wrap int) (*Terminal, error) {
	switch style {
	case StyleDark, StyleLight, StyleNoTTY:
	default:
		style = StyleDark
	}
	if wrap <= 0 {
		wrap = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil, err
	}
	return &Terminal{r: r}, nil
}

func (t *Terminal) Convert(src string) string {
	if src == "" {
		return ""
	}
	out, err := t.r.Render(src)
	if err != nil {
		logx.Warnf("markup: terminal conversion failed, using plain text: %v", err)
		return src
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// Plain passes text through unchanged.
type Plain struct{}

func (Plain) Convert(src string) string { return src }
