// Package render projects a log message onto display-ready strings and
// drives navigation through a cursor.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"logpeek/internal/cursor"
	"logpeek/internal/markup"
	"logpeek/internal/model"
)

// DefaultDateFormat is used when no date layout is supplied.
const DefaultDateFormat = "2006-01-02 15:04:05.000"

// View is one message formatted for display. The zero value is the blank
// view shown when nothing is selected.
type View struct {
	ID          string
	DataSource  string
	MachineName string
	Date        string
	Level       string
	Module      string
	ProcessID   string
	ThreadID    string
	Source      string
	Method      string
	FileName    string
	User        string
	LineNumber  string

	HasAdditionalInfo bool
	AdditionalInfo    string

	// Position reads "<index> of <total>".
	Position string

	Body     string
	RichText string
}

// Field is a labelled value used by views that list fields in order.
type Field struct {
	Label string
	Value string
}

// Fields returns the structured fields in display order.
func (v View) Fields() []Field {
	return []Field{
		{"ID", v.ID},
		{"Data source", v.DataSource},
		{"Date", v.Date},
		{"Level", v.Level},
		{"Machine", v.MachineName},
		{"Module", v.Module},
		{"Process ID", v.ProcessID},
		{"Thread ID", v.ThreadID},
		{"Source", v.Source},
		{"Method", v.Method},
		{"File", v.FileName},
		{"Line", v.LineNumber},
		{"User", v.User},
	}
}

// Renderer renders messages of one viewing session. It is not safe for
// concurrent use; the UI calls it from its update loop only.
type Renderer struct {
	cursor     *cursor.Cursor
	engine     markup.Converter
	dataSource string
	dateFormat string
}

func NewRenderer(c *cursor.Cursor) *Renderer {
	if c == nil {
		c = cursor.New()
	}
	return &Renderer{cursor: c, dateFormat: DefaultDateFormat}
}

// Configure sets the markup engine used for message bodies. The engine is
// built once by the caller and kept for the lifetime of the session.
func (r *Renderer) Configure(engine markup.Converter) { r.engine = engine }

// SetFormat sets the data source label and date layout used by Next,
// Previous, JumpTo and Current.
func (r *Renderer) SetFormat(dataSource, dateFormat string) {
	r.dataSource = dataSource
	r.dateFormat = dateFormat
}

func (r *Renderer) Cursor() *cursor.Cursor { return r.cursor }

// Render formats m. A nil message yields the blank view.
func (r *Renderer) Render(m *model.LogMessage, dataSource, dateFormat string) View {
	if m == nil {
		return View{}
	}
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	v := View{
		ID:          strconv.FormatInt(m.ID, 10),
		DataSource:  dataSource,
		MachineName: m.MachineName,
		Level:       m.Level.String(),
		Module:      m.Module,
		ProcessID:   strconv.Itoa(m.ProcessID),
		ThreadID:    strconv.Itoa(m.ThreadID),
		Source:      m.Source,
		Method:      m.MethodName,
		FileName:    m.FileName,
		User:        m.User,
		LineNumber:  strconv.Itoa(m.LineNumber),
		Body:        m.Text,
		RichText:    m.Text,
	}
	if !m.Date.IsZero() {
		v.Date = m.Date.Format(dateFormat)
	}
	if m.HasAdditionalInformation() {
		v.HasAdditionalInfo = true
		v.AdditionalInfo = formatAdditional(m)
	}
	v.Position = fmt.Sprintf("%d of %d", r.cursor.IndexOf(m), r.cursor.Len())
	if r.engine != nil {
		v.RichText = r.engine.Convert(m.Text)
	}
	return v
}

// Current renders the cursor's current message, or the blank view.
func (r *Renderer) Current() View {
	m, _ := r.cursor.Current()
	return r.Render(m, r.dataSource, r.dateFormat)
}

// Next steps forward and renders. At the last message the same message is
// rendered again.
func (r *Renderer) Next() View {
	r.cursor.MoveNext()
	return r.Current()
}

// Previous steps back and renders.
func (r *Renderer) Previous() View {
	r.cursor.MovePrevious()
	return r.Current()
}

// JumpTo selects m and renders it.
func (r *Renderer) JumpTo(m *model.LogMessage) (View, error) {
	if err := r.cursor.JumpTo(m); err != nil {
		return View{}, err
	}
	return r.Current(), nil
}

func formatAdditional(m *model.LogMessage) string {
	keys := m.AdditionalKeys()
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+":"+m.AdditionalInformation[k])
	}
	return strings.Join(lines, "\n")
}

// Text lays the view out as plain "Label: value" lines followed by any
// additional information and the raw body.
func (v View) Text() string {
	var b strings.Builder
	for _, f := range v.Fields() {
		if f.Value == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", f.Label, f.Value)
	}
	if v.HasAdditionalInfo {
		b.WriteString("\nAdditional information:\n")
		b.WriteString(v.AdditionalInfo)
		b.WriteByte('\n')
	}
	if v.Body != "" {
		b.WriteString("\n")
		b.WriteString(v.Body)
		b.WriteByte('\n')
	}
	return b.String()
}
