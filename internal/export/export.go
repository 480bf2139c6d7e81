// Package export writes message sets to CSV, NDJSON or a standalone HTML
// report.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"logpeek/internal/cursor"
	"logpeek/internal/markup"
	"logpeek/internal/model"
	"logpeek/internal/render"
)

var ErrEmpty = errors.New("no messages")

// Formats accepted by Write.
const (
	CSV    = "csv"
	NDJSON = "json"
	HTML   = "html"
)

var fixedColumns = []string{"id", "date", "level", "source", "module", "machine", "user", "file", "method", "pid", "tid", "line", "text"}

// Meta describes where an exported set came from. DateFormat only affects the
// HTML report; CSV and NDJSON always carry RFC 3339 dates.
type Meta struct {
	DataSource string
	DateFormat string
	Session    string
}

// Write exports ms to path in the named format.
func Write(format, path string, ms []*model.LogMessage, meta Meta) error {
	switch format {
	case CSV:
		return ToCSV(path, ms)
	case NDJSON, "ndjson":
		return ToNDJSON(path, ms)
	case HTML:
		return ToHTML(path, ms, meta)
	}
	return fmt.Errorf("unknown export format %q", format)
}

func ToCSV(path string, ms []*model.LogMessage) error {
	return toFile(path, func(w io.Writer) error { return WriteCSV(w, ms) })
}

func ToNDJSON(path string, ms []*model.LogMessage) error {
	return toFile(path, func(w io.Writer) error { return WriteNDJSON(w, ms) })
}

func ToHTML(path string, ms []*model.LogMessage, meta Meta) error {
	return toFile(path, func(w io.Writer) error { return WriteHTML(w, ms, meta) })
}

func toFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes a header of the fixed columns followed by every additional
// information key seen in ms, sorted.
func WriteCSV(out io.Writer, ms []*model.LogMessage) error {
	if len(ms) == 0 {
		return ErrEmpty
	}
	w := csv.NewWriter(out)
	extra := additionalColumns(ms)
	if err := w.Write(append(append([]string{}, fixedColumns...), extra...)); err != nil {
		return err
	}
	for _, m := range ms {
		row := []string{
			strconv.FormatInt(m.ID, 10),
			formatDate(m.Date),
			m.Level.String(),
			m.Source,
			m.Module,
			m.MachineName,
			m.User,
			m.FileName,
			m.MethodName,
			strconv.Itoa(m.ProcessID),
			strconv.Itoa(m.ThreadID),
			strconv.Itoa(m.LineNumber),
			m.Text,
		}
		for _, k := range extra {
			row = append(row, m.AdditionalInformation[k])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

type record struct {
	ID          int64             `json:"id"`
	Date        string            `json:"date,omitempty"`
	Level       string            `json:"level"`
	Text        string            `json:"text"`
	Source      string            `json:"source,omitempty"`
	Module      string            `json:"module,omitempty"`
	MachineName string            `json:"machine,omitempty"`
	User        string            `json:"user,omitempty"`
	FileName    string            `json:"file,omitempty"`
	MethodName  string            `json:"method,omitempty"`
	ProcessID   int               `json:"pid,omitempty"`
	ThreadID    int               `json:"tid,omitempty"`
	LineNumber  int               `json:"line,omitempty"`
	Additional  map[string]string `json:"additional,omitempty"`
}

func WriteNDJSON(w io.Writer, ms []*model.LogMessage) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, m := range ms {
		r := record{
			ID: m.ID, Date: formatDate(m.Date), Level: m.Level.String(), Text: m.Text,
			Source: m.Source, Module: m.Module, MachineName: m.MachineName, User: m.User,
			FileName: m.FileName, MethodName: m.MethodName,
			ProcessID: m.ProcessID, ThreadID: m.ThreadID, LineNumber: m.LineNumber,
			Additional: m.AdditionalInformation,
		}
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title>
<style>
body{font-family:sans-serif;margin:2em}
section{border-bottom:1px solid #ddd;padding:1em 0}
dl{display:grid;grid-template-columns:max-content auto;gap:.2em 1em;margin:0}
dt{font-weight:bold}dd{margin:0}
pre.info{background:#f6f8fa;padding:.5em}
</style></head><body>
<h1>{{.Title}}</h1>
{{if .Session}}<p class="session">Session {{.Session}}</p>{{end}}
{{range .Views}}<section id="m{{.ID}}">
<h2>{{.Level}} {{.Position}}</h2>
<dl>{{range .Fields}}{{if .Value}}<dt>{{.Label}}</dt><dd>{{.Value}}</dd>{{end}}{{end}}</dl>
{{if .HasAdditionalInfo}}<pre class="info">{{.AdditionalInfo}}</pre>{{end}}
<div class="body">{{.Rich}}</div>
</section>
{{end}}</body></html>
`))

type htmlView struct {
	render.View
	Rich template.HTML
}

// WriteHTML renders every message through the HTML markup engine and lays the
// views out as one page. Raw HTML in bodies is escaped by the engine.
func WriteHTML(w io.Writer, ms []*model.LogMessage, meta Meta) error {
	if len(ms) == 0 {
		return ErrEmpty
	}
	c := cursor.New()
	if err := c.SetSession(ms, ms[0]); err != nil {
		return err
	}
	r := render.NewRenderer(c)
	r.Configure(markup.NewHTML())
	views := make([]htmlView, 0, len(ms))
	layout := meta.DateFormat
	if layout == "" {
		layout = render.DefaultDateFormat
	}
	for _, m := range ms {
		v := r.Render(m, meta.DataSource, layout)
		views = append(views, htmlView{View: v, Rich: template.HTML(v.RichText)})
	}
	title := "Log messages"
	if meta.DataSource != "" {
		title += " - " + meta.DataSource
	}
	return reportTmpl.Execute(w, struct {
		Title   string
		Session string
		Views   []htmlView
	}{title, meta.Session, views})
}

func additionalColumns(ms []*model.LogMessage) []string {
	set := map[string]struct{}{}
	for _, m := range ms {
		for k := range m.AdditionalInformation {
			set[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
