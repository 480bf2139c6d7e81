package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"logpeek/internal/loader"
	"logpeek/internal/model"
	"logpeek/internal/render"
	"logpeek/internal/util/logx"
)

const listDateFormat = "2006-01-02 15:04:05"

// applyColumns sizes the message and file tables for the terminal width.
func (m *Model) applyColumns(width int) {
	if width < 40 {
		width = 40
	}
	// one cell of right padding per column
	fixed := len(listDateFormat) + 9 + 16 + 4
	msgW := width - fixed
	if msgW < 10 {
		msgW = 10
	}
	m.tbl.SetColumns([]table.Column{
		{Title: "time", Width: len(listDateFormat)},
		{Title: "level", Width: 9},
		{Title: "source", Width: 16},
		{Title: "message", Width: msgW},
	})
	nameW := width - 2 - 10 - 20 - 4
	if nameW < 10 {
		nameW = 10
	}
	m.filesTbl.SetColumns([]table.Column{
		{Title: "", Width: 2},
		{Title: "file", Width: nameW},
		{Title: "size", Width: 10},
		{Title: "modified", Width: 20},
	})
	m.tbl.SetWidth(width)
	m.filesTbl.SetWidth(width)
}

// refreshRows rebuilds the filtered set and the table rows. The selected
// message stays selected when it survives the refresh.
func (m *Model) refreshRows() {
	var base []*model.LogMessage
	if m.streaming {
		base, m.total, m.dropped = m.ring.Snapshot()
	} else {
		base = m.loaded
		m.total = uint64(len(base))
	}
	prev := m.selected()
	atBottom := len(m.filtered) == 0 || m.tbl.Cursor() >= len(m.filtered)-1
	if m.eval != nil {
		m.filtered = m.eval.Apply(base)
	} else {
		m.filtered = base
	}
	rows := make([]table.Row, 0, len(m.filtered))
	sel := -1
	for i, msg := range m.filtered {
		rows = append(rows, messageRow(msg))
		if msg == prev {
			sel = i
		}
	}
	m.tbl.SetRows(rows)
	switch {
	case len(rows) == 0:
		m.tbl.SetCursor(0)
	case m.follow && atBottom:
		m.tbl.SetCursor(len(rows) - 1)
	case sel >= 0:
		m.tbl.SetCursor(sel)
	case m.tbl.Cursor() >= len(rows):
		m.tbl.SetCursor(len(rows) - 1)
	}
	m.rowsDirty = false
	if m.screen == screenDetail {
		m.resyncDetail()
	}
}

func messageRow(msg *model.LogMessage) table.Row {
	date := ""
	if !msg.Date.IsZero() {
		date = msg.Date.Format(listDateFormat)
	}
	source := msg.Source
	if source == "" {
		source = msg.Module
	}
	text := msg.Text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i] + " …"
	}
	return table.Row{date, msg.Level.String(), source, text}
}

func (m *Model) selected() *model.LogMessage {
	i := m.tbl.Cursor()
	if i < 0 || i >= len(m.filtered) {
		return nil
	}
	return m.filtered[i]
}

func (m *Model) dateFormat() string {
	if m.cfg.DateFormat != "" {
		return m.cfg.DateFormat
	}
	return render.DefaultDateFormat
}

// openDetail starts a viewing session over the filtered rows positioned on
// the selected one.
func (m *Model) openDetail() {
	sel := m.selected()
	if sel == nil {
		return
	}
	m.renderer.SetFormat(m.dataSource, m.dateFormat())
	if err := m.renderer.Cursor().SetSession(m.filtered, sel); err != nil {
		logx.Errorf("ui: open detail: %v", err)
		m.lastMsg = "cannot open message"
		return
	}
	view := m.renderer.Current()
	m.screen = screenDetail
	m.showView(view)
}

// resyncDetail moves the open session onto the refreshed rows. When the shown
// message is gone (evicted or filtered out) the old session is kept.
func (m *Model) resyncDetail() {
	cur, ok := m.renderer.Cursor().Current()
	if !ok {
		return
	}
	if err := m.renderer.Cursor().SetSession(m.filtered, cur); err != nil {
		return
	}
	v := m.renderer.Current()
	if v != m.view {
		m.view = v
		m.detail.SetContent(m.detailContent())
	}
}

func (m *Model) step(forward bool) {
	var v render.View
	if forward {
		v = m.renderer.Next()
	} else {
		v = m.renderer.Previous()
	}
	m.showView(v)
	cur, ok := m.renderer.Cursor().Current()
	if !ok {
		return
	}
	// the session may be an older snapshot than the rows
	for i, msg := range m.filtered {
		if msg == cur {
			m.tbl.SetCursor(i)
			return
		}
	}
}

func (m *Model) showView(v render.View) {
	changed := v.ID != m.view.ID
	m.view = v
	m.detail.SetContent(m.detailContent())
	if changed {
		m.detail.GotoTop()
	}
}

// detailContent lays out the structured fields above the rendered body.
func (m *Model) detailContent() string {
	v := m.view
	var b strings.Builder
	for _, f := range v.Fields() {
		if f.Value == "" || (f.Value == "0" && f.Label != "ID") {
			continue
		}
		val := f.Value
		if f.Label == "Level" {
			val = m.styles.LevelStyle(model.ParseLevel(val)).Render(val)
		}
		fmt.Fprintf(&b, "%s %s\n", m.styles.Label.Render(padRight(f.Label+":", 13)), val)
	}
	if v.HasAdditionalInfo {
		b.WriteString("\n")
		b.WriteString(m.styles.Label.Render("Additional information:"))
		b.WriteString("\n")
		for _, line := range strings.Split(v.AdditionalInfo, "\n") {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(v.RichText)
	return m.styles.Detail.Render(b.String())
}

// setFiles replaces the folder listing. Marks and the cursor follow their
// paths; marks on files that disappeared are dropped.
func (m *Model) setFiles(files []loader.FileInfo) {
	prev := ""
	if i := m.filesTbl.Cursor(); i >= 0 && i < len(m.files) {
		prev = m.files[i].Path
	}
	marked := map[string]bool{}
	cur := 0
	for i, f := range files {
		if m.marked[f.Path] {
			marked[f.Path] = true
		}
		if f.Path == prev {
			cur = i
		}
	}
	m.files, m.marked = files, marked
	m.renderFileRows()
	m.filesTbl.SetCursor(cur)
}

func (m *Model) renderFileRows() {
	rows := make([]table.Row, 0, len(m.files))
	for _, f := range m.files {
		mark := ""
		if m.marked[f.Path] {
			mark = "*"
		}
		rows = append(rows, table.Row{mark, f.Name, humanSize(f.Size), f.Modified.Format(listDateFormat)})
	}
	m.filesTbl.SetRows(rows)
}

// markedPaths lists the marked files in folder order.
func (m *Model) markedPaths() []string {
	var out []string
	for _, f := range m.files {
		if m.marked[f.Path] {
			out = append(out, f.Path)
		}
	}
	return out
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
