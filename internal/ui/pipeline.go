package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"logpeek/internal/ai"
	"logpeek/internal/detect"
	"logpeek/internal/export"
	"logpeek/internal/ingest"
	"logpeek/internal/loader"
	"logpeek/internal/model"
	"logpeek/internal/parse"
	"logpeek/internal/settings"
	"logpeek/internal/util/logx"
)

type tickMsg struct{}
type toastMsg struct{ text string }

type filesMsg struct {
	dir   string
	files []loader.FileInfo
	err   error
}

type loadedMsg struct {
	paths []string
	res   loader.Result
	err   error
}

type explainMsg struct {
	id   int64
	text string
	err  error
}

// sampleLines is how many streamed lines are looked at before a format is
// picked; detection also happens after sampleWait with fewer lines. A pending
// multi-line message is closed once no line arrived for pendingWait.
const (
	sampleLines = 20
	sampleWait  = time.Second
	pendingWait = time.Second
)

// start picks the input mode from the configuration.
func (m *Model) start() tea.Cmd {
	switch {
	case m.cfg.Dir != "":
		m.screen = screenFiles
		m.busy = true
		m.source = "folder"
		return listFilesCmd(m.cfg.Dir, m.cfg.Patterns, m.cfg.Recursive)
	case len(m.cfg.Files) == 1 && m.follow:
		m.sourcePath = m.cfg.Files[0]
		m.dataSource = loader.DataSourceLabel(m.cfg.Files)
		m.startStream(ingest.SourceFile, m.sourcePath, true)
		return nil
	case len(m.cfg.Files) > 0:
		if len(m.cfg.Files) == 1 {
			m.sourcePath = m.cfg.Files[0]
		}
		m.source = string(ingest.SourceFile)
		m.busy = true
		return m.loadFilesCmd(m.cfg.Files)
	case m.cfg.UseStdin:
		m.dataSource = "stdin"
		m.startStream(ingest.SourceStdin, "", false)
		return nil
	}
	m.dataSource = "demo"
	m.startStream(ingest.SourceDemo, "", false)
	return nil
}

// startStream (re)starts reading into the ring buffer. fromStart makes a
// followed file emit its existing content first.
func (m *Model) startStream(src ingest.SourceKind, path string, fromStart bool) {
	m.stopStream()
	ctx, cancel := context.WithCancel(m.ctx)
	m.ingestCancel = cancel
	m.streaming = true
	m.source = string(src)
	m.lines, m.errs = ingest.Read(ctx, ingest.Options{Source: src, Path: path, Follow: src == ingest.SourceFile, FromStart: fromStart})
	if !m.detected {
		m.resolveStreamFormat(path)
	}
	logx.Infof("ingest: source=%s path=%s follow=%v fromStart=%v", src, path, m.follow, fromStart)
}

func (m *Model) stopStream() {
	if m.ingestCancel != nil {
		m.ingestCancel()
		m.ingestCancel = nil
	}
}

// resolveStreamFormat uses a forced or cached format when one is available;
// otherwise the format is guessed from the first streamed lines.
func (m *Model) resolveStreamFormat(path string) {
	f, ok := detect.ByName(m.cfg.ForceFormat)
	if !ok && path != "" && !m.cfg.NoCache {
		f, ok = detect.LoadCached(path)
	}
	if ok {
		m.useFormat(f)
		logx.Infof("detect: stream format %s", f.Name)
	}
}

func (m *Model) useFormat(f detect.Format) {
	m.format = f
	m.parser = parse.NewParser(f, m.cfg.TimeLayout)
	m.detected = true
}

// consume reads whatever is waiting on the stream without blocking.
func (m *Model) consume(limit int) {
	if m.lines == nil {
		return
	}
	got := 0
	for got < limit {
		select {
		case l, ok := <-m.lines:
			if !ok {
				m.lines = nil
				m.finishSample(true)
				m.flushPending()
				return
			}
			got++
			if !m.detected {
				m.sample = append(m.sample, l)
				if len(m.sample) >= sampleLines {
					m.finishSample(true)
				}
				continue
			}
			m.feed(l)
		default:
			limit = 0
		}
	}
	if got == 0 {
		m.flushStale(time.Now())
	}
}

// flushStale closes the pending message when its last line is older than
// pendingWait.
func (m *Model) flushStale(now time.Time) {
	if m.pending != nil && now.Sub(m.pendingAt) >= pendingWait {
		m.flushPending()
	}
}

// finishSample detects the format from the buffered sample and replays it.
// Unless force is set it waits for sampleWait after the first line.
func (m *Model) finishSample(force bool) {
	if m.detected || len(m.sample) == 0 {
		return
	}
	if !force && time.Since(m.sample[0].When) < sampleWait {
		return
	}
	texts := make([]string, len(m.sample))
	for i, l := range m.sample {
		texts[i] = l.Text
	}
	g := detect.Heuristics(texts)
	logx.Infof("detect: stream looks like %s (conf=%.2f)", g.Format.Name, g.Confidence)
	m.lastMsg = fmt.Sprintf("Detected: %s", g.Format.Name)
	m.useFormat(g.Format)
	if m.sourcePath != "" && !m.cfg.NoCache && g.Format.Name != "unknown" {
		if err := detect.SaveCached(m.sourcePath, g.Format); err != nil {
			logx.Warnf("detect: cache save failed: %v", err)
		}
	}
	for _, l := range m.sample {
		m.feed(l)
	}
	m.sample = nil
}

// feed parses one streamed line. Continuation lines of multi-line formats
// are held with the pending message until the next record starts.
func (m *Model) feed(l ingest.Line) {
	when := l.When
	if when.IsZero() {
		when = time.Now()
	}
	msg, ok := m.parser.Parse(l.Text, l.Source)
	if !ok && m.format.Multiline() && m.pending != nil {
		m.pending.Text += "\n" + l.Text
		m.pending.Raw += "\n" + l.Text
		m.pendingAt = when
		return
	}
	if !ok && strings.TrimSpace(l.Text) == "" {
		return
	}
	if !ok {
		m.invalid++
	}
	m.flushPending()
	m.pending, m.pendingAt = msg, when
	if !m.format.Multiline() {
		m.flushPending()
	}
}

func (m *Model) flushPending() {
	if m.pending == nil {
		return
	}
	m.nextID++
	m.pending.ID = m.nextID
	m.ring.Push(m.pending)
	m.pending = nil
	m.rowsDirty = true
}

// drainErrors moves ingest errors to the app log.
func (m *Model) drainErrors() {
	if m.errs == nil {
		return
	}
	for {
		select {
		case err, ok := <-m.errs:
			if !ok {
				m.errs = nil
				return
			}
			logx.Errorf("ingest error: %v", err)
			m.lastMsg = "ingest error (see app log)"
		default:
			return
		}
	}
}

// toggleFollow switches a single file between a loaded snapshot and a live
// tail. Messages already loaded seed the ring so nothing disappears.
func (m *Model) toggleFollow() {
	if m.sourcePath == "" {
		m.lastMsg = "follow needs a single file"
		return
	}
	if m.follow {
		m.follow = false
		m.stopStream()
		m.flushPending()
		m.lines, m.errs = nil, nil
		m.loaded, _, _ = m.ring.Snapshot()
		m.streaming = false
		m.rowsDirty = true
		m.lastMsg = "follow off"
		logx.Infof("ingest: follow disabled for %s", m.sourcePath)
		return
	}
	m.follow = true
	if !m.streaming {
		m.ring = model.NewRing(m.cfg.MaxBuffer)
		for _, msg := range m.loaded {
			m.ring.Push(msg)
		}
		m.nextID = int64(len(m.loaded))
	}
	m.startStream(ingest.SourceFile, m.sourcePath, false)
	m.rowsDirty = true
	m.lastMsg = "follow on"
}

func listFilesCmd(dir string, patterns []string, recursive bool) tea.Cmd {
	return func() tea.Msg {
		files, err := loader.SupportedFiles(dir, patterns, recursive)
		return filesMsg{dir: dir, files: files, err: err}
	}
}

func (m *Model) loadFilesCmd(paths []string) tea.Cmd {
	ctx := m.ctx
	opts := loader.Options{Format: m.cfg.ForceFormat, TimeLayout: m.cfg.TimeLayout, NoCache: m.cfg.NoCache}
	return func() tea.Msg {
		res, err := loader.LoadFiles(ctx, paths, opts)
		return loadedMsg{paths: paths, res: res, err: err}
	}
}

func (m *Model) explainCmd(msg *model.LogMessage) tea.Cmd {
	ctx, e := m.ctx, m.explainer
	return func() tea.Msg {
		text, err := e.Explain(ctx, msg)
		return explainMsg{id: msg.ID, text: text, err: err}
	}
}

// exportCmd writes the filtered messages. Without --export/--out it writes
// NDJSON to a timestamped file in the working directory.
func (m *Model) exportCmd(now time.Time) tea.Cmd {
	format, out := m.cfg.ExportFormat, m.cfg.ExportOut
	if format == "" {
		format = export.NDJSON
	}
	if out == "" {
		out = fmt.Sprintf("logpeek-%s.%s", now.Format("20060102-150405"), exportExt(format))
	}
	ms := append([]*model.LogMessage(nil), m.filtered...)
	meta := export.Meta{DataSource: m.dataSource, DateFormat: m.dateFormat(), Session: m.session}
	return func() tea.Msg {
		if err := export.Write(format, out, ms, meta); err != nil {
			logx.Warnf("export: %v", err)
			return toastMsg{text: fmt.Sprintf("export failed: %v", err)}
		}
		logx.Infof("export: wrote %d messages to %s (%s)", len(ms), out, format)
		return toastMsg{text: fmt.Sprintf("exported %d messages to %s (%s)", len(ms), out, format)}
	}
}

func exportExt(format string) string {
	if format == export.NDJSON {
		return "ndjson"
	}
	return format
}

// rememberFolder stores the opened folder as the last one used.
func (m *Model) rememberFolder(dir string) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return
	}
	m.settings.LastFolder = abs
	if err := settings.Save(m.cfg.SettingsPath, m.settings); err != nil {
		logx.Warnf("settings: %v", err)
	}
}

func explainError(err error) string {
	if errors.Is(err, ai.ErrDisabled) {
		return "Explain needs OPENAI_API_KEY and no --offline"
	}
	return fmt.Sprintf("explain failed: %v", err)
}
