package ui

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"logpeek/internal/ai"
	"logpeek/internal/filter"
	"logpeek/internal/util/logx"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		// table header, sub-status and status lines
		h := msg.Height - 3
		if h < 1 {
			h = 1
		}
		m.tbl.SetHeight(h)
		m.filesTbl.SetHeight(max(msg.Height-3, 1))
		m.applyColumns(msg.Width)
		m.detail.Width = msg.Width
		m.detail.Height = max(msg.Height-2, 1)
		if m.screen == screenDetail {
			m.detail.SetContent(m.detailContent())
		}
		if m.modalActive {
			m.resizeModal()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.modalActive {
			return m.updateModal(msg)
		}
		if m.inlineMode == inlineFilter {
			return m.updateFilterInput(msg)
		}
		switch {
		case keyMatches(msg, m.keymap.Quit):
			return m, tea.Quit
		case keyMatches(msg, m.keymap.Help):
			m.openHelpModal()
			return m, nil
		case keyMatches(msg, m.keymap.AppLogs):
			m.openAppLogsModal()
			return m, nil
		}
		switch m.screen {
		case screenFiles:
			return m.updateFiles(msg)
		case screenDetail:
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	case filesMsg:
		m.busy = false
		if msg.err != nil {
			m.lastMsg = msg.err.Error()
			logx.Errorf("loader: %v", msg.err)
			return m, nil
		}
		m.setFiles(msg.files)
		m.lastMsg = ""
		logx.Infof("loader: %d supported files in %s", len(msg.files), msg.dir)
		m.rememberFolder(msg.dir)
		return m, nil
	case loadedMsg:
		m.busy = false
		if msg.err != nil {
			m.lastMsg = fmt.Sprintf("load failed: %v", msg.err)
			logx.Errorf("loader: %v", msg.err)
			return m, nil
		}
		if m.streaming {
			m.stopStream()
			m.lines, m.errs, m.pending = nil, nil, nil
			m.follow, m.detected = false, false
		}
		m.loaded = msg.res.Messages
		m.invalid = msg.res.Invalid
		m.dataSource = msg.res.DataSource
		m.session = msg.res.Session
		m.streaming = false
		m.screen = screenList
		m.rowsDirty = true
		m.lastMsg = fmt.Sprintf("loaded %d messages", len(m.loaded))
		if m.session != "" {
			m.lastMsg += " session " + shortID(m.session)
		}
		if len(msg.res.Warnings) > 0 {
			m.lastMsg += fmt.Sprintf(" (%d warnings, see app log)", len(msg.res.Warnings))
		}
		m.refreshRows()
		m.tbl.SetCursor(0)
		return m, nil
	case explainMsg:
		m.busy = false
		if msg.err != nil {
			m.lastMsg = explainError(msg.err)
			return m, nil
		}
		m.lastMsg = ""
		m.openExplainModal(fmt.Sprintf("Explain message %d", msg.id), msg.text)
		return m, nil
	case toastMsg:
		m.lastMsg = msg.text
		return m, nil
	case tickMsg:
		if m.streaming && m.state == stateRunning {
			m.consume(500)
			m.finishSample(false)
		}
		m.drainErrors()
		if m.rowsDirty {
			m.refreshRows()
		}
		return m, tea.Tick(tickEvery, func(time.Time) tea.Msg { return tickMsg{} })
	}

	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	return m, cmd
}

func (m *Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modalKind == modalHelp {
		switch {
		case msg.Type == tea.KeyUp:
			if m.helpSel > 0 {
				m.helpSel--
			}
			return m, nil
		case msg.Type == tea.KeyDown:
			if m.helpSel+1 < len(m.helpItems) {
				m.helpSel++
			}
			return m, nil
		case msg.Type == tea.KeyEnter:
			m.modalActive = false
			if len(m.helpItems) > 0 {
				return m, keyCmd(m.helpItems[m.helpSel].key)
			}
			return m, nil
		case msg.Type == tea.KeyEsc || keyMatches(msg, m.keymap.Quit) || keyMatches(msg, m.keymap.Help):
			m.modalActive = false
		}
		// ignore other keys in help modal
		return m, nil
	}
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter {
		m.modalActive = false
		return m, nil
	}
	if keyMatches(msg, m.keymap.Copy) {
		body := m.modalBody
		if m.modalKind == modalExplain {
			body = m.explainRaw
		}
		copyToClipboard(body)
		m.lastMsg = "copied to clipboard"
		return m, nil
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return m, cmd
}

func (m *Model) updateFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		c := filter.FromInput(m.filterIn.Value())
		if err := m.applyFilter(c); err != nil {
			m.lastMsg = err.Error()
			return m, nil
		}
		m.inlineMode = inlineNone
		m.filterIn.Blur()
		return m, nil
	case tea.KeyEsc:
		m.inlineMode = inlineNone
		m.filterIn.Blur()
		m.filterIn.SetValue(m.criteria.String())
		return m, nil
	}
	var cmd tea.Cmd
	m.filterIn, cmd = m.filterIn.Update(msg)
	return m, cmd
}

// applyFilter compiles c and refreshes the rows; an invalid filter leaves
// the current one in place.
func (m *Model) applyFilter(c filter.Criteria) error {
	if c.Empty() {
		m.criteria, m.eval = filter.Criteria{}, nil
	} else {
		ev, err := filter.NewEvaluator(c)
		if err != nil {
			logx.Warnf("filter: %v", err)
			return err
		}
		m.criteria, m.eval = c, ev
	}
	m.refreshRows()
	if m.criteria.Empty() {
		m.lastMsg = "filter cleared"
	} else {
		m.lastMsg = fmt.Sprintf("%d matches", len(m.filtered))
	}
	logx.Infof("filter: %q -> %d/%d", m.criteria.String(), len(m.filtered), m.total)
	return nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keymap.Open):
		m.openDetail()
		return m, nil
	case keyMatches(msg, m.keymap.Back):
		if m.cfg.Dir != "" && len(m.files) > 0 {
			m.screen = screenFiles
		}
		return m, nil
	case keyMatches(msg, m.keymap.Filter):
		m.inlineMode = inlineFilter
		m.filterIn.SetValue(m.criteria.String())
		m.filterIn.CursorEnd()
		return m, m.filterIn.Focus()
	case keyMatches(msg, m.keymap.ClearFilter):
		m.filterIn.SetValue("")
		_ = m.applyFilter(filter.Criteria{})
		return m, nil
	case keyMatches(msg, m.keymap.Follow):
		m.toggleFollow()
		return m, nil
	case keyMatches(msg, m.keymap.Pause):
		if !m.streaming {
			return m, nil
		}
		if m.state == stateRunning {
			m.state = statePaused
		} else {
			m.state = stateRunning
		}
		return m, nil
	case keyMatches(msg, m.keymap.Clear):
		if !m.streaming {
			m.lastMsg = "clear works while streaming"
			return m, nil
		}
		m.ring.ClearVisible()
		m.rowsDirty = true
		m.refreshRows()
		m.lastMsg = "view cleared"
		return m, nil
	case keyMatches(msg, m.keymap.Export):
		if len(m.filtered) == 0 {
			m.lastMsg = "nothing to export"
			return m, nil
		}
		return m, m.exportCmd(time.Now())
	case keyMatches(msg, m.keymap.Top):
		m.tbl.SetCursor(0)
		return m, nil
	case keyMatches(msg, m.keymap.Bottom):
		if n := len(m.tbl.Rows()); n > 0 {
			m.tbl.SetCursor(n - 1)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keymap.Back):
		m.screen = screenList
		m.lastMsg = ""
		return m, nil
	case keyMatches(msg, m.keymap.Prev):
		m.step(false)
		return m, nil
	case keyMatches(msg, m.keymap.Next):
		m.step(true)
		return m, nil
	case keyMatches(msg, m.keymap.Copy):
		copyToClipboard(m.view.Body)
		m.lastMsg = "body copied to clipboard"
		return m, nil
	case keyMatches(msg, m.keymap.Explain):
		cur, ok := m.renderer.Cursor().Current()
		if !ok {
			return m, nil
		}
		if !m.explainer.Enabled() {
			m.lastMsg = explainError(ai.ErrDisabled)
			return m, nil
		}
		m.busy = true
		m.lastMsg = "asking OpenAI..."
		return m, tea.Batch(m.explainCmd(cur), m.spin.Tick)
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// updateFiles handles the folder screen. Enter loads the marked files as one
// merged session, or the file under the cursor when nothing is marked.
func (m *Model) updateFiles(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	i := m.filesTbl.Cursor()
	switch {
	case keyMatches(msg, m.keymap.Open):
		if m.busy {
			return m, nil
		}
		paths := m.markedPaths()
		if len(paths) == 0 {
			if i < 0 || i >= len(m.files) {
				return m, nil
			}
			paths = []string{m.files[i].Path}
		}
		m.sourcePath = ""
		if len(paths) == 1 {
			m.sourcePath = paths[0]
			m.lastMsg = "loading " + filepath.Base(paths[0])
		} else {
			m.lastMsg = fmt.Sprintf("loading %d files", len(paths))
		}
		m.busy = true
		m.criteria, m.eval = filter.Criteria{}, nil
		return m, m.loadFilesCmd(paths)
	case keyMatches(msg, m.keymap.Mark):
		if i < 0 || i >= len(m.files) {
			return m, nil
		}
		if m.marked == nil {
			m.marked = map[string]bool{}
		}
		p := m.files[i].Path
		if m.marked[p] {
			delete(m.marked, p)
		} else {
			m.marked[p] = true
		}
		m.renderFileRows()
		return m, nil
	case keyMatches(msg, m.keymap.MarkAll):
		all := len(m.marked) == len(m.files)
		m.marked = map[string]bool{}
		if !all {
			for _, f := range m.files {
				m.marked[f.Path] = true
			}
		}
		m.renderFileRows()
		return m, nil
	case keyMatches(msg, m.keymap.Refresh):
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.lastMsg = "refreshing"
		return m, tea.Batch(listFilesCmd(m.cfg.Dir, m.cfg.Patterns, m.cfg.Recursive), m.spin.Tick)
	}
	var cmd tea.Cmd
	m.filesTbl, cmd = m.filesTbl.Update(msg)
	return m, cmd
}
