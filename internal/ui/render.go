package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"logpeek/internal/util/logx"
	"logpeek/internal/version"
)

func (m *Model) View() string {
	var v string
	switch m.screen {
	case screenFiles:
		v = m.renderFiles()
	case screenDetail:
		v = m.renderDetail()
	default:
		v = m.renderList()
	}
	if m.modalActive {
		// Dim the background content while keeping it visible
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

func (m *Model) renderList() string {
	tv := m.tbl.View()
	cur := 0
	if n := len(m.filtered); n > 0 {
		cur = m.tbl.Cursor() + 1
		if cur > n {
			cur = n
		}
	}
	run := map[state]string{stateRunning: "Running", statePaused: "Paused"}[m.state]
	if !m.streaming {
		run = "Loaded"
	}
	busy := ""
	if m.busy {
		busy = m.spin.View() + " "
	}
	status := fmt.Sprintf("%s[%s] %s | msg:%d/%d total:%d dropped:%d invalid:%d follow:%v | [?]=help | %s",
		busy, run, m.dataSource, cur, len(m.filtered), m.total, m.dropped, m.invalid, m.follow, m.lastMsg)

	var bottom string
	switch {
	case m.inlineMode == inlineFilter:
		bottom = m.filterIn.View() + "    [enter]=apply [esc]=cancel"
	case !m.criteria.Empty():
		bottom = fmt.Sprintf("Filter: %s    [F]=clear filter", m.criteria.String())
	default:
		// keep the layout stable
		bottom = strings.Repeat(" ", max(m.termWidth, 1))
	}
	return lipgloss.JoinVertical(lipgloss.Left, tv, bottom, m.styles.Status.Render(truncateRunes(status, max(m.termWidth, 20))))
}

func (m *Model) renderDetail() string {
	v := m.view
	title := fmt.Sprintf("%s  %s  %s", version.Name, v.DataSource, v.Position)
	head := m.styles.Title.Render(title)
	hint := "[←/→]=prev/next [c]=copy body [i]=explain [esc]=back [?]=help"
	status := hint
	if m.lastMsg != "" {
		status += " | " + m.lastMsg
	}
	return lipgloss.JoinVertical(lipgloss.Left, head, m.detail.View(), m.styles.Status.Render(truncateRunes(status, max(m.termWidth, 20))))
}

func (m *Model) renderFiles() string {
	title := m.styles.Title.Render(fmt.Sprintf("%s  %s", version.Name, m.cfg.Dir))
	status := fmt.Sprintf("files:%d marked:%d | [space]=mark [a]=all [enter]=open [r]=refresh [q]=quit [?]=help | %s",
		len(m.files), len(m.marked), m.lastMsg)
	if m.busy {
		status = m.spin.View() + " " + status
	}
	body := m.filesTbl.View()
	if len(m.files) == 0 && !m.busy {
		body = m.styles.Help.Render("No supported files in this folder.")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, body, m.styles.Status.Render(status))
}

func (m *Model) buildHelpItems() []helpItem {
	km := m.keymap
	items := []helpItem{
		{group: "List", text: "Open message", key: km.Open},
		{group: "List", text: "Go to top", key: km.Top},
		{group: "List", text: "Go to bottom", key: km.Bottom},
		{group: "List", text: "Filter", key: km.Filter},
		{group: "List", text: "Clear filter", key: km.ClearFilter},
		{group: "List", text: "Toggle follow", key: km.Follow},
		{group: "List", text: "Pause/Resume stream", key: km.Pause},
		{group: "List", text: "Clear streamed messages", key: km.Clear},
		{group: "List", text: "Export filtered", key: km.Export},

		{group: "Message", text: "Previous message", key: km.Prev},
		{group: "Message", text: "Next message", key: km.Next},
		{group: "Message", text: "Copy body", key: km.Copy},
		{group: "Message", text: "Explain (OpenAI)", key: km.Explain},
		{group: "Message", text: "Back to list", key: km.Back},

		{group: "Files", text: "Mark file", key: km.Mark},
		{group: "Files", text: "Mark all / none", key: km.MarkAll},
		{group: "Files", text: "Refresh list", key: km.Refresh},

		{group: "Control", text: "Application logs", key: km.AppLogs},
		{group: "Control", text: "Help", key: km.Help},
		{group: "Control", text: "Quit", key: km.Quit},
	}
	return items
}

func (m *Model) renderHelp() string {
	if len(m.helpItems) == 0 {
		m.helpItems = m.buildHelpItems()
	}
	if m.helpSel < 0 {
		m.helpSel = 0
	}
	if m.helpSel >= len(m.helpItems) {
		m.helpSel = len(m.helpItems) - 1
	}
	lines := []string{"Shortcuts:"}
	currentGroup := ""
	lineIndexOfSel := 0
	for i, it := range m.helpItems {
		if it.group != currentGroup {
			currentGroup = it.group
			lines = append(lines, "", currentGroup+":")
		}
		prefix := "  "
		if i == m.helpSel {
			prefix = "> "
			lineIndexOfSel = len(lines)
		}
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, keyLabel(it.key), it.text))
	}
	// Keep selection visible
	if m.modalVP.Height > 0 {
		top := m.modalVP.YOffset
		bottom := top + m.modalVP.Height - 1
		if lineIndexOfSel <= top {
			m.modalVP.YOffset = max(lineIndexOfSel-1, 0)
		} else if lineIndexOfSel >= bottom {
			m.modalVP.YOffset = max(lineIndexOfSel-m.modalVP.Height+2, 0)
		}
	}
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}

func (m *Model) openHelpModal() {
	m.modalActive = true
	m.modalKind = modalHelp
	m.modalTitle = "Help"
	m.helpItems = m.buildHelpItems()
	m.helpSel = 0
	m.modalBody = m.renderHelp()
	m.resizeModal()
}

func (m *Model) openAppLogsModal() {
	m.modalActive = true
	m.modalKind = modalLogs
	m.modalTitle = "Application Logs"
	m.modalBody = logx.Dump()
	m.resizeModal()
	m.modalVP.GotoBottom()
}

func (m *Model) openExplainModal(title, markdown string) {
	m.modalActive = true
	m.modalKind = modalExplain
	m.modalTitle = title
	m.explainRaw = markdown
	m.modalBody = m.engine.Convert(markdown)
	m.resizeModal()
}

func (m *Model) resizeModal() {
	w := m.termWidth - 6
	h := m.termHeight - 6
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.modalVP = viewport.New(w-4, h-4)
	m.modalVP.SetContent(m.modalBody)
}

func (m *Model) renderModal() string {
	content := ""
	switch m.modalKind {
	case modalHelp:
		m.modalVP.SetContent(m.renderHelp())
		content = m.modalVP.View() + "\n[esc]=close  [enter]=run"
	case modalLogs:
		header := []string{
			"Status:",
			fmt.Sprintf("format: %s  source: %s  follow: %v", m.formatName(), m.source, m.follow),
			fmt.Sprintf("rows: %d  ingested: %d  overflow: %d  invalid: %d", len(m.filtered), m.total, m.dropped, m.invalid),
		}
		h := m.styles.Help.Render(strings.Join(header, "\n"))
		content = h + "\n" + m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	case modalExplain:
		content = m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	default:
		content = m.modalVP.View() + "\n[esc/enter]=close"
	}
	boxW := m.termWidth - 6
	if boxW < 20 {
		boxW = 20
	}
	title := m.styles.PopupTitle.Render(m.modalTitle)
	body := m.styles.PopupBox.Width(boxW).Render(title + "\n" + content)
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) formatName() string {
	if m.streaming && m.detected {
		return m.format.Name
	}
	if m.streaming {
		return "detecting"
	}
	return "per file"
}
