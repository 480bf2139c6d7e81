package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"logpeek/internal/ai"
	"logpeek/internal/config"
	"logpeek/internal/detect"
	"logpeek/internal/filter"
	"logpeek/internal/ingest"
	"logpeek/internal/loader"
	"logpeek/internal/markup"
	"logpeek/internal/model"
	"logpeek/internal/parse"
	"logpeek/internal/render"
	"logpeek/internal/settings"
)

type screen int

const (
	screenList screen = iota
	screenDetail
	screenFiles
)

type state int

const (
	stateRunning state = iota
	statePaused
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalLogs
	modalExplain
)

type inlineMode int

const (
	inlineNone inlineMode = iota
	inlineFilter
)

type Model struct {
	ctx context.Context
	cfg *config.Config
	// cancel function for the running stream; allows restarting when toggling follow
	ingestCancel context.CancelFunc

	// Stream
	lines    <-chan ingest.Line
	errs     <-chan error
	format   detect.Format
	parser   parse.Parser
	detected bool
	sample   []ingest.Line
	pending  *model.LogMessage
	// arrival of the pending message's last line
	pendingAt time.Time
	nextID    int64

	// Data
	streaming bool
	ring      *model.Ring
	loaded    []*model.LogMessage
	filtered  []*model.LogMessage
	total     uint64
	dropped   uint64
	invalid   int

	// Rendering
	engine    markup.Converter
	renderer  *render.Renderer
	view      render.View
	explainer *ai.Explainer

	// Folder mode
	files    []loader.FileInfo
	marked   map[string]bool
	filesTbl table.Model
	settings settings.Settings

	// UI
	screen     screen
	state      state
	tbl        table.Model
	detail     viewport.Model
	filterIn   textinput.Model
	spin       spinner.Model
	styles     Styles
	keymap     KeyMap
	termWidth  int
	termHeight int

	rowsDirty bool

	// Filter
	criteria filter.Criteria
	eval     *filter.Evaluator

	// status
	source     string
	sourcePath string
	dataSource string
	session    string
	follow     bool
	busy       bool
	lastMsg    string

	// Modal popup
	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string
	// raw markdown of the last explanation, for copying
	explainRaw string

	// Help menu state
	helpItems []helpItem
	helpSel   int

	inlineMode inlineMode
}

type helpItem struct {
	group string
	text  string
	key   tea.Key
}

func keyCmd(k tea.Key) tea.Cmd {
	return func() tea.Msg {
		if k.Type == tea.KeyRunes {
			return tea.KeyMsg{Type: k.Type, Runes: k.Runes}
		}
		return tea.KeyMsg{Type: k.Type}
	}
}

func keyLabel(k tea.Key) string {
	switch k.Type {
	case tea.KeyRunes:
		if len(k.Runes) == 1 {
			r := k.Runes[0]
			if r == ' ' {
				return "space"
			}
			return string(r)
		}
		return strings.ToLower(string(k.Runes))
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeyLeft:
		return "left"
	case tea.KeyRight:
		return "right"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyPgUp:
		return "pgup"
	case tea.KeyPgDown:
		return "pgdown"
	default:
		return strings.ToLower(k.String())
	}
}
