package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"logpeek/internal/ai"
	"logpeek/internal/config"
	"logpeek/internal/cursor"
	"logpeek/internal/markup"
	"logpeek/internal/model"
	"logpeek/internal/render"
	"logpeek/internal/settings"
	"logpeek/internal/util/logx"
)

// detailWrap is the word wrap width of rendered message bodies.
const detailWrap = 100

const tickEvery = 200 * time.Millisecond

func newModel(ctx context.Context, cfg *config.Config, st settings.Settings, engine markup.Converter, explainer *ai.Explainer) *Model {
	m := &Model{
		ctx:       ctx,
		cfg:       cfg,
		settings:  st,
		ring:      model.NewRing(cfg.MaxBuffer),
		state:     stateRunning,
		styles:    NewStyles(cfg.Theme != config.ThemeLight),
		keymap:    DefaultKeyMap(),
		filterIn:  textinput.New(),
		spin:      spinner.New(),
		follow:    cfg.Follow,
		engine:    engine,
		explainer: explainer,
		rowsDirty: true,
	}
	m.renderer = render.NewRenderer(cursor.New())
	m.renderer.Configure(engine)
	m.spin.Spinner = spinner.Dot
	m.filterIn.Placeholder = "text, /regex/ or expr: level == 'Error'"
	m.filterIn.CharLimit = 256
	m.filterIn.Prompt = "filter: "
	m.detail = viewport.New(80, 20)
	m.modalVP = viewport.New(60, 10)

	ts := table.DefaultStyles()
	ts.Header = m.styles.TableStyles.Header
	ts.Cell = m.styles.TableStyles.Cell
	ts.Selected = m.styles.TableStyles.Selected

	m.tbl = table.New(table.WithFocused(true), table.WithHeight(20))
	m.tbl.SetStyles(ts)
	m.filesTbl = table.New(table.WithFocused(true), table.WithHeight(20))
	m.filesTbl.SetStyles(ts)
	m.applyColumns(80)
	return m
}

// Run starts the viewer. The markup engine and the explainer are built once
// here and live as long as the program.
func Run(ctx context.Context, cfg *config.Config, st settings.Settings) error {
	style := markup.StyleDark
	if cfg.Theme == config.ThemeLight {
		style = markup.StyleLight
	}
	var engine markup.Converter
	term, err := markup.NewTerminal(style, detailWrap)
	if err != nil {
		logx.Warnf("ui: terminal markup engine unavailable, showing plain text: %v", err)
		engine = markup.Plain{}
	} else {
		engine = term
	}
	explainer := ai.NewExplainer(cfg.OpenAIKey(), cfg.OpenAIBase, cfg.OpenAIModel, time.Duration(cfg.OpenAITimeoutSec)*time.Second, cfg.Offline)

	m := newModel(ctx, cfg, st, engine, explainer)
	defer m.stopStream()
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err = p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.start(), m.spin.Tick, tea.Tick(tickEvery, func(time.Time) tea.Msg { return tickMsg{} }))
}
