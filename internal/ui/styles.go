package ui

import (
	"github.com/charmbracelet/lipgloss"

	"logpeek/internal/model"
)

type Styles struct {
	Base        lipgloss.Style
	Status      lipgloss.Style
	Title       lipgloss.Style
	Label       lipgloss.Style
	Help        lipgloss.Style
	Detail      lipgloss.Style
	Level       map[model.Level]lipgloss.Style
	TableStyles TableStyles
	PopupBox    lipgloss.Style
	PopupTitle  lipgloss.Style
}

type TableStyles struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	if dark {
		s.Base = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.Label = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	} else {
		s.Base = lipgloss.NewStyle()
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.Label = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
	}
	s.Detail = lipgloss.NewStyle().Padding(0, 1)
	s.Level = map[model.Level]lipgloss.Style{
		model.LevelTrace:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		model.LevelDebug:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		model.LevelVerbose:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		model.LevelInfo:     lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		model.LevelEvent:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		model.LevelWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		model.LevelError:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		model.LevelCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("201")),
		model.LevelFatal:    lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true),
	}
	s.TableStyles = TableStyles{
		Header:   lipgloss.NewStyle().Bold(true).PaddingRight(1),
		Cell:     lipgloss.NewStyle().PaddingRight(1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")),
	}
	return s
}

// LevelStyle returns the style for a level name as rendered in a view.
func (s Styles) LevelStyle(l model.Level) lipgloss.Style {
	if st, ok := s.Level[l]; ok {
		return st
	}
	return s.Base
}
