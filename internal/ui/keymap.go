package ui

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	Open        tea.Key
	Back        tea.Key
	Prev        tea.Key
	Next        tea.Key
	Copy        tea.Key
	Explain     tea.Key
	Filter      tea.Key
	ClearFilter tea.Key
	Follow      tea.Key
	Pause       tea.Key
	Clear       tea.Key
	Mark        tea.Key
	MarkAll     tea.Key
	Refresh     tea.Key
	Top         tea.Key
	Bottom      tea.Key
	AppLogs     tea.Key
	Export      tea.Key
	Help        tea.Key
	Quit        tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open:        tea.Key{Type: tea.KeyEnter},
		Back:        tea.Key{Type: tea.KeyEsc},
		Prev:        tea.Key{Type: tea.KeyLeft},
		Next:        tea.Key{Type: tea.KeyRight},
		Copy:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'c'}},
		Explain:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'i'}},
		Filter:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		ClearFilter: tea.Key{Type: tea.KeyRunes, Runes: []rune{'F'}},
		Follow:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'t'}},
		Pause:       tea.Key{Type: tea.KeyRunes, Runes: []rune{' '}},
		Clear:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'x'}},
		Mark:        tea.Key{Type: tea.KeyRunes, Runes: []rune{' '}},
		MarkAll:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'a'}},
		Refresh:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'r'}},
		Top:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'g'}},
		Bottom:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'G'}},
		AppLogs:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		Export:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'e'}},
		Help:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'?'}},
		Quit:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}
