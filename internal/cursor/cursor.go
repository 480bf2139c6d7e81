// Package cursor tracks the current message within an ordered message set.
//
// Membership is decided by pointer identity: two messages with equal fields
// at different positions are different members. The cursor never copies,
// filters or reorders the slice it is given.
package cursor

import (
	"errors"
	"fmt"

	"logpeek/internal/model"
)

// ErrInvalidState reports a message that is not part of the current session.
var ErrInvalidState = errors.New("message is not part of the session")

// Cursor holds one viewing session. The zero value is an empty session.
type Cursor struct {
	messages []*model.LogMessage
	index    map[*model.LogMessage]int
	cur      int
	has      bool
}

func New() *Cursor { return &Cursor{} }

// SetSession replaces the tracked sequence and the current message. initial
// may be nil, which leaves the session without a current message. When
// initial is not a member the previous session is kept and an error wrapping
// ErrInvalidState is returned.
func (c *Cursor) SetSession(messages []*model.LogMessage, initial *model.LogMessage) error {
	index := make(map[*model.LogMessage]int, len(messages))
	for i, m := range messages {
		if _, dup := index[m]; !dup {
			index[m] = i
		}
	}
	cur, has := 0, false
	if initial != nil {
		i, ok := index[initial]
		if !ok {
			return fmt.Errorf("set session: initial message %d: %w", initial.ID, ErrInvalidState)
		}
		cur, has = i, true
	}
	c.messages = messages
	c.index = index
	c.cur, c.has = cur, has
	return nil
}

// Current returns the current message, if any.
func (c *Cursor) Current() (*model.LogMessage, bool) {
	if !c.has {
		return nil, false
	}
	return c.messages[c.cur], true
}

// MoveNext advances to the next message. It reports false and stays put at
// the last message, on an empty session or without a current message.
func (c *Cursor) MoveNext() bool {
	if !c.has || c.cur >= len(c.messages)-1 {
		return false
	}
	c.cur++
	return true
}

// MovePrevious is the mirror of MoveNext.
func (c *Cursor) MovePrevious() bool {
	if !c.has || c.cur == 0 {
		return false
	}
	c.cur--
	return true
}

// Position returns the 1-based index of the current message and the total
// count, or (0, 0) when there is no current message.
func (c *Cursor) Position() (int, int) {
	if !c.has || len(c.messages) == 0 {
		return 0, 0
	}
	return c.cur + 1, len(c.messages)
}

// JumpTo makes m the current message.
func (c *Cursor) JumpTo(m *model.LogMessage) error {
	if m == nil {
		return fmt.Errorf("jump: nil message: %w", ErrInvalidState)
	}
	i, ok := c.index[m]
	if !ok {
		return fmt.Errorf("jump: message %d: %w", m.ID, ErrInvalidState)
	}
	c.cur, c.has = i, true
	return nil
}

// IndexOf returns the 1-based position of m, or 0 when m is not a member.
func (c *Cursor) IndexOf(m *model.LogMessage) int {
	if m == nil {
		return 0
	}
	i, ok := c.index[m]
	if !ok {
		return 0
	}
	return i + 1
}

func (c *Cursor) Len() int { return len(c.messages) }

// Messages returns the session's backing slice. Callers must not modify it.
func (c *Cursor) Messages() []*model.LogMessage { return c.messages }
