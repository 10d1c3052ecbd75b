// Package queuepanel is a scrolling list used for the play queue and the
// station directory.
package queuepanel

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/encore/internal/keymap"
)

// panelOverhead is border plus header plus separator.
const panelOverhead = 4

// Item is one row.
type Item struct {
	Title  string
	Detail string
	Right  string
}

// SelectMsg asks to play the entry at Index.
type SelectMsg struct {
	Panel string
	Index int
}

// RemoveMsg asks to remove the entry at Index.
type RemoveMsg struct {
	Index int
}

// MoveMsg asks to move an entry one step.
type MoveMsg struct {
	From, To int
}

// Model is the list state. It never mutates the queue itself; edits are
// requested through messages and come back as new items.
type Model struct {
	name     string
	items    []Item
	playing  int
	cursor   int
	offset   int
	width    int
	height   int
	focused  bool
	editable bool
	keys     *keymap.Resolver
}

// New creates a panel. Editable panels emit RemoveMsg and MoveMsg.
func New(name string, keys *keymap.Resolver, editable bool) Model {
	return Model{name: name, keys: keys, editable: editable, playing: -1}
}

func (m *Model) SetFocused(focused bool) { m.focused = focused }

func (m Model) IsFocused() bool { return m.focused }

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureCursorVisible()
}

// SetItems replaces the rows. playing marks the highlighted entry, -1 for
// none. The cursor is clamped.
func (m *Model) SetItems(items []Item, playing int) {
	m.items = items
	m.playing = playing
	m.cursor = min(m.cursor, max(len(items)-1, 0))
	m.ensureCursorVisible()
}

func (m Model) Cursor() int { return m.cursor }

func (m Model) Len() int { return len(m.items) }

// SyncCursor moves the cursor to the playing entry.
func (m *Model) SyncCursor() {
	if m.playing >= 0 && m.playing < len(m.items) {
		m.cursor = m.playing
		m.ensureCursorVisible()
	}
}

// Update handles list keys while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused || len(m.items) == 0 {
		return m, nil
	}

	switch m.keys.Resolve(keyMsg.String()) { //nolint:exhaustive // list actions only
	case keymap.ActionMoveDown:
		m.moveCursor(1)
	case keymap.ActionMoveUp:
		m.moveCursor(-1)
	case keymap.ActionJumpStart:
		m.cursor = 0
		m.ensureCursorVisible()
	case keymap.ActionJumpEnd:
		m.cursor = len(m.items) - 1
		m.ensureCursorVisible()
	case keymap.ActionSelect:
		name, idx := m.name, m.cursor
		return m, func() tea.Msg { return SelectMsg{Panel: name, Index: idx} }
	case keymap.ActionDelete:
		if m.editable {
			idx := m.cursor
			return m, func() tea.Msg { return RemoveMsg{Index: idx} }
		}
	case keymap.ActionMoveItemDown:
		return m.move(1)
	case keymap.ActionMoveItemUp:
		return m.move(-1)
	}
	return m, nil
}

func (m Model) move(delta int) (Model, tea.Cmd) {
	to := m.cursor + delta
	if !m.editable || to < 0 || to >= len(m.items) {
		return m, nil
	}
	from := m.cursor
	m.cursor = to
	m.ensureCursorVisible()
	return m, func() tea.Msg { return MoveMsg{From: from, To: to} }
}

func (m *Model) moveCursor(delta int) {
	m.cursor = min(max(m.cursor+delta, 0), max(len(m.items)-1, 0))
	m.ensureCursorVisible()
}

func (m Model) listHeight() int {
	return max(m.height-panelOverhead, 1)
}

func (m *Model) ensureCursorVisible() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(min(m.offset, len(m.items)-h), 0)
}
