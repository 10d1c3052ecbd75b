package queuepanel

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/encore/internal/keymap"
)

func items(titles ...string) []Item {
	out := make([]Item, len(titles))
	for i, t := range titles {
		out[i] = Item{Title: t, Right: "3:00"}
	}
	return out
}

func newPanel(editable bool, titles ...string) Model {
	m := New("Queue", keymap.NewResolver(keymap.Bindings), editable)
	m.SetSize(40, 8)
	m.SetItems(items(titles...), 0)
	m.SetFocused(true)
	return m
}

func press(m Model, k string) (Model, tea.Msg) {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "shift+down":
		msg = tea.KeyMsg{Type: tea.KeyShiftDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	m, cmd := m.Update(msg)
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

func TestCursorMovementIsClamped(t *testing.T) {
	m := newPanel(true, "a", "b", "c")

	m, _ = press(m, "j")
	m, _ = press(m, "j")
	m, _ = press(m, "j")
	assert.Equal(t, 2, m.Cursor())

	m, _ = press(m, "g")
	assert.Equal(t, 0, m.Cursor())
	m, _ = press(m, "k")
	assert.Equal(t, 0, m.Cursor())
	m, _ = press(m, "G")
	assert.Equal(t, 2, m.Cursor())
}

func TestSelectEmitsIndex(t *testing.T) {
	m := newPanel(false, "a", "b")
	m, _ = press(m, "j")

	_, msg := press(m, "enter")
	assert.Equal(t, SelectMsg{Panel: "Queue", Index: 1}, msg)
}

func TestRemoveOnlyWhenEditable(t *testing.T) {
	_, msg := press(newPanel(true, "a", "b"), "d")
	assert.Equal(t, RemoveMsg{Index: 0}, msg)

	_, msg = press(newPanel(false, "a", "b"), "d")
	assert.Nil(t, msg)
}

func TestMoveFollowsCursor(t *testing.T) {
	m := newPanel(true, "a", "b", "c")

	m, msg := press(m, "shift+down")
	assert.Equal(t, MoveMsg{From: 0, To: 1}, msg)
	assert.Equal(t, 1, m.Cursor())

	m, _ = press(m, "G")
	_, msg = press(m, "J")
	assert.Nil(t, msg, "cannot move past the end")
}

func TestUnfocusedIgnoresKeys(t *testing.T) {
	m := newPanel(true, "a", "b")
	m.SetFocused(false)
	m, msg := press(m, "j")
	assert.Equal(t, 0, m.Cursor())
	assert.Nil(t, msg)
}

func TestSetItemsClampsCursor(t *testing.T) {
	m := newPanel(true, "a", "b", "c")
	m, _ = press(m, "G")
	m.SetItems(items("a"), 0)
	assert.Equal(t, 0, m.Cursor())
}

func TestScrollKeepsCursorVisible(t *testing.T) {
	m := newPanel(true, "a", "b", "c", "d", "e", "f", "g")
	for range 6 {
		m, _ = press(m, "j")
	}
	view := ansi.Strip(m.View())
	assert.Contains(t, view, "g")
	assert.NotContains(t, view, " a ")
}

func TestView(t *testing.T) {
	m := newPanel(true, "So What", "Blue in Green")
	m.SetItems(items("So What", "Blue in Green"), 1)

	view := ansi.Strip(m.View())
	require.Contains(t, view, "Queue (2/2)")
	assert.Contains(t, view, "▸ Blue in Green")
	assert.Contains(t, view, "3:00")
}

func TestView_NothingPlaying(t *testing.T) {
	m := newPanel(false, "FIP")
	m.SetItems(items("FIP"), -1)
	assert.Contains(t, ansi.Strip(m.View()), "Queue (1)")
}
