// Package confirm provides a yes/no prompt rendered in the footer.
package confirm

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/encore/internal/ui/styles"
)

// Result is sent once the prompt is answered.
type Result struct {
	Confirmed bool
	Context   any // passed through from Show
}

// Model is a yes/no confirmation prompt.
type Model struct {
	title   string
	message string
	context any
	active  bool
}

func New() Model {
	return Model{}
}

// Show activates the prompt. context comes back in the Result.
func (m *Model) Show(title, message string, context any) {
	m.title = title
	m.message = message
	m.context = context
	m.active = true
}

// Reset dismisses the prompt without answering.
func (m *Model) Reset() {
	*m = Model{}
}

func (m Model) Active() bool {
	return m.active
}

// Update answers on enter/y or esc/n. Other keys are swallowed while active.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "enter", "y", "Y":
		return m.answer(true)
	case "esc", "n", "N":
		return m.answer(false)
	}
	return m, nil
}

func (m Model) answer(confirmed bool) (Model, tea.Cmd) {
	ctx := m.context
	m.Reset()
	return m, func() tea.Msg {
		return Result{Confirmed: confirmed, Context: ctx}
	}
}

func (m Model) View() string {
	if !m.active {
		return ""
	}
	st := styles.T().S()
	return st.Warning.Render(m.title) + "  " + st.Base.Render(m.message) + "  " +
		st.Subtle.Render("y/enter confirm · n/esc cancel")
}
