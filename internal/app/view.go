package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/llehouerou/encore/internal/keymap"
	"github.com/llehouerou/encore/internal/ui/playerbar"
	"github.com/llehouerou/encore/internal/ui/styles"
)

const helpRows = 6

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	var b strings.Builder

	bar := playerbar.NewState(m.svc, m.tunedAt)
	b.WriteString(playerbar.Render(bar, m.width, m.now()))
	b.WriteString("\n")

	if m.focus == FocusStations {
		b.WriteString(m.stations.View())
	} else {
		b.WriteString(m.queue.View())
	}
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) footer() string {
	if m.confirm.Active() {
		return m.confirm.View()
	}
	st := styles.T().S()
	if m.status != "" {
		return st.Error.Render(m.status)
	}
	if m.showHelp {
		context := "queue"
		if m.focus == FocusStations {
			context = "stations"
		}
		bindings := append(keymap.ByContext("playback"), keymap.ByContext(context)...)
		bindings = append(bindings, keymap.ByContext("global")...)
		return m.help.FullHelpView(columns(keymap.Help(bindings), helpRows))
	}
	return st.Subtle.Render("? help  tab queue/stations  q quit")
}

// columns splits bindings into help columns of n rows.
func columns(bindings []key.Binding, n int) [][]key.Binding {
	var out [][]key.Binding
	for len(bindings) > n {
		out = append(out, bindings[:n])
		bindings = bindings[n:]
	}
	return append(out, bindings)
}
