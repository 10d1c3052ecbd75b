package queuepanel

import (
	"fmt"
	"strings"

	"github.com/llehouerou/encore/internal/ui/render"
	"github.com/llehouerou/encore/internal/ui/styles"
)

// View renders the panel with a header showing the playing position.
func (m Model) View() string {
	st := styles.T().S()
	inner := max(m.width-4, 10)

	header := fmt.Sprintf("%s (%d/%d)", m.name, m.playing+1, len(m.items))
	if m.playing < 0 {
		header = fmt.Sprintf("%s (%d)", m.name, len(m.items))
	}

	lines := make([]string, 0, m.listHeight()+2)
	lines = append(lines, st.Title.Render(render.Fit(header, inner)), st.Subtle.Render(strings.Repeat("─", inner)))

	end := min(m.offset+m.listHeight(), len(m.items))
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderItem(i, inner))
	}
	for len(lines) < m.listHeight()+2 {
		lines = append(lines, strings.Repeat(" ", inner))
	}

	panel := st.Panel.Padding(0, 1)
	if m.focused {
		panel = panel.BorderForeground(styles.T().Primary)
	}
	return panel.Width(m.width - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderItem(i, width int) string {
	st := styles.T().S()
	it := m.items[i]

	marker := "  "
	if i == m.playing {
		marker = "▸ "
	}
	right := it.Right
	avail := max(width-len(marker)-len(right)-1, 4)

	text := it.Title
	if it.Detail != "" {
		text += " · " + it.Detail
	}
	line := render.Row(marker+render.Fit(text, avail), right, width)

	switch {
	case i == m.cursor && m.focused:
		return st.Cursor.Render(line)
	case i == m.playing:
		return st.Playing.Render(line)
	}
	return st.Base.Render(line)
}
