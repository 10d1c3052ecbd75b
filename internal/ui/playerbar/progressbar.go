package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/encore/internal/ui/styles"
)

const (
	filledBlock = "━"
	emptyBlock  = "─"
)

// ProgressBar renders "status  1:23  ━━━───  4:56" in width cells. A zero
// duration renders the elapsed time only.
func ProgressBar(position, duration time.Duration, width int, status string) string {
	pos := FormatDuration(position)
	if duration <= 0 {
		return status + "  " + pos
	}
	dur := FormatDuration(duration)

	fixed := lipgloss.Width(status) + 2 + lipgloss.Width(pos) + 2 + 2 + lipgloss.Width(dur)
	barWidth := width - fixed
	if barWidth < 3 {
		return status + "  " + pos + " / " + dur
	}

	ratio := min(max(float64(position)/float64(duration), 0), 1)
	filled := int(float64(barWidth) * ratio)

	t := styles.T()
	bar := styles.Gradient(strings.Repeat(filledBlock, filled), t.Primary, t.Secondary) +
		t.S().Subtle.Render(strings.Repeat(emptyBlock, barWidth-filled))
	return status + "  " + pos + "  " + bar + "  " + dur
}

// FormatDuration renders m:ss, or h:mm:ss past an hour.
func FormatDuration(d time.Duration) string {
	d = max(d, 0).Truncate(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
