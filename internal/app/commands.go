package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/encore/internal/playback"
)

const (
	tickInterval   = 500 * time.Millisecond
	statusDuration = 5 * time.Second
	stationTimeout = 10 * time.Second
)

// TickCmd returns a command that sends TickMsg after tickInterval.
func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WatchServiceEvents waits for the next playback event and converts it to a
// tea.Msg. Position updates are dropped; the tick redraws the bar.
func WatchServiceEvents(sub *playback.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case e := <-sub.StateChanged:
				return ServiceStateChangedMsg{e}
			case e := <-sub.TrackChanged:
				return ServiceTrackChangedMsg{e}
			case <-sub.QueueChanged:
				return ServiceQueueChangedMsg{}
			case <-sub.ModeChanged:
				return ServiceQueueChangedMsg{}
			case <-sub.SourceChanged:
				return ServiceQueueChangedMsg{}
			case e := <-sub.RadioChanged:
				return ServiceRadioChangedMsg{Status: e.Status}
			case e := <-sub.Error:
				return ServiceErrorMsg{e}
			case <-sub.PositionChanged:
			case <-sub.Done:
				return ServiceClosedMsg{}
			}
		}
	}
}

// LoadStationsCmd fetches the station directory.
func LoadStationsCmd(l StationLister) tea.Cmd {
	if l == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), stationTimeout)
		defer cancel()
		stations, err := l.Stations(ctx)
		return StationsLoadedMsg{Stations: stations, Err: err}
	}
}

// ClearStatusCmd expires a status message.
func ClearStatusCmd(version int) tea.Cmd {
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return ClearStatusMsg{Version: version}
	})
}
