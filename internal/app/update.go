package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/encore/internal/errmsg"
	"github.com/llehouerou/encore/internal/playback"
	"github.com/llehouerou/encore/internal/ui/confirm"
	"github.com/llehouerou/encore/internal/ui/playerbar"
	"github.com/llehouerou/encore/internal/ui/queuepanel"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		if m.closed {
			return m, nil
		}
		return m, TickCmd()

	case ServiceStateChangedMsg, ServiceQueueChangedMsg:
		m.refreshQueue()
		return m, WatchServiceEvents(m.sub)

	case ServiceTrackChangedMsg:
		m.refreshQueue()
		if !m.queue.IsFocused() || m.queue.Cursor() == msg.PreviousIndex {
			m.queue.SyncCursor()
		}
		return m, WatchServiceEvents(m.sub)

	case ServiceRadioChangedMsg:
		if !msg.Status.Active {
			m.tunedAt = time.Time{}
		}
		m.refreshStations()
		return m, WatchServiceEvents(m.sub)

	case ServiceErrorMsg:
		cmd := m.setStatus(errmsg.Format(errmsg.ForPlayback(msg.Operation), msg.Err))
		return m, tea.Batch(cmd, WatchServiceEvents(m.sub))

	case ServiceClosedMsg:
		m.closed = true
		return m, nil

	case StationsLoadedMsg:
		if msg.Err != nil {
			return m, m.setStatus(errmsg.Format(errmsg.OpStationsLoad, msg.Err))
		}
		m.stationList = msg.Stations
		m.refreshStations()
		return m, nil

	case ClearStatusMsg:
		if msg.Version == m.statusVersion {
			m.status = ""
		}
		return m, nil

	case confirm.Result:
		return m, m.handleConfirm(msg)

	case queuepanel.SelectMsg:
		return m, m.handleSelect(msg)

	case queuepanel.RemoveMsg:
		return m, m.report(errmsg.OpQueueSave, m.svc.Remove(msg.Index))

	case queuepanel.MoveMsg:
		return m, m.report(errmsg.OpQueueSave, m.svc.Move(msg.From, msg.To))
	}
	return m, nil
}

func (m *Model) handleSelect(msg queuepanel.SelectMsg) tea.Cmd {
	if msg.Panel == stationsPanel {
		if msg.Index < 0 || msg.Index >= len(m.stationList) {
			return nil
		}
		st := m.stationList[msg.Index]
		if err := m.svc.PlayStation(st); err != nil {
			return m.setStatus(errmsg.FormatWith(errmsg.OpRadioPlay, st.Name, err))
		}
		m.tunedAt = m.now()
		m.refreshStations()
		return nil
	}
	return m.report(errmsg.OpPlaybackStart, m.svc.JumpTo(msg.Index))
}

// report shows err in the status line.
func (m *Model) report(op errmsg.Op, err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return m.setStatus(errmsg.Format(op, err))
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.status = s
	m.statusVersion++
	return ClearStatusCmd(m.statusVersion)
}

func (m *Model) refreshQueue() {
	tracks := m.svc.QueueTracks()
	items := make([]queuepanel.Item, len(tracks))
	for i, t := range tracks {
		title := t.Title
		if title == "" {
			title = t.ID
		}
		items[i] = queuepanel.Item{Title: title, Detail: t.Artist, Right: playerbar.FormatDuration(t.Duration)}
	}
	playing := -1
	if m.svc.Mode() == playback.ModeQueue {
		playing = m.svc.QueueCurrentIndex()
	}
	m.queue.SetItems(items, playing)
}

func (m *Model) refreshStations() {
	items := make([]queuepanel.Item, len(m.stationList))
	playing := -1
	rs := m.svc.RadioStatus()
	for i, st := range m.stationList {
		items[i] = queuepanel.Item{Title: st.Name}
		if rs.Active && rs.Station.ID == st.ID {
			playing = i
			items[i].Detail = rs.Title
			items[i].Right = fmt.Sprint(rs.Signal)
		}
	}
	m.stations.SetItems(items, playing)
}

func (m *Model) resize() {
	listHeight := max(m.height-playerbar.Height-1, 5)
	m.queue.SetSize(m.width, listHeight)
	m.stations.SetSize(m.width, listHeight)
	m.help.Width = m.width
}
