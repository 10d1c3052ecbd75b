package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/encore/internal/errmsg"
	"github.com/llehouerou/encore/internal/keymap"
	"github.com/llehouerou/encore/internal/settings"
	"github.com/llehouerou/encore/internal/ui/confirm"
)

const (
	seekStep     = 5 * time.Second
	seekStepLong = 15 * time.Second
	volumeStep   = 0.05
)

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm.Active() {
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.Update(msg)
		return m, cmd
	}

	action := m.keys.Resolve(msg.String())

	switch action { //nolint:exhaustive // list actions go to the focused panel
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
		return m, nil
	case keymap.ActionSwitchFocus:
		m.toggleFocus()
		return m, nil
	}

	if cmd, ok := m.handlePlaybackKey(action); ok {
		return m, cmd
	}
	if cmd, ok := m.handleQueueKey(action); ok {
		return m, cmd
	}

	var cmd tea.Cmd
	if m.focus == FocusStations {
		m.stations, cmd = m.stations.Update(msg)
	} else {
		m.queue, cmd = m.queue.Update(msg)
	}
	return m, cmd
}

func (m *Model) handlePlaybackKey(action keymap.Action) (tea.Cmd, bool) {
	var err error
	op := errmsg.OpPlaybackStart

	switch action { //nolint:exhaustive // playback actions only
	case keymap.ActionPlayPause:
		err = m.svc.Toggle()
	case keymap.ActionStop:
		err = m.svc.Stop()
	case keymap.ActionNextTrack:
		err = m.svc.Next()
	case keymap.ActionPrevTrack:
		err = m.svc.Previous()
	case keymap.ActionSeekForward:
		op, err = errmsg.OpPlaybackSeek, m.svc.Seek(seekStep)
	case keymap.ActionSeekBack:
		op, err = errmsg.OpPlaybackSeek, m.svc.Seek(-seekStep)
	case keymap.ActionSeekForwardLong:
		op, err = errmsg.OpPlaybackSeek, m.svc.Seek(seekStepLong)
	case keymap.ActionSeekBackLong:
		op, err = errmsg.OpPlaybackSeek, m.svc.Seek(-seekStepLong)
	case keymap.ActionVolumeUp:
		op, err = errmsg.OpVolumeSave, m.svc.SetVolume(m.svc.Volume()+volumeStep)
	case keymap.ActionVolumeDown:
		op, err = errmsg.OpVolumeSave, m.svc.SetVolume(m.svc.Volume()-volumeStep)
	case keymap.ActionCycleRepeat:
		m.svc.CycleRepeatMode()
	case keymap.ActionToggleShuffle:
		m.svc.ToggleShuffle()
	case keymap.ActionToggleCrossfade:
		s := m.currentSettings()
		s.Crossfade.Enabled = !s.Crossfade.Enabled
		m.svc.SetCrossfade(s.Crossfade)
		return m.settingsChanged(s), true
	case keymap.ActionToggleNormalize:
		s := m.currentSettings()
		s.Normalization.Enabled = !s.Normalization.Enabled
		m.svc.SetNormalization(s.Normalization)
		return m.settingsChanged(s), true
	default:
		return nil, false
	}
	return m.report(op, err), true
}

func (m *Model) handleQueueKey(action keymap.Action) (tea.Cmd, bool) {
	switch action { //nolint:exhaustive // queue actions only
	case keymap.ActionClear:
		n := len(m.svc.QueueTracks())
		if n == 0 {
			return nil, true
		}
		m.confirm.Show("Clear queue", fmt.Sprintf("Remove all %d tracks?", n), clearQueue{})
		return nil, true
	case keymap.ActionUndo:
		if !m.svc.Undo() {
			return m.setStatus("Nothing to undo"), true
		}
		return nil, true
	case keymap.ActionRedo:
		if !m.svc.Redo() {
			return m.setStatus("Nothing to redo"), true
		}
		return nil, true
	case keymap.ActionStopRadio:
		return m.report(errmsg.OpRadioPlay, m.svc.StopRadio()), true
	}
	return nil, false
}

// clearQueue tags the confirmation asked before clearing the queue.
type clearQueue struct{}

func (m *Model) handleConfirm(res confirm.Result) tea.Cmd {
	if _, ok := res.Context.(clearQueue); !ok || !res.Confirmed {
		return nil
	}
	return m.report(errmsg.OpQueueSave, m.svc.ClearQueue())
}

func (m *Model) toggleFocus() {
	if m.focus == FocusQueue {
		m.focus = FocusStations
	} else {
		m.focus = FocusQueue
	}
	m.queue.SetFocused(m.focus == FocusQueue)
	m.stations.SetFocused(m.focus == FocusStations)
}

func (m *Model) currentSettings() settings.Settings {
	return settings.Settings{
		Crossfade:     m.svc.CrossfadeSettings(),
		Normalization: m.svc.NormalizationSettings(),
	}
}

func (m *Model) settingsChanged(s settings.Settings) tea.Cmd {
	if m.onSettings == nil {
		return nil
	}
	onSettings := m.onSettings
	return func() tea.Msg {
		onSettings(s)
		return SettingsChangedMsg{Settings: s}
	}
}
