package keymap

import "github.com/charmbracelet/bubbles/key"

// Binding maps keys to an action within a context.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "queue", "stations"
}

// Bindings contains all key bindings.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},
	{ActionSwitchFocus, []string{"tab"}, "Queue/stations", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionNextTrack, []string{"pgdown", "n"}, "Next track", "playback"},
	{ActionPrevTrack, []string{"pgup", "p"}, "Previous track", "playback"},
	{ActionSeekBack, []string{"shift+left"}, "Seek -5s", "playback"},
	{ActionSeekForward, []string{"shift+right"}, "Seek +5s", "playback"},
	{ActionSeekBackLong, []string{"alt+shift+left"}, "Seek -15s", "playback"},
	{ActionSeekForwardLong, []string{"alt+shift+right"}, "Seek +15s", "playback"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "playback"},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "playback"},
	{ActionCycleRepeat, []string{"R"}, "Cycle repeat", "playback"},
	{ActionToggleShuffle, []string{"S"}, "Toggle shuffle", "playback"},
	{ActionToggleCrossfade, []string{"X"}, "Toggle crossfade", "playback"},
	{ActionToggleNormalize, []string{"L"}, "Toggle normalization", "playback"},

	// Navigation
	{ActionMoveUp, []string{"k", "up"}, "Move up", "queue"},
	{ActionMoveDown, []string{"j", "down"}, "Move down", "queue"},
	{ActionJumpStart, []string{"g", "home"}, "First item", "queue"},
	{ActionJumpEnd, []string{"G", "end"}, "Last item", "queue"},

	// Queue
	{ActionSelect, []string{"enter"}, "Play", "queue"},
	{ActionDelete, []string{"d", "delete"}, "Remove", "queue"},
	{ActionClear, []string{"c"}, "Clear queue", "queue"},
	{ActionMoveItemUp, []string{"shift+up", "K"}, "Move up", "queue"},
	{ActionMoveItemDown, []string{"shift+down", "J"}, "Move down", "queue"},
	{ActionUndo, []string{"ctrl+z", "u"}, "Undo", "queue"},
	{ActionRedo, []string{"ctrl+y"}, "Redo", "queue"},

	// Stations
	{ActionStopRadio, []string{"esc"}, "Leave radio", "stations"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// Help converts bindings for the bubbles help view. Only the first key of
// each binding is shown.
func Help(bindings []Binding) []key.Binding {
	out := make([]key.Binding, 0, len(bindings))
	for _, b := range bindings {
		k := b.Keys[0]
		if k == " " {
			k = "space"
		}
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(k, b.Description)))
	}
	return out
}
