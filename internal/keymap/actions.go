// Package keymap defines key bindings and action dispatch for the control surface.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit        Action = "quit"
	ActionHelp        Action = "help"
	ActionSwitchFocus Action = "switch_focus"

	// Playback actions
	ActionPlayPause       Action = "play_pause"
	ActionStop            Action = "stop"
	ActionNextTrack       Action = "next_track"
	ActionPrevTrack       Action = "prev_track"
	ActionSeekForward     Action = "seek_forward"
	ActionSeekBack        Action = "seek_back"
	ActionSeekForwardLong Action = "seek_forward_long"
	ActionSeekBackLong    Action = "seek_back_long"
	ActionVolumeUp        Action = "volume_up"
	ActionVolumeDown      Action = "volume_down"
	ActionCycleRepeat     Action = "cycle_repeat"
	ActionToggleShuffle   Action = "toggle_shuffle"
	ActionToggleCrossfade Action = "toggle_crossfade"
	ActionToggleNormalize Action = "toggle_normalize"

	// Navigation actions
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionJumpStart Action = "jump_start"
	ActionJumpEnd   Action = "jump_end"

	// Queue actions
	ActionSelect       Action = "select" // play entry or tune station
	ActionDelete       Action = "delete"
	ActionClear        Action = "clear"
	ActionMoveItemUp   Action = "move_item_up"
	ActionMoveItemDown Action = "move_item_down"
	ActionUndo         Action = "undo"
	ActionRedo         Action = "redo"

	// Radio actions
	ActionStopRadio Action = "stop_radio"
)
