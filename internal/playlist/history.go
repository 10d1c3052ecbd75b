package playlist

// History keeps snapshots of the queue's track list for undo/redo.
type History struct {
	states  [][]Track
	current int // index of current state (-1 = before any state)
	maxSize int
}

// NewHistory creates a history holding at most maxSize snapshots.
func NewHistory(maxSize int) *History {
	return &History{
		states:  make([][]Track, 0, maxSize),
		current: -1,
		maxSize: maxSize,
	}
}

// Push records a snapshot, discarding redo states and the oldest entries
// beyond maxSize.
func (h *History) Push(tracks []Track) {
	snapshot := append([]Track(nil), tracks...)

	if h.current < len(h.states)-1 {
		h.states = h.states[:h.current+1]
	}
	h.states = append(h.states, snapshot)
	h.current = len(h.states) - 1

	if len(h.states) > h.maxSize {
		excess := len(h.states) - h.maxSize
		h.states = h.states[excess:]
		h.current -= excess
	}
}

// Undo returns the previous snapshot.
func (h *History) Undo() ([]Track, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.current--
	return append([]Track(nil), h.states[h.current]...), true
}

// Redo returns the next snapshot.
func (h *History) Redo() ([]Track, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.current++
	return append([]Track(nil), h.states[h.current]...), true
}

func (h *History) CanUndo() bool {
	return h.current > 0
}

func (h *History) CanRedo() bool {
	return h.current < len(h.states)-1
}
