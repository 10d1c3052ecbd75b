package playlist

import "math/rand/v2"

// RepeatMode controls what happens at the queue boundaries.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "off"
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "unknown"
	}
}

// Next returns the mode after m in the off, all, one cycle.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}

// ParseRepeatMode parses the String form. Unknown values map to RepeatOff.
func ParseRepeatMode(s string) RepeatMode {
	switch s {
	case "all":
		return RepeatAll
	case "one":
		return RepeatOne
	default:
		return RepeatOff
	}
}

// Queue wraps a Playlist with navigation state. It performs no I/O.
//
// With shuffle on, navigation walks order, a permutation of track indices
// whose first entry is the track that was current when shuffling began.
// The permutation is regenerated whenever a new queue is set.
type Queue struct {
	playlist     *Playlist
	currentIndex int // -1 iff empty
	repeat       RepeatMode
	shuffle      bool
	order        []int
	rng          *rand.Rand
}

// NewQueue creates a new empty queue.
func NewQueue() *Queue {
	return NewQueueWithRand(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewQueueWithRand creates a queue with a deterministic shuffle source.
func NewQueueWithRand(rng *rand.Rand) *Queue {
	return &Queue{
		playlist:     NewPlaylist(),
		currentIndex: -1,
		rng:          rng,
	}
}

// SetQueue replaces the queue. start outside the range falls back to 0.
func (q *Queue) SetQueue(tracks []Track, start int) {
	q.playlist.Clear()
	q.playlist.Add(tracks...)
	switch {
	case len(tracks) == 0:
		q.currentIndex = -1
	case start < 0 || start >= len(tracks):
		q.currentIndex = 0
	default:
		q.currentIndex = start
	}
	q.reshuffle()
}

// Add appends tracks without changing the current track.
func (q *Queue) Add(tracks ...Track) {
	if len(tracks) == 0 {
		return
	}
	first := q.playlist.Len()
	q.playlist.Add(tracks...)
	if q.currentIndex < 0 {
		q.currentIndex = 0
	}
	if !q.shuffle {
		return
	}
	if len(q.order) == 0 {
		q.reshuffle()
		return
	}
	// New tracks land at random positions among the not yet played ones.
	pos := q.orderPos()
	for i := first; i < q.playlist.Len(); i++ {
		at := pos + 1 + q.rng.IntN(len(q.order)-pos)
		q.order = append(q.order, 0)
		copy(q.order[at+1:], q.order[at:])
		q.order[at] = i
	}
}

// Clear removes all tracks.
func (q *Queue) Clear() {
	q.playlist.Clear()
	q.currentIndex = -1
	q.order = nil
}

// Remove deletes the track at index and reports whether it was the current one.
// When the current track is removed the index stays put, now pointing at the
// new occupant (clamped to the end); the caller resumes playback there.
func (q *Queue) Remove(index int) (removedCurrent bool) {
	if !q.playlist.Remove(index) {
		return false
	}

	switch {
	case q.playlist.Len() == 0:
		q.currentIndex = -1
		removedCurrent = true
	case index < q.currentIndex:
		q.currentIndex--
	case index == q.currentIndex:
		removedCurrent = true
		if q.currentIndex >= q.playlist.Len() {
			q.currentIndex = q.playlist.Len() - 1
		}
	}

	if q.order != nil {
		kept := q.order[:0]
		for _, i := range q.order {
			switch {
			case i == index:
				continue
			case i > index:
				kept = append(kept, i-1)
			default:
				kept = append(kept, i)
			}
		}
		q.order = kept
	}
	return removedCurrent
}

// Move relocates a track, keeping the current track current.
func (q *Queue) Move(from, to int) bool {
	if !q.playlist.Move(from, to) {
		return false
	}
	remap := func(i int) int {
		switch {
		case i == from:
			return to
		case from < to && i > from && i <= to:
			return i - 1
		case from > to && i >= to && i < from:
			return i + 1
		default:
			return i
		}
	}
	q.currentIndex = remap(q.currentIndex)
	for k, i := range q.order {
		q.order[k] = remap(i)
	}
	return true
}

// JumpTo makes index current. Returns the track there, or nil if invalid.
func (q *Queue) JumpTo(index int) *Track {
	if index < 0 || index >= q.playlist.Len() {
		return nil
	}
	q.currentIndex = index
	return q.Current()
}

// NextIndex returns the index MoveToNext would commit, or -1.
func (q *Queue) NextIndex() int {
	n := q.playlist.Len()
	if n == 0 || q.currentIndex < 0 {
		return -1
	}
	if q.shuffle && len(q.order) == n {
		pos := q.orderPos()
		switch {
		case pos+1 < n:
			return q.order[pos+1]
		case q.repeat == RepeatAll:
			return q.order[0]
		default:
			return -1
		}
	}
	switch {
	case q.currentIndex+1 < n:
		return q.currentIndex + 1
	case q.repeat == RepeatAll:
		return 0
	default:
		return -1
	}
}

// PreviousIndex returns the index MoveToPrevious would commit, or -1.
func (q *Queue) PreviousIndex() int {
	n := q.playlist.Len()
	if n == 0 || q.currentIndex < 0 {
		return -1
	}
	if q.shuffle && len(q.order) == n {
		pos := q.orderPos()
		switch {
		case pos > 0:
			return q.order[pos-1]
		case q.repeat == RepeatAll:
			return q.order[n-1]
		default:
			return -1
		}
	}
	switch {
	case q.currentIndex > 0:
		return q.currentIndex - 1
	case q.repeat == RepeatAll:
		return n - 1
	default:
		return -1
	}
}

// MoveToNext commits NextIndex and returns the new current track, or nil.
func (q *Queue) MoveToNext() *Track {
	next := q.NextIndex()
	if next < 0 {
		return nil
	}
	q.currentIndex = next
	return q.Current()
}

// MoveToPrevious commits PreviousIndex and returns the new current track, or nil.
func (q *Queue) MoveToPrevious() *Track {
	prev := q.PreviousIndex()
	if prev < 0 {
		return nil
	}
	q.currentIndex = prev
	return q.Current()
}

func (q *Queue) HasNext() bool {
	return q.NextIndex() >= 0
}

func (q *Queue) HasPrevious() bool {
	return q.PreviousIndex() >= 0
}

// Peek returns the track NextIndex points at, or nil.
func (q *Queue) Peek() *Track {
	return q.playlist.Track(q.NextIndex())
}

// Current returns the current track, or nil if the queue is empty.
func (q *Queue) Current() *Track {
	return q.playlist.Track(q.currentIndex)
}

func (q *Queue) CurrentIndex() int {
	return q.currentIndex
}

func (q *Queue) Repeat() RepeatMode {
	return q.repeat
}

func (q *Queue) SetRepeat(m RepeatMode) {
	q.repeat = m
}

// CycleRepeatMode advances off, all, one, off and returns the new mode.
func (q *Queue) CycleRepeatMode() RepeatMode {
	q.repeat = q.repeat.Next()
	return q.repeat
}

func (q *Queue) Shuffle() bool {
	return q.shuffle
}

// SetShuffle turns shuffle on or off. Turning it on builds a new
// permutation starting at the current track.
func (q *Queue) SetShuffle(on bool) {
	if q.shuffle == on {
		return
	}
	q.shuffle = on
	q.reshuffle()
}

func (q *Queue) ToggleShuffle() bool {
	q.SetShuffle(!q.shuffle)
	return q.shuffle
}

// ShuffleOrder returns a copy of the shuffle permutation, nil when off.
func (q *Queue) ShuffleOrder() []int {
	if q.order == nil {
		return nil
	}
	return append([]int(nil), q.order...)
}

func (q *Queue) Tracks() []Track {
	return q.playlist.Tracks()
}

func (q *Queue) Track(index int) *Track {
	return q.playlist.Track(index)
}

func (q *Queue) Len() int {
	return q.playlist.Len()
}

func (q *Queue) IsEmpty() bool {
	return q.playlist.Len() == 0
}

func (q *Queue) reshuffle() {
	n := q.playlist.Len()
	if !q.shuffle || n == 0 {
		q.order = nil
		return
	}
	rest := make([]int, 0, n-1)
	for i := range n {
		if i != q.currentIndex {
			rest = append(rest, i)
		}
	}
	q.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	q.order = append([]int{q.currentIndex}, rest...)
}

func (q *Queue) orderPos() int {
	for pos, i := range q.order {
		if i == q.currentIndex {
			return pos
		}
	}
	return 0
}
