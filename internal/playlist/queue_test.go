// internal/playlist/queue_test.go
//
//nolint:goconst // test file with repeated string literals
package playlist

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func newTestQueue(idList ...string) *Queue {
	q := NewQueueWithRand(rand.New(rand.NewPCG(1, 2)))
	q.SetQueue(tracksOf(idList...), 0)
	return q
}

func TestNewQueue(t *testing.T) {
	q := NewQueue()

	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
	if q.Current() != nil {
		t.Error("Current() should be nil for empty queue")
	}
}

func TestQueue_SetQueue(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		start int
		want  int
	}{
		{"start in range", []string{"a", "b", "c"}, 2, 2},
		{"start zero", []string{"a", "b"}, 0, 0},
		{"start out of range", []string{"a", "b"}, 5, 0},
		{"negative start", []string{"a"}, -1, 0},
		{"empty", nil, 0, -1},
		{"empty with start", nil, 3, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue()
			q.SetQueue(tracksOf(tt.ids...), tt.start)
			if q.CurrentIndex() != tt.want {
				t.Errorf("CurrentIndex() = %d, want %d", q.CurrentIndex(), tt.want)
			}
		})
	}
}

func TestQueue_AddKeepsCurrent(t *testing.T) {
	q := newTestQueue("a", "b")
	q.JumpTo(1)

	q.Add(tracksOf("c", "d")...)

	if q.Len() != 4 {
		t.Errorf("Len() = %d, want 4", q.Len())
	}
	if q.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", q.CurrentIndex())
	}
}

func TestQueue_AddToEmptySelectsFirst(t *testing.T) {
	q := NewQueue()
	q.Add(tracksOf("a")...)

	if q.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", q.CurrentIndex())
	}
}

func TestQueue_Clear(t *testing.T) {
	q := newTestQueue("a", "b")
	q.Clear()

	if !q.IsEmpty() || q.CurrentIndex() != -1 {
		t.Errorf("after Clear: len=%d index=%d", q.Len(), q.CurrentIndex())
	}
}

func TestQueue_Remove(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		remove      int
		wantIndex   int
		wantCurrent bool
		wantID      string
	}{
		{"before current", 2, 0, 1, false, "c"},
		{"after current", 1, 2, 1, false, "b"},
		{"current points at new occupant", 1, 1, 1, true, "c"},
		{"current at end clamps", 3, 3, 2, true, "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newTestQueue("a", "b", "c", "d")
			q.JumpTo(tt.current)

			removed := q.Remove(tt.remove)

			if removed != tt.wantCurrent {
				t.Errorf("Remove() = %v, want %v", removed, tt.wantCurrent)
			}
			if q.CurrentIndex() != tt.wantIndex {
				t.Errorf("CurrentIndex() = %d, want %d", q.CurrentIndex(), tt.wantIndex)
			}
			if q.Current().ID != tt.wantID {
				t.Errorf("Current() = %s, want %s", q.Current().ID, tt.wantID)
			}
		})
	}
}

func TestQueue_RemoveLast(t *testing.T) {
	q := newTestQueue("a")

	if !q.Remove(0) {
		t.Error("removing the only track removes the current one")
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
	if q.Remove(0) {
		t.Error("Remove on empty queue should return false")
	}
}

func TestQueue_Move(t *testing.T) {
	q := newTestQueue("a", "b", "c", "d")
	q.JumpTo(1) // b

	q.Move(1, 3)
	if ids(q.Tracks()) != "a,c,d,b" || q.CurrentIndex() != 3 {
		t.Errorf("tracks=%s index=%d", ids(q.Tracks()), q.CurrentIndex())
	}

	q.Move(0, 3) // a moves past b
	if q.Current().ID != "b" || q.CurrentIndex() != 2 {
		t.Errorf("current=%s index=%d, want b at 2", q.Current().ID, q.CurrentIndex())
	}
}

func TestQueue_NavigationRepeatOff(t *testing.T) {
	q := newTestQueue("a", "b", "c")

	if q.NextIndex() != 1 || q.PreviousIndex() != -1 {
		t.Errorf("at 0: next=%d prev=%d", q.NextIndex(), q.PreviousIndex())
	}
	if q.HasPrevious() {
		t.Error("HasPrevious() at first track with repeat off")
	}

	track := q.MoveToNext()
	if track == nil || track.ID != "b" || q.CurrentIndex() != 1 {
		t.Errorf("MoveToNext() = %v, index %d", track, q.CurrentIndex())
	}

	q.MoveToNext()
	if q.HasNext() || q.NextIndex() != -1 {
		t.Errorf("at last: HasNext=%v NextIndex=%d", q.HasNext(), q.NextIndex())
	}
	if q.MoveToNext() != nil || q.CurrentIndex() != 2 {
		t.Error("MoveToNext at end should not move")
	}
}

func TestQueue_NavigationRepeatAll(t *testing.T) {
	q := newTestQueue("a", "b", "c")
	q.SetRepeat(RepeatAll)

	if q.PreviousIndex() != 2 {
		t.Errorf("PreviousIndex() = %d, want 2", q.PreviousIndex())
	}
	q.JumpTo(2)
	if q.NextIndex() != 0 {
		t.Errorf("NextIndex() = %d, want 0", q.NextIndex())
	}
	for range 10 {
		if q.MoveToNext() == nil {
			t.Fatal("repeat all never runs out")
		}
	}
}

func TestQueue_SingleTrackRepeatAll(t *testing.T) {
	q := newTestQueue("a")
	q.SetRepeat(RepeatAll)

	if q.NextIndex() != 0 || q.PreviousIndex() != 0 {
		t.Errorf("next=%d prev=%d, want 0 0", q.NextIndex(), q.PreviousIndex())
	}
	q.MoveToNext()
	if q.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", q.CurrentIndex())
	}
}

func TestQueue_RepeatOneBehavesLikeOffForNavigation(t *testing.T) {
	q := newTestQueue("a", "b")
	q.SetRepeat(RepeatOne)
	q.JumpTo(1)

	if q.NextIndex() != -1 {
		t.Errorf("NextIndex() = %d, want -1", q.NextIndex())
	}
	if q.PreviousIndex() != 0 {
		t.Errorf("PreviousIndex() = %d, want 0", q.PreviousIndex())
	}
}

func TestQueue_EmptyNavigation(t *testing.T) {
	q := NewQueue()
	for _, m := range []RepeatMode{RepeatOff, RepeatAll, RepeatOne} {
		q.SetRepeat(m)
		if q.NextIndex() != -1 || q.PreviousIndex() != -1 || q.HasNext() || q.HasPrevious() {
			t.Errorf("repeat %s: empty queue navigates", m)
		}
		if q.MoveToNext() != nil || q.MoveToPrevious() != nil {
			t.Errorf("repeat %s: empty queue moves", m)
		}
	}
}

func TestQueue_NextIndexIsPure(t *testing.T) {
	q := newTestQueue("a", "b", "c", "d")
	q.SetShuffle(true)

	for range 8 {
		want := q.NextIndex()
		if again := q.NextIndex(); again != want {
			t.Fatalf("NextIndex changed between calls: %d then %d", want, again)
		}
		q.MoveToNext()
		if want >= 0 && q.CurrentIndex() != want {
			t.Fatalf("MoveToNext committed %d, NextIndex said %d", q.CurrentIndex(), want)
		}
	}
}

func TestQueue_CycleRepeatMode(t *testing.T) {
	q := NewQueue()
	want := []RepeatMode{RepeatAll, RepeatOne, RepeatOff, RepeatAll}
	for _, w := range want {
		if got := q.CycleRepeatMode(); got != w {
			t.Errorf("CycleRepeatMode() = %s, want %s", got, w)
		}
	}
}

func TestQueue_ShuffleVisitsEveryTrackOnce(t *testing.T) {
	q := newTestQueue("a", "b", "c", "d", "e", "f")
	q.JumpTo(3)
	q.SetShuffle(true)

	order := q.ShuffleOrder()
	if order[0] != 3 {
		t.Errorf("shuffle order starts at %d, want current 3", order[0])
	}

	seen := []int{q.CurrentIndex()}
	for q.MoveToNext() != nil {
		seen = append(seen, q.CurrentIndex())
	}
	slices.Sort(seen)
	if !slices.Equal(seen, []int{0, 1, 2, 3, 4, 5}) {
		t.Errorf("visited %v, want every index once", seen)
	}
	if q.HasNext() {
		t.Error("shuffle with repeat off should end")
	}
}

func TestQueue_ShufflePreviousRetracesOrder(t *testing.T) {
	q := newTestQueue("a", "b", "c", "d")
	q.SetShuffle(true)

	first := q.CurrentIndex()
	q.MoveToNext()
	second := q.CurrentIndex()
	q.MoveToNext()

	if q.MoveToPrevious(); q.CurrentIndex() != second {
		t.Errorf("previous = %d, want %d", q.CurrentIndex(), second)
	}
	if q.MoveToPrevious(); q.CurrentIndex() != first {
		t.Errorf("previous = %d, want %d", q.CurrentIndex(), first)
	}
}

func TestQueue_ShuffleAddAndRemove(t *testing.T) {
	q := newTestQueue("a", "b", "c")
	q.SetShuffle(true)

	q.Add(tracksOf("d", "e")...)
	order := q.ShuffleOrder()
	if len(order) != 5 || order[0] != 0 {
		t.Fatalf("order after add = %v", order)
	}

	q.Remove(1)
	order = q.ShuffleOrder()
	sorted := slices.Clone(order)
	slices.Sort(sorted)
	if !slices.Equal(sorted, []int{0, 1, 2, 3}) {
		t.Errorf("order after remove = %v, want permutation of 0..3", order)
	}
}

func TestQueue_ShuffleOffRestoresLinearOrder(t *testing.T) {
	q := newTestQueue("a", "b", "c")
	q.SetShuffle(true)
	q.SetShuffle(false)

	if q.ShuffleOrder() != nil {
		t.Error("shuffle order should be cleared")
	}
	if q.NextIndex() != 1 {
		t.Errorf("NextIndex() = %d, want 1", q.NextIndex())
	}
}

func TestParseRepeatMode(t *testing.T) {
	for _, m := range []RepeatMode{RepeatOff, RepeatAll, RepeatOne} {
		if got := ParseRepeatMode(m.String()); got != m {
			t.Errorf("ParseRepeatMode(%q) = %s", m.String(), got)
		}
	}
	if ParseRepeatMode("bogus") != RepeatOff {
		t.Error("unknown mode should parse as off")
	}
}
