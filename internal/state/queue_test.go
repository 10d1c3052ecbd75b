package state

import (
	"testing"
	"time"

	"github.com/llehouerou/encore/internal/playlist"
)

func TestGetQueue_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	q, err := getQueue(db)
	if err != nil {
		t.Fatalf("getQueue failed: %v", err)
	}
	if q.CurrentIndex != -1 {
		t.Errorf("CurrentIndex = %d, want -1", q.CurrentIndex)
	}
	if len(q.Tracks) != 0 {
		t.Errorf("expected no tracks, got %d", len(q.Tracks))
	}
}

func TestSaveAndGetQueue(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	state := QueueState{
		CurrentIndex: 1,
		RepeatMode:   playlist.RepeatAll,
		Shuffle:      true,
		Tracks: []playlist.Track{
			{
				ID:        "t1",
				Title:     "Song One",
				Artist:    "Artist",
				AlbumID:   "al1",
				AlbumName: "Album",
				Duration:  3*time.Minute + 12*time.Second,
				Loudness:  &playlist.Loudness{GainDB: -6.5, TruePeak: 0.98, Linear: 0.47},
			},
			{
				ID:       "t2",
				Title:    "Song Two",
				Duration: 200 * time.Second,
			},
		},
	}

	if err := saveQueue(db, state); err != nil {
		t.Fatalf("saveQueue failed: %v", err)
	}

	got, err := getQueue(db)
	if err != nil {
		t.Fatalf("getQueue failed: %v", err)
	}

	if got.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1", got.CurrentIndex)
	}
	if got.RepeatMode != playlist.RepeatAll {
		t.Errorf("RepeatMode = %v, want %v", got.RepeatMode, playlist.RepeatAll)
	}
	if !got.Shuffle {
		t.Error("Shuffle = false, want true")
	}
	if len(got.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(got.Tracks))
	}

	first := got.Tracks[0]
	if first.ID != "t1" || first.AlbumName != "Album" || first.Duration != 192*time.Second {
		t.Errorf("track[0] = %+v", first)
	}
	if first.Loudness == nil || first.Loudness.GainDB != -6.5 || first.Loudness.TruePeak != 0.98 {
		t.Errorf("track[0].Loudness = %+v, want stored analysis", first.Loudness)
	}
	if got.Tracks[1].Loudness != nil {
		t.Errorf("track[1].Loudness = %+v, want nil for unanalyzed track", got.Tracks[1].Loudness)
	}
	if got.Tracks[1].Artist != "" {
		t.Errorf("track[1].Artist = %q, want empty", got.Tracks[1].Artist)
	}
}

func TestSaveQueue_ReplacesExisting(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_ = saveQueue(db, QueueState{
		CurrentIndex: 2,
		Tracks:       []playlist.Track{{ID: "a"}, {ID: "b"}, {ID: "c"}},
	})
	_ = saveQueue(db, QueueState{
		CurrentIndex: 0,
		Tracks:       []playlist.Track{{ID: "z"}},
	})

	got, _ := getQueue(db)
	if len(got.Tracks) != 1 || got.Tracks[0].ID != "z" {
		t.Errorf("tracks = %+v, want only the second save", got.Tracks)
	}
	if got.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0", got.CurrentIndex)
	}
}

func TestSaveQueue_PreservesOrder(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ids := []string{"e", "b", "d", "a", "c"}
	tracks := make([]playlist.Track, len(ids))
	for i, id := range ids {
		tracks[i] = playlist.Track{ID: id}
	}
	_ = saveQueue(db, QueueState{CurrentIndex: 0, Tracks: tracks})

	got, _ := getQueue(db)
	for i, id := range ids {
		if got.Tracks[i].ID != id {
			t.Errorf("track[%d].ID = %q, want %q", i, got.Tracks[i].ID, id)
		}
	}
}

func TestGetQueue_ClampsStaleIndex(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_ = saveQueue(db, QueueState{CurrentIndex: 0, Tracks: []playlist.Track{{ID: "a"}}})
	if _, err := db.Exec(`UPDATE queue_state SET current_index = 7`); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, _ := getQueue(db)
	if got.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want clamped to 0", got.CurrentIndex)
	}
}
