package state

import (
	"testing"
	"time"
)

func TestGetLastfmSession_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	m := &Manager{db: db}

	session, err := m.GetLastfmSession()
	if err != nil {
		t.Fatalf("GetLastfmSession failed: %v", err)
	}
	if session != nil {
		t.Errorf("expected nil session on empty db, got %+v", session)
	}
}

func TestSaveAndGetLastfmSession(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	m := &Manager{db: db}

	// Save session
	if err := m.SaveLastfmSession("testuser", "abc123sessionkey"); err != nil {
		t.Fatalf("SaveLastfmSession failed: %v", err)
	}

	// Retrieve session
	session, err := m.GetLastfmSession()
	if err != nil {
		t.Fatalf("GetLastfmSession failed: %v", err)
	}
	if session == nil {
		t.Fatal("expected non-nil session")
	}
	if session.Username != "testuser" {
		t.Errorf("Username = %q, want %q", session.Username, "testuser")
	}
	if session.SessionKey != "abc123sessionkey" {
		t.Errorf("SessionKey = %q, want %q", session.SessionKey, "abc123sessionkey")
	}
	if session.LinkedAt.IsZero() {
		t.Error("LinkedAt should not be zero")
	}
}

func TestSaveLastfmSession_Update(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	m := &Manager{db: db}

	// Save initial session
	_ = m.SaveLastfmSession("user1", "key1")

	// Update with new session
	_ = m.SaveLastfmSession("user2", "key2")

	session, _ := m.GetLastfmSession()
	if session.Username != "user2" {
		t.Errorf("expected updated username")
	}
	if session.SessionKey != "key2" {
		t.Errorf("expected updated session key")
	}
}

func TestDeleteLastfmSession(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	m := &Manager{db: db}

	// Save session
	_ = m.SaveLastfmSession("testuser", "testkey")

	// Delete session
	if err := m.DeleteLastfmSession(); err != nil {
		t.Fatalf("DeleteLastfmSession failed: %v", err)
	}

	// Verify deleted
	session, _ := m.GetLastfmSession()
	if session != nil {
		t.Errorf("expected nil session after delete, got %+v", session)
	}
}

func TestDeleteLastfmSession_NoSession(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	m := &Manager{db: db}

	// Delete non-existent session should not error
	if err := m.DeleteLastfmSession(); err != nil {
		t.Errorf("DeleteLastfmSession on empty should not error: %v", err)
	}
}

// Pending scrobbles tests

func TestAddAndGetPendingScrobbles(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	m := &Manager{db: db}

	// Empty initially
	scrobbles, err := m.GetPendingScrobbles()
	if err != nil {
		t.Fatalf("GetPendingScrobbles failed: %v", err)
	}
	if len(scrobbles) != 0 {
		t.Errorf("expected 0 scrobbles, got %d", len(scrobbles))
	}

	// Add scrobbles
	s1 := PendingScrobble{
		TrackID:      "trk-123",
		Artist:       "Artist 1",
		Track:        "Track 1",
		Album:        "Album 1",
		DurationSecs: 180,
		Timestamp:    time.Now().Add(-time.Hour),
	}
	s2 := PendingScrobble{
		Artist:       "Artist 2",
		Track:        "Track 2",
		DurationSecs: 240,
		Timestamp:    time.Now(),
	}

	if err := m.AddPendingScrobble(s1); err != nil {
		t.Fatalf("AddPendingScrobble failed: %v", err)
	}
	if err := m.AddPendingScrobble(s2); err != nil {
		t.Fatalf("AddPendingScrobble failed: %v", err)
	}

	// Get scrobbles
	scrobbles, err = m.GetPendingScrobbles()
	if err != nil {
		t.Fatalf("GetPendingScrobbles failed: %v", err)
	}
	if len(scrobbles) != 2 {
		t.Fatalf("expected 2 scrobbles, got %d", len(scrobbles))
	}

	// Verify first scrobble
	if scrobbles[0].Artist != "Artist 1" {
		t.Errorf("scrobble[0].Artist = %q, want %q", scrobbles[0].Artist, "Artist 1")
	}
	if scrobbles[0].Album != "Album 1" {
		t.Errorf("scrobble[0].Album = %q, want %q", scrobbles[0].Album, "Album 1")
	}
	if scrobbles[0].TrackID != "trk-123" {
		t.Errorf("scrobble[0].TrackID = %q, want %q", scrobbles[0].TrackID, "trk-123")
	}

	// Verify second scrobble (no album)
	if scrobbles[1].Album != "" {
		t.Errorf("scrobble[1].Album should be empty, got %q", scrobbles[1].Album)
	}
}

func TestDeletePendingScrobble(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	m := &Manager{db: db}

	// Add scrobble
	s := PendingScrobble{
		Artist:       "Artist",
		Track:        "Track",
		DurationSecs: 180,
		Timestamp:    time.Now(),
	}
	_ = m.AddPendingScrobble(s)

	// Get ID
	scrobbles, _ := m.GetPendingScrobbles()
	id := scrobbles[0].ID

	// Delete
	if err := m.DeletePendingScrobble(id); err != nil {
		t.Fatalf("DeletePendingScrobble failed: %v", err)
	}

	// Verify deleted
	scrobbles, _ = m.GetPendingScrobbles()
	if len(scrobbles) != 0 {
		t.Errorf("expected 0 scrobbles after delete, got %d", len(scrobbles))
	}
}

func TestUpdatePendingScrobbleAttempt(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	m := &Manager{db: db}

	// Add scrobble
	s := PendingScrobble{
		Artist:       "Artist",
		Track:        "Track",
		DurationSecs: 180,
		Timestamp:    time.Now(),
	}
	_ = m.AddPendingScrobble(s)

	scrobbles, _ := m.GetPendingScrobbles()
	id := scrobbles[0].ID

	// Initial state
	if scrobbles[0].Attempts != 0 {
		t.Errorf("expected 0 attempts initially, got %d", scrobbles[0].Attempts)
	}

	// Update attempt
	if err := m.UpdatePendingScrobbleAttempt(id, "connection error"); err != nil {
		t.Fatalf("UpdatePendingScrobbleAttempt failed: %v", err)
	}

	scrobbles, _ = m.GetPendingScrobbles()
	if scrobbles[0].Attempts != 1 {
		t.Errorf("expected 1 attempt after update, got %d", scrobbles[0].Attempts)
	}
	if scrobbles[0].LastError != "connection error" {
		t.Errorf("LastError = %q, want %q", scrobbles[0].LastError, "connection error")
	}

	// Update again
	_ = m.UpdatePendingScrobbleAttempt(id, "timeout")
	scrobbles, _ = m.GetPendingScrobbles()
	if scrobbles[0].Attempts != 2 {
		t.Errorf("expected 2 attempts after second update, got %d", scrobbles[0].Attempts)
	}
}

func TestDeleteOldPendingScrobbles(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	m := &Manager{db: db}

	// Add scrobble
	s := PendingScrobble{
		Artist:       "Artist",
		Track:        "Track",
		DurationSecs: 180,
		Timestamp:    time.Now(),
	}
	_ = m.AddPendingScrobble(s)

	// Delete with 1 hour max age (should keep the scrobble)
	if err := m.DeleteOldPendingScrobbles(time.Hour); err != nil {
		t.Fatalf("DeleteOldPendingScrobbles failed: %v", err)
	}
	scrobbles, _ := m.GetPendingScrobbles()
	if len(scrobbles) != 1 {
		t.Errorf("expected scrobble to be kept (recent), got %d", len(scrobbles))
	}

	// Manually set old created_at
	_, _ = db.Exec(`UPDATE lastfm_pending_scrobbles SET created_at = ?`, time.Now().Add(-2*time.Hour).Unix())

	// Delete with 1 hour max age (should delete the scrobble)
	if err := m.DeleteOldPendingScrobbles(time.Hour); err != nil {
		t.Fatalf("DeleteOldPendingScrobbles failed: %v", err)
	}
	scrobbles, _ = m.GetPendingScrobbles()
	if len(scrobbles) != 0 {
		t.Errorf("expected scrobble to be deleted (old), got %d", len(scrobbles))
	}
}
