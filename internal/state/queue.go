package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/encore/internal/db"
	"github.com/llehouerou/encore/internal/playlist"
)

// QueueState represents the saved queue state.
type QueueState struct {
	CurrentIndex int
	RepeatMode   playlist.RepeatMode
	Shuffle      bool
	Tracks       []playlist.Track
}

func getQueue(db *sql.DB) (*QueueState, error) {
	var currentIndex, repeatMode int
	var shuffle bool
	row := db.QueryRow(`SELECT current_index, repeat_mode, shuffle FROM queue_state WHERE id = 1`)
	err := row.Scan(&currentIndex, &repeatMode, &shuffle)
	if errors.Is(err, sql.ErrNoRows) {
		return &QueueState{CurrentIndex: -1}, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT track_id, title, artist, album_id, album_name, duration_ms,
		       gain_db, true_peak, linear_gain
		FROM queue_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []playlist.Track
	for rows.Next() {
		var t playlist.Track
		var artist, albumID, albumName sql.NullString
		var durationMS int64
		var gainDB, truePeak, linear sql.NullFloat64

		err := rows.Scan(&t.ID, &t.Title, &artist, &albumID, &albumName, &durationMS,
			&gainDB, &truePeak, &linear)
		if err != nil {
			return nil, err
		}

		t.Artist = dbutil.NullStringValue(artist)
		t.AlbumID = dbutil.NullStringValue(albumID)
		t.AlbumName = dbutil.NullStringValue(albumName)
		t.Duration = time.Duration(durationMS) * time.Millisecond
		if gainDB.Valid || linear.Valid {
			t.Loudness = &playlist.Loudness{
				GainDB:   dbutil.NullFloat64Value(gainDB),
				TruePeak: dbutil.NullFloat64Value(truePeak),
				Linear:   dbutil.NullFloat64Value(linear),
			}
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// A stale index from an older save must not point past the tracks.
	if currentIndex >= len(tracks) {
		currentIndex = len(tracks) - 1
	}

	return &QueueState{
		CurrentIndex: currentIndex,
		RepeatMode:   playlist.RepeatMode(repeatMode),
		Shuffle:      shuffle,
		Tracks:       tracks,
	}, nil
}

func saveQueue(sqlDB *sql.DB, state QueueState) error {
	return dbutil.WithTx(sqlDB, func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM queue_tracks`)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO queue_state (id, current_index, repeat_mode, shuffle)
			VALUES (1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_index = excluded.current_index,
				repeat_mode = excluded.repeat_mode,
				shuffle = excluded.shuffle
		`, state.CurrentIndex, int(state.RepeatMode), state.Shuffle)
		if err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO queue_tracks (position, track_id, title, artist, album_id, album_name,
			                          duration_ms, gain_db, true_peak, linear_gain)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range state.Tracks {
			var gainDB, truePeak, linear any
			if l := t.Loudness; l != nil {
				gainDB, truePeak, linear = l.GainDB, l.TruePeak, l.Linear
			}
			_, err = stmt.Exec(i, t.ID, t.Title, t.Artist, t.AlbumID, t.AlbumName,
				t.Duration.Milliseconds(), gainDB, truePeak, linear)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
