package state

import (
	"database/sql"
	"errors"
)

// StationState is the last radio station the user tuned to.
type StationState struct {
	ID   string
	Name string
	URL  string
}

// GetLastStation returns the last station, or nil if radio was never used.
func (m *Manager) GetLastStation() (*StationState, error) {
	var s StationState
	err := m.db.QueryRow(`SELECT station_id, name, url FROM radio_state WHERE id = 1`).
		Scan(&s.ID, &s.Name, &s.URL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no station yet is not an error
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *Manager) SaveLastStation(s StationState) error {
	_, err := m.db.Exec(`
		INSERT INTO radio_state (id, station_id, name, url)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			station_id = excluded.station_id,
			name = excluded.name,
			url = excluded.url
	`, s.ID, s.Name, s.URL)
	return err
}
