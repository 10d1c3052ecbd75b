package state

import "database/sql"

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB
	SaveQueue(state QueueState)
	GetQueue() (*QueueState, error)
	SaveVolume(volume float64, muted bool) error
	GetVolume() (*VolumeState, error)
	SaveLastStation(s StationState) error
	GetLastStation() (*StationState, error)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
