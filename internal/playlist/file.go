package playlist

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

type trackJSON struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Artist    string        `json:"artist"`
	AlbumID   string        `json:"album_id,omitempty"`
	AlbumName string        `json:"album_name,omitempty"`
	Duration  float64       `json:"duration"` // seconds
	Loudness  *loudnessJSON `json:"loudness,omitempty"`
}

type loudnessJSON struct {
	GainDB   float64 `json:"gain_db"`
	TruePeak float64 `json:"true_peak,omitempty"`
	Linear   float64 `json:"linear,omitempty"`
}

// Decode reads a JSON array of tracks as exported by the server.
func Decode(r io.Reader) ([]Track, error) {
	var raw []trackJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode tracks: %w", err)
	}
	tracks := make([]Track, 0, len(raw))
	for i, t := range raw {
		if t.ID == "" {
			return nil, fmt.Errorf("decode tracks: entry %d has no id", i)
		}
		track := Track{
			ID:        t.ID,
			Title:     t.Title,
			Artist:    t.Artist,
			AlbumID:   t.AlbumID,
			AlbumName: t.AlbumName,
			Duration:  time.Duration(t.Duration * float64(time.Second)),
		}
		if t.Loudness != nil {
			track.Loudness = &Loudness{
				GainDB:   t.Loudness.GainDB,
				TruePeak: t.Loudness.TruePeak,
				Linear:   t.Loudness.Linear,
			}
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

// Encode writes tracks in the format Decode reads.
func Encode(w io.Writer, tracks []Track) error {
	raw := make([]trackJSON, len(tracks))
	for i, t := range tracks {
		raw[i] = trackJSON{
			ID:        t.ID,
			Title:     t.Title,
			Artist:    t.Artist,
			AlbumID:   t.AlbumID,
			AlbumName: t.AlbumName,
			Duration:  t.Duration.Seconds(),
		}
		if t.Loudness != nil {
			raw[i].Loudness = &loudnessJSON{
				GainDB:   t.Loudness.GainDB,
				TruePeak: t.Loudness.TruePeak,
				Linear:   t.Loudness.Linear,
			}
		}
	}
	return json.NewEncoder(w).Encode(raw)
}

// LoadFile reads a track list from a JSON file.
func LoadFile(path string) ([]Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// FormatDuration formats a duration as MM:SS.
func FormatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
