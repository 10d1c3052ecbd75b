// Package loudness turns per-track replay gain into an effective volume.
package loudness

import (
	"math"

	"github.com/llehouerou/encore/internal/playlist"
)

// ReferenceLUFS is the level stored replay gains are computed against.
const ReferenceLUFS = -14.0

// Settings are the user's normalization preferences.
type Settings struct {
	Enabled         bool
	TargetLUFS      float64 // -14 or -16
	PreventClipping bool
}

func DefaultSettings() Settings {
	return Settings{Enabled: true, TargetLUFS: ReferenceLUFS, PreventClipping: true}
}

// Normalize maps unsupported targets back to the reference level.
func (s Settings) Normalize() Settings {
	if s.TargetLUFS != -14 && s.TargetLUFS != -16 {
		s.TargetLUFS = ReferenceLUFS
	}
	return s
}

// Buffers receives the effective volume. player.Pair implements it.
type Buffers interface {
	SetVolume(level float64)
}

// Engine applies the user volume and the current track's gain to both
// buffers, since either may become active through a crossfade.
type Engine struct {
	buffers  Buffers
	settings Settings
	user     float64
	track    *playlist.Track
	held     bool
}

func New(buffers Buffers, settings Settings, userVolume float64) *Engine {
	return &Engine{
		buffers:  buffers,
		settings: settings.Normalize(),
		user:     clamp01(userVolume),
	}
}

// Gain returns the linear gain for a track: unity when disabled or when the
// track has no loudness metadata.
func (e *Engine) Gain(t *playlist.Track) float64 {
	if !e.settings.Enabled || t == nil || t.Loudness == nil {
		return 1
	}
	l := t.Loudness

	gain := l.Linear
	if gain <= 0 {
		gain = dbToLinear(l.GainDB)
	}
	gain *= dbToLinear(e.settings.TargetLUFS - ReferenceLUFS)

	if e.settings.PreventClipping && l.TruePeak > 0 {
		gain = math.Min(gain, 1/l.TruePeak)
	}
	return gain
}

// EffectiveVolume is the user volume scaled by the track gain, in [0,1].
func (e *Engine) EffectiveVolume(t *playlist.Track) float64 {
	if !e.settings.Enabled {
		return e.user
	}
	return clamp01(e.user * e.Gain(t))
}

// Apply pushes the effective volume for t to both buffers and remembers t
// for later reapplication. It returns the volume applied.
func (e *Engine) Apply(t *playlist.Track) float64 {
	e.track = t
	v := e.EffectiveVolume(t)
	if e.buffers != nil && !e.held {
		e.buffers.SetVolume(v)
	}
	return v
}

// Hold keeps Apply from touching the buffers until Release. A running
// crossfade owns the buffer volumes.
func (e *Engine) Hold() { e.held = true }

// Release ends a Hold. The caller reapplies.
func (e *Engine) Release() { e.held = false }

func (e *Engine) Held() bool { return e.held }

// Reapply pushes the effective volume for the last applied track again.
func (e *Engine) Reapply() float64 {
	return e.Apply(e.track)
}

func (e *Engine) SetUserVolume(v float64) float64 {
	e.user = clamp01(v)
	return e.Reapply()
}

func (e *Engine) SetSettings(s Settings) float64 {
	e.settings = s.Normalize()
	return e.Reapply()
}

func (e *Engine) UserVolume() float64 { return e.user }

func (e *Engine) Settings() Settings { return e.settings }

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
