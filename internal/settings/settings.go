// Package settings loads and watches the user's playback preferences file.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/llehouerou/encore/internal/crossfade"
	"github.com/llehouerou/encore/internal/loudness"
)

// Settings groups the preferences the player reacts to at runtime.
type Settings struct {
	Crossfade     crossfade.Settings
	Normalization loudness.Settings
}

func Default() Settings {
	return Settings{
		Crossfade:     crossfade.DefaultSettings(),
		Normalization: loudness.DefaultSettings(),
	}
}

// fileFormat is the on-disk shape; durations are whole seconds.
type fileFormat struct {
	Crossfade struct {
		Enabled  bool `koanf:"enabled"`
		Duration int  `koanf:"duration"`
	} `koanf:"crossfade"`
	Normalization struct {
		Enabled         bool    `koanf:"enabled"`
		TargetLUFS      float64 `koanf:"target_lufs"`
		PreventClipping bool    `koanf:"prevent_clipping"`
	} `koanf:"normalization"`
}

func defaults(k *koanf.Koanf, s Settings) error {
	values := map[string]any{
		"crossfade.enabled":              s.Crossfade.Enabled,
		"crossfade.duration":             int(s.Crossfade.Duration / time.Second),
		"normalization.enabled":          s.Normalization.Enabled,
		"normalization.target_lufs":      s.Normalization.TargetLUFS,
		"normalization.prevent_clipping": s.Normalization.PreventClipping,
	}
	for key, v := range values {
		if err := k.Set(key, v); err != nil {
			return err
		}
	}
	return nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Settings, error) {
	k := koanf.New(".")
	if err := defaults(k, Default()); err != nil {
		return Settings{}, err
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return Settings{}, fmt.Errorf("load settings: %w", err)
		}
	}

	var f fileFormat
	if err := k.Unmarshal("", &f); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}

	return Settings{
		Crossfade: crossfade.Settings{
			Enabled:  f.Crossfade.Enabled,
			Duration: time.Duration(f.Crossfade.Duration) * time.Second,
		}.Normalize(),
		Normalization: loudness.Settings{
			Enabled:         f.Normalization.Enabled,
			TargetLUFS:      f.Normalization.TargetLUFS,
			PreventClipping: f.Normalization.PreventClipping,
		}.Normalize(),
	}, nil
}

// Save writes s to path as TOML, creating the parent directory.
func Save(path string, s Settings) error {
	k := koanf.New(".")
	if err := defaults(k, s); err != nil {
		return err
	}
	data, err := k.Marshal(toml.Parser())
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Watcher reloads the settings file when it changes on disk and reports
// effective changes.
type Watcher struct {
	path     string
	provider *file.File
	logger   zerolog.Logger

	mu       sync.Mutex
	current  Settings
	onChange func(Settings)
	closed   bool
}

// Watch loads path (writing the defaults if it does not exist yet) and
// starts watching it. onChange runs on the watcher's goroutine.
func Watch(path string, logger zerolog.Logger, onChange func(Settings)) (*Watcher, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(path, Default()); err != nil {
			return nil, err
		}
	}

	current, err := Load(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     path,
		provider: file.Provider(path),
		logger:   logger.With().Str("component", "settings").Logger(),
		current:  current,
		onChange: onChange,
	}
	if err := w.provider.Watch(w.handle); err != nil {
		return nil, fmt.Errorf("watch settings: %w", err)
	}
	return w, nil
}

func (w *Watcher) handle(_ any, err error) {
	if err != nil {
		w.logger.Warn().Err(err).Msg("settings watch error")
		return
	}
	w.reload()
}

func (w *Watcher) reload() {
	next, err := Load(w.path)
	if err != nil {
		w.logger.Warn().Err(err).Msg("settings reload failed, keeping previous values")
		return
	}

	w.mu.Lock()
	if w.closed || next == w.current {
		w.mu.Unlock()
		return
	}
	w.current = next
	cb := w.onChange
	w.mu.Unlock()

	w.logger.Info().
		Bool("crossfade", next.Crossfade.Enabled).
		Dur("crossfade_duration", next.Crossfade.Duration).
		Bool("normalization", next.Normalization.Enabled).
		Float64("target_lufs", next.Normalization.TargetLUFS).
		Msg("settings changed")

	if cb != nil {
		cb(next)
	}
}

// Current returns the last successfully loaded settings.
func (w *Watcher) Current() Settings {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	return w.provider.Unwatch()
}
