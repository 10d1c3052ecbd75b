// Package radio plays live internet radio stations through the active buffer.
//
// Radio is exclusive with queue playback: entering it stops both buffers.
package radio

import (
	"errors"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/llehouerou/encore/internal/player"
)

var (
	ErrNoStream  = errors.New("station has no stream url")
	ErrNotActive = errors.New("radio is not active")
	ErrStream    = errors.New("radio stream failed")
)

// Signal is the perceived health of the live stream.
type Signal int

const (
	SignalGood Signal = iota
	SignalWeak
	SignalError
)

func (s Signal) String() string {
	switch s {
	case SignalGood:
		return "good"
	case SignalWeak:
		return "weak"
	case SignalError:
		return "error"
	default:
		return "unknown"
	}
}

// Station is a live stream. ResolvedURL, when set, is the canonical stream
// behind a playlist or redirect URL and is preferred.
type Station struct {
	ID          string
	Name        string
	URL         string
	ResolvedURL string
}

// StreamURL returns the URL to play.
func (s Station) StreamURL() string {
	if s.ResolvedURL != "" {
		return s.ResolvedURL
	}
	return s.URL
}

// Status is a snapshot reported to OnChange listeners.
type Status struct {
	Active  bool
	Station Station
	Playing bool
	Signal  Signal
	Title   string // live ICY title
}

// Buffers is the part of player.Pair radio uses.
type Buffers interface {
	StopBoth()
	LoadActive(url string)
	PlayActive() error
	PauseActive()
}

// Options configure URL rewriting.
type Options struct {
	// Secure is true when the app itself is served over HTTPS; plain HTTP
	// streams are then routed through ProxyURL.
	Secure   bool
	ProxyURL string
}

type Controller struct {
	buffers  Buffers
	opts     Options
	logger   zerolog.Logger
	onChange func(Status)

	active      bool
	station     Station
	pendingPlay bool
	playing     bool
	signal      Signal
	title       string
}

func New(buffers Buffers, opts Options, logger zerolog.Logger) *Controller {
	return &Controller{
		buffers: buffers,
		opts:    opts,
		logger:  logger.With().Str("component", "radio").Logger(),
	}
}

// OnChange registers the listener for status changes.
func (c *Controller) OnChange(fn func(Status)) {
	c.onChange = fn
}

// StreamURL returns the URL actually loaded for raw, proxied when needed.
func (c *Controller) StreamURL(raw string) string {
	if !c.opts.Secure || c.opts.ProxyURL == "" {
		return raw
	}
	if !strings.HasPrefix(strings.ToLower(raw), "http://") {
		return raw
	}
	return c.opts.ProxyURL + "?url=" + url.QueryEscape(raw)
}

// Play stops both buffers and starts st. Playback begins once the buffer
// reports it can play.
func (c *Controller) Play(st Station) error {
	raw := st.StreamURL()
	if raw == "" {
		return ErrNoStream
	}

	c.buffers.StopBoth()

	c.active = true
	c.station = st
	c.signal = SignalGood
	c.title = ""
	c.playing = false
	c.pendingPlay = true

	streamURL := c.StreamURL(raw)
	c.logger.Info().Str("station", st.Name).Str("url", streamURL).Msg("tuning in")
	c.buffers.LoadActive(streamURL)
	c.notify()
	return nil
}

// Stop leaves radio mode and releases the stream.
func (c *Controller) Stop() {
	if !c.active {
		return
	}
	c.buffers.StopBoth()
	c.active = false
	c.station = Station{}
	c.pendingPlay = false
	c.playing = false
	c.signal = SignalGood
	c.title = ""
	c.notify()
}

// Pause keeps the station but stops audio.
func (c *Controller) Pause() {
	if !c.active {
		return
	}
	c.pendingPlay = false
	c.buffers.PauseActive()
	c.playing = false
	c.notify()
}

func (c *Controller) Resume() error {
	if !c.active {
		return ErrNotActive
	}
	if err := c.buffers.PlayActive(); err != nil {
		c.setSignal(SignalError)
		return err
	}
	return nil
}

// HandleEvent updates the signal state from buffer events. Events are
// ignored outside radio mode.
func (c *Controller) HandleEvent(e player.Event) {
	if !c.active || !e.Active {
		return
	}

	switch e.Type {
	case player.EventCanPlay:
		if !c.pendingPlay {
			return
		}
		c.pendingPlay = false
		if err := c.buffers.PlayActive(); err != nil {
			c.logger.Warn().Err(err).Msg("radio play rejected")
			c.setSignal(SignalError)
		}
	case player.EventPlay:
		c.update(true, c.signal)
	case player.EventPlaying:
		c.update(true, SignalGood)
	case player.EventPause:
		c.update(false, c.signal)
	case player.EventWaiting, player.EventStalled:
		c.update(c.playing, SignalWeak)
	case player.EventError:
		c.logger.Warn().Err(e.Err).Msg("radio stream error")
		c.update(false, SignalError)
	case player.EventMetadata:
		if e.Title != c.title {
			c.title = e.Title
			c.notify()
		}
	}
}

func (c *Controller) setSignal(s Signal) {
	c.update(c.playing, s)
}

func (c *Controller) update(playing bool, s Signal) {
	if c.playing == playing && c.signal == s {
		return
	}
	if c.signal != s {
		c.logger.Debug().Stringer("from", c.signal).Stringer("to", s).Msg("signal changed")
	}
	c.playing = playing
	c.signal = s
	c.notify()
}

func (c *Controller) IsActive() bool { return c.active }

func (c *Controller) Signal() Signal { return c.signal }

func (c *Controller) Status() Status {
	return Status{
		Active:  c.active,
		Station: c.station,
		Playing: c.playing,
		Signal:  c.signal,
		Title:   c.title,
	}
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange(c.Status())
	}
}
