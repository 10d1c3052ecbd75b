package player

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"
)

const (
	// SampleRate is the speaker output rate; sources are resampled to it.
	SampleRate = beep.SampleRate(44100)

	speakerBuffer   = 100 * time.Millisecond
	monitorInterval = 250 * time.Millisecond
	stallTimeout    = 5 * time.Second
	liveBufferSize  = 44100 * 2
	resampleQuality = 4
)

// ErrNotSeekable is returned when seeking a live stream.
var ErrNotSeekable = errors.New("stream is not seekable")

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(SampleRate, SampleRate.N(speakerBuffer))
	})
	return speakerErr
}

// NewHTTPClient returns a client suited to long-lived audio streams.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 0, // streams are long-lived
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			DisableCompression:    true,
		},
	}
}

// StreamSource plays an HTTP audio URL through the speaker.
//
// Finite responses are downloaded and decoded seekably. Responses without a
// length or carrying ICY metadata are decoded live; when the network falls
// behind the slot outputs silence and reports Waiting, then Stalled.
//
// Fetching and decoding run on their own goroutines and hand results back
// through post, so every exported method and event runs on the event loop.
type StreamSource struct {
	post   func(func())
	client *http.Client
	logger zerolog.Logger

	url     string
	state   State
	level   float64
	handler func(Event)

	gen         uint64
	media       *media
	playPending bool
	cancel      context.CancelFunc
	stopMonitor func()
	waiting     bool
	stalled     bool
}

// NewStreamSource creates an idle source. post must run fn on the event loop.
func NewStreamSource(post func(func()), client *http.Client, logger zerolog.Logger) *StreamSource {
	if client == nil {
		client = NewHTTPClient()
	}
	return &StreamSource{
		post:   post,
		client: client,
		logger: logger,
		state:  Stopped,
		level:  1,
	}
}

func (s *StreamSource) SetHandler(fn func(Event)) { s.handler = fn }

func (s *StreamSource) emit(e Event) {
	if s.handler != nil {
		s.handler(e)
	}
}

func (s *StreamSource) Load(url string) {
	s.Stop()

	s.url = url
	s.state = Paused
	s.startFetch()
}

func (s *StreamSource) startFetch() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.fetch(ctx, s.gen, s.url)
}

// fail drops the media after a load or stream error and leaves the slot
// paused on its URL, so the next Play fetches it again.
func (s *StreamSource) fail(op string, err error) {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.stopMonitorTicker()
	if s.media != nil {
		speaker.Lock()
		s.media.dropped = true
		speaker.Unlock()
		s.media.close()
		s.media = nil
	}
	s.playPending = false
	s.waiting, s.stalled = false, false
	s.state = Paused
	s.emit(Event{Type: EventError, Err: newPlaybackError(op, s.url, err)})
}

func (s *StreamSource) fetch(ctx context.Context, gen uint64, url string) {
	m, err := s.open(ctx, gen, url)
	s.post(func() {
		if gen != s.gen {
			if m != nil {
				m.close()
			}
			return
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("url", url).Msg("load failed")
			s.fail("load", err)
			return
		}
		s.attach(m)
	})
}

func (s *StreamSource) open(ctx context.Context, gen uint64, url string) (*media, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "encore")
	req.Header.Set("Icy-MetaData", "1")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("stream returned status %d", resp.StatusCode)
	}

	metaint := parseMetaint(resp.Header.Get("icy-metaint"))
	kind := detectCodec(resp.Header.Get("Content-Type"), url)

	if metaint == 0 && resp.ContentLength > 0 {
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading stream: %w", err)
		}
		return decodeFile(data, kind)
	}

	if kind == codecMP4 {
		resp.Body.Close()
		return nil, fmt.Errorf("%s cannot be played as a live stream", kind)
	}

	body := newICYReader(resp.Body, metaint, func(title string) {
		s.post(func() {
			if gen == s.gen {
				s.emit(Event{Type: EventMetadata, Title: title})
			}
		})
	})
	return decodeLive(ctx, resp.Body, body, kind == codecFLAC)
}

// codec is the container/codec of a response body.
type codec int

const (
	codecMP3 codec = iota
	codecFLAC
	codecMP4
)

func (c codec) String() string {
	switch c {
	case codecFLAC:
		return "flac"
	case codecMP4:
		return "mp4"
	default:
		return "mp3"
	}
}

// detectCodec prefers the Content-Type and falls back to the URL extension.
// Anything unrecognised is treated as MP3, the usual radio format.
func detectCodec(contentType, url string) codec {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "flac"):
		return codecFLAC
	case strings.Contains(ct, "mp4"), strings.Contains(ct, "m4a"), strings.Contains(ct, "aac"):
		return codecMP4
	case strings.Contains(ct, "mpeg"):
		return codecMP3
	}
	switch strings.ToLower(path.Ext(strings.SplitN(url, "?", 2)[0])) {
	case ".flac":
		return codecFLAC
	case ".m4a", ".mp4", ".aac", ".alac":
		return codecMP4
	}
	return codecMP3
}

type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }

func decodeFile(data []byte, kind codec) (*media, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	r := readSeekNopCloser{bytes.NewReader(data)}
	switch kind {
	case codecFLAC:
		streamer, format, err = flac.Decode(r)
	case codecMP4:
		streamer, format, err = decodeMP4(r)
	default:
		streamer, format, err = mp3.Decode(r)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	return &media{
		format:  format,
		seeker:  streamer,
		source:  streamer,
		closers: []io.Closer{streamer},
	}, nil
}

func decodeLive(ctx context.Context, body io.Closer, r io.Reader, isFLAC bool) (*media, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	if isFLAC {
		streamer, format, err = flac.Decode(r)
	} else {
		streamer, format, err = mp3.Decode(io.NopCloser(r))
	}
	if err != nil {
		body.Close()
		return nil, fmt.Errorf("decoding: %w", err)
	}

	live := &liveStreamer{samples: make(chan [2]float64, liveBufferSize)}
	go live.fill(ctx, streamer)

	return &media{
		format:  format,
		live:    live,
		source:  live,
		closers: []io.Closer{body, streamer},
	}, nil
}

func (s *StreamSource) attach(m *media) {
	if err := initSpeaker(); err != nil {
		m.close()
		s.fail("load", err)
		return
	}

	var out beep.Streamer = m.source
	if m.format.SampleRate != SampleRate {
		out = beep.Resample(resampleQuality, m.format.SampleRate, SampleRate, out)
	}
	m.ctrl = &beep.Ctrl{Streamer: out, Paused: true}
	volume, silent := levelToVolume(s.level)
	m.volume = &effects.Volume{Streamer: m.ctrl, Base: 2, Volume: volume, Silent: silent}

	s.media = m
	speaker.Play(&slotStreamer{m: m})

	s.emit(Event{Type: EventDurationChange, Duration: s.Duration()})
	s.emit(Event{Type: EventCanPlay})

	if s.playPending {
		s.playPending = false
		s.start()
	}
}

func (s *StreamSource) Play() error {
	if s.url == "" {
		return ErrNoSource
	}
	if s.state == Playing {
		return nil
	}
	if s.media == nil {
		if s.cancel == nil {
			// The last fetch failed.
			s.startFetch()
		}
		s.playPending = true
		s.state = Playing
		s.emit(Event{Type: EventPlay})
		return nil
	}
	speaker.Lock()
	finished := s.media.finished
	speaker.Unlock()
	if finished {
		if err := s.Seek(0); err != nil {
			return err
		}
	}
	s.emit(Event{Type: EventPlay})
	s.start()
	return nil
}

func (s *StreamSource) start() {
	speaker.Lock()
	s.media.ctrl.Paused = false
	speaker.Unlock()
	s.state = Playing
	s.waiting, s.stalled = false, false
	s.emit(Event{Type: EventPlaying})
	s.startMonitor()
}

func (s *StreamSource) Pause() {
	if s.state != Playing {
		return
	}
	s.playPending = false
	if s.media != nil {
		speaker.Lock()
		s.media.ctrl.Paused = true
		speaker.Unlock()
	}
	s.state = Paused
	s.stopMonitorTicker()
	s.emit(Event{Type: EventPause, Position: s.Position()})
}

func (s *StreamSource) Stop() {
	wasPlaying := s.state == Playing

	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.stopMonitorTicker()
	if s.media != nil {
		speaker.Lock()
		s.media.dropped = true
		speaker.Unlock()
		s.media.close()
		s.media = nil
	}
	s.url = ""
	s.state = Stopped
	s.playPending = false

	if wasPlaying {
		s.emit(Event{Type: EventPause})
	}
}

func (s *StreamSource) Seek(pos time.Duration) error {
	if s.media == nil {
		return ErrNoSource
	}
	if s.media.seeker == nil {
		return ErrNotSeekable
	}
	speaker.Lock()
	n := s.media.format.SampleRate.N(pos)
	if length := s.media.seeker.Len(); n >= length {
		n = length - 1
	}
	n = max(n, 0)
	err := s.media.seeker.Seek(n)
	if err == nil {
		s.media.finished = false
	}
	speaker.Unlock()
	if err != nil {
		return err
	}
	s.emit(Event{Type: EventTimeUpdate, Position: s.Position(), Duration: s.Duration()})
	return nil
}

func (s *StreamSource) SetVolume(level float64) {
	s.level = clampVolume(level)
	if s.media == nil {
		return
	}
	volume, silent := levelToVolume(s.level)
	speaker.Lock()
	s.media.volume.Volume = volume
	s.media.volume.Silent = silent
	speaker.Unlock()
}

func (s *StreamSource) Volume() float64 { return s.level }

func (s *StreamSource) Position() time.Duration {
	if s.media == nil {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	if s.media.seeker != nil {
		return s.media.format.SampleRate.D(s.media.seeker.Position())
	}
	return s.media.format.SampleRate.D(s.media.live.consumed)
}

// Duration is zero for live streams.
func (s *StreamSource) Duration() time.Duration {
	if s.media == nil || s.media.seeker == nil {
		return 0
	}
	return s.media.format.SampleRate.D(s.media.seeker.Len())
}

func (s *StreamSource) State() State { return s.state }

func (s *StreamSource) URL() string { return s.url }

func (s *StreamSource) startMonitor() {
	s.stopMonitorTicker()
	gen := s.gen
	ticker := time.NewTicker(monitorInterval)
	quit := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.post(func() { s.monitor(gen) })
			case <-quit:
				return
			}
		}
	}()
	var once sync.Once
	s.stopMonitor = func() { once.Do(func() { close(quit) }) }
}

func (s *StreamSource) stopMonitorTicker() {
	if s.stopMonitor != nil {
		s.stopMonitor()
		s.stopMonitor = nil
	}
}

func (s *StreamSource) monitor(gen uint64) {
	if gen != s.gen || s.state != Playing || s.media == nil {
		return
	}

	speaker.Lock()
	finished := s.media.finished
	var starvedFor time.Duration
	var liveErr error
	if s.media.live != nil {
		if !s.media.live.starvedAt.IsZero() {
			starvedFor = time.Since(s.media.live.starvedAt)
		}
		liveErr = s.media.live.err
	}
	speaker.Unlock()

	if finished {
		s.stopMonitorTicker()
		s.state = Paused
		s.emit(Event{Type: EventEnded, Position: s.Duration(), Duration: s.Duration()})
		return
	}

	if s.media.live != nil {
		switch {
		case liveErr != nil && starvedFor > 0:
			s.logger.Warn().Err(liveErr).Str("url", s.url).Msg("stream failed")
			s.fail("stream", liveErr)
			return
		case starvedFor >= stallTimeout && !s.stalled:
			s.stalled = true
			s.emit(Event{Type: EventStalled})
		case starvedFor > 0 && !s.waiting:
			s.waiting = true
			s.emit(Event{Type: EventWaiting})
		case starvedFor == 0 && (s.waiting || s.stalled):
			s.waiting, s.stalled = false, false
			s.emit(Event{Type: EventPlaying})
		}
	}

	s.emit(Event{Type: EventTimeUpdate, Position: s.Position(), Duration: s.Duration()})
}

// media is the decoded state shared with the speaker goroutine. Fields
// touched by Stream are guarded by speaker.Lock.
type media struct {
	format  beep.Format
	source  beep.Streamer
	seeker  beep.StreamSeeker // nil for live streams
	live    *liveStreamer
	ctrl    *beep.Ctrl
	volume  *effects.Volume
	closers []io.Closer

	finished bool
	dropped  bool
}

func (m *media) close() {
	for _, c := range m.closers {
		_ = c.Close()
	}
}

// slotStreamer keeps a slot in the speaker mixer until it is dropped,
// padding with silence once the media ends so a seek can restart it.
type slotStreamer struct {
	m *media
}

func (s *slotStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.m.dropped {
		return 0, false
	}
	n, ok := s.m.volume.Stream(samples)
	if !ok && !s.m.ctrl.Paused {
		s.m.finished = true
	}
	for i := max(n, 0); i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (s *slotStreamer) Err() error { return nil }

// liveStreamer decouples network decoding from the speaker. An empty buffer
// yields silence instead of blocking the speaker.
type liveStreamer struct {
	samples chan [2]float64

	// guarded by speaker.Lock
	consumed  int
	starvedAt time.Time
	err       error
}

func (l *liveStreamer) fill(ctx context.Context, dec beep.StreamSeekCloser) {
	buf := make([][2]float64, 4096)
	for {
		n, ok := dec.Stream(buf)
		for i := range n {
			select {
			case l.samples <- buf[i]:
			case <-ctx.Done():
				return
			}
		}
		if !ok {
			err := dec.Err()
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			speaker.Lock()
			l.err = err
			speaker.Unlock()
			return
		}
	}
}

func (l *liveStreamer) Stream(samples [][2]float64) (int, bool) {
	got := 0
	for got < len(samples) {
		select {
		case sample := <-l.samples:
			samples[got] = sample
			got++
			continue
		default:
		}
		break
	}
	for i := got; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	l.consumed += got
	switch {
	case got < len(samples) && l.starvedAt.IsZero():
		l.starvedAt = time.Now()
	case got == len(samples):
		l.starvedAt = time.Time{}
	}
	return len(samples), true
}

func (l *liveStreamer) Err() error { return nil }

var _ Source = (*StreamSource)(nil)
