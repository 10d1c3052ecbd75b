package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/llehouerou/encore/internal/backend"
	"github.com/llehouerou/encore/internal/config"
	"github.com/llehouerou/encore/internal/eventloop"
	"github.com/llehouerou/encore/internal/lastfm"
	"github.com/llehouerou/encore/internal/metrics"
	"github.com/llehouerou/encore/internal/mpris"
	"github.com/llehouerou/encore/internal/notify"
	"github.com/llehouerou/encore/internal/playback"
	"github.com/llehouerou/encore/internal/player"
	"github.com/llehouerou/encore/internal/playlist"
	"github.com/llehouerou/encore/internal/presence"
	"github.com/llehouerou/encore/internal/radio"
	"github.com/llehouerou/encore/internal/session"
	"github.com/llehouerou/encore/internal/settings"
	"github.com/llehouerou/encore/internal/state"
)

// engine is the running playback stack shared by every command.
type engine struct {
	client *backend.Client
	store  *state.Manager
	svc    *playback.Orchestrator

	cancel   context.CancelFunc
	loopDone <-chan struct{}
	closers  []func() error
}

// startEngine opens the state database, connects to the server and starts
// the event loop. desktop enables MPRIS and notifications.
func startEngine(ctx context.Context, desktop bool) (*engine, error) {
	if !cfg.HasBackend() {
		return nil, errors.New("no server configured: set server in config.toml or ENCORE_SERVER")
	}
	client, err := backend.New(cfg.Server, cfg.Token)
	if err != nil {
		return nil, err
	}

	store, err := state.Open()
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	e := &engine{client: client, store: store, cancel: cancel}

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		e.serveMetrics(m)
	}

	initial, err := settings.Load(cfg.SettingsFile)
	if err != nil {
		logger.Warn().Err(err).Msg("settings unreadable, using defaults")
		initial = settings.Default()
	}

	volume := 1.0
	if v, err := store.GetVolume(); err == nil && v != nil {
		volume = v.Volume
		if v.Muted {
			volume = 0
		}
	}

	loop := eventloop.New(logger)
	httpClient := player.NewHTTPClient()
	pair := player.NewPair(
		player.NewStreamSource(loop.Post, httpClient, logger),
		player.NewStreamSource(loop.Post, httpClient, logger),
	)

	deps := playback.Deps{
		Buffers:  pair,
		Runner:   loop,
		Streams:  client,
		Queue:    playlist.NewQueue(),
		Sink:     e.sinks(ctx, client, store, m),
		Store:    store,
		Settings: initial,
		Volume:   volume,
		Radio: radio.Options{
			Secure:   client.Secure() || cfg.RadioProxy,
			ProxyURL: client.RadioProxyURL(),
		},
		Authenticated: client.Authenticated,
		Metrics:       m,
		Logger:        logger,
	}
	if n := e.presence(ctx); n != nil {
		deps.Presence = n
	}

	e.svc = playback.New(deps)
	done := make(chan struct{})
	e.loopDone = done
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()

	if qs, err := store.GetQueue(); err != nil {
		logger.Warn().Err(err).Msg("saved queue unreadable")
	} else if qs != nil {
		if err := e.svc.Restore(*qs); err != nil {
			logger.Warn().Err(err).Msg("restore queue")
		}
	}

	watcher, err := settings.Watch(cfg.SettingsFile, logger, func(s settings.Settings) {
		e.svc.SetCrossfade(s.Crossfade)
		e.svc.SetNormalization(s.Normalization)
	})
	if err != nil {
		logger.Warn().Err(err).Msg("settings changes will not be picked up")
	} else {
		e.closers = append(e.closers, watcher.Close)
	}

	if desktop {
		e.startDesktop(ctx, client)
	}
	return e, nil
}

// sinks combines the server and, when linked, Last.fm.
func (e *engine) sinks(ctx context.Context, client *backend.Client, store *state.Manager, m *metrics.Metrics) session.Sink {
	sinks := session.MultiSink{client}
	if !cfg.HasLastfmConfig() {
		return sinks
	}
	sess, err := store.GetLastfmSession()
	if err != nil || sess == nil {
		logger.Info().Msg("last.fm not linked, run 'encore lastfm link'")
		return sinks
	}

	api := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
	api.SetSessionKey(sess.SessionKey)
	sink := lastfm.NewSink(api, store, logger, m)
	go sink.Run(ctx)
	logger.Info().Str("user", sess.Username).Msg("scrobbling to last.fm")
	return append(sinks, sink)
}

func (e *engine) presence(ctx context.Context) *presence.Notifier {
	pub, err := newPublisher(ctx, cfg.Presence)
	if err != nil {
		logger.Warn().Err(err).Str("transport", cfg.Presence.Transport).Msg("presence disabled")
		return nil
	}
	if pub == nil {
		return nil
	}
	n := presence.NewNotifier(pub, logger)
	e.closers = append(e.closers, n.Close)
	return n
}

func newPublisher(ctx context.Context, pc config.PresenceConfig) (presence.Publisher, error) {
	switch pc.Transport {
	case config.TransportWebSocket:
		return presence.NewWebSocketPublisher(pc.URL, cfg.Token), nil
	case config.TransportRedis:
		return presence.NewRedisPublisher(ctx, pc.Addr, pc.Password, pc.Channel)
	case config.TransportNATS:
		return presence.NewNATSPublisher(pc.URL, cfg.Token, pc.Channel)
	default:
		return nil, nil
	}
}

func (e *engine) serveMetrics(m *metrics.Metrics) {
	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server")
		}
	}()
	e.closers = append(e.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})
}

func (e *engine) startDesktop(ctx context.Context, client *backend.Client) {
	adapter, err := mpris.New(e.svc, mpris.Options{
		ArtURL: func(t playlist.Track) string { return client.CoverURL(t.AlbumID) },
	}, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("mpris unavailable")
	} else {
		e.closers = append(e.closers, adapter.Close)
	}

	n, err := notify.New("Encore")
	if err != nil {
		logger.Warn().Err(err).Msg("notifications unavailable")
		return
	}
	covers := notify.NewCoverCache(filepath.Join(xdg.CacheHome, "encore", "covers"), client)
	go notify.NewWatcher(n, covers, logger).Run(ctx, notify.EventsFrom(e.svc.Subscribe()))
}

// Close stops playback, flushes state and releases every resource.
func (e *engine) Close() {
	if err := e.svc.Close(); err != nil {
		logger.Warn().Err(err).Msg("close playback")
	}
	e.cancel()
	<-e.loopDone

	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			logger.Debug().Err(err).Msg("close")
		}
	}
	if err := e.store.Close(); err != nil {
		logger.Warn().Err(err).Msg("close state")
	}
}
