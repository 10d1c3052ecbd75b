package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/encore/internal/keymap"
	"github.com/llehouerou/encore/internal/playback"
	"github.com/llehouerou/encore/internal/radio"
	"github.com/llehouerou/encore/internal/settings"
	"github.com/llehouerou/encore/internal/ui/confirm"
	"github.com/llehouerou/encore/internal/ui/queuepanel"
)

const (
	queuePanel    = "Queue"
	stationsPanel = "Stations"
)

// FocusTarget is the list receiving navigation keys.
type FocusTarget int

const (
	FocusQueue FocusTarget = iota
	FocusStations
)

// StationLister provides the radio directory.
type StationLister interface {
	Stations(ctx context.Context) ([]radio.Station, error)
}

// Options configure the model.
type Options struct {
	Stations StationLister
	// OnSettings persists settings changed from the keyboard.
	OnSettings func(settings.Settings)
	Now        func() time.Time
}

// Model is the root control surface model.
type Model struct {
	svc      playback.Service
	sub      *playback.Subscription
	keys     *keymap.Resolver
	help     help.Model
	queue    queuepanel.Model
	stations queuepanel.Model
	confirm  confirm.Model

	lister      StationLister
	stationList []radio.Station
	onSettings  func(settings.Settings)
	now         func() time.Time

	focus         FocusTarget
	showHelp      bool
	status        string
	statusVersion int
	tunedAt       time.Time
	width, height int
	closed        bool
}

// New creates the model and subscribes to svc.
func New(svc playback.Service, opts Options) Model {
	keys := keymap.NewResolver(keymap.Bindings)
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := Model{
		svc:        svc,
		sub:        svc.Subscribe(),
		keys:       keys,
		help:       help.New(),
		queue:      queuepanel.New(queuePanel, keys, true),
		stations:   queuepanel.New(stationsPanel, keys, false),
		lister:     opts.Stations,
		onSettings: opts.OnSettings,
		now:        opts.Now,
	}
	m.queue.SetFocused(true)
	m.refreshQueue()
	m.queue.SyncCursor()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(WatchServiceEvents(m.sub), TickCmd(), LoadStationsCmd(m.lister))
}

// Status returns the current status line text.
func (m Model) Status() string { return m.status }

// Focus returns the focused list.
func (m Model) Focus() FocusTarget { return m.focus }
