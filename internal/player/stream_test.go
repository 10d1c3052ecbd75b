package player

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type streamFixture struct {
	srv    *httptest.Server
	hits   atomic.Int32
	posted chan func()
	src    *StreamSource
	events []Event
}

// newStreamFixture serves 500 for every request. Nothing reaches the
// speaker, so no audio device is needed.
func newStreamFixture(t *testing.T) *streamFixture {
	t.Helper()
	f := &streamFixture{posted: make(chan func(), 16)}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		f.hits.Add(1)
		http.Error(w, "unavailable", http.StatusInternalServerError)
	}))
	t.Cleanup(f.srv.Close)

	f.src = NewStreamSource(func(fn func()) { f.posted <- fn }, f.srv.Client(), zerolog.Nop())
	f.src.SetHandler(func(e Event) { f.events = append(f.events, e) })
	return f
}

// runNext runs the next callback handed back to the loop.
func (f *streamFixture) runNext(t *testing.T) {
	t.Helper()
	select {
	case fn := <-f.posted:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("nothing posted back to the loop")
	}
}

func TestStreamSource_LoadErrorLeavesSlotPaused(t *testing.T) {
	f := newStreamFixture(t)
	url := f.srv.URL + "/t1.mp3"

	f.src.Load(url)
	require.NoError(t, f.src.Play())
	assert.Equal(t, Playing, f.src.State(), "play is pending until the fetch completes")

	f.runNext(t)

	assert.Equal(t, Paused, f.src.State())
	assert.Equal(t, url, f.src.URL(), "url is kept for a retry")
	require.Equal(t, []EventType{EventPlay, EventError}, eventTypes(f.events))
	assert.ErrorIs(t, f.events[1].Err, ErrPlayback)
	var pe *PlaybackError
	require.ErrorAs(t, f.events[1].Err, &pe)
	assert.Equal(t, "load", pe.Op)
}

func TestStreamSource_PlayAfterErrorFetchesAgain(t *testing.T) {
	f := newStreamFixture(t)
	f.src.Load(f.srv.URL + "/t1.mp3")
	require.NoError(t, f.src.Play())
	f.runNext(t)
	require.EqualValues(t, 1, f.hits.Load())
	f.events = nil

	require.NoError(t, f.src.Play())
	assert.Equal(t, Playing, f.src.State())
	f.runNext(t)

	assert.EqualValues(t, 2, f.hits.Load())
	assert.Equal(t, []EventType{EventPlay, EventError}, eventTypes(f.events))
	assert.Equal(t, Paused, f.src.State())
}

func TestStreamSource_ErrorWhilePausedThenPlay(t *testing.T) {
	f := newStreamFixture(t)
	f.src.Load(f.srv.URL + "/t1.mp3")
	f.runNext(t)
	require.Equal(t, []EventType{EventError}, eventTypes(f.events))
	assert.Equal(t, Paused, f.src.State())

	require.NoError(t, f.src.Play())
	f.runNext(t)

	assert.EqualValues(t, 2, f.hits.Load())
}

func TestStreamSource_StaleFetchIgnored(t *testing.T) {
	f := newStreamFixture(t)
	f.src.Load(f.srv.URL + "/old.mp3")
	f.src.Load(f.srv.URL + "/new.mp3")

	f.runNext(t)
	f.runNext(t)

	require.Len(t, f.events, 1, "only the current load reports")
	var pe *PlaybackError
	require.ErrorAs(t, f.events[0].Err, &pe)
	assert.Equal(t, f.srv.URL+"/new.mp3", pe.URL)
}

func TestStreamSource_LiveErrorIsRecoverable(t *testing.T) {
	f := newStreamFixture(t)
	url := f.srv.URL + "/live"
	f.src.url = url
	f.src.state = Playing
	f.src.media = &media{live: &liveStreamer{
		err:       errors.New("connection reset"),
		starvedAt: time.Now().Add(-time.Second),
	}}

	f.src.monitor(f.src.gen)

	assert.Equal(t, Paused, f.src.State())
	assert.Nil(t, f.src.media)
	assert.Equal(t, url, f.src.URL())
	require.Equal(t, []EventType{EventError}, eventTypes(f.events))
	var pe *PlaybackError
	require.ErrorAs(t, f.events[0].Err, &pe)
	assert.Equal(t, "stream", pe.Op)

	require.NoError(t, f.src.Play())
	f.runNext(t)
	assert.EqualValues(t, 1, f.hits.Load(), "resume reconnects")
}
