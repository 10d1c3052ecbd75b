package eventloop

import "time"

// Manual is a Runner driven by the test: posted work waits for Flush and
// timers only fire on Tick.
type Manual struct {
	queue  []func()
	timers []*manualTimer
}

type manualTimer struct {
	interval time.Duration
	fn       func()
	stopped  bool
}

// NewManual creates an idle manual runner.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Post(fn func()) {
	m.queue = append(m.queue, fn)
}

// Flush runs queued work, including work queued while flushing.
func (m *Manual) Flush() {
	for len(m.queue) > 0 {
		fn := m.queue[0]
		m.queue = m.queue[1:]
		fn()
	}
}

// Do drains queued work, runs fn, then drains whatever fn queued.
func (m *Manual) Do(fn func() error) error {
	m.Flush()
	err := fn()
	m.Flush()
	return err
}

func (m *Manual) Every(d time.Duration, fn func()) func() {
	t := &manualTimer{interval: d, fn: fn}
	m.timers = append(m.timers, t)
	return func() { t.stopped = true }
}

// Tick fires every running timer once, then flushes.
func (m *Manual) Tick() {
	timers := append([]*manualTimer(nil), m.timers...)
	for _, t := range timers {
		if !t.stopped {
			t.fn()
		}
	}
	m.prune()
	m.Flush()
}

// TickN calls Tick n times.
func (m *Manual) TickN(n int) {
	for range n {
		m.Tick()
	}
}

// Running returns the number of timers not yet stopped.
func (m *Manual) Running() int {
	m.prune()
	return len(m.timers)
}

// LastInterval returns the interval of the most recently started timer.
func (m *Manual) LastInterval() time.Duration {
	if len(m.timers) == 0 {
		return 0
	}
	return m.timers[len(m.timers)-1].interval
}

func (m *Manual) prune() {
	kept := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped {
			kept = append(kept, t)
		}
	}
	m.timers = kept
}

var _ Executor = (*Manual)(nil)
