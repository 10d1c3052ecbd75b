package player

import "time"

// Role addresses a slot by function instead of identity.
type Role int

const (
	Active Role = iota
	Inactive
)

func (r Role) String() string {
	if r == Active {
		return "active"
	}
	return "inactive"
}

// Pair owns two interchangeable sources. Exactly one is active (audible); the
// other is idle or preloaded muted for an upcoming crossfade.
type Pair struct {
	slots   [2]Source
	canPlay [2]bool
	active  int
	onEvent func(Event)
}

// NewPair wires both sources into one event surface. It panics if either
// source is nil.
func NewPair(a, b Source) *Pair {
	if a == nil || b == nil {
		panic("player: NewPair requires two sources")
	}
	p := &Pair{slots: [2]Source{a, b}}
	for i, s := range p.slots {
		s.SetHandler(func(e Event) { p.handle(i, e) })
	}
	return p
}

// OnEvent sets the single consumer of deduplicated events.
func (p *Pair) OnEvent(fn func(Event)) {
	p.onEvent = fn
}

func (p *Pair) index(r Role) int {
	if r == Active {
		return p.active
	}
	return 1 - p.active
}

func (p *Pair) slot(r Role) Source {
	return p.slots[p.index(r)]
}

// Preloaded reports whether the inactive slot holds a URL, buffered or not.
func (p *Pair) Preloaded() bool {
	return p.slot(Inactive).URL() != ""
}

// Ready reports whether the inactive slot has reported CanPlay for its
// current media, so a fade into it is audible from the first step.
func (p *Pair) Ready() bool {
	return p.Preloaded() && p.canPlay[p.index(Inactive)]
}

func (p *Pair) LoadActive(url string) {
	p.canPlay[p.index(Active)] = false
	p.slot(Active).Load(url)
}

// LoadInactive mutes the inactive slot before loading so nothing is heard
// until a fade raises it.
func (p *Pair) LoadInactive(url string) {
	p.canPlay[p.index(Inactive)] = false
	s := p.slot(Inactive)
	s.SetVolume(0)
	s.Load(url)
}

func (p *Pair) PlayActive() error {
	return p.play(Active)
}

func (p *Pair) PlayInactive() error {
	return p.play(Inactive)
}

func (p *Pair) play(r Role) error {
	s := p.slot(r)
	if err := s.Play(); err != nil {
		return newPlaybackError("play", s.URL(), err)
	}
	return nil
}

func (p *Pair) PauseActive()   { p.slot(Active).Pause() }
func (p *Pair) PauseInactive() { p.slot(Inactive).Pause() }

func (p *Pair) PauseBoth() {
	p.slots[0].Pause()
	p.slots[1].Pause()
}

func (p *Pair) StopActive()   { p.stop(p.index(Active)) }
func (p *Pair) StopInactive() { p.stop(p.index(Inactive)) }

func (p *Pair) StopBoth() {
	p.stop(0)
	p.stop(1)
}

func (p *Pair) stop(i int) {
	p.canPlay[i] = false
	p.slots[i].Stop()
}

// SwitchActive flips which slot is active. It has no audio side effect.
func (p *Pair) SwitchActive() {
	p.active = 1 - p.active
}

// SetVolume sets the volume of both slots.
func (p *Pair) SetVolume(level float64) {
	p.slots[0].SetVolume(level)
	p.slots[1].SetVolume(level)
}

// SetAudioVolume sets one slot's volume, used while fading.
func (p *Pair) SetAudioVolume(r Role, level float64) {
	p.slot(r).SetVolume(level)
}

func (p *Pair) Volume(r Role) float64 {
	return p.slot(r).Volume()
}

func (p *Pair) Seek(pos time.Duration) error {
	s := p.slot(Active)
	if err := s.Seek(pos); err != nil {
		return newPlaybackError("seek", s.URL(), err)
	}
	return nil
}

func (p *Pair) Position() time.Duration { return p.slot(Active).Position() }
func (p *Pair) Duration() time.Duration { return p.slot(Active).Duration() }

func (p *Pair) State(r Role) State { return p.slot(r).State() }

func (p *Pair) URL(r Role) string { return p.slot(r).URL() }

// IsPlaying reports whether either slot is audible.
func (p *Pair) IsPlaying() bool {
	return p.slots[0].State() == Playing || p.slots[1].State() == Playing
}

func (p *Pair) handle(i int, e Event) {
	e.Active = i == p.active

	switch e.Type {
	case EventCanPlay:
		p.canPlay[i] = true
	case EventError:
		p.canPlay[i] = false
	case EventTimeUpdate, EventDurationChange:
		if !e.Active {
			return
		}
	case EventPause:
		// The outgoing slot pausing mid-crossfade is not a pause.
		if p.slots[1-i].State() == Playing {
			return
		}
	}

	if p.onEvent != nil {
		p.onEvent(e)
	}
}
