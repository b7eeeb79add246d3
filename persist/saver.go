package persist

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDebounce is the delay used when saver is created with zero delay.
const DefaultDebounce = time.Second

// Sink receives encoded state.
type Sink func(token string) error

// Saver coalesces rapid state changes into a single write. Every Update
// restarts the delay and replaces pending state, so only the most recent
// state is written. Writes never overlap and pending state is taken only
// when the previous write is done, so an older state cannot land after a
// newer one. Safe for concurrent use.
type Saver struct {
	delay time.Duration
	sink  Sink
	log   *zap.Logger

	// wmu is held for the whole duration of a write
	wmu sync.Mutex
	// fired tracks timer callbacks so Stop could wait for them
	fired sync.WaitGroup

	mu      sync.Mutex
	timer   *time.Timer
	pending *State
	stopped bool
}

// NewSaver creates saver writing to sink after delay of inactivity.
func NewSaver(delay time.Duration, sink Sink, log *zap.Logger) *Saver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Saver{delay: delay, sink: sink, log: log.Named("saver")}
}

// Update schedules state to be written.
func (s *Saver) Update(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.pending = &state
	if s.timer == nil {
		s.timer = time.AfterFunc(s.delay, s.fire)
		return
	}
	s.timer.Reset(s.delay)
}

// Flush writes pending state immediately, if there is any. Write already
// started by timer is finished first.
func (s *Saver) Flush() error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	state := s.take()
	s.mu.Unlock()

	if state == nil {
		return nil
	}
	return s.write(*state)
}

// Stop cancels pending write and makes further updates no-op. It returns
// after write already started by timer is done.
func (s *Saver) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	s.fired.Wait()
}

func (s *Saver) fire() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.fired.Add(1)
	s.mu.Unlock()
	defer s.fired.Done()

	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.Lock()
	state := s.take()
	s.mu.Unlock()

	if state == nil {
		return
	}
	if err := s.write(*state); err != nil {
		s.log.Error("Unable to save state", zap.Error(err))
	}
}

// take must be called with mu held.
func (s *Saver) take() *State {
	state := s.pending
	s.pending = nil
	return state
}

func (s *Saver) write(state State) error {
	token, err := Encode(state)
	if err != nil {
		return err
	}
	s.log.Debug("Saving state", zap.Int("size", len(token)))
	return s.sink(token)
}
