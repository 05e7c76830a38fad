/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package swap

import (
	"sync"
	"time"
)

const (
	ShuffleTick     = 80 * time.Millisecond
	ShuffleDuration = 1200 * time.Millisecond
)

// Session runs at most one shuffle at a time. While running it exposes an
// animated preview that is purely cosmetic; the committed result is fixed
// when the shuffle starts.
type Session struct {
	tick     time.Duration
	duration time.Duration
	random   Random
	onFrame  func()

	mu      sync.Mutex
	busy    bool
	closed  bool
	preview []Pair
	cancel  chan struct{}
	wg      sync.WaitGroup
}

// SessionOptions tunes a Session. Zero values pick the package defaults.
type SessionOptions struct {
	Tick     time.Duration
	Duration time.Duration

	// Random drives the preview animation only.
	Random Random

	// OnFrame is called after every preview change, including the end of
	// the preview. It must not call back into the Session while holding
	// locks the commit callback needs.
	OnFrame func()
}

func NewSession(opts SessionOptions) *Session {
	if opts.Tick <= 0 {
		opts.Tick = ShuffleTick
	}
	if opts.Duration <= 0 {
		opts.Duration = ShuffleDuration
	}
	if opts.Random == nil {
		opts.Random = SecureRandom
	}
	if opts.OnFrame == nil {
		opts.OnFrame = func() {}
	}

	return &Session{
		tick:     opts.Tick,
		duration: opts.Duration,
		random:   opts.Random,
		onFrame:  opts.OnFrame,
	}
}

// Start begins animating from base toward final. After the configured
// duration it calls commit(final) exactly once. Start returns false, and
// does nothing, while another shuffle is in flight or after Close.
func (s *Session) Start(base []Pair, locks []bool, final []Pair, commit func([]Pair)) bool {
	s.mu.Lock()
	if s.busy || s.closed {
		s.mu.Unlock()
		return false
	}

	s.busy = true
	s.preview = clonePairs(base)
	cancel := make(chan struct{})
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	lockCopy := make([]bool, len(locks))
	copy(lockCopy, locks)

	go s.run(cancel, lockCopy, clonePairs(final), commit)

	return true
}

func (s *Session) run(cancel <-chan struct{}, locks []bool, final []Pair, commit func([]Pair)) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	deadline := time.NewTimer(s.duration)
	defer deadline.Stop()

	for {
		select {
		case <-cancel:
			return

		case <-ticker.C:
			s.mu.Lock()
			select {
			case <-cancel:
				s.mu.Unlock()
				return
			default:
			}
			s.preview = animate(s.preview, locks, s.random)
			s.mu.Unlock()

			s.onFrame()

		case <-deadline.C:
			s.mu.Lock()
			select {
			case <-cancel:
				s.mu.Unlock()
				return
			default:
			}
			s.preview = nil
			s.mu.Unlock()

			ticker.Stop()
			commit(final)

			s.mu.Lock()
			s.busy = false
			s.cancel = nil
			s.mu.Unlock()

			s.onFrame()

			return
		}
	}
}

// Busy reports whether a shuffle is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.busy
}

// Preview returns the animated values while a shuffle is in flight.
func (s *Session) Preview() ([]Pair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.preview == nil {
		return nil, false
	}
	return clonePairs(s.preview), true
}

// Close stops any in-flight shuffle without committing it and waits for
// the animation goroutine to exit. Once Close returns no callback fires.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		close(s.cancel)
		s.cancel = nil
	}
	s.preview = nil
	s.busy = false
	s.mu.Unlock()

	s.wg.Wait()
}
