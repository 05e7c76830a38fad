/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package storage

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/bep/debounce"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a Persisted value must stay unchanged before
// it is written out.
const DefaultDebounce = 200 * time.Millisecond

// Options controls how a Persisted value is recovered and saved.
type Options[T any] struct {
	// LegacyKeys are tried in order when the current key is absent or
	// unparsable. The first one that parses wins.
	LegacyKeys []string

	// Migrate turns any successfully parsed JSON value into a valid T.
	// When nil the stored JSON is decoded straight into T.
	Migrate func(raw any) T

	Debounce time.Duration
}

// Persisted owns one value and keeps it mirrored under a single key.
// Updates are coalesced and written after a quiet period; Close writes
// whatever is pending before returning.
type Persisted[T any] struct {
	store     *Store
	key       string
	debounced func(f func())
	logger    *zap.Logger

	mu     sync.Mutex
	state  T
	dirty  bool
	closed bool
}

// Load recovers the value under key, then each legacy key in order, and
// finally falls back to initial.
func Load[T any](store *Store, key string, initial T, opts Options[T]) *Persisted[T] {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	p := &Persisted[T]{
		store:     store,
		key:       key,
		debounced: debounce.New(opts.Debounce),
		logger:    store.logger.With(zap.String("key", key)),
		state:     initial,
	}

	fromCurrent := false
	_, currentPresent := store.Get(key)

	for _, k := range append([]string{key}, opts.LegacyKeys...) {
		if v, ok := p.decode(k, opts.Migrate); ok {
			p.state = v
			fromCurrent = k == key
			if k != key {
				p.logger.Info("recovered state from legacy key", zap.String("legacy_key", k))
				p.dirty = true
			}
			break
		}
	}

	// An unusable blob under the current key is replaced by whatever was
	// loaded instead.
	if !fromCurrent && currentPresent {
		p.dirty = true
	}

	if p.dirty {
		p.debounced(p.saveIfOpen)
	}

	return p
}

func (p *Persisted[T]) decode(key string, migrate func(raw any) T) (T, bool) {
	var zero T

	stored, ok := p.store.Get(key)
	if !ok || stored == "" {
		return zero, false
	}

	if migrate == nil {
		var v T
		if err := json.Unmarshal([]byte(stored), &v); err != nil {
			p.logger.Debug("discarding unparsable stored value", zap.String("source", key), zap.Error(err))
			return zero, false
		}
		return v, true
	}

	var raw any
	if err := json.Unmarshal([]byte(stored), &raw); err != nil {
		p.logger.Debug("discarding unparsable stored value", zap.String("source", key), zap.Error(err))
		return zero, false
	}

	return migrate(raw), true
}

// Get returns the current in-memory value.
func (p *Persisted[T]) Get() T {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Update replaces the value with mutate's result and schedules a save.
// mutate must not modify its argument in place.
func (p *Persisted[T]) Update(mutate func(T) T) {
	p.mu.Lock()
	p.state = mutate(p.state)
	p.dirty = true
	closed := p.closed
	p.mu.Unlock()

	if closed {
		return
	}

	p.debounced(p.saveIfOpen)
}

func (p *Persisted[T]) saveIfOpen() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.writeLocked()
}

// Flush writes the current value immediately if it has unsaved changes.
func (p *Persisted[T]) Flush() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.writeLocked()
}

// Close flushes pending changes and stops further writes. Any save still
// queued in the debouncer becomes a no-op. Updates after Close are kept in
// memory only.
func (p *Persisted[T]) Close() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return true
	}
	p.closed = true

	return p.writeLocked()
}

func (p *Persisted[T]) writeLocked() bool {
	if !p.dirty {
		return true
	}

	data, err := json.Marshal(p.state)
	if err != nil {
		p.logger.Error("failed to encode state", zap.Error(err))
		return false
	}

	if !p.store.Set(p.key, string(data)) {
		return false
	}

	p.dirty = false
	return true
}
