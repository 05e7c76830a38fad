/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package swap

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Seednode/teamswap/storage"
	"go.uber.org/zap"
)

var ErrRowIndex = errors.New("row index out of range")

// Config describes one tool instance. It is fixed for the life of the Tool.
type Config struct {
	Name           string   `yaml:"name" json:"name"`
	Title          string   `yaml:"title" json:"title"`
	LockGuide      string   `yaml:"lock_guide" json:"lockGuide"`
	StorageKey     string   `yaml:"storage_key" json:"-"`
	LegacyKeys     []string `yaml:"legacy_keys" json:"-"`
	Rows           []string `yaml:"rows" json:"rows"`
	AllowEmptySwap bool     `yaml:"allow_empty_swap" json:"allowEmptySwap"`
	LeftFallback   string   `yaml:"left_fallback" json:"leftFallback"`
	RightFallback  string   `yaml:"right_fallback" json:"rightFallback"`
}

func (c Config) Validate() error {
	switch {
	case c.Name == "":
		return errors.New("tool name cannot be empty")
	case c.StorageKey == "":
		return fmt.Errorf("tool %q: storage key cannot be empty", c.Name)
	case len(c.Rows) == 0:
		return fmt.Errorf("tool %q: at least one row is required", c.Name)
	}
	return nil
}

// Keys returns every storage key the tool owns, current key first.
func (c Config) Keys() []string {
	return append([]string{c.StorageKey}, c.LegacyKeys...)
}

// Clipboard receives exported text.
type Clipboard interface {
	WriteText(text string) error
}

// ClipboardFunc adapts a plain function to Clipboard.
type ClipboardFunc func(text string) error

func (f ClipboardFunc) WriteText(text string) error {
	return f(text)
}

// Options carries the collaborators a Tool is built with.
type Options struct {
	Store  *storage.Store
	Logger *zap.Logger

	// Random decides the committed shuffle result.
	Random Random

	// Timing overrides, mainly for tests. Zero means package default.
	Debounce        time.Duration
	ShuffleTick     time.Duration
	ShuffleDuration time.Duration
	NoticeDuration  time.Duration
}

// View is what a front end renders. Values are the preview while a shuffle
// is running and the canonical values otherwise.
type View struct {
	Config        Config           `json:"config"`
	Values        []Pair           `json:"values"`
	Locks         []bool           `json:"locks"`
	ShuffleCount  int              `json:"shuffleCount"`
	Shuffling     bool             `json:"shuffling"`
	BusyDuration  int64            `json:"busyDurationMs"`
	Duplicates    []DuplicateFlags `json:"duplicates"`
	HasDuplicates bool             `json:"hasDuplicates"`
	Notice        string           `json:"notice,omitempty"`
}

// Tool is one configured shuffler: canonical state, its persistence, the
// shuffle session and the copy notice.
type Tool struct {
	cfg     Config
	random  Random
	logger  *zap.Logger
	state   *storage.Persisted[State]
	session *Session
	notice  *Notice

	duration time.Duration

	// deliver orders view delivery: a view reaching listeners is never
	// older than one delivered before it.
	deliver sync.Mutex

	mu        sync.Mutex
	listeners map[int]func(View)
	nextID    int
	closeOnce sync.Once
}

// NewTool loads the tool's state from opts.Store and returns a ready Tool.
func NewTool(cfg Config, opts Options) (*Tool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Store == nil {
		opts.Store = storage.NewStore(storage.NewMemory(), opts.Logger)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Random == nil {
		opts.Random = SecureRandom
	}
	if opts.ShuffleDuration <= 0 {
		opts.ShuffleDuration = ShuffleDuration
	}

	n := len(cfg.Rows)

	t := &Tool{
		cfg:       cfg,
		random:    opts.Random,
		logger:    opts.Logger.With(zap.String("tool", cfg.Name)),
		duration:  opts.ShuffleDuration,
		listeners: make(map[int]func(View)),
	}

	t.state = storage.Load(opts.Store, cfg.StorageKey, NewState(n), storage.Options[State]{
		LegacyKeys: cfg.LegacyKeys,
		Migrate: func(raw any) State {
			return Migrate(raw, n)
		},
		Debounce: opts.Debounce,
	})

	t.session = NewSession(SessionOptions{
		Tick:     opts.ShuffleTick,
		Duration: opts.ShuffleDuration,
		OnFrame:  t.changed,
	})

	t.notice = NewNotice(opts.NoticeDuration, t.changed)

	return t, nil
}

func (t *Tool) Config() Config {
	return t.cfg
}

// State returns a copy of the canonical state.
func (t *Tool) State() State {
	return t.state.Get().Clone()
}

// displayed returns the values a user currently sees.
func (t *Tool) displayed() []Pair {
	if preview, ok := t.session.Preview(); ok {
		return preview
	}
	return t.state.Get().Clone().Values
}

func (t *Tool) View() View {
	state := t.State()

	values := state.Values
	if preview, ok := t.session.Preview(); ok {
		values = preview
	}

	counts := CountNames(values)

	return View{
		Config:        t.cfg,
		Values:        values,
		Locks:         state.Locks,
		ShuffleCount:  state.ShuffleCount,
		Shuffling:     t.session.Busy(),
		BusyDuration:  t.duration.Milliseconds(),
		Duplicates:    counts.Flags(values),
		HasDuplicates: counts.HasDuplicates(),
		Notice:        t.notice.Message(),
	}
}

// Subscribe registers fn to receive a fresh View after every change. Views
// arrive in order, one call at a time; fn must not block or call back into
// the Tool's mutating methods. The returned func removes the subscription.
func (t *Tool) Subscribe(fn func(View)) func() {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.listeners, id)
		t.mu.Unlock()
	}
}

func (t *Tool) changed() {
	t.deliver.Lock()
	defer t.deliver.Unlock()

	t.mu.Lock()
	fns := make([]func(View), 0, len(t.listeners))
	for _, fn := range t.listeners {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	if len(fns) == 0 {
		return
	}

	view := t.View()
	for _, fn := range fns {
		fn(view)
	}
}

func (t *Tool) update(mutate func(State) State) {
	t.state.Update(func(prev State) State {
		return mutate(prev.Clone())
	})
	t.changed()
}

func (t *Tool) checkIndex(index int) error {
	if index < 0 || index >= len(t.cfg.Rows) {
		return fmt.Errorf("%w: %d", ErrRowIndex, index)
	}
	return nil
}

// SetValue edits one side of one row.
func (t *Tool) SetValue(index int, side Side, value string) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}
	if side != Left && side != Right {
		return fmt.Errorf("unknown side %q", side)
	}

	t.update(func(s State) State {
		if side == Left {
			s.Values[index].Left = value
		} else {
			s.Values[index].Right = value
		}
		return s
	})

	return nil
}

// SetLock pins or releases one row.
func (t *Tool) SetLock(index int, locked bool) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}

	t.update(func(s State) State {
		s.Locks[index] = locked
		return s
	})

	return nil
}

// Shuffle computes the final values now and animates toward them. It
// returns false when a shuffle is already running.
func (t *Tool) Shuffle() bool {
	state := t.State()
	final := Shuffle(zipRows(state.Values, state.Locks), t.cfg.AllowEmptySwap, t.random)

	started := t.session.Start(state.Values, state.Locks, final, t.commit)
	if started {
		t.logger.Debug("shuffle started")
		t.changed()
	}

	return started
}

// ShuffleNow shuffles and commits immediately, skipping the animation. It
// is refused while an animated shuffle is in flight.
func (t *Tool) ShuffleNow() bool {
	if t.session.Busy() {
		return false
	}

	state := t.State()
	t.commit(Shuffle(zipRows(state.Values, state.Locks), t.cfg.AllowEmptySwap, t.random))

	return true
}

func (t *Tool) commit(final []Pair) {
	t.update(func(s State) State {
		s.Values = clonePairs(final)
		s.ShuffleCount++
		return s
	})
	t.logger.Debug("shuffle committed")
}

func (t *Tool) ResetCount() {
	t.update(func(s State) State {
		s.ShuffleCount = 0
		return s
	})
}

// ClearMembers empties every name. Locks and the shuffle count are kept.
func (t *Tool) ClearMembers() {
	t.update(func(s State) State {
		s.Values = make([]Pair, len(s.Values))
		return s
	})
}

// CopyText is the export of the values currently on display.
func (t *Tool) CopyText() string {
	return FormatText(t.displayed(), t.cfg.LeftFallback, t.cfg.RightFallback)
}

// Copy writes CopyText to clip and shows the matching notice. The
// returned message is the notice text; a clipboard failure is reported
// through it rather than as an error.
func (t *Tool) Copy(clip Clipboard) string {
	err := clip.WriteText(t.CopyText())
	if err != nil {
		t.logger.Warn("clipboard write failed", zap.Error(err))
	}
	return t.ReportCopy(err == nil)
}

// ReportCopy shows the notice for a copy performed elsewhere, such as in
// a browser.
func (t *Tool) ReportCopy(ok bool) string {
	message := NoticeCopied
	if !ok {
		message = NoticeCopyFailed
	}
	t.notice.Show(message)
	return message
}

// Flush writes pending state changes immediately.
func (t *Tool) Flush() bool {
	return t.state.Flush()
}

// Close cancels any in-flight shuffle without committing it, stops the
// notice timer and performs a final save.
func (t *Tool) Close() {
	t.closeOnce.Do(func() {
		t.session.Close()
		t.notice.Close()

		t.mu.Lock()
		clear(t.listeners)
		t.mu.Unlock()

		if !t.state.Close() {
			t.logger.Warn("final save failed, changes kept in memory only")
		}
	})
}
