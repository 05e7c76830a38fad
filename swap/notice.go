/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package swap

import (
	"sync"
	"time"
)

const (
	NoticeDuration = 1400 * time.Millisecond

	NoticeCopied     = "복사가 되었습니다."
	NoticeCopyFailed = "복사에 실패했습니다. 클립보드 권한을 확인해 주세요."
)

// Notice holds one transient message that clears itself after a fixed
// duration. Showing a new message replaces the old one and restarts the
// countdown.
type Notice struct {
	duration time.Duration
	onChange func()

	mu      sync.Mutex
	message string
	timer   *time.Timer
	gen     uint64
	closed  bool
}

func NewNotice(duration time.Duration, onChange func()) *Notice {
	if duration <= 0 {
		duration = NoticeDuration
	}
	if onChange == nil {
		onChange = func() {}
	}

	return &Notice{
		duration: duration,
		onChange: onChange,
	}
}

func (n *Notice) Show(message string) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	gen := n.gen
	n.message = message
	n.timer = time.AfterFunc(n.duration, func() {
		n.expire(gen)
	})
	n.mu.Unlock()

	n.onChange()
}

func (n *Notice) expire(gen uint64) {
	n.mu.Lock()
	if n.closed || n.gen != gen {
		n.mu.Unlock()
		return
	}
	n.message = ""
	n.timer = nil
	n.mu.Unlock()

	n.onChange()
}

// Message returns the visible message, or "" when none is showing.
func (n *Notice) Message() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.message
}

// Close cancels the dismissal timer. No change callbacks fire afterwards.
func (n *Notice) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true
	n.message = ""
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
