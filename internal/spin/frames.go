package spin

import (
	"sync"
	"time"
)

// FrameID identifies a requested frame callback. Zero is never issued.
type FrameID uint64

// FrameScheduler runs callbacks once on the next frame, like a browser's
// requestAnimationFrame.
type FrameScheduler interface {
	RequestFrame(fn func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

type pendingFrame struct {
	id FrameID
	fn func(now time.Time)
}

// FrameLoop is a FrameScheduler driven by an external frame source (a
// Bubble Tea tick, or a fixed-rate replay). Callbacks requested while a
// Step is running are deferred to the next Step, so frames never nest.
type FrameLoop struct {
	mu      sync.Mutex
	next    FrameID
	pending []pendingFrame
	running map[FrameID]bool // batch of the Step in progress; false once cancelled
}

// NewFrameLoop returns an empty frame loop.
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{}
}

func (l *FrameLoop) RequestFrame(fn func(now time.Time)) FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.pending = append(l.pending, pendingFrame{id: l.next, fn: fn})
	return l.next
}

func (l *FrameLoop) CancelFrame(id FrameID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.running[id]; ok {
		l.running[id] = false
		return
	}
	for i, f := range l.pending {
		if f.id == id {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			return
		}
	}
}

// Step runs every callback that was pending when it was called, in request
// order, and returns how many ran. A callback cancelled by an earlier
// callback in the same step does not run.
func (l *FrameLoop) Step(now time.Time) int {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.running = make(map[FrameID]bool, len(batch))
	for _, f := range batch {
		l.running[f.id] = true
	}
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = nil
		l.mu.Unlock()
	}()

	ran := 0
	for _, f := range batch {
		l.mu.Lock()
		live := l.running[f.id]
		l.mu.Unlock()
		if !live {
			continue
		}
		f.fn(now)
		ran++
	}
	return ran
}

// Pending reports whether any callback is waiting for the next Step.
func (l *FrameLoop) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending) > 0
}
