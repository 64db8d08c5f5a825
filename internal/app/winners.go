package app

import "raffle-spinner.klederson.com/internal/history"

// WinnerRing is a circular buffer of the most recent draws.
type WinnerRing struct {
	buf   []history.Draw
	pos   int
	count int
}

// NewWinnerRing creates a new circular buffer with the given capacity.
func NewWinnerRing(capacity int) *WinnerRing {
	if capacity < 1 {
		capacity = 1
	}
	return &WinnerRing{
		buf: make([]history.Draw, capacity),
	}
}

// Push adds a draw, evicting the oldest when full.
func (r *WinnerRing) Push(d history.Draw) {
	r.buf[r.pos] = d
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Newest returns all stored draws, newest first.
func (r *WinnerRing) Newest() []history.Draw {
	if r.count == 0 {
		return nil
	}
	result := make([]history.Draw, r.count)
	for i := range result {
		result[i] = r.buf[(r.pos-1-i+2*len(r.buf))%len(r.buf)]
	}
	return result
}

// Last returns the most recent draw.
func (r *WinnerRing) Last() (history.Draw, bool) {
	if r.count == 0 {
		return history.Draw{}, false
	}
	return r.buf[(r.pos-1+len(r.buf))%len(r.buf)], true
}

// Len returns the number of stored draws.
func (r *WinnerRing) Len() int {
	return r.count
}
