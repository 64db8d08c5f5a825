package reel

import (
	"math"
	"time"

	"raffle-spinner.klederson.com/internal/config"
)

// Speed tracks how fast the reel is moving, in rows per second, from
// successive position samples.
type Speed struct {
	RowsPerSec float64

	last   float64
	lastAt time.Time
	primed bool
}

// Update records a sample. Positions are unwrapped, so the difference
// between two samples is the distance travelled. They restart lower when
// the subset is swapped; a sample behind the last one only rebases the
// tracker and keeps the previous speed.
func (s *Speed) Update(position, itemHeight float64, now time.Time) {
	if !s.primed || !(itemHeight > 0) || position < s.last {
		s.last, s.lastAt, s.primed = position, now, true
		return
	}
	dt := now.Sub(s.lastAt).Seconds()
	if dt <= 0 {
		return
	}
	s.RowsPerSec = (position - s.last) / itemHeight / dt
	s.last, s.lastAt = position, now
}

// Reset forgets every sample.
func (s *Speed) Reset() {
	*s = Speed{}
}

// Blurred reports whether rows should be drawn as motion blur.
func (s *Speed) Blurred() bool {
	return s.RowsPerSec > config.BlurSpeed
}

// Intensity returns the blur strength in [0, 1]: 0 at BlurSpeed or below,
// reaching 1 at four times BlurSpeed.
func (s *Speed) Intensity() float64 {
	if !s.Blurred() {
		return 0
	}
	return math.Min(1, (s.RowsPerSec-config.BlurSpeed)/(3*config.BlurSpeed))
}
