package spin

import (
	"fmt"
	"strings"
	"time"
)

// DecelerationRate selects the easing curve of a spin.
type DecelerationRate string

const (
	DecelerationSlow   DecelerationRate = "slow"
	DecelerationMedium DecelerationRate = "medium"
	DecelerationFast   DecelerationRate = "fast"
)

// ParseDecelerationRate accepts slow, medium or fast (case-insensitive).
func ParseDecelerationRate(s string) (DecelerationRate, error) {
	switch r := DecelerationRate(strings.ToLower(strings.TrimSpace(s))); r {
	case DecelerationSlow, DecelerationMedium, DecelerationFast:
		return r, nil
	default:
		return "", fmt.Errorf("%w: deceleration rate %q", ErrInvalidSettings, s)
	}
}

// Next cycles slow -> medium -> fast -> slow.
func (r DecelerationRate) Next() DecelerationRate {
	switch r {
	case DecelerationSlow:
		return DecelerationMedium
	case DecelerationMedium:
		return DecelerationFast
	default:
		return DecelerationSlow
	}
}

// Settings is copied per spin and never mutated by the engine.
type Settings struct {
	MinSpinDuration  float64          `yaml:"min_spin_duration"` // seconds
	DecelerationRate DecelerationRate `yaml:"deceleration_rate"`
}

// DefaultSettings returns 5 seconds at medium deceleration.
func DefaultSettings() Settings {
	return Settings{
		MinSpinDuration:  5,
		DecelerationRate: DecelerationMedium,
	}
}

// Duration returns MinSpinDuration as a time.Duration.
func (s Settings) Duration() time.Duration {
	return time.Duration(s.MinSpinDuration * float64(time.Second))
}

// Validate checks that the duration is positive and the rate is known.
// An empty rate is accepted and treated as medium.
func (s Settings) Validate() error {
	if !(s.MinSpinDuration > 0) {
		return fmt.Errorf("%w: min spin duration must be positive, got %v", ErrInvalidSettings, s.MinSpinDuration)
	}
	if s.DecelerationRate == "" {
		return nil
	}
	_, err := ParseDecelerationRate(string(s.DecelerationRate))
	return err
}

// Curve returns the easing curve for the configured deceleration rate.
func (s Settings) Curve() Curve {
	switch s.DecelerationRate {
	case DecelerationSlow:
		return CurveEaseOutQuad
	case DecelerationFast:
		return CurveEaseOutQuart
	default:
		return CurveEaseOutCubic
	}
}
