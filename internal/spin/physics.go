package spin

import (
	"fmt"
	"math"
	"time"
)

const (
	// VisibleItems is the number of rows shown in the reel window.
	VisibleItems = 5
	// CenterIndex is the row of the window that counts as the landing slot.
	CenterIndex = 2

	MinRotations         = 7
	MaxRotations         = 10
	PostSwapMinRotations = 6
	PostSwapMaxRotations = 8

	// SwapProgress is the progress at which the rendered subset is replaced.
	// Near the start of an ease-out curve velocity is close to its peak.
	SwapProgress = 0.05
	// PostSwapDurationFraction of the original duration is given to the
	// post-swap phase.
	PostSwapDurationFraction = 0.92
	// MinPhaseDuration floors the post-swap phase when the swap fires late.
	MinPhaseDuration = 250 * time.Millisecond

	// landingTolerance is the largest position error, in pixels, accepted
	// as an exact landing.
	landingTolerance = 0.5
)

// RNG is the random source for cosmetic rotation counts. *math/rand.Rand
// satisfies it.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Curve is an ease-out curve mapping linear progress to distance fraction.
type Curve int

const (
	CurveEaseOutCubic Curve = iota
	CurveEaseOutQuad
	CurveEaseOutQuart
)

func (c Curve) String() string {
	switch c {
	case CurveEaseOutQuad:
		return "ease-out-quad"
	case CurveEaseOutQuart:
		return "ease-out-quart"
	default:
		return "ease-out-cubic"
	}
}

// Apply evaluates the curve at progress, clamped to [0, 1].
func (c Curve) Apply(progress float64) float64 {
	p := clampUnit(progress)
	switch c {
	case CurveEaseOutQuad:
		return 1 - (1-p)*(1-p)
	case CurveEaseOutQuart:
		q := 1 - p
		return 1 - q*q*q*q
	default:
		return EaseOutCubic(p)
	}
}

// EaseOutCubic returns 1 - (1-p)^3 for p clamped to [0, 1].
func EaseOutCubic(progress float64) float64 {
	q := 1 - clampUnit(progress)
	return 1 - q*q*q
}

// Physics is the motion plan for one phase of a spin. Positions are in
// pixels of scroll offset; row i of the rendered subset starts at i*ItemHeight.
type Physics struct {
	Duration      time.Duration
	TotalDistance float64
	StartPosition float64
	FinalPosition float64

	Rotations   int
	TargetIndex int
	ItemCount   int
	ItemHeight  float64
	Curve       Curve
}

// Circumference is the scroll length of one full lap of the rendered subset.
func (p Physics) Circumference() float64 {
	return float64(p.ItemCount) * p.ItemHeight
}

// CalculateInitialPhysics plans a spin that lands winnerIndex of a wheel of
// count rows in the centre slot after a random number of full laps.
func CalculateInitialPhysics(winnerIndex, count int, itemHeight float64, s Settings, rng RNG) (Physics, error) {
	if count <= 0 {
		return Physics{}, fmt.Errorf("%w: participant count %d", ErrInvalidPhysics, count)
	}
	if winnerIndex < 0 || winnerIndex >= count {
		return Physics{}, fmt.Errorf("%w: winner index %d out of [0,%d)", ErrInvalidPhysics, winnerIndex, count)
	}
	if !(itemHeight > 0) {
		return Physics{}, fmt.Errorf("%w: item height %v", ErrInvalidPhysics, itemHeight)
	}
	if err := s.Validate(); err != nil {
		return Physics{}, err
	}
	duration := s.Duration()
	if duration <= 0 {
		return Physics{}, fmt.Errorf("%w: duration rounds to zero", ErrInvalidSettings)
	}

	circumference := float64(count) * itemHeight
	target := float64(winnerIndex-CenterIndex) * itemHeight
	rotations := randomBetween(rng, MinRotations, MaxRotations)
	total := float64(rotations)*circumference + target

	return Physics{
		Duration:      duration,
		TotalDistance: total,
		StartPosition: 0,
		FinalPosition: total,
		Rotations:     rotations,
		TargetIndex:   winnerIndex,
		ItemCount:     count,
		ItemHeight:    itemHeight,
		Curve:         s.Curve(),
	}, nil
}

// SwapTarget describes the rendered subset after a swap.
type SwapTarget struct {
	Index int // winner's index in the new subset
	Count int // size of the new subset
}

// RecalculatePhysicsAfterSwap plans the phase that follows a subset swap.
// The new phase starts at the current sub-row offset, so row boundaries do
// not jump, and its coordinates are otherwise reset: callers that need a
// continuous absolute offset must accumulate it themselves.
func RecalculatePhysicsAfterSwap(currentPosition, currentProgress float64, original Physics, target SwapTarget, rng RNG) (Physics, error) {
	if target.Count <= 0 {
		return Physics{}, fmt.Errorf("%w: subset size %d", ErrInvalidPhysics, target.Count)
	}
	if target.Index < 0 || target.Index >= target.Count {
		return Physics{}, fmt.Errorf("%w: swap index %d out of [0,%d)", ErrInvalidPhysics, target.Index, target.Count)
	}
	h := original.ItemHeight
	if !(h > 0) {
		return Physics{}, fmt.Errorf("%w: item height %v", ErrInvalidPhysics, h)
	}

	duration := time.Duration(float64(original.Duration) * PostSwapDurationFraction)
	if remaining := time.Duration(float64(original.Duration) * (1 - clampUnit(currentProgress))); remaining < duration {
		duration = remaining
	}
	if duration < MinPhaseDuration {
		duration = MinPhaseDuration
	}

	start := wrap(currentPosition, h)
	circumference := float64(target.Count) * h
	targetPos := float64(target.Index-CenterIndex) * h
	rotations := randomBetween(rng, PostSwapMinRotations, PostSwapMaxRotations)
	total := float64(rotations)*circumference + targetPos - start

	return Physics{
		Duration:      duration,
		TotalDistance: total,
		StartPosition: start,
		FinalPosition: start + total,
		Rotations:     rotations,
		TargetIndex:   target.Index,
		ItemCount:     target.Count,
		ItemHeight:    h,
		Curve:         original.Curve,
	}, nil
}

// CalculatePosition returns the scroll offset at progress. At progress >= 1
// it returns exactly FinalPosition.
func CalculatePosition(progress float64, p Physics) float64 {
	if progress >= 1 {
		return p.FinalPosition
	}
	if progress <= 0 {
		return p.StartPosition
	}
	return p.StartPosition + p.TotalDistance*p.Curve.Apply(progress)
}

// Landing is the result of ValidateLanding.
type Landing struct {
	IsAccurate          bool
	ActualCenterIndex   int
	ExpectedCenterIndex int
	PositionError       float64 // pixels, signed, shortest way round the wheel
}

// ValidateLanding reports which row sits in the centre slot at position and
// whether it is expectedIndex.
func ValidateLanding(position float64, count int, itemHeight float64, expectedIndex int) Landing {
	l := Landing{ActualCenterIndex: -1, ExpectedCenterIndex: expectedIndex}
	if count <= 0 || !(itemHeight > 0) {
		return l
	}

	circumference := float64(count) * itemHeight
	pos := wrap(position, circumference)
	top := int(math.Round(pos/itemHeight)) % count
	l.ActualCenterIndex = (top + CenterIndex) % count

	ideal := wrap(float64(expectedIndex-CenterIndex)*itemHeight, circumference)
	diff := pos - ideal
	if diff > circumference/2 {
		diff -= circumference
	} else if diff < -circumference/2 {
		diff += circumference
	}
	l.PositionError = diff
	l.IsAccurate = l.ActualCenterIndex == expectedIndex && math.Abs(diff) <= landingTolerance
	return l
}

// CorrectedPosition returns the offset nearest to position at which index
// sits exactly in the centre slot.
func CorrectedPosition(position float64, count int, itemHeight float64, index int) float64 {
	if count <= 0 || !(itemHeight > 0) {
		return position
	}
	return position - ValidateLanding(position, count, itemHeight, index).PositionError
}

func randomBetween(rng RNG, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func clampUnit(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// wrap returns x modulo m in [0, m).
func wrap(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	if r >= m {
		r = 0
	}
	return r
}
