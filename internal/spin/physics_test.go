package spin

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"
)

func TestCalculateInitialPhysics_LandsOnWinner(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	settings := Settings{MinSpinDuration: 3, DecelerationRate: DecelerationMedium}

	for _, count := range []int{1, 2, 50, 100, 101, 1000, 10000} {
		for _, idx := range []int{0, count / 2, count - 1} {
			for _, h := range []float64{80, 37.5} {
				ph, err := CalculateInitialPhysics(idx, count, h, settings, rng)
				if err != nil {
					t.Fatalf("count=%d idx=%d: unexpected error: %v", count, idx, err)
				}

				l := ValidateLanding(ph.FinalPosition, count, h, idx)
				if !l.IsAccurate {
					t.Errorf("count=%d idx=%d h=%v: landed on %d (error %.3fpx)", count, idx, h, l.ActualCenterIndex, l.PositionError)
				}
				if got := CalculatePosition(1.0, ph); got != ph.FinalPosition {
					t.Errorf("count=%d idx=%d: position at 1.0 = %v, want %v", count, idx, got, ph.FinalPosition)
				}
				if ph.FinalPosition-ph.StartPosition != ph.TotalDistance {
					t.Errorf("count=%d idx=%d: final-start = %v, total = %v", count, idx, ph.FinalPosition-ph.StartPosition, ph.TotalDistance)
				}
				if ph.Duration != 3*time.Second {
					t.Errorf("duration = %v, want 3s", ph.Duration)
				}
				if ph.Rotations < MinRotations || ph.Rotations > MaxRotations {
					t.Errorf("rotations %d outside [%d,%d]", ph.Rotations, MinRotations, MaxRotations)
				}
				if ph.TotalDistance <= 0 {
					t.Errorf("count=%d idx=%d: non-positive distance %v", count, idx, ph.TotalDistance)
				}
			}
		}
	}
}

func TestCalculateInitialPhysics_RotationsDoNotAffectLanding(t *testing.T) {
	settings := DefaultSettings()
	for seed := int64(0); seed < 50; seed++ {
		ph, err := CalculateInitialPhysics(17, 100, 80, settings, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatal(err)
		}
		if l := ValidateLanding(ph.FinalPosition, 100, 80, 17); !l.IsAccurate {
			t.Errorf("seed %d (%d rotations): landed on %d", seed, ph.Rotations, l.ActualCenterIndex)
		}
	}
}

func TestCalculateInitialPhysics_InvalidInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	good := DefaultSettings()

	tests := []struct {
		name     string
		idx      int
		count    int
		h        float64
		settings Settings
		want     error
	}{
		{"zero count", 0, 0, 80, good, ErrInvalidPhysics},
		{"negative index", -1, 10, 80, good, ErrInvalidPhysics},
		{"index past end", 10, 10, 80, good, ErrInvalidPhysics},
		{"zero height", 0, 10, 0, good, ErrInvalidPhysics},
		{"NaN height", 0, 10, math.NaN(), good, ErrInvalidPhysics},
		{"zero duration", 0, 10, 80, Settings{MinSpinDuration: 0}, ErrInvalidSettings},
		{"bad rate", 0, 10, 80, Settings{MinSpinDuration: 2, DecelerationRate: "warp"}, ErrInvalidSettings},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateInitialPhysics(tt.idx, tt.count, tt.h, tt.settings, rng)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestEasing_Boundaries(t *testing.T) {
	if EaseOutCubic(0) != 0 {
		t.Errorf("EaseOutCubic(0) = %v", EaseOutCubic(0))
	}
	if EaseOutCubic(1) != 1 {
		t.Errorf("EaseOutCubic(1) = %v", EaseOutCubic(1))
	}
	if got := EaseOutCubic(0.5); got != 0.875 {
		t.Errorf("EaseOutCubic(0.5) = %v, want 0.875", got)
	}
	if EaseOutCubic(-1) != 0 || EaseOutCubic(2) != 1 {
		t.Error("EaseOutCubic should clamp outside [0,1]")
	}

	for _, c := range []Curve{CurveEaseOutCubic, CurveEaseOutQuad, CurveEaseOutQuart} {
		if c.Apply(0) != 0 || c.Apply(1) != 1 {
			t.Errorf("%s: f(0)=%v f(1)=%v", c, c.Apply(0), c.Apply(1))
		}
		prev := 0.0
		for i := 1; i <= 1000; i++ {
			v := c.Apply(float64(i) / 1000)
			if v < prev {
				t.Fatalf("%s decreases at %v: %v < %v", c, float64(i)/1000, v, prev)
			}
			prev = v
		}
		// Decelerating: the last step covers far less than the first.
		first := c.Apply(0.01) - c.Apply(0)
		last := c.Apply(1) - c.Apply(0.99)
		if last >= first/10 {
			t.Errorf("%s: last step %v not much smaller than first %v", c, last, first)
		}
	}
}

func TestSettings_Curve(t *testing.T) {
	tests := []struct {
		rate DecelerationRate
		want Curve
	}{
		{DecelerationSlow, CurveEaseOutQuad},
		{DecelerationMedium, CurveEaseOutCubic},
		{DecelerationFast, CurveEaseOutQuart},
		{"", CurveEaseOutCubic},
	}
	for _, tt := range tests {
		if got := (Settings{MinSpinDuration: 1, DecelerationRate: tt.rate}).Curve(); got != tt.want {
			t.Errorf("rate %q: curve %s, want %s", tt.rate, got, tt.want)
		}
	}
}

func TestRecalculatePhysicsAfterSwap(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	original, err := CalculateInitialPhysics(13, 100, 80, Settings{MinSpinDuration: 3}, rng)
	if err != nil {
		t.Fatal(err)
	}
	current := CalculatePosition(SwapProgress, original)

	ph, err := RecalculatePhysicsAfterSwap(current, SwapProgress, original, SwapTarget{Index: WinnerSlot, Count: SubsetSize}, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ph.StartPosition < 0 || ph.StartPosition >= 80 {
		t.Errorf("start %v not reset into [0, 80)", ph.StartPosition)
	}
	if math.Abs(ph.StartPosition-math.Mod(current, 80)) > 1e-9 {
		t.Errorf("start %v does not keep row phase of %v", ph.StartPosition, current)
	}
	if d := math.Abs(ph.FinalPosition - ph.StartPosition - ph.TotalDistance); d > 1e-6 {
		t.Errorf("final-start differs from total by %v", d)
	}
	want := time.Duration(float64(3*time.Second) * PostSwapDurationFraction)
	if diff := ph.Duration - want; diff < -time.Microsecond || diff > time.Microsecond {
		t.Errorf("duration = %v, want ~%v", ph.Duration, want)
	}
	if ph.Rotations < PostSwapMinRotations || ph.Rotations > PostSwapMaxRotations {
		t.Errorf("rotations %d outside post-swap range", ph.Rotations)
	}
	if l := ValidateLanding(ph.FinalPosition, SubsetSize, 80, WinnerSlot); !l.IsAccurate {
		t.Errorf("post-swap plan lands on %d (error %.3fpx)", l.ActualCenterIndex, l.PositionError)
	}
	if CalculatePosition(1, ph) != ph.FinalPosition {
		t.Error("position at 1.0 should be the final position")
	}
}

func TestRecalculatePhysicsAfterSwap_LateSwapShortensPhase(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	original, _ := CalculateInitialPhysics(0, 100, 80, Settings{MinSpinDuration: 3}, rng)

	tests := []struct {
		progress float64
		want     time.Duration
	}{
		{0.9, 300 * time.Millisecond},
		{0.99, MinPhaseDuration},
		{1.5, MinPhaseDuration},
	}
	for _, tt := range tests {
		ph, err := RecalculatePhysicsAfterSwap(0, tt.progress, original, SwapTarget{Index: 0, Count: 100}, rng)
		if err != nil {
			t.Fatal(err)
		}
		if diff := ph.Duration - tt.want; diff < -time.Microsecond || diff > time.Microsecond {
			t.Errorf("progress %v: duration %v, want ~%v", tt.progress, ph.Duration, tt.want)
		}
	}
}

func TestRecalculatePhysicsAfterSwap_InvalidTarget(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	original, _ := CalculateInitialPhysics(0, 100, 80, Settings{MinSpinDuration: 3}, rng)

	for _, target := range []SwapTarget{{Index: 0, Count: 0}, {Index: -1, Count: 10}, {Index: 10, Count: 10}} {
		if _, err := RecalculatePhysicsAfterSwap(0, 0.05, original, target, rng); !errors.Is(err, ErrInvalidPhysics) {
			t.Errorf("target %+v: expected ErrInvalidPhysics, got %v", target, err)
		}
	}
}

func TestValidateLanding_Mismatch(t *testing.T) {
	const h = 80.0
	exact := float64(10-CenterIndex) * h

	l := ValidateLanding(exact+h, 50, h, 10)
	if l.IsAccurate {
		t.Fatal("expected inaccurate landing one row off")
	}
	if l.ActualCenterIndex != 11 {
		t.Errorf("actual = %d, want 11", l.ActualCenterIndex)
	}
	if l.PositionError != h {
		t.Errorf("error = %v, want %v", l.PositionError, h)
	}

	// Less than half a row off still centres the right row, but is not exact.
	l = ValidateLanding(exact+10, 50, h, 10)
	if l.ActualCenterIndex != 10 || l.IsAccurate {
		t.Errorf("10px off: actual=%d accurate=%v", l.ActualCenterIndex, l.IsAccurate)
	}

	// Whole laps do not matter.
	l = ValidateLanding(exact+7*50*h, 50, h, 10)
	if !l.IsAccurate {
		t.Errorf("seven laps later should still be accurate: %+v", l)
	}

	// Shortest way round: just below the lap boundary is a small negative error.
	l = ValidateLanding(50*h-3, 50, h, CenterIndex)
	if l.PositionError != -3 {
		t.Errorf("error = %v, want -3", l.PositionError)
	}
}

func TestCorrectedPosition(t *testing.T) {
	const h = 80.0
	for _, pos := range []float64{0, 123.4, 4000 - 1, 55555.5, -200} {
		c := CorrectedPosition(pos, 50, h, 10)
		if l := ValidateLanding(c, 50, h, 10); !l.IsAccurate {
			t.Errorf("corrected %v -> %v still lands on %d", pos, c, l.ActualCenterIndex)
		}
		if math.Abs(c-pos) > 50*h/2 {
			t.Errorf("corrected %v -> %v moved more than half a lap", pos, c)
		}
	}
}
