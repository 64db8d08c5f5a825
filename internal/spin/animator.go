package spin

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"raffle-spinner.klederson.com/internal/participant"
)

// DefaultItemHeight is the row height, in pixels, used when none is given.
const DefaultItemHeight = 80.0

// Phase is the lifecycle state of an Animator.
//
//	Idle ──Start──► Spinning ──► SwapPending ──► SwapApplied ──► Completed
//	                   │              │               │
//	                   └──────────────┴───Stop────────┴──► Cancelled
//
// Errors reset the animator to Idle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSpinning
	PhaseSwapPending
	PhaseSwapApplied
	PhaseCompleted
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSpinning:
		return "spinning"
	case PhaseSwapPending:
		return "swap-pending"
	case PhaseSwapApplied:
		return "swap-applied"
	case PhaseCompleted:
		return "completed"
	case PhaseCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Callbacks connect an Animator to its renderer and subset owner.
type Callbacks struct {
	// OnPositionUpdate draws the reel at a scroll offset. It runs once per
	// frame; a returned error aborts the spin through OnError.
	OnPositionUpdate func(position float64) error
	// OnSpinComplete receives the winner. Called at most once per spin.
	OnSpinComplete func(winner participant.Participant)
	// OnError is called instead of OnSpinComplete when a spin fails.
	OnError func(err error)
	// OnMaxVelocity swaps the rendered subset and returns the winner's
	// index in the new subset, or a negative number to skip the swap.
	// Optional.
	OnMaxVelocity func() int
	// GetParticipants returns the rows currently rendered.
	GetParticipants func() []participant.Participant
}

// Options configure an Animator. Zero fields get defaults.
type Options struct {
	Clock      Clock
	Scheduler  FrameScheduler
	RNG        RNG
	Logger     *zerolog.Logger
	ItemHeight float64
	Settings   Settings
}

// Status is a snapshot of an Animator's state.
type Status struct {
	Phase        Phase
	Spinning     bool
	Swapped      bool // swap checkpoint has fired
	Recalculated bool // post-swap physics are in effect
	Progress     float64
	Position     float64
	Frames       int
}

type animationState struct {
	isSpinning            bool
	hasTriggeredSwap      bool
	hasRecalculatedTarget bool
	startTime             time.Time
	winner                *participant.Participant
	winnerIndex           int

	phase    Phase
	physics  Physics
	frame    FrameID
	frames   int
	position float64
	progress float64
}

// Animator runs one spin at a time. It is not safe for concurrent use: all
// calls, including frame callbacks, must come from the goroutine that drives
// the scheduler.
type Animator struct {
	clock      Clock
	scheduler  FrameScheduler
	rng        RNG
	log        zerolog.Logger
	cb         Callbacks
	itemHeight float64
	settings   Settings

	state animationState
	gen   uint64 // bumped by every Start and reset; stale frames compare against it
}

// NewAnimator creates an idle Animator. When opts.Scheduler is nil the
// animator gets its own FrameLoop, available from Scheduler.
func NewAnimator(opts Options, cb Callbacks) *Animator {
	a := &Animator{
		clock:      opts.Clock,
		scheduler:  opts.Scheduler,
		rng:        opts.RNG,
		log:        zerolog.Nop(),
		cb:         cb,
		itemHeight: opts.ItemHeight,
		settings:   opts.Settings,
	}
	if a.clock == nil {
		a.clock = SystemClock{}
	}
	if a.scheduler == nil {
		a.scheduler = NewFrameLoop()
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger != nil {
		a.log = opts.Logger.With().Str("component", "animator").Logger()
	}
	if !(a.itemHeight > 0) {
		a.itemHeight = DefaultItemHeight
	}
	if a.settings == (Settings{}) {
		a.settings = DefaultSettings()
	}
	return a
}

// Scheduler returns the frame scheduler the animator requests frames from.
func (a *Animator) Scheduler() FrameScheduler { return a.scheduler }

// Configure replaces the settings and row height used by the next Start.
func (a *Animator) Configure(s Settings, itemHeight float64) error {
	if a.state.isSpinning {
		return ErrSpinInProgress
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if !(itemHeight > 0) {
		return fmt.Errorf("%w: item height %v", ErrInvalidPhysics, itemHeight)
	}
	a.settings = s
	a.itemHeight = itemHeight
	return nil
}

// Start begins a spin landing on the rendered row at winnerIndex. That
// winner is provisional until a swap replaces it. Failures are reported
// through OnError and also returned; ErrSpinInProgress is only returned.
func (a *Animator) Start(winnerIndex int) (err error) {
	if a.state.isSpinning {
		return ErrSpinInProgress
	}
	a.reset()
	gen := a.gen
	defer a.recoverCallback(gen, &err)

	rows := a.participants()
	if len(rows) == 0 {
		return a.fail(ErrNoParticipants)
	}
	physics, err := CalculateInitialPhysics(winnerIndex, len(rows), a.itemHeight, a.settings, a.rng)
	if err != nil {
		return a.fail(err)
	}
	winner := rows[winnerIndex]

	a.state = animationState{
		isSpinning:  true,
		startTime:   a.clock.Now(),
		winner:      &winner,
		winnerIndex: winnerIndex,
		phase:       PhaseSpinning,
		physics:     physics,
		position:    physics.StartPosition,
	}
	a.log.Debug().
		Int("rows", len(rows)).
		Int("target_index", winnerIndex).
		Int("rotations", physics.Rotations).
		Float64("distance", physics.TotalDistance).
		Dur("duration", physics.Duration).
		Msg("spin started")

	a.state.frame = a.scheduler.RequestFrame(a.tick)
	return nil
}

// Stop cancels the pending frame and marks the spin as not running. No
// callback fires. Other state is left as is until the next Start.
func (a *Animator) Stop() {
	if a.state.frame != 0 {
		a.scheduler.CancelFrame(a.state.frame)
		a.state.frame = 0
	}
	if a.state.isSpinning {
		a.state.isSpinning = false
		a.state.phase = PhaseCancelled
		a.log.Debug().Int("frames", a.state.frames).Msg("spin cancelled")
	}
}

// IsAnimating reports whether a spin is running.
func (a *Animator) IsAnimating() bool { return a.state.isSpinning }

// Phase returns the current lifecycle phase.
func (a *Animator) Phase() Phase { return a.state.phase }

// Physics returns the plan of the current phase.
func (a *Animator) Physics() Physics { return a.state.physics }

// Winner returns the current (possibly provisional) winner.
func (a *Animator) Winner() (participant.Participant, bool) {
	if a.state.winner == nil {
		return participant.Participant{}, false
	}
	return *a.state.winner, true
}

// Status returns a snapshot of the animation state.
func (a *Animator) Status() Status {
	return Status{
		Phase:        a.state.phase,
		Spinning:     a.state.isSpinning,
		Swapped:      a.state.hasTriggeredSwap,
		Recalculated: a.state.hasRecalculatedTarget,
		Progress:     a.state.progress,
		Position:     a.state.position,
		Frames:       a.state.frames,
	}
}

// HandleMaxVelocity runs the swap checkpoint now. Only the first call of a
// spin has any effect; the frame loop calls it itself at SwapProgress.
func (a *Animator) HandleMaxVelocity() {
	gen := a.gen
	defer a.recoverCallback(gen, nil)
	a.handleMaxVelocity(a.clock.Now())
}

func (a *Animator) handleMaxVelocity(now time.Time) {
	if !a.state.isSpinning || a.state.hasTriggeredSwap {
		return
	}
	a.state.hasTriggeredSwap = true
	if a.cb.OnMaxVelocity == nil {
		return
	}

	gen := a.gen
	progress := a.progressAt(now)
	position := CalculatePosition(progress, a.state.physics)

	a.state.phase = PhaseSwapPending
	idx := a.cb.OnMaxVelocity()
	if !a.live(gen) {
		return
	}
	if idx < 0 {
		a.state.phase = PhaseSpinning
		a.log.Debug().Float64("progress", progress).Msg("swap skipped")
		return
	}

	rows := a.participants()
	if idx >= len(rows) {
		a.fail(fmt.Errorf("%w: %d of %d", ErrSwapIndex, idx, len(rows)))
		return
	}
	physics, err := RecalculatePhysicsAfterSwap(position, progress, a.state.physics, SwapTarget{Index: idx, Count: len(rows)}, a.rng)
	if err != nil {
		a.fail(err)
		return
	}

	winner := rows[idx]
	a.state.winner = &winner
	a.state.winnerIndex = idx
	a.state.physics = physics
	a.state.startTime = now
	a.state.progress = 0
	a.state.hasRecalculatedTarget = true
	a.state.phase = PhaseSwapApplied

	if l := ValidateLanding(physics.FinalPosition, physics.ItemCount, physics.ItemHeight, idx); !l.IsAccurate {
		a.log.Warn().
			Int("expected", l.ExpectedCenterIndex).
			Int("actual", l.ActualCenterIndex).
			Float64("error_px", l.PositionError).
			Msg("post-swap plan does not land on winner")
	}
	a.log.Debug().
		Float64("progress", progress).
		Float64("position", position).
		Int("rows", len(rows)).
		Int("winner_index", idx).
		Int("rotations", physics.Rotations).
		Dur("duration", physics.Duration).
		Msg("subset swapped")
}

func (a *Animator) tick(now time.Time) {
	a.state.frame = 0
	if !a.state.isSpinning {
		return
	}
	gen := a.gen
	defer a.recoverCallback(gen, nil)

	progress := a.progressAt(now)
	if !a.state.hasTriggeredSwap && progress >= SwapProgress {
		a.handleMaxVelocity(now)
		if !a.live(gen) {
			return
		}
		progress = a.progressAt(now)
	}

	position := CalculatePosition(progress, a.state.physics)
	a.state.position = position
	a.state.progress = progress
	a.state.frames++
	if err := a.draw(position); err != nil {
		a.fail(fmt.Errorf("draw frame %d: %w", a.state.frames, err))
		return
	}
	if !a.live(gen) {
		return
	}

	if progress >= 1 {
		a.complete(gen)
		return
	}
	a.state.frame = a.scheduler.RequestFrame(a.tick)
}

func (a *Animator) complete(gen uint64) {
	if a.state.winner == nil {
		a.fail(ErrNoWinner)
		return
	}

	ph := a.state.physics
	if l := ValidateLanding(a.state.position, ph.ItemCount, ph.ItemHeight, a.state.winnerIndex); !l.IsAccurate {
		corrected := CorrectedPosition(a.state.position, ph.ItemCount, ph.ItemHeight, a.state.winnerIndex)
		a.log.Warn().
			Int("expected", l.ExpectedCenterIndex).
			Int("actual", l.ActualCenterIndex).
			Float64("error_px", l.PositionError).
			Float64("corrected", corrected).
			Msg("landing mismatch, snapping to winner")
		a.state.position = corrected
		if err := a.draw(corrected); err != nil {
			a.fail(fmt.Errorf("draw corrected frame: %w", err))
			return
		}
		if !a.live(gen) {
			return
		}
	}

	winner := *a.state.winner
	a.state.isSpinning = false
	a.state.phase = PhaseCompleted
	a.log.Debug().
		Str("ticket", winner.TicketNumber).
		Int("frames", a.state.frames).
		Bool("swapped", a.state.hasRecalculatedTarget).
		Msg("spin complete")

	// The spin is over once the winner is handed out. A panic from
	// OnSpinComplete belongs to the caller and is not reported as a failure.
	a.gen++
	if a.cb.OnSpinComplete != nil {
		a.cb.OnSpinComplete(winner)
	}
}

func (a *Animator) draw(position float64) error {
	if a.cb.OnPositionUpdate == nil {
		return nil
	}
	return a.cb.OnPositionUpdate(position)
}

func (a *Animator) participants() []participant.Participant {
	if a.cb.GetParticipants == nil {
		return nil
	}
	return a.cb.GetParticipants()
}

func (a *Animator) progressAt(now time.Time) float64 {
	d := a.state.physics.Duration
	if d <= 0 {
		return 1
	}
	return clampUnit(float64(now.Sub(a.state.startTime)) / float64(d))
}

// live reports whether the spin that captured gen is still the running one.
func (a *Animator) live(gen uint64) bool {
	return a.gen == gen && a.state.isSpinning
}

// reset cancels any pending frame and returns to Idle.
func (a *Animator) reset() {
	if a.state.frame != 0 {
		a.scheduler.CancelFrame(a.state.frame)
	}
	a.state = animationState{}
	a.gen++
}

// fail resets the animator and reports err through OnError.
func (a *Animator) fail(err error) error {
	a.reset()
	a.log.Error().Err(err).Msg("spin failed")
	if a.cb.OnError != nil {
		a.cb.OnError(err)
	}
	return err
}

// recoverCallback turns a panic in a caller-supplied callback into OnError.
// Panics raised after the spin ended, by OnError or OnSpinComplete, are
// re-raised untouched.
func (a *Animator) recoverCallback(gen uint64, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if a.gen != gen {
		panic(r)
	}
	err := a.fail(fmt.Errorf("%w: %v", ErrCallbackPanic, r))
	if errp != nil {
		*errp = err
	}
}
