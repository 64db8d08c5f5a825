package spin

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"raffle-spinner.klederson.com/internal/participant"
)

var errWinnerMismatch = errors.New("landed winner does not match target ticket")

// Request is one spin: who is in the draw, which ticket wins, and how the
// reel moves.
type Request struct {
	Participants []participant.Participant
	TargetTicket string
	Settings     Settings
	ItemHeight   float64
}

// Result describes a finished spin.
type Result struct {
	ID           uuid.UUID
	Winner       participant.Participant
	Participants int
	Swapped      bool
	StartedAt    time.Time
	FinishedAt   time.Time
}

// SpinnerCallbacks are the hooks a front end supplies to a Spinner.
type SpinnerCallbacks struct {
	OnPositionUpdate func(position float64) error
	OnSpinComplete   func(r Result)
	OnError          func(err error)
	// OnSwap is told about the new rendered subset. Optional.
	OnSwap func(subset []participant.Participant)
}

// Spinner owns the rendered subset of a draw and drives an Animator over it.
// Like Animator it is single-goroutine; use one Spinner per reel.
type Spinner struct {
	animator *Animator
	clock    Clock
	rng      RNG
	log      zerolog.Logger
	cb       SpinnerCallbacks

	sorted      []participant.Participant
	subset      []participant.Participant
	winnerIndex int
	swapped     bool
	id          uuid.UUID
	startedAt   time.Time
}

// NewSpinner creates an idle Spinner.
func NewSpinner(opts Options, cb SpinnerCallbacks) *Spinner {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.RNG == nil {
		opts.RNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewFrameLoop()
	}

	s := &Spinner{
		clock: opts.Clock,
		rng:   opts.RNG,
		log:   zerolog.Nop(),
		cb:    cb,
	}
	if opts.Logger != nil {
		s.log = opts.Logger.With().Str("component", "spinner").Logger()
	}
	s.animator = NewAnimator(opts, Callbacks{
		OnPositionUpdate: s.onPosition,
		OnSpinComplete:   s.onComplete,
		OnError:          s.onError,
		OnMaxVelocity:    s.onMaxVelocity,
		GetParticipants:  func() []participant.Participant { return s.subset },
	})
	return s
}

// Spin starts a draw that lands on req.TargetTicket. The participant list
// is copied and never modified. Validation failures, including a target that
// matches no ticket, go to OnError and are also returned; a Spin while
// another is running returns ErrSpinInProgress and changes nothing.
func (s *Spinner) Spin(req Request) error {
	if s.animator.IsAnimating() {
		return ErrSpinInProgress
	}

	settings := req.Settings
	if settings == (Settings{}) {
		settings = DefaultSettings()
	}
	itemHeight := req.ItemHeight
	if itemHeight == 0 {
		itemHeight = DefaultItemHeight
	}
	if len(req.Participants) == 0 {
		return s.reject(ErrNoParticipants)
	}
	if err := s.animator.Configure(settings, itemHeight); err != nil {
		return s.reject(err)
	}

	sorted := participant.Sorted(req.Participants)
	idx := participant.IndexOf(sorted, req.TargetTicket)
	if idx < 0 {
		return s.reject(fmt.Errorf("%w: %q", ErrTicketNotFound, req.TargetTicket))
	}

	s.sorted = sorted
	s.winnerIndex = idx
	s.subset = CreateInitialSubset(sorted)
	s.swapped = false
	s.id = uuid.New()
	s.startedAt = s.clock.Now()

	start := InitialIndex(len(sorted), idx)
	if start < 0 {
		start = s.rng.Intn(len(s.subset))
	}
	s.log.Info().
		Str("spin_id", s.id.String()).
		Int("participants", len(sorted)).
		Int("rendered", len(s.subset)).
		Str("ticket", sorted[idx].TicketNumber).
		Bool("provisional", InitialIndex(len(sorted), idx) < 0).
		Msg("spin requested")

	return s.animator.Start(start)
}

// Cancel stops the running spin without calling OnSpinComplete or OnError.
func (s *Spinner) Cancel() { s.animator.Stop() }

// IsAnimating reports whether a spin is running.
func (s *Spinner) IsAnimating() bool { return s.animator.IsAnimating() }

// Subset returns the rows currently rendered. The slice is replaced, not
// modified, when the subset swaps.
func (s *Spinner) Subset() []participant.Participant { return s.subset }

// Swapped reports whether the current spin has swapped its subset.
func (s *Spinner) Swapped() bool { return s.swapped }

// SpinID identifies the current or last spin.
func (s *Spinner) SpinID() uuid.UUID { return s.id }

// Status returns the animator's state.
func (s *Spinner) Status() Status { return s.animator.Status() }

// Physics returns the plan of the current spin phase.
func (s *Spinner) Physics() Physics { return s.animator.Physics() }

// Scheduler returns the frame scheduler driving the spin.
func (s *Spinner) Scheduler() FrameScheduler { return s.animator.Scheduler() }

func (s *Spinner) onPosition(position float64) error {
	if s.cb.OnPositionUpdate == nil {
		return nil
	}
	return s.cb.OnPositionUpdate(position)
}

func (s *Spinner) onMaxVelocity() int {
	if !NeedsSwap(len(s.sorted)) {
		return -1
	}
	s.subset = CreateWinnerSubset(s.sorted, s.winnerIndex)
	s.swapped = true
	if s.cb.OnSwap != nil {
		s.cb.OnSwap(s.subset)
	}
	return WinnerSlot
}

func (s *Spinner) onComplete(winner participant.Participant) {
	want := s.sorted[s.winnerIndex]
	if !participant.SameTicket(winner.TicketNumber, want.TicketNumber) {
		s.onError(fmt.Errorf("%w: got %q, want %q", errWinnerMismatch, winner.TicketNumber, want.TicketNumber))
		return
	}

	r := Result{
		ID:           s.id,
		Winner:       winner,
		Participants: len(s.sorted),
		Swapped:      s.swapped,
		StartedAt:    s.startedAt,
		FinishedAt:   s.clock.Now(),
	}
	s.log.Info().
		Str("spin_id", r.ID.String()).
		Str("ticket", winner.TicketNumber).
		Str("winner", winner.DisplayName()).
		Dur("elapsed", r.FinishedAt.Sub(r.StartedAt)).
		Msg("winner drawn")
	if s.cb.OnSpinComplete != nil {
		s.cb.OnSpinComplete(r)
	}
}

func (s *Spinner) onError(err error) {
	if s.cb.OnError != nil {
		s.cb.OnError(err)
	}
}

func (s *Spinner) reject(err error) error {
	s.log.Warn().Err(err).Msg("spin rejected")
	s.onError(err)
	return err
}
