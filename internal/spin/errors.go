package spin

import "errors"

var (
	ErrInvalidSettings = errors.New("invalid spinner settings")
	ErrInvalidPhysics  = errors.New("invalid physics input")
	ErrNoParticipants  = errors.New("no participants")
	ErrTicketNotFound  = errors.New("target ticket not found")
	ErrSpinInProgress  = errors.New("spin already in progress")
	ErrNoWinner        = errors.New("spin completed without a winner")
	ErrSwapIndex       = errors.New("swap returned an index outside the rendered subset")
	ErrCallbackPanic   = errors.New("callback panicked")
)
