package app

import (
	"time"

	"raffle-spinner.klederson.com/internal/history"
)

// TickMsg triggers a frame update for animation.
type TickMsg time.Time

// RecordedMsg reports that a draw was written to history.
type RecordedMsg struct {
	Draw history.Draw
	Err  error
}

// HistoryLoadedMsg carries the draws read from history at startup.
type HistoryLoadedMsg struct {
	Draws []history.Draw
	Err   error
}
