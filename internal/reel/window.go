package reel

import (
	"math"

	"raffle-spinner.klederson.com/internal/config"
	"raffle-spinner.klederson.com/internal/participant"
	"raffle-spinner.klederson.com/internal/spin"
)

// View is the slice of the reel visible at one position.
type View struct {
	Top  int     // subset index of the row at the top edge
	Frac float64 // how far the reel has scrolled past Top, in rows [0, 1)
	// Rows holds config.ReelRows+1 participants starting at Top, so a
	// renderer with sub-row precision can draw the row scrolling in.
	Rows []participant.Participant
}

// Window maps a reel position to the rows it shows. It returns an empty
// View for an empty subset or a non-positive item height.
func Window(subset []participant.Participant, position, itemHeight float64) View {
	n := len(subset)
	if n == 0 || !(itemHeight > 0) {
		return View{}
	}

	rows := Wrap(position, itemHeight*float64(n)) / itemHeight
	top := int(math.Floor(rows))
	frac := rows - float64(top)
	if frac >= 1-1e-9 {
		top++
		frac = 0
	}
	top %= n

	v := View{Top: top, Frac: frac, Rows: make([]participant.Participant, config.ReelRows+1)}
	for i := range v.Rows {
		v.Rows[i] = subset[(top+i)%n]
	}
	return v
}

// Snapped returns the config.ReelRows rows a character-cell display shows:
// the reel rounded to the nearest whole row, which is how a landing is
// judged.
func (v View) Snapped() []participant.Participant {
	if len(v.Rows) == 0 {
		return nil
	}
	if v.Frac >= 0.5 {
		return v.Rows[1:]
	}
	return v.Rows[:config.ReelRows]
}

// Center returns the participant under the pointer.
func (v View) Center() (participant.Participant, bool) {
	rows := v.Snapped()
	if len(rows) <= spin.CenterIndex {
		return participant.Participant{}, false
	}
	return rows[spin.CenterIndex], true
}

// Wrap wraps x into [0, m).
func Wrap(x, m float64) float64 {
	if !(m > 0) {
		return 0
	}
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}
