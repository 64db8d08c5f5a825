package spin

import "raffle-spinner.klederson.com/internal/participant"

const (
	// SubsetSize caps the number of rows the reel renders, whatever the
	// participant count.
	SubsetSize = 100
	// WinnerSlot is where CreateWinnerSubset places the winner.
	WinnerSlot = SubsetSize / 2
)

// CreateInitialSubset picks the rows rendered at spin start. Lists longer
// than SubsetSize render their first and last SubsetSize/2 entries; shorter
// lists are repeated in order and cut at exactly SubsetSize rows.
func CreateInitialSubset(sorted []participant.Participant) []participant.Participant {
	n := len(sorted)
	if n == 0 {
		return nil
	}
	if n > SubsetSize {
		half := SubsetSize / 2
		out := make([]participant.Participant, 0, SubsetSize)
		out = append(out, sorted[:half]...)
		out = append(out, sorted[n-half:]...)
		return out
	}

	out := make([]participant.Participant, 0, SubsetSize)
	for len(out) < SubsetSize {
		out = append(out, sorted[len(out)%n])
	}
	return out
}

// CreateWinnerSubset picks the rows rendered after the swap: a SubsetSize
// window of the list, in wrap order, with the winner at WinnerSlot.
// Lists that already fit are returned as a copy; an unknown winner (-1)
// falls back to the initial pattern.
func CreateWinnerSubset(sorted []participant.Participant, winnerIndex int) []participant.Participant {
	n := len(sorted)
	if winnerIndex < 0 || winnerIndex >= n {
		return CreateInitialSubset(sorted)
	}
	if n <= SubsetSize {
		out := make([]participant.Participant, n)
		copy(out, sorted)
		return out
	}

	start := winnerIndex - WinnerSlot
	out := make([]participant.Participant, SubsetSize)
	for i := range out {
		out[i] = sorted[mod(start+i, n)]
	}
	return out
}

// InitialIndex returns where the participant at winnerIndex of a sorted
// list of n entries sits in CreateInitialSubset's result, or -1 if it is
// not rendered there.
func InitialIndex(n, winnerIndex int) int {
	if winnerIndex < 0 || winnerIndex >= n {
		return -1
	}
	if n <= SubsetSize {
		return winnerIndex
	}
	half := SubsetSize / 2
	switch {
	case winnerIndex < half:
		return winnerIndex
	case winnerIndex >= n-half:
		return half + winnerIndex - (n - half)
	default:
		return -1
	}
}

// NeedsSwap reports whether a list of n entries is too large to render whole.
func NeedsSwap(n int) bool {
	return n > SubsetSize
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
