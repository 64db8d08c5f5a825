package spin

import (
	"fmt"
	"testing"
	"time"

	"raffle-spinner.klederson.com/internal/participant"
)

const frameInterval = 16 * time.Millisecond

// numbered returns n participants with tickets "000001", "000002", ...
func numbered(n int) []participant.Participant {
	out := make([]participant.Participant, n)
	for i := range out {
		out[i] = participant.Participant{
			FirstName:    fmt.Sprintf("First%d", i+1),
			LastName:     fmt.Sprintf("Last%d", i+1),
			TicketNumber: fmt.Sprintf("%06d", i+1),
		}
	}
	return out
}

// drive steps loop on clk until no frame is pending, returning how many
// frame callbacks ran.
func drive(t *testing.T, clk *ManualClock, loop *FrameLoop, maxFrames int) int {
	t.Helper()
	ran := 0
	for i := 0; loop.Pending(); i++ {
		if i >= maxFrames {
			t.Fatalf("spin still running after %d frames", maxFrames)
		}
		ran += loop.Step(clk.Advance(frameInterval))
	}
	return ran
}

// stepN runs n frames.
func stepN(clk *ManualClock, loop *FrameLoop, n int) {
	for i := 0; i < n; i++ {
		loop.Step(clk.Advance(frameInterval))
	}
}
