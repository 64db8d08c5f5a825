package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"raffle-spinner.klederson.com/internal/spin"
)

// StatusInfo is what the bottom bar reports.
type StatusInfo struct {
	Phase        spin.Phase
	Participants int
	Settings     spin.Settings
	Draws        int
	RowsPerSec   float64
	Message      string // last error or notice; shown instead of the phase when set
	IsError      bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s StatusInfo) string {
	var status string
	switch {
	case s.Message != "" && s.IsError:
		status = StyleStatusError.Render("[" + s.Message + "]")
	case s.Message != "":
		status = StyleStatusReady.Render("[" + s.Message + "]")
	case s.Phase == spin.PhaseIdle || s.Phase == spin.PhaseCompleted || s.Phase == spin.PhaseCancelled:
		status = StyleStatusReady.Render("[" + strings.ToUpper(s.Phase.String()) + "]")
	default:
		status = StyleStatusSpinning.Render("[" + strings.ToUpper(s.Phase.String()) + "]")
	}

	rate := s.Settings.DecelerationRate
	if rate == "" {
		rate = spin.DecelerationMedium
	}
	info := fmt.Sprintf(" Entries: %s  Spin: %.1fs %s  Speed: %.0f rows/s  Draws: %s",
		humanize.Comma(int64(s.Participants)), s.Settings.MinSpinDuration, rate,
		s.RowsPerSec, humanize.Comma(int64(s.Draws)))

	content := status + StyleStatusBar.Foreground(ColorGreen).Render(info)

	gap := width - 2 - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}

	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
