package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"raffle-spinner.klederson.com/internal/history"
)

// RenderDrawDetail renders the detail overlay for one recorded draw. It
// replaces the reel area.
func RenderDrawDetail(d history.Draw, width, height int, now time.Time) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	title := StylePanelTitle.Render("DRAW DETAIL")
	escHint := StyleHelp.Render("[ESC]")
	titleLine := title + strings.Repeat(" ", max(0, innerW-lipgloss.Width(title)-lipgloss.Width(escHint))) + escHint

	sep := StyleSeparator.Render(strings.Repeat("-", innerW))

	lines := []string{titleLine, sep, ""}

	name := d.Name()
	if name == "" {
		name = "[no name]"
	}
	window := "initial"
	if d.Swapped {
		window = "swapped to winner window"
	}

	fields := []struct{ label, value string }{
		{"Winner", name},
		{"Ticket", d.TicketNumber},
		{"Entries", humanize.Comma(int64(d.Participants))},
		{"Reel", window},
		{"Drawn", d.DrawnAt.Local().Format("2006-01-02 15:04:05")},
		{"Age", humanize.RelTime(d.DrawnAt, now, "ago", "from now")},
		{"Draw ID", d.ID.String()},
	}
	for _, f := range fields {
		lines = append(lines, StyleLabel.Render(fmt.Sprintf("  %-10s", f.label))+StyleValue.Render(f.value))
	}

	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	return StylePanelActive.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}
