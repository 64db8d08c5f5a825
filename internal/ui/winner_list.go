package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"raffle-spinner.klederson.com/internal/history"
)

// RenderWinnerList renders the scrollable recent-winners panel, newest
// first, with a cursor row.
func RenderWinnerList(draws []history.Draw, width, height, cursorIndex int, now time.Time) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}

	title := StylePanelTitle.Render(fmt.Sprintf("WINNERS [%d]", len(draws)))
	separator := StyleSeparator.Render(strings.Repeat("-", innerW))
	headerLines := []string{title, separator}
	headerCount := len(headerLines)

	innerH := height - 2
	if innerH < headerCount+1 {
		innerH = headerCount + 1
	}
	space := innerH - headerCount

	var lines []string
	if len(draws) == 0 {
		lines = append(lines, "")
		lines = append(lines, StyleHelp.Render(" No winners yet..."))
		lines = append(lines, StyleHelp.Render(" Press SPACE to draw"))
	} else {
		linesPerEntry := 3 // 2 content + 1 blank
		maxVisible := space / linesPerEntry
		if maxVisible < 1 {
			maxVisible = 1
		}

		// Viewport start keeps the cursor visible.
		viewStart := 0
		if cursorIndex >= maxVisible {
			viewStart = cursorIndex - maxVisible + 1
		}
		for i := viewStart; i < len(draws) && len(lines) < space; i++ {
			lines = append(lines, renderWinnerEntry(draws[i], innerW, i == cursorIndex, now)...)
		}
	}

	if len(lines) > space {
		lines = lines[:space]
	}
	for len(lines) < space {
		lines = append(lines, "")
	}

	all := append(headerLines, lines...)
	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(strings.Join(all, "\n"))

	// lipgloss Height() only sets a minimum; clamp to exactly height lines.
	out := strings.Split(rendered, "\n")
	if len(out) > height {
		out = out[:height]
	}
	for len(out) < height {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

func renderWinnerEntry(d history.Draw, maxW int, isCursor bool, now time.Time) []string {
	name := d.Name()
	if name == "" {
		name = "[no name]"
	}
	ticket := "#" + d.TicketNumber
	age := humanize.RelTime(d.DrawnAt, now, "ago", "from now")

	cursor := "  "
	if isCursor {
		cursor = ">>"
	}

	raw1 := truncRaw(fmt.Sprintf("%s %s  %s", cursor, ticket, name), maxW)
	raw2 := truncRaw(fmt.Sprintf("     %s of %s", age, humanize.Comma(int64(d.Participants))), maxW)

	if isCursor {
		return []string{cursorRowSty.Render(raw1), cursorRowSty.Render(raw2), ""}
	}
	nameW := maxW - len(ticket) - 5
	line1 := "   " + StyleWinnerTicket.Render(ticket) + "  " + StyleWinnerName.Render(truncRaw(name, nameW))
	line2 := StyleWinnerAge.Render(raw2)
	return []string{line1, line2, ""}
}

// truncRaw pads or truncates a raw string to exactly w runes.
func truncRaw(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > w {
		return string(r[:w])
	}
	return s + strings.Repeat(" ", w-len(r))
}
