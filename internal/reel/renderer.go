package reel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"raffle-spinner.klederson.com/internal/participant"
	"raffle-spinner.klederson.com/internal/spin"
)

var (
	colorBright = lipgloss.Color("#00FF41")
	colorMid    = lipgloss.Color("#008F11")
	colorDim    = lipgloss.Color("#004A0A")
	colorGold   = lipgloss.Color("#FFD700")

	styleRow     = lipgloss.NewStyle().Foreground(colorMid)
	styleEdgeRow = lipgloss.NewStyle().Foreground(colorDim)
	styleCenter  = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleWinner  = lipgloss.NewStyle().Foreground(colorGold).Bold(true)
	stylePointer = lipgloss.NewStyle().Foreground(colorGold).Bold(true)
	styleTicket  = lipgloss.NewStyle().Foreground(colorDim)
	styleLegend  = lipgloss.NewStyle().Foreground(colorMid)
)

// blurRunes go from light to heavy smear.
var blurRunes = []rune{'·', '-', '=', '≡'}

const ticketWidth = 8

// Render draws the visible reel rows as a styled block of width columns.
// The center row carries the pointer; while the reel moves faster than
// BlurSpeed names are smeared. landed highlights the center row as the
// winner.
func Render(width int, v View, speed *Speed, landed bool) string {
	if width < 16 {
		return ""
	}
	rows := v.Snapped()
	if len(rows) == 0 {
		return styleLegend.Render(center("no participants loaded", width))
	}

	intensity := 0.0
	if speed != nil && !landed {
		intensity = speed.Intensity()
	}

	lines := make([]string, len(rows))
	for i, p := range rows {
		lines[i] = renderRow(p, i, i == 0 || i == len(rows)-1, width, intensity, landed)
	}
	return strings.Join(lines, "\n")
}

func renderRow(p participant.Participant, i int, edge bool, width int, intensity float64, landed bool) string {
	isCenter := i == spin.CenterIndex
	nameWidth := width - ticketWidth - 5

	name := truncate(p.DisplayName(), nameWidth)
	if intensity > 0 {
		name = smear(name, intensity)
	}
	body := fmt.Sprintf("%-*s %*s", nameWidth, name, ticketWidth, truncate(p.TicketNumber, ticketWidth))

	if !isCenter {
		style := styleRow
		if edge {
			style = styleEdgeRow
		}
		return "  " + style.Render(body) + "  "
	}

	style := styleCenter
	if landed {
		style = styleWinner
	}
	return stylePointer.Render("▶ ") + style.Render(body) + stylePointer.Render(" ◀")
}

// smear replaces a share of the name's letters with blur runes. It is
// deterministic in its input so frames do not flicker between redraws at
// the same position.
func smear(s string, intensity float64) string {
	glyph := blurRunes[min(len(blurRunes)-1, int(intensity*float64(len(blurRunes))))]
	keepEvery := 1 + int((1-intensity)*3)
	out := []rune(s)
	for i, r := range out {
		if r == ' ' {
			continue
		}
		if intensity >= 1 || i%keepEvery != 0 {
			out[i] = glyph
		}
	}
	return string(out)
}

// RenderLegend produces the caption line under the reel.
func RenderLegend(width int, rendered, total int, swapped bool) string {
	legend := fmt.Sprintf("%d of %d on reel", rendered, total)
	if swapped {
		legend += "  ·  winner window"
	}
	return styleLegend.Render(center(legend, width))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
