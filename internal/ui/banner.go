package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"raffle-spinner.klederson.com/internal/config"
	"raffle-spinner.klederson.com/internal/participant"
)

// Banner unfolds the winner announcement row by row, driven by a spring
// from 0 to config.BannerRows.
type Banner struct {
	spring  harmonica.Spring
	pos     float64
	vel     float64
	target  float64
	settled bool
	winner  participant.Participant
	shown   bool
}

// NewBanner creates a hidden banner.
func NewBanner() *Banner {
	return &Banner{
		spring: harmonica.NewSpring(harmonica.FPS(config.TargetFPS), config.BannerFrequency, config.BannerDamping),
		target: config.BannerRows,
	}
}

// Show starts the unfold for a new winner.
func (b *Banner) Show(p participant.Participant) {
	b.winner = p
	b.shown = true
	b.pos, b.vel = 0, 0
	b.settled = false
}

// Hide removes the banner.
func (b *Banner) Hide() {
	b.shown = false
	b.pos, b.vel = 0, 0
	b.settled = true
}

// Tick advances the spring by one frame. Returns true while still animating.
func (b *Banner) Tick() bool {
	if !b.shown || b.settled {
		return false
	}
	b.pos, b.vel = b.spring.Update(b.pos, b.vel, b.target)
	if math.Abs(b.pos-b.target) < 0.01 && math.Abs(b.vel) < 0.01 {
		b.pos = b.target
		b.vel = 0
		b.settled = true
	}
	return !b.settled
}

// Visible returns how many banner rows are unfolded.
func (b *Banner) Visible() int {
	if !b.shown {
		return 0
	}
	n := int(math.Round(b.pos))
	if n < 0 {
		return 0
	}
	if n > config.BannerRows {
		return config.BannerRows
	}
	return n
}

// Render draws the unfolded rows centered in width.
func (b *Banner) Render(width int) string {
	n := b.Visible()
	if n == 0 {
		return ""
	}
	rows := []string{
		"★  WINNER  ★",
		b.winner.DisplayName(),
		"ticket " + b.winner.TicketNumber,
	}[:n]

	inner := 0
	for _, r := range rows {
		inner = max(inner, lipgloss.Width(r))
	}
	inner += 4

	out := make([]string, len(rows))
	for i, r := range rows {
		padL := (inner - lipgloss.Width(r)) / 2
		line := strings.Repeat(" ", padL) + r + strings.Repeat(" ", inner-padL-lipgloss.Width(r))
		out[i] = centerIn(StyleBanner.Render(line), width)
	}
	return strings.Join(out, "\n")
}

func centerIn(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
