package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the reel panel and winner list horizontally,
// with menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, reelPanel, winnerList, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, reelPanel, winnerList)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}
