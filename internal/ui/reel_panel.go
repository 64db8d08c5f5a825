package ui

import "strings"

// RenderReelPanel wraps the reel, its legend, and the winner banner with a
// styled border. The reel itself is rendered by the reel package.
func RenderReelPanel(width, height int, reelContent, legend, banner string) string {
	parts := []string{reelContent, legend}
	if banner != "" {
		parts = append(parts, "", banner)
	}
	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(strings.Join(parts, "\n"))
}

// RenderTicketInput renders the target ticket prompt shown under the reel
// while the user is typing.
func RenderTicketInput(input string) string {
	return StyleLabel.Render(" Ticket: ") + StyleInput.Render(input+"_") +
		StyleHelp.Render("  [ENTER] spin  [ESC] cancel")
}
