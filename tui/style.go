package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusDanger = lipgloss.NewStyle().
				Background(lipgloss.Color("236")).
				Foreground(lipgloss.Color("196")).
				Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHappening = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleGameOver = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleOption = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindHappening
	kindDialogue
	kindSystem
	kindError
	kindGameOver
	kindOption
)

// rejectionPrefixes mark the engine's refusal messages.
var rejectionPrefixes = []string{
	"Too exhausted",
	"Not enough",
	"No ammunition",
	"No spare parts",
	"There is no",
	"There is nowhere",
	"There is nobody",
	"Nobody here",
	"You are not carrying",
	"You know no way",
	"Break camp",
	"Leave the city",
	"The merchant is still waiting",
}

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "• "):
		return kindHappening
	case strings.HasPrefix(line, "  ") && len(line) > 5 && line[2] >= '1' && line[2] <= '4' && line[3] == '.':
		return kindOption
	case strings.Contains(line, "The journey is over") ||
		strings.Contains(line, "journey ends here") ||
		strings.Contains(line, "You have arrived"):
		return kindGameOver
	case containsQuotedSpeech(line):
		return kindDialogue
	default:
		for _, p := range rejectionPrefixes {
			if strings.HasPrefix(line, p) {
				return kindError
			}
		}
		return kindNarrative
	}
}

// containsQuotedSpeech checks if a line carries spoken dialogue.
func containsQuotedSpeech(line string) bool {
	inQuote := false
	quoteLen := 0
	for _, r := range line {
		if r == '"' {
			if inQuote && quoteLen > 5 {
				return true
			}
			inQuote = !inQuote
			quoteLen = 0
		} else if inQuote {
			quoteLen++
		}
	}
	return false
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
