package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// day, position, vital stats, and purse.
func (m Model) renderStatusBar() string {
	s := m.engine.State()

	where := s.CurrentLocation
	if where == "" {
		where = "on the road"
	}

	left := fmt.Sprintf(" Day %d | %s | %s | %d leagues to Rome",
		s.Day, s.Season, where, s.DistanceToRome)
	right := fmt.Sprintf("HP %d | ST %d | Food %d | %d ducats ",
		s.Health, s.Stamina, s.Food, s.Money)

	if len(s.Conditions) > 0 {
		tags := make([]string, len(s.Conditions))
		for i, c := range s.Conditions {
			tags[i] = string(c)
		}
		candidate := fmt.Sprintf("%s | %s", strings.Join(tags, ","), right)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	style := styleStatusBar
	if s.Health <= 25 || s.Food <= 2 {
		style = styleStatusDanger
	}
	return style.Width(m.width).Render(bar)
}
