// Package tui provides a Bubble Tea terminal UI for the Pilgrim journey
// engine.
package tui

// History keeps recent commands for up/down recall. Navigation is measured
// in steps back from the newest entry, so fresh input is simply zero steps.
type History struct {
	entries []string
	max     int
	back    int // steps back from the newest entry; 0 = not navigating
}

// NewHistory creates a history buffer holding at most max entries.
func NewHistory(max int) *History {
	return &History{max: max}
}

// Push records a command. A repeat of the newest entry is dropped, and the
// oldest entries fall off once the buffer is full.
func (h *History) Push(cmd string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if overflow := len(h.entries) - h.max; overflow > 0 {
		h.entries = h.entries[overflow:]
	}
}

// Prev steps one entry older and returns it. It sticks at the oldest entry
// and reports false only when the history is empty.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.back < len(h.entries) {
		h.back++
	}
	return h.entries[len(h.entries)-h.back], true
}

// Next steps one entry newer. Stepping past the newest entry returns false
// and leaves navigation, handing the input line back to the player.
func (h *History) Next() (string, bool) {
	if h.back <= 1 {
		h.back = 0
		return "", false
	}
	h.back--
	return h.entries[len(h.entries)-h.back], true
}

// ResetCursor leaves navigation mode.
func (h *History) ResetCursor() {
	h.back = 0
}
