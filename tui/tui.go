package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/pilgrim/engine"
	"github.com/nathoo/pilgrim/engine/parser"
	"github.com/nathoo/pilgrim/engine/save"
	"github.com/nathoo/pilgrim/types"
)

// inputMode selects how the input line is interpreted.
type inputMode int

const (
	modeJourney    inputMode = iota // free commands
	modeEncounter                   // a numbered choice 1-4
	modeCustomText                  // free text for the custom response
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the Pilgrim TUI.
type Model struct {
	engine *engine.Engine

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	mode          inputMode
	encounterOpts []types.NPCOption
	pendingCustom int // option index awaiting free text
	width         int
	height        int
	ready         bool
	quitting      bool
	lastCmd       string
	saveDir       string
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	home, _ := os.UserHomeDir()
	return Model{
		engine:  eng,
		input:   ti,
		history: NewHistory(100),
		saveDir: filepath.Join(home, ".pilgrim", "saves"),
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine) error {
	m := New(eng)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the intro text.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		defs := m.engine.Defs
		var lines []string

		lines = append(lines, defs.Game.Title+" v"+defs.Game.Version)
		lines = append(lines, "")
		if defs.Game.Intro != "" {
			lines = append(lines, strings.TrimSpace(defs.Game.Intro))
			lines = append(lines, "")
		}
		lines = append(lines, "Type /help for commands. The road waits.")

		return gameOutputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line according to the mode.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	switch m.mode {
	case modeEncounter:
		return m.handleEncounterChoice(input)
	case modeCustomText:
		return m.handleCustomText(input)
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	action := parser.Parse(input)
	if action.Kind == "" {
		m = m.appendOutput(gameOutputMsg{
			input: input,
			lines: []string{"The road offers no way to do that. Type /help for commands."},
		})
		return m, nil
	}

	if action.Kind == types.ActionHunt && action.Target == "" {
		m = m.appendOutput(gameOutputMsg{input: input, lines: m.huntOffers()})
		return m, nil
	}

	result := m.engine.Resolve(context.Background(), action)
	m = m.appendOutput(gameOutputMsg{input: input, lines: result.Output})

	if m.engine.EncounterPending() {
		m = m.openEncounter()
	}
	return m, nil
}

// huntOffers lists the animals currently on offer.
func (m Model) huntOffers() []string {
	offers, err := m.engine.HuntOffers()
	if err != nil {
		return []string{err.Error()}
	}
	lines := []string{"Tracks in the undergrowth. You could go after:"}
	for _, a := range offers {
		lines = append(lines, fmt.Sprintf("  %s (yields %d-%d food)", a.Name, a.FoodYieldMin, a.FoodYieldMax))
	}
	lines = append(lines, "Type `hunt <animal>` to take the shot.")
	return lines
}

// openEncounter starts the pending roadside encounter and switches the input
// line to numbered-choice mode.
func (m Model) openEncounter() Model {
	npc, opts, err := m.engine.StartEncounter(context.Background())
	if err != nil {
		return m.appendOutput(gameOutputMsg{
			lines: []string{fmt.Sprintf("The stranger moves on: %v", err)}, isSystem: true,
		})
	}

	lines := []string{"", npc.Name}
	if npc.Description != "" {
		lines = append(lines, npc.Description)
	}
	if npc.Dialogue != "" {
		lines = append(lines, fmt.Sprintf("%q", npc.Dialogue))
	}
	for i, opt := range opts {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, opt.Text))
	}

	m.mode = modeEncounter
	m.encounterOpts = opts
	m.input.Prompt = "choose 1-4 > "
	return m.appendOutput(gameOutputMsg{lines: lines})
}

// handleEncounterChoice reads a numbered response to the active encounter.
func (m Model) handleEncounterChoice(input string) (tea.Model, tea.Cmd) {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(m.encounterOpts) {
		m = m.appendOutput(gameOutputMsg{
			input: input, lines: []string{"Pick a number from the list."},
		})
		return m, nil
	}

	if m.encounterOpts[n-1].Kind == types.OptionCustom {
		m.mode = modeCustomText
		m.pendingCustom = n - 1
		m.input.Prompt = "what do you do? > "
		return m, nil
	}

	return m.resolveEncounter(input, n-1, "")
}

// handleCustomText reads the free-text custom response.
func (m Model) handleCustomText(input string) (tea.Model, tea.Cmd) {
	return m.resolveEncounter(input, m.pendingCustom, input)
}

func (m Model) resolveEncounter(echo string, index int, custom string) (tea.Model, tea.Cmd) {
	result := m.engine.ChooseEncounterOption(context.Background(), index, custom)
	m = m.appendOutput(gameOutputMsg{input: echo, lines: result.Output})
	if result.Rejected {
		return m, nil
	}

	m.mode = modeJourney
	m.encounterOpts = nil
	m.input.Prompt = "> "
	return m, nil
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHappening:
		return styleHappening.Render(line)
	case kindDialogue:
		return styleDialogue.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindGameOver:
		return styleGameOver.Render(line)
	case kindOption:
		return styleOption.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Preserves existing newlines within the text.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/party":
		return m.cmdParty(), false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	s := m.engine.State()
	data, err := save.Save(&s, m.engine.Player, m.engine.Defs,
		m.engine.RNG.Seed(), m.engine.RNG.Position())
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	path := filepath.Join(m.saveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	return []string{fmt.Sprintf("Journey saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(m.saveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	sd, err := save.Load(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	m.engine = engine.Restore(m.engine.Defs, &sd.Player, &sd.State,
		sd.RNGSeed, sd.RNGPosition, m.engine.Narrator)
	return []string{fmt.Sprintf("Journey loaded from %s (day %d).", name, sd.State.Day)}
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /save [name]  — Save journey (default: quicksave)",
		"  /load [name]  — Load journey (default: quicksave)",
		"  /party        — Show the traveling party",
		"  /state        — Debug: dump current state",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"",
		"Journey commands:",
		"  travel / go             — Press on for a week",
		"  rest                    — Recover overnight",
		"  make camp / break camp  — Pitch or strike camp",
		"  leave city              — Take to the road again",
		"  hunt [animal]           — Hunt for food (costs ammunition)",
		"  forage                  — Search the land for food",
		"  craft <recipe>          — Make something from carried goods",
		"  use <item>              — Eat, drink, or apply an item",
		"  feed party              — Share out a proper meal",
		"  repair                  — Mend a broken wagon",
		"  talk to <name>          — Pass the time with a companion",
		"  converse <name>         — A longer, deeper conversation",
		"  buy/sell <n> <item>     — Trade in a city or with a merchant",
		"  set rations <level>     — meager, normal, or filling",
		"  set focus <style>       — normal, cautious, fast, forage, bond, vigilant",
		"  again (g)               — Repeat your last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

func (m *Model) cmdState() []string {
	s := m.engine.State()
	output := []string{
		fmt.Sprintf("Day %d (%d-%02d-%02d), %s, phase %s",
			s.Day, s.Year, s.Month, s.DayOfMonth, s.Season, s.Phase),
		fmt.Sprintf("Traveled %d, %d to Rome, weather %s over %s",
			s.DistanceTraveled, s.DistanceToRome, s.Weather, s.Terrain),
		fmt.Sprintf("Ammunition %d, spare parts %d, oxen %d",
			s.Ammunition, s.SpareParts, s.Oxen),
	}
	if len(s.Conditions) > 0 {
		output = append(output, fmt.Sprintf("Conditions: %v", s.Conditions))
	}
	for _, inj := range s.Injuries {
		output = append(output, fmt.Sprintf("Injury: %s (day %d of %d)",
			inj.Type, inj.DaysAfflicted, inj.RecoveryTime))
	}
	if len(s.Inventory) > 0 {
		output = append(output, fmt.Sprintf("Inventory: %v", s.Inventory))
	}
	return output
}

func (m *Model) cmdParty() []string {
	s := m.engine.State()
	if len(s.Party) == 0 {
		return []string{"You travel alone."}
	}
	var output []string
	for _, mem := range s.Party {
		line := fmt.Sprintf("%s (%s) — health %d, relationship %d, trust %d, %s",
			mem.Name, mem.Role, mem.Health, mem.Relationship, mem.Trust, mem.Mood)
		if len(mem.Conditions) > 0 {
			line += fmt.Sprintf(" %v", mem.Conditions)
		}
		output = append(output, line)
	}
	return output
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
