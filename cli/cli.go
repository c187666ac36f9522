// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the Pilgrim journey engine.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nathoo/pilgrim/engine"
	"github.com/nathoo/pilgrim/engine/parser"
	"github.com/nathoo/pilgrim/engine/save"
	"github.com/nathoo/pilgrim/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	home, _ := os.UserHomeDir()
	saveDir := filepath.Join(home, ".pilgrim", "saves")
	return &CLI{
		Engine:  eng,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: saveDir,
	}
}

// Run starts the game loop. It shows the intro and the opening status, then
// loops: prompt → input → dispatch → output.
func (c *CLI) Run() {
	ctx := context.Background()

	if intro := c.Engine.Defs.Game.Intro; intro != "" {
		c.printLine(strings.TrimSpace(intro))
		c.printLine("")
	}
	c.printStatus()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		action := parser.Parse(input)
		if action.Kind == "" {
			c.printLine("The road offers no way to do that. Type /help for commands.")
			continue
		}

		// A bare hunt lists what is stirring before committing a shot.
		if action.Kind == types.ActionHunt && action.Target == "" {
			c.offerHunt()
			continue
		}

		result := c.Engine.Resolve(ctx, action)
		c.printResult(result)

		if c.Engine.EncounterPending() {
			c.runEncounter(ctx, scanner)
		}
		if c.Engine.GameOver() {
			c.printStatus()
			return
		}
		if action.Kind == types.ActionTravel && !result.Rejected {
			c.printStatus()
		}
	}
}

// offerHunt lists the animals currently on offer.
func (c *CLI) offerHunt() {
	offers, err := c.Engine.HuntOffers()
	if err != nil {
		c.printLine(err.Error())
		return
	}
	c.printLine("Tracks in the undergrowth. You could go after:")
	for _, a := range offers {
		c.printLine(fmt.Sprintf("  %s (yields %d-%d food)", a.Name, a.FoodYieldMin, a.FoodYieldMax))
	}
	c.printLine("Type `hunt <animal>` to take the shot.")
}

// runEncounter drives a roadside encounter to its close: present the NPC,
// read a numbered choice, resolve it.
func (c *CLI) runEncounter(ctx context.Context, scanner *bufio.Scanner) {
	npc, opts, err := c.Engine.StartEncounter(ctx)
	if err != nil {
		c.printSystem(fmt.Sprintf("The stranger moves on: %v", err))
		return
	}

	c.printLine("")
	c.printLine(npc.Name)
	if npc.Description != "" {
		c.printLine(npc.Description)
	}
	if npc.Dialogue != "" {
		c.printLine(fmt.Sprintf("%q", npc.Dialogue))
	}
	for i, opt := range opts {
		c.printLine(fmt.Sprintf("  %d. %s", i+1, opt.Text))
	}

	for {
		c.print("choose 1-4 > ")
		if !scanner.Scan() {
			c.Engine.DismissEncounter()
			return
		}
		input := strings.TrimSpace(scanner.Text())
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(opts) {
			c.printLine("Pick a number from the list.")
			continue
		}

		custom := ""
		if opts[n-1].Kind == types.OptionCustom {
			c.print("what do you do? > ")
			if !scanner.Scan() {
				c.Engine.DismissEncounter()
				return
			}
			custom = strings.TrimSpace(scanner.Text())
		}

		result := c.Engine.ChooseEncounterOption(ctx, n-1, custom)
		c.printResult(result)
		if result.Rejected {
			continue
		}
		return
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/party":
		c.cmdParty()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	s := c.Engine.State()
	data, err := save.Save(&s, c.Engine.Player, c.Engine.Defs, c.Engine.RNG.Seed(), c.Engine.RNG.Position())
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Journey saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	c.Engine = engine.Restore(c.Engine.Defs, &sd.Player, &sd.State,
		sd.RNGSeed, sd.RNGPosition, c.Engine.Narrator)
	c.printSystem(fmt.Sprintf("Journey loaded from %s (day %d).", name, sd.State.Day))
	c.printStatus()
}

func (c *CLI) cmdHelp() {
	help := []string{
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
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Engine.State()
	c.printSystem(fmt.Sprintf("Day %d (%d-%02d-%02d), %s, phase %s",
		s.Day, s.Year, s.Month, s.DayOfMonth, s.Season, s.Phase))
	c.printSystem(fmt.Sprintf("Traveled %d, %d to Rome, at %q, weather %s over %s",
		s.DistanceTraveled, s.DistanceToRome, s.CurrentLocation, s.Weather, s.Terrain))
	c.printSystem(fmt.Sprintf("Health %d, stamina %d, food %d, %d ducats",
		s.Health, s.Stamina, s.Food, s.Money))
	c.printSystem(fmt.Sprintf("Ammunition %d, spare parts %d, oxen %d",
		s.Ammunition, s.SpareParts, s.Oxen))
	if len(s.Conditions) > 0 {
		c.printSystem(fmt.Sprintf("Conditions: %v", s.Conditions))
	}
	if len(s.Injuries) > 0 {
		for _, inj := range s.Injuries {
			c.printSystem(fmt.Sprintf("Injury: %s (day %d of %d)",
				inj.Type, inj.DaysAfflicted, inj.RecoveryTime))
		}
	}
	if len(s.Inventory) > 0 {
		c.printSystem(fmt.Sprintf("Inventory: %v", s.Inventory))
	}
}

func (c *CLI) cmdParty() {
	s := c.Engine.State()
	if len(s.Party) == 0 {
		c.printSystem("You travel alone.")
		return
	}
	for _, m := range s.Party {
		line := fmt.Sprintf("%s (%s) — health %d, relationship %d, trust %d, %s",
			m.Name, m.Role, m.Health, m.Relationship, m.Trust, m.Mood)
		if len(m.Conditions) > 0 {
			line += fmt.Sprintf(" %v", m.Conditions)
		}
		c.printSystem(line)
	}
}

// printStatus shows the one-line journey summary after each travel week.
func (c *CLI) printStatus() {
	s := c.Engine.State()
	where := s.CurrentLocation
	if where == "" {
		where = "on the road"
	}
	c.printLine(fmt.Sprintf("[day %d | %s | %d to Rome | health %d | stamina %d | food %d | %d ducats]",
		s.Day, where, s.DistanceToRome, s.Health, s.Stamina, s.Food, s.Money))
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
