// Pilgrim is a narrative survival journey across Early-Modern Europe.
// Usage: pilgrim [--version] [--plain] [--script <file>] [--seed <n>]
//
//	[--name <name>] [--profession <p>] [--route <r>] [<content_directory>]
//
// With no content directory the builtin content compiled into the binary is
// used. Set GEMINI_API_KEY for generated narrative; without it the journey
// runs on the deterministic offline narrator.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/nathoo/pilgrim/cli"
	"github.com/nathoo/pilgrim/config"
	"github.com/nathoo/pilgrim/engine"
	"github.com/nathoo/pilgrim/engine/state"
	"github.com/nathoo/pilgrim/loader"
	"github.com/nathoo/pilgrim/narrative"
	"github.com/nathoo/pilgrim/tui"
	"github.com/nathoo/pilgrim/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	var contentDir string
	var scriptFile string
	var seed int64
	name := "Johann"
	profession := "Merchant"
	routeName := ""

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("pilgrim %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--seed requires a number\n")
				os.Exit(1)
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed: %v\n", err)
				os.Exit(1)
			}
			seed = n
		case "--name":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--name requires a value\n")
				os.Exit(1)
			}
			i++
			name = args[i]
		case "--profession":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--profession requires a value\n")
				os.Exit(1)
			}
			i++
			profession = args[i]
		case "--route":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--route requires a value\n")
				os.Exit(1)
			}
			i++
			routeName = args[i]
		default:
			if contentDir == "" {
				contentDir = args[i]
			}
		}
	}

	cfg := config.Load()
	if contentDir == "" {
		contentDir = cfg.ContentDir
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Load and compile Lua content, or fall back to the embedded set.
	var defs *state.Defs
	var err error
	if contentDir != "" {
		defs, err = loader.Load(contentDir)
	} else {
		defs, err = loader.Builtin()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading content: %v\n", err)
		os.Exit(1)
	}

	player, err := buildPlayer(defs, name, profession, routeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// An API key switches on the external narrative generator; the engine
	// still falls back to the offline narrator on any failure.
	var narrator narrative.Narrator
	if cfg.Online() {
		narrator, err = narrative.NewGemini(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Narrative generator unavailable, playing offline: %v\n", err)
			narrator = nil
		}
	}

	eng := engine.New(defs, player, seed, narrator)
	eng.SetParty(startingParty())

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		fmt.Printf("%s v%s\n\n", defs.Game.Title, defs.Game.Version)
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		fmt.Printf("%s v%s\n\n", defs.Game.Title, defs.Game.Version)
		c := cli.New(eng)
		c.Run()
		return
	}

	if err := tui.Run(eng); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildPlayer assembles the player profile from the chosen profession and
// route. An empty route name picks the first route alphabetically.
func buildPlayer(defs *state.Defs, name, profession, routeName string) (*types.Player, error) {
	prof, ok := defs.Professions[profession]
	if !ok {
		var known []string
		for p := range defs.Professions {
			known = append(known, p)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("unknown profession %q (have: %v)", profession, known)
	}

	if routeName == "" {
		var names []string
		for r := range defs.Routes {
			names = append(names, r)
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("content defines no routes")
		}
		sort.Strings(names)
		routeName = names[0]
	}
	route, ok := defs.Routes[routeName]
	if !ok {
		return nil, fmt.Errorf("unknown route %q", routeName)
	}

	return &types.Player{
		Name:           name,
		Profession:     prof.Name,
		Origin:         route.Origin,
		Route:          route.Checkpoints,
		Motivation:     "a vow to reach Rome",
		Languages:      []string{"German", "Latin"},
		Transportation: types.TransportWagon,
		HasWagon:       true,
		Skills:         prof.Skills,
	}, nil
}

// startingParty is the default household setting out together.
func startingParty() []types.PartyMember {
	return []types.PartyMember{
		{
			Name: "Greta", Role: types.RoleSpouse, Age: 34,
			Health: 100, Relationship: 70, Trust: 60,
			Mood: types.MoodContent, Trait: types.TraitResourceful,
		},
		{
			Name: "Hans", Role: types.RoleGuard, Age: 41,
			Health: 100, Relationship: 45, Trust: 50,
			Mood: types.MoodNeutral, Trait: types.TraitStoic,
		},
		{
			Name: "Liesel", Role: types.RoleChild, Age: 9,
			Health: 100, Relationship: 80, Trust: 75,
			Mood: types.MoodHappy, Trait: types.TraitCheerful,
		},
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
