// Package parser converts command strings into Action structs.
// Intentionally dumb: no NLP, just pattern matching with a small
// edit-distance net for typos.
package parser

import (
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/nathoo/pilgrim/types"
)

var verbKinds = map[string]types.ActionKind{
	"travel":   types.ActionTravel,
	"go":       types.ActionTravel,
	"ride":     types.ActionTravel,
	"walk":     types.ActionTravel,
	"continue": types.ActionTravel,
	"onward":   types.ActionTravel,

	"rest":  types.ActionRest,
	"sleep": types.ActionRest,
	"nap":   types.ActionRest,

	"feed": types.ActionFeedParty,
	"eat":  types.ActionFeedParty,

	"camp": types.ActionMakeCamp,

	"repair": types.ActionRepair,
	"fix":    types.ActionRepair,
	"mend":   types.ActionRepair,

	"hunt":  types.ActionHunt,
	"shoot": types.ActionHunt,

	"forage":   types.ActionForage,
	"gather":   types.ActionForage,
	"scavenge": types.ActionForage,

	"craft": types.ActionCraft,
	"make":  types.ActionCraft,

	"use":   types.ActionUseItem,
	"apply": types.ActionUseItem,
	"drink": types.ActionUseItem,

	"talk":  types.ActionTalk,
	"chat":  types.ActionTalk,
	"speak": types.ActionTalk,

	"converse": types.ActionConverse,
	"confide":  types.ActionConverse,

	"buy":      types.ActionBuy,
	"purchase": types.ActionBuy,

	"sell":  types.ActionSell,
	"trade": types.ActionSell,

	"rations": types.ActionSetRations,
	"ration":  types.ActionSetRations,

	"focus": types.ActionSetFocus,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true, "some": true, "my": true,
}

var prepositions = map[string]bool{
	"on": true, "at": true, "to": true, "with": true, "of": true, "for": true,
}

// Parse converts a raw command string into an Action. An unrecognized
// input yields the zero Action (empty Kind).
func Parse(input string) types.Action {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Action{}
	}

	words := strings.Fields(strings.ToLower(input))
	words = expandMultiWordVerbs(words)

	kind, ok := verbKinds[words[0]]
	if !ok {
		kind, ok = fuzzyVerb(words[0])
	}
	if !ok {
		return types.Action{}
	}

	rest := stripNoise(words[1:])

	// A leading quantity applies to buy/sell: "buy 3 bread".
	amount := 0
	if len(rest) > 0 {
		if n, err := strconv.Atoi(rest[0]); err == nil {
			amount = n
			rest = rest[1:]
		}
	}

	return types.Action{
		Kind:   kind,
		Target: strings.Join(rest, " "),
		Amount: amount,
	}
}

// expandMultiWordVerbs handles "break camp", "set rations", "talk to" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "make", "pitch":
		if words[1] == "camp" {
			return append([]string{"camp"}, words[2:]...)
		}
	case "break", "strike":
		if words[1] == "camp" {
			return []string{"breakcamp"}
		}
	case "leave", "depart", "exit":
		if words[1] == "city" || words[1] == "town" {
			return []string{"leavecity"}
		}
	case "set":
		if words[1] == "rations" || words[1] == "focus" {
			return words[1:]
		}
	case "talk", "speak", "chat":
		if words[1] == "to" || words[1] == "with" {
			return append([]string{"talk"}, words[2:]...)
		}
	case "feed":
		if words[1] == "party" || words[1] == "everyone" {
			return []string{"feed"}
		}
	}

	return words
}

// Multi-word expansions above produce these internal verbs.
var internalVerbs = map[string]types.ActionKind{
	"breakcamp": types.ActionBreakCamp,
	"leavecity": types.ActionLeaveCity,
}

// fuzzyVerb matches a misspelled verb against the known set. Tolerance
// scales with length so short verbs stay strict.
func fuzzyVerb(word string) (types.ActionKind, bool) {
	if kind, ok := internalVerbs[word]; ok {
		return kind, true
	}

	// Deterministic iteration so ties resolve the same way every run.
	verbs := make([]string, 0, len(verbKinds))
	for v := range verbKinds {
		verbs = append(verbs, v)
	}
	sort.Strings(verbs)

	best := ""
	bestDist := len(word) // sentinel beyond any acceptable distance
	for _, v := range verbs {
		tolerance := len(v) / 3
		if tolerance == 0 {
			continue
		}
		d := levenshtein.ComputeDistance(word, v)
		if d <= tolerance && d < bestDist {
			best, bestDist = v, d
		}
	}
	if best == "" {
		return "", false
	}
	return verbKinds[best], true
}

// stripNoise removes articles and prepositions so "use the bandage on
// ankle" leaves "bandage ankle".
func stripNoise(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if articles[w] || prepositions[w] {
			continue
		}
		result = append(result, w)
	}
	return result
}
