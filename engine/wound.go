package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/pilgrim/engine/injury"
	"github.com/nathoo/pilgrim/types"
)

// findInjuryDef looks up an injury definition by name, ignoring case.
func (e *Engine) findInjuryDef(name string) (types.InjuryDef, bool) {
	for key, def := range e.Defs.Injuries {
		if strings.EqualFold(key, name) {
			return def, true
		}
	}
	return types.InjuryDef{}, false
}

func hasInjury(injuries []types.Injury, injuryType string) bool {
	for _, inj := range injuries {
		if inj.Type == injuryType {
			return true
		}
	}
	return false
}

// materializeInjuries converts delta condition tags that name a defined
// injury into real injuries, rolled at a random severity in the def's range.
// The remaining tags stay condition additions for the ledger. An injury type
// already carried is not stacked.
func (e *Engine) materializeInjuries(s *types.GameState, delta *types.OutcomeDelta, output *[]string) {
	if len(delta.ConditionsAdd) == 0 {
		return
	}
	kept := delta.ConditionsAdd[:0]
	for _, tag := range delta.ConditionsAdd {
		def, ok := e.findInjuryDef(tag)
		if !ok {
			kept = append(kept, tag)
			continue
		}
		if hasInjury(s.Injuries, def.Type) {
			continue
		}
		inj := injury.NewRandom(def, e.RNG)
		s.Injuries = append(s.Injuries, inj)
		*output = append(*output, fmt.Sprintf("You have suffered a %s (%s).",
			strings.ToLower(inj.Type), strings.ToLower(injury.SeverityName(inj.Severity))))
	}
	delta.ConditionsAdd = kept
}

// rollHuntInjury draws a random injury for a hunt gone wrong. The infection
// escalation target is never drawn directly; it only arises from neglect.
func (e *Engine) rollHuntInjury() (types.Injury, bool) {
	names := make([]string, 0, len(e.Defs.Injuries))
	for name := range e.Defs.Injuries {
		if e.Defs.Injuries[name].Type == injury.InfectedWoundType {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return types.Injury{}, false
	}
	sort.Strings(names) // deterministic draw order under a fixed seed
	def := e.Defs.Injuries[names[e.RNG.Roll(len(names))-1]]
	return injury.NewRandom(def, e.RNG), true
}
