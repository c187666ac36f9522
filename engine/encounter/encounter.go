// Package encounter implements the short-lived state machine layered on top
// of travel resolution: an NPC with four fixed response options is presented,
// one response is chosen (skill checks decided locally), and the flow closes
// once the outcome is merged.
package encounter

import (
	"fmt"
	"strings"

	"github.com/nathoo/pilgrim/narrative"
	"github.com/nathoo/pilgrim/types"
)

// Rand is the subset of the engine RNG this package needs.
type Rand interface {
	// Range returns a random integer in [min, max].
	Range(min, max int) int
}

// Phase tracks the sub-flow: none → active → resolving → none.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseActive
	PhaseResolving
)

// Flow is the state of one encounter. The zero value is an idle flow.
type Flow struct {
	Phase   Phase
	NPC     types.NPC
	Options []types.NPCOption
}

// optionOrder is the required tag order of encounter responses.
var optionOrder = [4]types.NPCOptionKind{
	types.OptionFight,
	types.OptionMoney,
	types.OptionSkill,
	types.OptionCustom,
}

// Activate moves an idle flow to active with the given NPC and options.
// The options must be exactly the four kinds in their fixed order.
func (f *Flow) Activate(npc types.NPC, opts []types.NPCOption) error {
	if f.Phase != PhaseNone {
		return fmt.Errorf("encounter already in progress")
	}
	if len(opts) != len(optionOrder) {
		return fmt.Errorf("encounter needs %d options, got %d", len(optionOrder), len(opts))
	}
	for i, want := range optionOrder {
		if opts[i].Kind != want {
			return fmt.Errorf("option %d tagged %q, want %q", i, opts[i].Kind, want)
		}
	}
	f.Phase = PhaseActive
	f.NPC = npc
	f.Options = opts
	return nil
}

// Choice is a validated response, ready for resolution.
type Choice struct {
	Option     types.NPCOption
	CustomText string
}

// Choose selects a response by index and moves the flow to resolving.
// The custom option requires non-empty free text.
func (f *Flow) Choose(index int, customText string) (Choice, error) {
	if f.Phase != PhaseActive {
		return Choice{}, fmt.Errorf("no active encounter")
	}
	if index < 0 || index >= len(f.Options) {
		return Choice{}, fmt.Errorf("option %d out of range", index)
	}
	opt := f.Options[index]
	customText = strings.TrimSpace(customText)
	if opt.Kind == types.OptionCustom && customText == "" {
		return Choice{}, fmt.Errorf("a custom response needs words")
	}
	f.Phase = PhaseResolving
	return Choice{Option: opt, CustomText: customText}, nil
}

// Close discards the NPC and returns the flow to idle. It is safe to call in
// any phase: an encounter closes whether resolved normally or dismissed.
func (f *Flow) Close() {
	*f = Flow{}
}

// skillValue looks up a named skill on the player's fixed skill block.
func skillValue(skills types.Skills, name string) int {
	switch strings.ToLower(name) {
	case "combat":
		return skills.Combat
	case "diplomacy":
		return skills.Diplomacy
	case "survival":
		return skills.Survival
	case "medicine":
		return skills.Medicine
	case "stealth":
		return skills.Stealth
	case "knowledge":
		return skills.Knowledge
	default:
		return 0
	}
}

// SkillCheck decides a skill option locally: skill value plus a uniform
// jitter in [-10, +10] against the option's threshold. The result is passed
// into resolution as context, never decided by the generator.
func SkillCheck(skills types.Skills, opt types.NPCOption, rng Rand) narrative.SkillCheckResult {
	value := skillValue(skills, opt.Skill) + rng.Range(-10, 10)
	return narrative.SkillCheckResult{
		Skill:     opt.Skill,
		Value:     value,
		Threshold: opt.Threshold,
		Success:   value >= opt.Threshold,
	}
}
