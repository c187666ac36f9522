// Package narrative is the boundary to the external narrative generator.
// The engine hands it a structured context and receives a proposed
// OutcomeDelta (or an NPC encounter); on any failure the engine substitutes
// the deterministic fallback so the journey can always continue offline.
package narrative

import (
	"context"

	"github.com/nathoo/pilgrim/types"
)

// TravelContext describes the state snapshot sent with every request.
type TravelContext struct {
	State  types.GameState
	Player types.Player
	Action types.Action
}

// EncounterContext carries the chosen response to an active encounter.
type EncounterContext struct {
	State      types.GameState
	Player     types.Player
	NPC        types.NPC
	Option     types.NPCOption
	CustomText string // custom option only
	SkillCheck *SkillCheckResult
}

// SkillCheckResult is pre-computed locally; the generator narrates it but
// never decides it.
type SkillCheckResult struct {
	Skill     string
	Value     int
	Threshold int
	Success   bool
}

// Narrator produces proposed outcome deltas and encounter content.
// Implementations are opaque beyond this contract.
type Narrator interface {
	// ProposeOutcome returns the proposed changes for a travel action.
	ProposeOutcome(ctx context.Context, tc TravelContext) (types.OutcomeDelta, error)
	// GenerateEncounter returns an NPC and exactly four response options.
	GenerateEncounter(ctx context.Context, tc TravelContext) (types.NPC, []types.NPCOption, error)
	// ResolveEncounter returns the proposed changes for a chosen response.
	ResolveEncounter(ctx context.Context, ec EncounterContext) (types.OutcomeDelta, error)
}

// Fallback is the deterministic local narrator used when no external
// generator is configured or when one fails. Its outcomes are intentionally
// dull: a bounded distance gain, a small toll, and no surprises.
type Fallback struct{}

// FallbackDistance is the base distance proposed for an uneventful week.
const FallbackDistance = 25

// ProposeOutcome returns a neutral travel outcome: bounded distance, a small
// flat health cost, zero food change (travel food is a local rule).
func (Fallback) ProposeOutcome(_ context.Context, tc TravelContext) (types.OutcomeDelta, error) {
	if tc.Action.Kind == types.ActionTravel {
		return types.OutcomeDelta{
			Description:    "The road unwinds without incident. Mile after mile of mud and hedgerow.",
			DistanceChange: FallbackDistance,
			HealthChange:   -1,
		}, nil
	}
	return types.OutcomeDelta{
		Description: "Nothing of note happens.",
	}, nil
}

// GenerateEncounter returns a stock wayfarer with the four fixed options.
func (Fallback) GenerateEncounter(context.Context, TravelContext) (types.NPC, []types.NPCOption, error) {
	npc := types.NPC{
		Name:        "A weathered wayfarer",
		Type:        "traveler",
		Description: "A stranger in a patched cloak, resting by the roadside.",
		Mood:        "wary",
		Dialogue:    "Hold, friend. The road ahead is not kind to those who walk it alone.",
	}
	opts := []types.NPCOption{
		{Kind: types.OptionFight, Text: "Draw your weapon and drive them off."},
		{Kind: types.OptionMoney, Text: "Offer a few ducats for their trouble.", Cost: 5},
		{Kind: types.OptionSkill, Text: "Talk your way past.", Skill: "diplomacy", Threshold: 40},
		{Kind: types.OptionCustom, Text: "Something else..."},
	}
	return npc, opts, nil
}

// ResolveEncounter closes a fallback encounter without drama.
func (Fallback) ResolveEncounter(_ context.Context, ec EncounterContext) (types.OutcomeDelta, error) {
	d := types.OutcomeDelta{Description: "The stranger shrugs and lets you pass."}
	if ec.Option.Kind == types.OptionMoney && ec.Option.Cost > 0 {
		d.MoneyChange = -ec.Option.Cost
	}
	if ec.SkillCheck != nil && !ec.SkillCheck.Success {
		d.HealthChange = -3
		d.Description = "Words fail you. You come away bruised but alive."
	}
	return d, nil
}
