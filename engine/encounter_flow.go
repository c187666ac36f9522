package engine

import (
	"context"
	"log"

	"github.com/nathoo/pilgrim/engine/encounter"
	"github.com/nathoo/pilgrim/engine/ledger"
	"github.com/nathoo/pilgrim/engine/party"
	"github.com/nathoo/pilgrim/engine/state"
	"github.com/nathoo/pilgrim/narrative"
	"github.com/nathoo/pilgrim/types"
)

// Encounter returns the active encounter, if any.
func (e *Engine) Encounter() (types.NPC, []types.NPCOption, bool) {
	if e.flow.Phase != encounter.PhaseActive {
		return types.NPC{}, nil, false
	}
	return e.flow.NPC, e.flow.Options, true
}

// StartEncounter generates an NPC and activates the sub-flow. On generator
// failure the fallback encounter is used; the flow always starts.
func (e *Engine) StartEncounter(ctx context.Context) (types.NPC, []types.NPCOption, error) {
	if !e.resolving.CompareAndSwap(false, true) {
		return types.NPC{}, nil, errBusy
	}
	defer e.resolving.Store(false)

	e.encounterPending = false
	tc := narrative.TravelContext{State: e.State(), Player: *e.Player}
	npc, opts, err := e.Narrator.GenerateEncounter(ctx, tc)
	if err != nil {
		log.Printf("encounter generation failed, using fallback: %v", err)
		npc, opts, _ = narrative.Fallback{}.GenerateEncounter(ctx, tc)
	}
	if err := e.flow.Activate(npc, opts); err != nil {
		return types.NPC{}, nil, err
	}
	return npc, opts, nil
}

// ChooseEncounterOption selects one of the four responses, resolves it
// through the narrator (with any skill check decided locally first), merges
// the outcome, and closes the encounter. The encounter closes whether
// resolution succeeds or falls back.
func (e *Engine) ChooseEncounterOption(ctx context.Context, index int, customText string) types.Result {
	if !e.resolving.CompareAndSwap(false, true) {
		return e.reject("The party is still busy with that.")
	}
	defer e.resolving.Store(false)

	choice, err := e.flow.Choose(index, customText)
	if err != nil {
		return e.reject(err.Error())
	}

	ec := narrative.EncounterContext{
		State:      e.State(),
		Player:     *e.Player,
		NPC:        e.flow.NPC,
		Option:     choice.Option,
		CustomText: choice.CustomText,
	}
	if choice.Option.Kind == types.OptionSkill {
		check := encounter.SkillCheck(e.Player.Skills, choice.Option, e.RNG)
		ec.SkillCheck = &check
	}

	delta, err := e.Narrator.ResolveEncounter(ctx, ec)
	if err != nil {
		log.Printf("encounter resolution failed, using fallback: %v", err)
		delta, _ = narrative.Fallback{}.ResolveEncounter(ctx, ec)
	}
	e.flow.Close()

	next := state.Clone(e.current)
	var output []string
	var events []types.Event
	if delta.Description != "" {
		output = append(output, delta.Description)
	}
	if ec.SkillCheck != nil {
		if ec.SkillCheck.Success {
			output = append(output, "Your "+ec.SkillCheck.Skill+" sees you through.")
		} else {
			output = append(output, "Your "+ec.SkillCheck.Skill+" fails you.")
		}
	}
	if delta.InstantDeath {
		next.Outcome = types.OutcomeDeath
		next.OutcomeMessage = delta.DeathMessage
		return e.commit(next, append(output, delta.DeathMessage), events)
	}

	delta.DistanceChange = 0 // encounters never move the party
	e.materializeInjuries(next, &delta, &output)
	ledger.Apply(next, state.TotalDistance(e.Player), delta)
	next.Party = party.Apply(next.Party, delta.PartyChanges)
	e.pruneParty(next, &output, &events)

	return e.commit(next, output, events)
}

// DismissEncounter closes an active encounter without resolving it.
func (e *Engine) DismissEncounter() {
	e.flow.Close()
}
