package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/nathoo/pilgrim/engine/ledger"
	"github.com/nathoo/pilgrim/engine/state"
	"github.com/nathoo/pilgrim/types"
)

// huntStaminaCost is spent per attempt, success or not.
const huntStaminaCost = 20

// huntOfferCount is how many animals a hunt presents to choose from.
const huntOfferCount = 3

// HuntOffers draws distinct animals from the content tables for the player
// to choose among. The draw is without replacement and does not mutate the
// journey state; the choice is a follow-up hunt action naming the animal.
func (e *Engine) HuntOffers() ([]types.AnimalDef, error) {
	if e.current.Stamina <= 0 {
		return nil, fmt.Errorf("too exhausted to hunt")
	}
	if e.current.Ammunition < 1 {
		return nil, fmt.Errorf("no ammunition left")
	}

	names := make([]string, 0, len(e.Defs.Animals))
	for name := range e.Defs.Animals {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic draw order under a fixed seed

	count := huntOfferCount
	if count > len(names) {
		count = len(names)
	}
	offers := make([]types.AnimalDef, 0, count)
	for i := 0; i < count; i++ {
		pick := e.RNG.Roll(len(names)) - 1
		offers = append(offers, e.Defs.Animals[names[pick]])
		names = append(names[:pick], names[pick+1:]...)
	}
	e.huntOffers = offers
	return offers, nil
}

// matchAnimal finds the offered (or known) animal closest to the player's
// wording, tolerating small misspellings.
func (e *Engine) matchAnimal(target string) (types.AnimalDef, bool) {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		return types.AnimalDef{}, false
	}

	candidates := e.huntOffers
	if len(candidates) == 0 {
		for _, a := range e.Defs.Animals {
			candidates = append(candidates, a)
		}
	}

	best := types.AnimalDef{}
	bestDist := -1
	for _, a := range candidates {
		d := levenshtein.ComputeDistance(target, strings.ToLower(a.Name))
		if bestDist < 0 || d < bestDist {
			best, bestDist = a, d
		}
	}
	// Allow at most a third of the name to differ.
	if bestDist < 0 || bestDist > len(best.Name)/3 {
		return types.AnimalDef{}, false
	}
	return best, true
}

// resolveHunt performs one hunting attempt. The attempt consumes ammunition
// and stamina regardless of outcome; success yields food in the animal's
// range, failure risks a wound.
func (e *Engine) resolveHunt(action types.Action) types.Result {
	if e.current.Stamina <= 0 {
		return e.reject("Too exhausted to hunt.")
	}
	if e.current.Ammunition < 1 {
		return e.reject("No ammunition left for hunting.")
	}
	animal, ok := e.matchAnimal(action.Target)
	if !ok {
		return e.reject(fmt.Sprintf("No sign of any %q around here.", action.Target))
	}

	next := state.Clone(e.current)
	ledger.AddAmmunition(next, -1)
	ledger.AddStamina(next, -huntStaminaCost)
	e.huntOffers = nil

	chance := animal.SuccessChance
	if prof, found := e.Defs.Professions[e.Player.Profession]; found {
		chance += prof.HuntBonus
	}

	var output []string
	if e.RNG.Roll(100) <= chance {
		yield := e.RNG.Range(animal.FoodYieldMin, animal.FoodYieldMax)
		ledger.AddFood(next, yield)
		output = append(output, fmt.Sprintf("A clean shot. The %s yields %d food.", animal.Name, yield))
	} else {
		output = append(output, fmt.Sprintf("The %s gets away.", animal.Name))
		risk := animal.InjuryRisk
		if next.WeeklyFocus == types.FocusVigilant {
			risk /= 2
		}
		if risk > 0 && e.RNG.Roll(100) <= risk {
			next.Conditions = ledger.AddCondition(next.Conditions, types.ConditionWounded)
			output = append(output, "Worse, you take a wound in the scramble.")
			if inj, found := e.rollHuntInjury(); found && !hasInjury(next.Injuries, inj.Type) {
				next.Injuries = append(next.Injuries, inj)
				output = append(output, fmt.Sprintf("The %s will slow you: %s",
					strings.ToLower(inj.Type), inj.Description))
			}
		}
	}
	return e.commit(next, output, nil)
}
