package engine

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/nathoo/pilgrim/engine/calendar"
	"github.com/nathoo/pilgrim/engine/injury"
	"github.com/nathoo/pilgrim/engine/ledger"
	"github.com/nathoo/pilgrim/engine/party"
	"github.com/nathoo/pilgrim/engine/state"
	"github.com/nathoo/pilgrim/narrative"
	"github.com/nathoo/pilgrim/types"
)

// travelDays is how far the calendar advances per Travel action.
const travelDays = 7

// encounterChancePercent is the base chance a travel week ends with a
// roadside encounter, when no merchant was met.
const encounterChancePercent = 40

// wagonBreakChancePercent is the weekly chance a wagon breaks an axle.
const wagonBreakChancePercent = 8

// fastFocusStaminaCost is the extra drain of a week pushed at a fast pace.
const fastFocusStaminaCost = 5

func rationStamina(r types.RationLevel) int {
	switch r {
	case types.RationMeager:
		return 30
	case types.RationFilling:
		return 80
	default:
		return 60
	}
}

func rationMultiplier(r types.RationLevel) float64 {
	switch r {
	case types.RationMeager:
		return 0.5
	case types.RationFilling:
		return 2.0
	default:
		return 1.0
	}
}

func weatherMultiplier(w types.Weather) float64 {
	switch w {
	case types.WeatherRain:
		return 0.85
	case types.WeatherStorm:
		return 0.6
	case types.WeatherSnow:
		return 0.7
	case types.WeatherFog:
		return 0.9
	default:
		return 1.0
	}
}

func weatherHealthCost(w types.Weather) int {
	switch w {
	case types.WeatherRain:
		return 1
	case types.WeatherSnow:
		return 2
	case types.WeatherStorm:
		return 3
	default:
		return 0
	}
}

func transportMultiplier(t types.Transportation) float64 {
	switch t {
	case types.TransportWagon:
		return 1.5
	case types.TransportCarriage:
		return 1.8
	case types.TransportHorse:
		return 2.0
	case types.TransportRoyal:
		return 2.5
	default:
		return 1.0
	}
}

// rollWeather re-rolls the weather for the coming week. Snow only falls in
// winter; the remaining weights favor clear skies.
func rollWeather(rng *RNG, season types.Season) types.Weather {
	if season == types.SeasonWinter {
		idx := rng.WeightedSelect([]int{35, 15, 10, 30, 10})
		return [...]types.Weather{types.WeatherClear, types.WeatherRain, types.WeatherStorm, types.WeatherSnow, types.WeatherFog}[idx]
	}
	idx := rng.WeightedSelect([]int{50, 25, 10, 15})
	return [...]types.Weather{types.WeatherClear, types.WeatherRain, types.WeatherStorm, types.WeatherFog}[idx]
}

func rollTerrain(rng *RNG) types.Terrain {
	idx := rng.WeightedSelect([]int{35, 25, 20, 12, 8})
	return [...]types.Terrain{types.TerrainPlains, types.TerrainForest, types.TerrainHills, types.TerrainMountain, types.TerrainRiver}[idx]
}

// scaleDistance applies the fixed multiplier sequence to the externally
// proposed base distance: weekly focus, then weather, then transportation,
// then condition penalties, finally floored to an integer.
func scaleDistance(base int, s *types.GameState, transport types.Transportation) int {
	d := float64(base)
	switch s.WeeklyFocus {
	case types.FocusFast:
		d *= 1.15
	case types.FocusCautious:
		d *= 0.9
	}
	d *= weatherMultiplier(s.Weather)
	d *= transportMultiplier(transport)
	if ledger.HasCondition(s.Conditions, types.ConditionWounded) {
		d *= 0.75
	}
	if ledger.HasCondition(s.Conditions, types.ConditionBrokenWagon) {
		d *= 0.5
	}
	if d < 0 {
		d = 0
	}
	return int(d)
}

// propose asks the narrator for a travel outcome, substituting the
// deterministic fallback on any failure. The fallback is mandatory: the
// journey continues offline and when the external service errs.
func (e *Engine) propose(ctx context.Context, action types.Action) types.OutcomeDelta {
	tc := narrative.TravelContext{State: e.State(), Player: *e.Player, Action: action}
	delta, err := e.Narrator.ProposeOutcome(ctx, tc)
	if err != nil {
		log.Printf("narrative generator failed, using fallback: %v", err)
		delta, _ = narrative.Fallback{}.ProposeOutcome(ctx, tc)
	}
	return delta
}

// resolveTravel advances the journey by one week. It is the only action that
// advances the calendar, restores ration-keyed stamina, and consumes food.
func (e *Engine) resolveTravel(ctx context.Context, action types.Action) types.Result {
	switch e.current.Phase {
	case types.PhaseCamp:
		return e.reject("Break camp before taking to the road.")
	case types.PhaseInCity:
		return e.reject("Leave the city before taking to the road.")
	case types.PhaseMerchant:
		return e.reject("The merchant is still waiting on an answer.")
	}

	// The narrative proposal sees the pre-travel snapshot.
	delta := e.propose(ctx, action)
	delta.FoodChange = 0 // travel food cost is the local rule below

	next := state.Clone(e.current)
	var output []string
	var events []types.Event

	if delta.Description != "" {
		output = append(output, delta.Description)
	}
	for _, h := range delta.WeeklyHappenings {
		output = append(output, "• "+h)
	}

	if delta.InstantDeath {
		next.Outcome = types.OutcomeDeath
		next.OutcomeMessage = delta.DeathMessage
		return e.commit(next, append(output, delta.DeathMessage), events)
	}

	// Weather and terrain are re-rolled once per week.
	next.Weather = rollWeather(e.RNG, next.Season)
	next.Terrain = rollTerrain(e.RNG)

	// Rations for the week are packed at the outset.
	partySize := 1 + len(next.Party)
	foodCost := int(math.Ceil(float64(partySize) * rationMultiplier(next.RationLevel)))
	ledger.AddFood(next, -foodCost)
	ledger.AddStamina(next, rationStamina(next.RationLevel))
	if next.WeeklyFocus == types.FocusFast {
		ledger.AddStamina(next, -fastFocusStaminaCost)
	}

	// Seven calendar days pass, one at a time, each with its ambient pass.
	for i := 0; i < travelDays; i++ {
		next.Day++
		next.Year, next.Month, next.DayOfMonth = calendar.NextDay(next.Year, next.Month, next.DayOfMonth)
		next.Season = calendar.SeasonForMonth(next.Month)
		e.ambientDay(next, &output, &events)
	}

	// Distance: external base scaled by focus, weather, transport, and
	// condition penalties.
	delta.DistanceChange = scaleDistance(delta.DistanceChange, next, e.Player.Transportation)
	e.materializeInjuries(next, &delta, &output)
	ledger.Apply(next, state.TotalDistance(e.Player), delta)

	// Weather takes its flat toll on travel only.
	ledger.AddHealth(next, -weatherHealthCost(next.Weather))

	next.Party = party.Apply(next.Party, delta.PartyChanges)
	e.applyWeeklyFocus(next, &output)
	e.pruneParty(next, &output, &events)

	if next.Stamina <= 0 {
		next.Conditions = ledger.AddCondition(next.Conditions, types.ConditionExhausted)
	}

	// An unbroken wagon can break on the road.
	if e.Player.HasWagon && !ledger.HasCondition(next.Conditions, types.ConditionBrokenWagon) {
		if e.RNG.Roll(100) <= wagonBreakChancePercent {
			next.Conditions = ledger.AddCondition(next.Conditions, types.ConditionBrokenWagon)
			output = append(output, "An axle splinters on a rutted stretch of road. The wagon needs repair.")
		}
	}

	// Phase transitions: a merchant encounter wins over checkpoint arrival.
	e.encounterPending = false
	switch {
	case delta.MerchantEncountered:
		next.Phase = types.PhaseMerchant
		output = append(output, "A traveling merchant hails the party and unrolls his wares.")
		events = append(events, types.Event{Type: "merchant_encounter", Data: map[string]any{}})
	case e.arriveAtCheckpoint(next, &output, &events):
		// handled in arriveAtCheckpoint
	default:
		if next.Outcome == types.OutcomeNone && e.encounterRoll(next) {
			e.encounterPending = true
			events = append(events, types.Event{Type: "encounter_available", Data: map[string]any{}})
		}
	}

	return e.commit(next, output, events)
}

// encounterRoll decides whether the week ends with a roadside encounter.
// A cautious focus halves the chance.
func (e *Engine) encounterRoll(s *types.GameState) bool {
	chance := encounterChancePercent
	if s.WeeklyFocus == types.FocusCautious {
		chance /= 2
	}
	return e.RNG.Roll(100) <= chance
}

// arriveAtCheckpoint consumes every checkpoint the new distance has passed,
// in fixed route order, and transitions to in_city at the last one reached.
// A checkpoint never triggers twice.
func (e *Engine) arriveAtCheckpoint(s *types.GameState, output *[]string, events *[]types.Event) bool {
	arrived := false
	for s.NextCheckpoint < len(e.Player.Route) &&
		s.DistanceTraveled >= e.Player.Route[s.NextCheckpoint].Distance {
		cp := e.Player.Route[s.NextCheckpoint]
		s.NextCheckpoint++
		s.CurrentLocation = cp.Name
		arrived = true
		*events = append(*events, types.Event{Type: "checkpoint_reached", Data: map[string]any{"name": cp.Name}})
	}
	if arrived {
		s.Phase = types.PhaseInCity
		*output = append(*output, fmt.Sprintf("The party reaches %s.", s.CurrentLocation))
	}
	return arrived
}

// ambientDay applies the once-per-calendar-day effects: starvation,
// disease while on the road, and injury aging for the player and the party.
func (e *Engine) ambientDay(s *types.GameState, output *[]string, events *[]types.Event) {
	if s.Food <= 0 {
		ledger.AddHealth(s, -5)
		for i := range s.Party {
			s.Party[i].Health = ledger.Clamp(s.Party[i].Health-5, 0, 100)
			s.Party[i].Relationship = ledger.Clamp(s.Party[i].Relationship-2, 0, 100)
			s.Party[i].Mood = types.MoodWorried
		}
		s.Conditions = ledger.AddCondition(s.Conditions, types.ConditionStarving)
	} else {
		s.Conditions = ledger.RemoveCondition(s.Conditions, types.ConditionStarving)
	}

	if s.Phase == types.PhaseTraveling {
		if ledger.HasCondition(s.Conditions, types.ConditionDiseased) {
			ledger.AddHealth(s, -5)
		}
		for i := range s.Party {
			if ledger.HasCondition(s.Party[i].Conditions, types.ConditionDiseased) {
				s.Party[i].Health = ledger.Clamp(s.Party[i].Health-5, 0, 100)
			}
		}
	}

	rep := injury.ProcessDaily(s.Injuries, e.Defs.Injuries, e.RNG)
	s.Injuries = rep.Updated
	ledger.AddHealth(s, -rep.HealthDrain)
	ledger.AddStamina(s, -rep.StaminaDrain)
	for _, healed := range rep.Healed {
		*output = append(*output, fmt.Sprintf("Your %s has healed.", healed))
	}
	for _, worse := range rep.Worsened {
		*output = append(*output, fmt.Sprintf("Your %s has festered into an infected wound.", worse))
	}

	for i := range s.Party {
		m := &s.Party[i]
		mrep := injury.ProcessDaily(m.Injuries, e.Defs.Injuries, e.RNG)
		m.Injuries = mrep.Updated
		m.Health = ledger.Clamp(m.Health-mrep.HealthDrain, 0, 100)
	}

	e.pruneParty(s, output, events)
}

// applyWeeklyFocus folds in the focus side effects for the week.
func (e *Engine) applyWeeklyFocus(s *types.GameState, output *[]string) {
	switch s.WeeklyFocus {
	case types.FocusForage:
		ledger.AddFood(s, 2)
		*output = append(*output, "Foraging along the way turned up a little extra food.")
	case types.FocusBond:
		for i := range s.Party {
			s.Party[i].Relationship = ledger.Clamp(s.Party[i].Relationship+1, 0, 100)
		}
	}
}

// pruneParty removes members at zero health and logs each loss.
func (e *Engine) pruneParty(s *types.GameState, output *[]string, events *[]types.Event) {
	alive, removed := party.PruneDead(s.Party)
	s.Party = alive
	for _, name := range removed {
		*output = append(*output, fmt.Sprintf("%s has died on the road.", name))
		*events = append(*events, types.Event{Type: "member_died", Data: map[string]any{"name": name}})
	}
}
