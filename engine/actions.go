package engine

import (
	"fmt"

	"github.com/nathoo/pilgrim/engine/ledger"
	"github.com/nathoo/pilgrim/engine/party"
	"github.com/nathoo/pilgrim/engine/state"
	"github.com/nathoo/pilgrim/types"
)

// actionStaminaCost is the flat cost of exerting actions other than Travel
// and Hunt (which has its own cost).
const actionStaminaCost = 15

// resolveRest restores the party overnight without advancing the calendar.
func (e *Engine) resolveRest() types.Result {
	next := state.Clone(e.current)
	ledger.AddStamina(next, 50)
	ledger.AddHealth(next, 10)
	for i := range next.Party {
		next.Party[i].Health = ledger.Clamp(next.Party[i].Health+10, 0, 100)
	}
	next.Conditions = ledger.RemoveCondition(next.Conditions, types.ConditionExhausted)
	return e.commit(next, []string{"The party rests. Aches fade and spirits lift a little."}, nil)
}

// resolveFeedParty shares out a meal: 1 food per soul, +5 health each.
func (e *Engine) resolveFeedParty() types.Result {
	cost := 1 + len(e.current.Party)
	if e.current.Food < cost {
		return e.reject(fmt.Sprintf("Not enough food to feed everyone (%d needed).", cost))
	}
	next := state.Clone(e.current)
	ledger.AddFood(next, -cost)
	ledger.AddHealth(next, 5)
	for i := range next.Party {
		next.Party[i].Health = ledger.Clamp(next.Party[i].Health+5, 0, 100)
	}
	return e.commit(next, []string{"A proper meal, shared around the fire."}, nil)
}

func (e *Engine) resolveMakeCamp() types.Result {
	if e.current.Phase != types.PhaseTraveling {
		return e.reject("Camp can only be made on the road.")
	}
	next := state.Clone(e.current)
	next.Phase = types.PhaseCamp
	return e.commit(next, []string{"The party makes camp for the night."}, nil)
}

func (e *Engine) resolveBreakCamp() types.Result {
	if e.current.Phase != types.PhaseCamp {
		return e.reject("There is no camp to break.")
	}
	next := state.Clone(e.current)
	next.Phase = types.PhaseTraveling
	return e.commit(next, []string{"Camp is struck and the road beckons."}, nil)
}

func (e *Engine) resolveLeaveCity() types.Result {
	if e.current.Phase != types.PhaseInCity && e.current.Phase != types.PhaseMerchant {
		return e.reject("There is nowhere to leave from.")
	}
	next := state.Clone(e.current)
	next.Phase = types.PhaseTraveling
	next.CurrentLocation = ""
	return e.commit(next, []string{"The party takes to the road again."}, nil)
}

// resolveRepairWagon consumes a spare part to clear a Broken Wagon. Each
// missing prerequisite is a distinct, non-mutating rejection.
func (e *Engine) resolveRepairWagon() types.Result {
	if !e.Player.HasWagon {
		return e.reject("There is no wagon to repair.")
	}
	if !ledger.HasCondition(e.current.Conditions, types.ConditionBrokenWagon) {
		return e.reject("The wagon is in good repair.")
	}
	if e.current.SpareParts < 1 {
		return e.reject("No spare parts left to repair the wagon.")
	}
	if e.current.Stamina <= 0 {
		return e.reject("Too exhausted to work on the wagon.")
	}
	next := state.Clone(e.current)
	ledger.AddSpareParts(next, -1)
	ledger.AddStamina(next, -actionStaminaCost)
	next.Conditions = ledger.RemoveCondition(next.Conditions, types.ConditionBrokenWagon)
	return e.commit(next, []string{"The axle is mended. The wagon rolls true again."}, nil)
}

// resolveForage is a purely local food search: no narrative call.
func (e *Engine) resolveForage() types.Result {
	if e.current.Stamina <= 0 {
		return e.reject("Too exhausted to forage.")
	}
	next := state.Clone(e.current)
	ledger.AddStamina(next, -actionStaminaCost)

	gain := e.RNG.Range(1, 3) + e.Player.Skills.Survival/25
	switch next.Terrain {
	case types.TerrainForest, types.TerrainRiver:
		gain++
	}
	switch next.Season {
	case types.SeasonAutumn:
		gain++
	case types.SeasonWinter:
		gain -= 2
	}
	if gain < 0 {
		gain = 0
	}
	ledger.AddFood(next, gain)

	msg := "The land yields nothing this time."
	if gain > 0 {
		msg = fmt.Sprintf("Foraging turns up %d food.", gain)
	}
	return e.commit(next, []string{msg}, nil)
}

// resolveUseItem consumes one held item and applies its effects, including
// treating an injury or clearing a condition.
func (e *Engine) resolveUseItem(action types.Action) types.Result {
	name := action.Target
	if e.current.Inventory[name] < 1 {
		return e.reject(fmt.Sprintf("You are not carrying any %s.", name))
	}
	def, ok := e.Defs.Items[name]
	if !ok {
		return e.reject(fmt.Sprintf("No use comes to mind for %s.", name))
	}

	next := state.Clone(e.current)
	ledger.AddItem(next.Inventory, name, -1)
	ledger.AddHealth(next, def.HealthEffect)
	ledger.AddStamina(next, def.StaminaEffect)
	ledger.AddFood(next, def.FoodEffect)

	output := []string{fmt.Sprintf("You use the %s.", name)}
	for _, c := range def.Clears {
		next.Conditions = ledger.RemoveCondition(next.Conditions, c)
	}
	if len(def.Treats) > 0 {
		for i, inj := range next.Injuries {
			if treats(def, inj.Type) {
				next.Injuries = append(next.Injuries[:i], next.Injuries[i+1:]...)
				output = append(output, fmt.Sprintf("The %s is treated.", inj.Type))
				break
			}
		}
	}
	return e.commit(next, output, nil)
}

func treats(def types.ItemDef, injuryType string) bool {
	for _, t := range def.Treats {
		if t == injuryType {
			return true
		}
	}
	return false
}

// resolveTalk is the light party interaction: +3 relationship, always legal.
func (e *Engine) resolveTalk(action types.Action) types.Result {
	next := state.Clone(e.current)
	var ok bool
	next.Party, ok = party.Talk(next.Party, action.Target)
	if !ok {
		return e.reject(fmt.Sprintf("There is nobody called %s in the party.", action.Target))
	}
	return e.commit(next, []string{fmt.Sprintf("You pass the time talking with %s.", action.Target)}, nil)
}

// resolveConverse is the deep conversation, gated per member to once every
// three days.
func (e *Engine) resolveConverse(action types.Action) types.Result {
	idx := state.FindMember(e.current, action.Target)
	if idx < 0 {
		return e.reject(fmt.Sprintf("There is nobody called %s in the party.", action.Target))
	}
	if !party.CanConverse(e.current.Party[idx], e.current.Day) {
		return e.reject(fmt.Sprintf("%s needs more time before opening up again.", action.Target))
	}
	next := state.Clone(e.current)
	next.Party, _ = party.DeepConversation(next.Party, action.Target, next.Day)
	return e.commit(next, []string{fmt.Sprintf("You and %s talk long into the evening.", action.Target)}, nil)
}

// merchantMarkup is applied to purchases from a roadside merchant.
const merchantMarkup = 1.25

// resolveBuy purchases items while trading is possible.
func (e *Engine) resolveBuy(action types.Action) types.Result {
	if e.current.Phase != types.PhaseInCity && e.current.Phase != types.PhaseMerchant {
		return e.reject("There is no one to buy from out here.")
	}
	def, ok := e.Defs.Items[action.Target]
	if !ok {
		return e.reject(fmt.Sprintf("Nobody here sells %s.", action.Target))
	}
	qty := action.Amount
	if qty < 1 {
		qty = 1
	}
	price := def.Price * qty
	if e.current.Phase == types.PhaseMerchant {
		price = int(float64(price)*merchantMarkup + 0.5)
	}
	if e.current.Money < price {
		return e.reject(fmt.Sprintf("That costs %d ducats; you have %d.", price, e.current.Money))
	}
	next := state.Clone(e.current)
	ledger.AddMoney(next, -price)
	ledger.AddItem(next.Inventory, def.Name, qty)
	return e.commit(next, []string{fmt.Sprintf("Bought %d %s for %d ducats.", qty, def.Name, price)}, nil)
}

// resolveSell sells held items at half their listed price.
func (e *Engine) resolveSell(action types.Action) types.Result {
	if e.current.Phase != types.PhaseInCity && e.current.Phase != types.PhaseMerchant {
		return e.reject("There is no one to sell to out here.")
	}
	def, ok := e.Defs.Items[action.Target]
	if !ok {
		return e.reject(fmt.Sprintf("Nobody here wants %s.", action.Target))
	}
	qty := action.Amount
	if qty < 1 {
		qty = 1
	}
	if e.current.Inventory[def.Name] < qty {
		return e.reject(fmt.Sprintf("You are not carrying %d %s.", qty, def.Name))
	}
	proceeds := def.Price * qty / 2
	next := state.Clone(e.current)
	ledger.AddItem(next.Inventory, def.Name, -qty)
	ledger.AddMoney(next, proceeds)
	return e.commit(next, []string{fmt.Sprintf("Sold %d %s for %d ducats.", qty, def.Name, proceeds)}, nil)
}

func (e *Engine) resolveSetRations(action types.Action) types.Result {
	level := types.RationLevel(action.Target)
	switch level {
	case types.RationMeager, types.RationNormal, types.RationFilling:
	default:
		return e.reject(fmt.Sprintf("Rations can be meager, normal, or filling — not %q.", action.Target))
	}
	next := state.Clone(e.current)
	next.RationLevel = level
	return e.commit(next, []string{fmt.Sprintf("Rations set to %s.", level)}, nil)
}

func (e *Engine) resolveSetFocus(action types.Action) types.Result {
	focus := types.WeeklyFocus(action.Target)
	switch focus {
	case types.FocusNormal, types.FocusCautious, types.FocusFast,
		types.FocusForage, types.FocusBond, types.FocusVigilant:
	default:
		return e.reject(fmt.Sprintf("Unknown weekly focus %q.", action.Target))
	}
	next := state.Clone(e.current)
	next.WeeklyFocus = focus
	return e.commit(next, []string{fmt.Sprintf("The week's focus is now %s.", focus)}, nil)
}
