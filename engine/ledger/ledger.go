// Package ledger implements bounded mutation of the journey state: additive
// stat changes with clamping, inventory hygiene, and condition-set handling.
// Every numeric mutation in the engine flows through this package.
package ledger

import "github.com/nathoo/pilgrim/types"

// Clamp bounds n to [min, max].
func Clamp(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// floor0 bounds n to [0, ∞).
func floor0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// AddHealth applies a health delta, clamped to [0, 100].
func AddHealth(s *types.GameState, delta int) {
	s.Health = Clamp(s.Health+delta, 0, 100)
}

// AddStamina applies a stamina delta, clamped to [0, 100].
func AddStamina(s *types.GameState, delta int) {
	s.Stamina = Clamp(s.Stamina+delta, 0, 100)
}

// AddFood applies a food delta, floored at zero.
func AddFood(s *types.GameState, delta int) {
	s.Food = floor0(s.Food + delta)
}

// AddMoney applies a ducat delta, floored at zero.
func AddMoney(s *types.GameState, delta int) {
	s.Money = floor0(s.Money + delta)
}

// AddOxen applies an oxen delta, floored at zero.
func AddOxen(s *types.GameState, delta int) {
	s.Oxen = floor0(s.Oxen + delta)
}

// AddAmmunition applies an ammunition delta, floored at zero.
func AddAmmunition(s *types.GameState, delta int) {
	s.Ammunition = floor0(s.Ammunition + delta)
}

// AddSpareParts applies a spare-parts delta, floored at zero.
func AddSpareParts(s *types.GameState, delta int) {
	s.SpareParts = floor0(s.SpareParts + delta)
}

// AddItem adjusts an item quantity. Entries that drop to zero or below are
// deleted: no inventory key ever maps to a non-positive value.
func AddItem(inv map[string]int, item string, delta int) {
	if item == "" || delta == 0 {
		return
	}
	qty := inv[item] + delta
	if qty <= 0 {
		delete(inv, item)
		return
	}
	inv[item] = qty
}

// HasCondition reports whether the tag is present.
func HasCondition(conds []types.Condition, c types.Condition) bool {
	for _, tag := range conds {
		if tag == c {
			return true
		}
	}
	return false
}

// AddCondition appends the tag unless already present.
func AddCondition(conds []types.Condition, c types.Condition) []types.Condition {
	if HasCondition(conds, c) {
		return conds
	}
	return append(conds, c)
}

// RemoveCondition removes the tag. Removing an absent tag is a no-op.
func RemoveCondition(conds []types.Condition, c types.Condition) []types.Condition {
	for i, tag := range conds {
		if tag == c {
			return append(conds[:i], conds[i+1:]...)
		}
	}
	return conds
}

// Apply folds the additive, inventory, and condition parts of a delta into
// the state, then recomputes DistanceToRome from the route total. Party
// changes are not applied here; the party engine owns those.
//
// DistanceChange is expected to be pre-scaled by the caller (weather,
// transport, and condition multipliers are travel-resolution concerns).
func Apply(s *types.GameState, totalDistance int, d types.OutcomeDelta) {
	AddHealth(s, d.HealthChange)
	AddFood(s, d.FoodChange)
	AddMoney(s, d.MoneyChange)
	AddOxen(s, d.OxenChange)

	s.DistanceTraveled = floor0(s.DistanceTraveled + d.DistanceChange)
	if s.DistanceTraveled > totalDistance {
		s.DistanceTraveled = totalDistance
	}
	s.DistanceToRome = totalDistance - s.DistanceTraveled

	for _, ic := range d.InventoryChanges {
		AddItem(s.Inventory, ic.Item, ic.Change)
	}
	for _, c := range d.ConditionsAdd {
		s.Conditions = AddCondition(s.Conditions, types.Condition(c))
	}
	for _, c := range d.ConditionsRemove {
		s.Conditions = RemoveCondition(s.Conditions, types.Condition(c))
	}
}
