package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/pilgrim/engine/ledger"
	"github.com/nathoo/pilgrim/engine/state"
	"github.com/nathoo/pilgrim/types"
)

// Craftable reports whether a recipe can be made right now: the profession
// matches (or the recipe is universal) and every ingredient is in hand.
func (e *Engine) Craftable(r types.RecipeDef) bool {
	if r.Profession != "" && r.Profession != e.Player.Profession {
		return false
	}
	for item, qty := range r.Costs {
		if e.current.Inventory[item] < qty {
			return false
		}
	}
	return true
}

// CraftableRecipes lists the recipes currently makeable, sorted by name.
func (e *Engine) CraftableRecipes() []types.RecipeDef {
	var out []types.RecipeDef
	for _, r := range e.Defs.Recipes {
		if e.Craftable(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// resolveCraft consumes a recipe's ingredients and produces its result.
func (e *Engine) resolveCraft(action types.Action) types.Result {
	name := strings.ToLower(strings.TrimSpace(action.Target))
	recipe, ok := e.Defs.Recipes[name]
	if !ok {
		return e.reject(fmt.Sprintf("You know no way to make %q.", action.Target))
	}
	if recipe.Profession != "" && recipe.Profession != e.Player.Profession {
		return e.reject(fmt.Sprintf("Only a %s knows how to make that.", recipe.Profession))
	}
	for item, qty := range recipe.Costs {
		if e.current.Inventory[item] < qty {
			return e.reject(fmt.Sprintf("Making %s needs %d %s.", recipe.Name, qty, item))
		}
	}
	if e.current.Stamina <= 0 {
		return e.reject("Too exhausted for craftwork.")
	}

	next := state.Clone(e.current)
	ledger.AddStamina(next, -actionStaminaCost)
	for item, qty := range recipe.Costs {
		ledger.AddItem(next.Inventory, item, -qty)
	}
	qty := recipe.Quantity
	if qty < 1 {
		qty = 1
	}
	ledger.AddItem(next.Inventory, recipe.Result, qty)
	return e.commit(next, []string{fmt.Sprintf("You make %d %s.", qty, recipe.Result)}, nil)
}
