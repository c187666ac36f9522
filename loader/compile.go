package loader

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/pilgrim/engine/state"
	"github.com/nathoo/pilgrim/types"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStringList returns an array-style table field as a string slice.
func getStringList(tbl *lua.LTable, key string) []string {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []string
	for i := 1; i <= arr.MaxN(); i++ {
		if s, ok := arr.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// tableToIntMap converts a Lua table to a map[string]int.
func tableToIntMap(tbl *lua.LTable) map[string]int {
	if tbl == nil {
		return nil
	}
	m := map[string]int{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vn, ok := v.(lua.LNumber); ok {
				m[string(ks)] = int(vn)
			}
		}
	})
	return m
}

// parseSeverity maps a severity name to its enum value. Unknown names fall
// back to the default.
func parseSeverity(name string, def types.InjurySeverity) types.InjurySeverity {
	switch strings.ToLower(name) {
	case "minor":
		return types.SeverityMinor
	case "moderate":
		return types.SeverityModerate
	case "severe":
		return types.SeveritySevere
	case "critical":
		return types.SeverityCritical
	}
	return def
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Items:       map[string]types.ItemDef{},
		Recipes:     map[string]types.RecipeDef{},
		Animals:     map[string]types.AnimalDef{},
		Injuries:    map[string]types.InjuryDef{},
		Professions: map[string]types.ProfessionDef{},
		Routes:      map[string]types.RouteDef{},
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	for _, raw := range coll.items {
		defs.Items[raw.name] = compileItem(raw)
	}
	for _, raw := range coll.recipes {
		recipe, err := compileRecipe(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling recipe %s: %w", raw.name, err)
		}
		defs.Recipes[strings.ToLower(raw.name)] = recipe
	}
	for _, raw := range coll.animals {
		defs.Animals[raw.name] = compileAnimal(raw)
	}
	for _, raw := range coll.injuries {
		defs.Injuries[raw.name] = compileInjury(raw)
	}
	for _, raw := range coll.professions {
		defs.Professions[raw.name] = compileProfession(raw)
	}
	for _, raw := range coll.routes {
		route, err := compileRoute(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling route %s: %w", raw.name, err)
		}
		defs.Routes[raw.name] = route
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:   getString(tbl, "title"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
	}
}

func compileItem(raw rawDef) types.ItemDef {
	tbl := raw.table
	var clears []types.Condition
	for _, c := range getStringList(tbl, "clears") {
		clears = append(clears, types.Condition(c))
	}
	return types.ItemDef{
		Name:          raw.name,
		Price:         getInt(tbl, "price"),
		HealthEffect:  getInt(tbl, "health"),
		StaminaEffect: getInt(tbl, "stamina"),
		FoodEffect:    getInt(tbl, "food"),
		EmergencyFood: getBool(tbl, "emergency_food", false),
		Treats:        getStringList(tbl, "treats"),
		Clears:        clears,
	}
}

// compileRecipe accepts two shapes: the canonical costs-map form
//
//	Recipe "bandage" { costs = { linen = 2 }, result = "bandage" }
//
// and the legacy single-ingredient form
//
//	Recipe "bandage" { item = "linen", requires = 2, result = "bandage" }
//
// which is normalized into a one-entry cost map.
func compileRecipe(raw rawDef) (types.RecipeDef, error) {
	tbl := raw.table
	recipe := types.RecipeDef{
		Name:       raw.name,
		Profession: getString(tbl, "profession"),
		Result:     getString(tbl, "result"),
		Quantity:   getInt(tbl, "quantity"),
	}
	if recipe.Result == "" {
		recipe.Result = raw.name
	}
	if recipe.Quantity <= 0 {
		recipe.Quantity = 1
	}

	if costs := getTable(tbl, "costs"); costs != nil {
		recipe.Costs = tableToIntMap(costs)
	} else if item := getString(tbl, "item"); item != "" {
		n := getInt(tbl, "requires")
		if n <= 0 {
			n = 1
		}
		recipe.Costs = map[string]int{item: n}
	}
	if len(recipe.Costs) == 0 {
		return recipe, fmt.Errorf("recipe has no costs")
	}
	return recipe, nil
}

func compileAnimal(raw rawDef) types.AnimalDef {
	tbl := raw.table
	return types.AnimalDef{
		Name:          raw.name,
		SuccessChance: getInt(tbl, "chance"),
		FoodYieldMin:  getInt(tbl, "yield_min"),
		FoodYieldMax:  getInt(tbl, "yield_max"),
		InjuryRisk:    getInt(tbl, "injury_risk"),
	}
}

func compileInjury(raw rawDef) types.InjuryDef {
	tbl := raw.table
	return types.InjuryDef{
		Type:             raw.name,
		BaseHealthDrain:  getInt(tbl, "health_drain"),
		BaseStaminaDrain: getInt(tbl, "stamina_drain"),
		BaseRecoveryTime: getInt(tbl, "recovery_days"),
		MinSeverity:      parseSeverity(getString(tbl, "min_severity"), types.SeverityMinor),
		MaxSeverity:      parseSeverity(getString(tbl, "max_severity"), types.SeverityCritical),
		CanInfect:        getBool(tbl, "can_infect", false),
		Description:      getString(tbl, "description"),
	}
}

func compileProfession(raw rawDef) types.ProfessionDef {
	tbl := raw.table
	skills := getTable(tbl, "skills")
	equip := getTable(tbl, "equipment")
	def := types.ProfessionDef{
		Name:          raw.name,
		StartingMoney: getInt(tbl, "money"),
		StartingFood:  getInt(tbl, "food"),
		HuntBonus:     getInt(tbl, "hunt_bonus"),
	}
	if skills != nil {
		def.Skills = types.Skills{
			Combat:    getInt(skills, "combat"),
			Diplomacy: getInt(skills, "diplomacy"),
			Survival:  getInt(skills, "survival"),
			Medicine:  getInt(skills, "medicine"),
			Stealth:   getInt(skills, "stealth"),
			Knowledge: getInt(skills, "knowledge"),
		}
	}
	if equip != nil {
		def.Equipment = types.Equipment{
			Weapon: getString(equip, "weapon"),
			Armor:  getString(equip, "armor"),
			Tool:   getString(equip, "tool"),
		}
	}
	return def
}

func compileRoute(raw rawDef) (types.RouteDef, error) {
	tbl := raw.table
	route := types.RouteDef{
		Name:   raw.name,
		Origin: getString(tbl, "origin"),
	}
	stops := getTable(tbl, "checkpoints")
	if stops == nil {
		return route, fmt.Errorf("route has no checkpoints")
	}
	for i := 1; i <= stops.MaxN(); i++ {
		entry, ok := stops.RawGetInt(i).(*lua.LTable)
		if !ok {
			return route, fmt.Errorf("checkpoint %d is not a table", i)
		}
		route.Checkpoints = append(route.Checkpoints, types.Checkpoint{
			Name:     getString(entry, "name"),
			Distance: getInt(entry, "distance"),
		})
	}
	return route, nil
}
