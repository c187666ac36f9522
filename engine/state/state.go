// Package state holds the immutable content definitions and constructs or
// copies the mutable journey state. The resolver never hands out a state that
// shares memory with a previous one.
package state

import "github.com/nathoo/pilgrim/types"

// Defs holds the immutable content definitions loaded from Lua.
type Defs struct {
	Game        types.GameDef
	Items       map[string]types.ItemDef
	Recipes     map[string]types.RecipeDef
	Animals     map[string]types.AnimalDef
	Injuries    map[string]types.InjuryDef
	Professions map[string]types.ProfessionDef
	Routes      map[string]types.RouteDef
}

// TotalDistance returns the distance of the final checkpoint on the
// player's route, which is the full length of the journey.
func TotalDistance(player *types.Player) int {
	if len(player.Route) == 0 {
		return 0
	}
	return player.Route[len(player.Route)-1].Distance
}

// NewState creates a fresh journey state for the given player profile.
func NewState(defs *Defs, player *types.Player) *types.GameState {
	prof := defs.Professions[player.Profession]
	s := &types.GameState{
		Day:        1,
		Year:       1650,
		Month:      3,
		DayOfMonth: 1,

		DistanceTraveled: 0,
		DistanceToRome:   TotalDistance(player),

		Health:     100,
		Stamina:    100,
		Food:       prof.StartingFood,
		Money:      prof.StartingMoney,
		Oxen:       0,
		Ammunition: 10,
		SpareParts: 2,

		Inventory:  map[string]int{},
		Conditions: []types.Condition{},
		Injuries:   []types.Injury{},

		Phase: types.PhaseTraveling,
		Party: []types.PartyMember{},

		Weather: types.WeatherClear,
		Terrain: types.TerrainPlains,
		Season:  types.SeasonSpring,

		RationLevel: types.RationNormal,
		WeeklyFocus: types.FocusNormal,
		Equipment:   prof.Equipment,

		CurrentLocation: player.Origin,
		NextCheckpoint:  0,
	}
	if player.HasWagon {
		s.Oxen = 2
	}
	return s
}

// Clone returns a deep copy of the state. Slices and maps are copied so the
// original is never aliased by the result.
func Clone(s *types.GameState) *types.GameState {
	c := *s

	c.Inventory = make(map[string]int, len(s.Inventory))
	for k, v := range s.Inventory {
		c.Inventory[k] = v
	}

	c.Conditions = append([]types.Condition(nil), s.Conditions...)
	c.Injuries = append([]types.Injury(nil), s.Injuries...)

	c.Party = make([]types.PartyMember, len(s.Party))
	for i, m := range s.Party {
		m.Conditions = append([]types.Condition(nil), m.Conditions...)
		m.Injuries = append([]types.Injury(nil), m.Injuries...)
		c.Party[i] = m
	}

	return &c
}

// FindMember returns the index of the named member, or -1.
func FindMember(s *types.GameState, name string) int {
	for i := range s.Party {
		if s.Party[i].Name == name {
			return i
		}
	}
	return -1
}

// HasEmergencyFood reports whether the inventory holds any item flagged as
// emergency food. Used by the starvation termination check.
func HasEmergencyFood(s *types.GameState, defs *Defs) bool {
	for name, qty := range s.Inventory {
		if qty <= 0 {
			continue
		}
		if def, ok := defs.Items[name]; ok && def.EmergencyFood {
			return true
		}
	}
	return false
}
