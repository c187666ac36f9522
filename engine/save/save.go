// Package save implements JSON serialization and deserialization of a
// journey in progress.
package save

import (
	"encoding/json"

	"github.com/nathoo/pilgrim/engine/state"
	"github.com/nathoo/pilgrim/types"
)

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     string          `json:"version"`
	Game        string          `json:"game"`
	Player      types.Player    `json:"player"`
	State       types.GameState `json:"state"`
	RNGSeed     int64           `json:"rng_seed"`
	RNGPosition int64           `json:"rng_position"`
}

// Save serializes a journey to JSON bytes.
func Save(s *types.GameState, player *types.Player, defs *state.Defs, rngSeed, rngPosition int64) ([]byte, error) {
	data := SaveData{
		Version:     defs.Game.Version,
		Game:        defs.Game.Title,
		Player:      *player,
		State:       *s,
		RNGSeed:     rngSeed,
		RNGPosition: rngPosition,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	// Ensure maps and slices are never nil after load.
	if sd.State.Inventory == nil {
		sd.State.Inventory = map[string]int{}
	}
	if sd.State.Conditions == nil {
		sd.State.Conditions = []types.Condition{}
	}
	if sd.Player.Route == nil {
		sd.Player.Route = []types.Checkpoint{}
	}
	for i := range sd.State.Party {
		if sd.State.Party[i].Conditions == nil {
			sd.State.Party[i].Conditions = []types.Condition{}
		}
	}
	return &sd, nil
}
