package narrative

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/pilgrim/types"
)

// stripFences removes markdown code fences the model tends to wrap its
// output in.
func stripFences(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```yaml")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// ParseOutcome parses generator output into an OutcomeDelta. Missing fields
// are zero values; only an entirely unparseable document is an error, which
// callers recover from with the fallback outcome.
func ParseOutcome(raw string) (types.OutcomeDelta, error) {
	var d types.OutcomeDelta
	if err := yaml.Unmarshal([]byte(stripFences(raw)), &d); err != nil {
		return types.OutcomeDelta{}, fmt.Errorf("parsing outcome: %w", err)
	}
	if d.InstantDeath && d.DeathMessage == "" {
		d.DeathMessage = "Your journey ends here, on a road far from home."
	}
	return d, nil
}

// encounterDoc is the wire shape of a generated encounter.
type encounterDoc struct {
	NPC     types.NPC         `yaml:"npc"`
	Options []types.NPCOption `yaml:"options"`
}

// optionOrder is the required tag order of the four encounter responses.
var optionOrder = [4]types.NPCOptionKind{
	types.OptionFight,
	types.OptionMoney,
	types.OptionSkill,
	types.OptionCustom,
}

// ParseEncounter parses and validates generator output into an NPC plus
// exactly four options tagged fight/money/skill/custom in that order.
func ParseEncounter(raw string) (types.NPC, []types.NPCOption, error) {
	var doc encounterDoc
	if err := yaml.Unmarshal([]byte(stripFences(raw)), &doc); err != nil {
		return types.NPC{}, nil, fmt.Errorf("parsing encounter: %w", err)
	}
	if doc.NPC.Name == "" {
		return types.NPC{}, nil, fmt.Errorf("encounter missing npc")
	}
	if len(doc.Options) != len(optionOrder) {
		return types.NPC{}, nil, fmt.Errorf("encounter has %d options, want %d", len(doc.Options), len(optionOrder))
	}
	for i, want := range optionOrder {
		if doc.Options[i].Kind != want {
			return types.NPC{}, nil, fmt.Errorf("option %d tagged %q, want %q", i, doc.Options[i].Kind, want)
		}
	}
	return doc.NPC, doc.Options, nil
}
