// Package injury creates injuries with severity-scaled drains and applies
// the daily aging pass: drain accumulation, healing, and infection of wounds
// left untreated.
package injury

import "github.com/nathoo/pilgrim/types"

// Rand is the subset of the engine RNG this package needs.
type Rand interface {
	// Roll returns a random integer in [1, sides].
	Roll(sides int) int
}

// InfectedWoundType is the escalation target for untreated infectable wounds.
const InfectedWoundType = "Infected Wound"

// infectChancePercent is the daily chance an infectable wound escalates
// once past the grace period.
const infectChancePercent = 15

// infectGraceDays is how many days an infectable wound sits before it can
// start rolling for infection.
const infectGraceDays = 3

// severityMultiplier returns the drain/recovery scale for a severity.
// The base values in an InjuryDef describe a Moderate injury.
func severityMultiplier(s types.InjurySeverity) float64 {
	switch s {
	case types.SeverityMinor:
		return 0.5
	case types.SeveritySevere:
		return 1.5
	case types.SeverityCritical:
		return 2.0
	default:
		return 1.0
	}
}

// SeverityName returns the display name of a severity.
func SeverityName(s types.InjurySeverity) string {
	switch s {
	case types.SeverityMinor:
		return "Minor"
	case types.SeverityModerate:
		return "Moderate"
	case types.SeveritySevere:
		return "Severe"
	case types.SeverityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// scale applies the severity multiplier to a base value, keeping a floor of 1
// so no injury is completely free.
func scale(base int, mult float64) int {
	v := int(float64(base) * mult)
	if v < 1 {
		v = 1
	}
	return v
}

// New creates an injury of the given type at a specific severity.
func New(def types.InjuryDef, severity types.InjurySeverity) types.Injury {
	mult := severityMultiplier(severity)
	return types.Injury{
		Type:         def.Type,
		Severity:     severity,
		HealthDrain:  scale(def.BaseHealthDrain, mult),
		StaminaDrain: scale(def.BaseStaminaDrain, mult),
		RecoveryTime: scale(def.BaseRecoveryTime, mult),
		Description:  def.Description,
	}
}

// NewRandom creates an injury with a severity sampled uniformly from the
// def's allowed range.
func NewRandom(def types.InjuryDef, rng Rand) types.Injury {
	lo, hi := def.MinSeverity, def.MaxSeverity
	if hi < lo {
		lo, hi = hi, lo
	}
	span := int(hi-lo) + 1
	severity := lo + types.InjurySeverity(rng.Roll(span)-1)
	return New(def, severity)
}

// defaultInfectedWound is used when the content tables do not define the
// escalation target themselves.
var defaultInfectedWound = types.InjuryDef{
	Type:             InfectedWoundType,
	BaseHealthDrain:  3,
	BaseStaminaDrain: 2,
	BaseRecoveryTime: 10,
	Description:      "The wound has festered and reddened.",
}

// Report summarizes one daily injury pass.
type Report struct {
	Updated      []types.Injury
	HealthDrain  int
	StaminaDrain int
	Healed       []string // injury types removed by recovery
	Worsened     []string // injury types that escalated to infection
}

// ProcessDaily ages every injury by one day, accumulating drains. Injuries
// whose affliction counter reaches their recovery time are healed. Infectable
// wounds past the grace period have a daily chance of being replaced by an
// Infected Wound at Severe.
func ProcessDaily(injuries []types.Injury, defs map[string]types.InjuryDef, rng Rand) Report {
	var rep Report
	for _, inj := range injuries {
		inj.DaysAfflicted++
		rep.HealthDrain += inj.HealthDrain
		rep.StaminaDrain += inj.StaminaDrain

		if inj.DaysAfflicted >= inj.RecoveryTime {
			rep.Healed = append(rep.Healed, inj.Type)
			continue
		}

		def, known := defs[inj.Type]
		if known && def.CanInfect && inj.DaysAfflicted > infectGraceDays && inj.Type != InfectedWoundType {
			if rng.Roll(100) <= infectChancePercent {
				target, ok := defs[InfectedWoundType]
				if !ok {
					target = defaultInfectedWound
				}
				rep.Worsened = append(rep.Worsened, inj.Type)
				rep.Updated = append(rep.Updated, New(target, types.SeveritySevere))
				continue
			}
		}

		rep.Updated = append(rep.Updated, inj)
	}
	return rep
}

// CanTreat reports whether the inventory holds an item able to treat the
// given injury type. It gates the "use item" affordance; it never auto-cures.
func CanTreat(injuryType string, inventory map[string]int, items map[string]types.ItemDef) bool {
	for name, qty := range inventory {
		if qty <= 0 {
			continue
		}
		def, ok := items[name]
		if !ok {
			continue
		}
		for _, t := range def.Treats {
			if t == injuryType {
				return true
			}
		}
	}
	return false
}
