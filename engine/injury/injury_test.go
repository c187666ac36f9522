package injury

import (
	"testing"

	"github.com/nathoo/pilgrim/types"
)

// fixedRand always returns the same roll, for deterministic tests.
type fixedRand struct{ roll int }

func (f fixedRand) Roll(sides int) int {
	if f.roll > sides {
		return sides
	}
	return f.roll
}

func woundDef() types.InjuryDef {
	return types.InjuryDef{
		Type:             "Gash",
		BaseHealthDrain:  2,
		BaseStaminaDrain: 4,
		BaseRecoveryTime: 8,
		MinSeverity:      types.SeverityMinor,
		MaxSeverity:      types.SeverityCritical,
		CanInfect:        true,
		Description:      "A deep cut.",
	}
}

func TestNew_SeverityScaling(t *testing.T) {
	tests := []struct {
		severity     types.InjurySeverity
		wantHealth   int
		wantStamina  int
		wantRecovery int
	}{
		{types.SeverityMinor, 1, 2, 4},
		{types.SeverityModerate, 2, 4, 8},
		{types.SeveritySevere, 3, 6, 12},
		{types.SeverityCritical, 4, 8, 16},
	}
	for _, tt := range tests {
		inj := New(woundDef(), tt.severity)
		if inj.HealthDrain != tt.wantHealth || inj.StaminaDrain != tt.wantStamina || inj.RecoveryTime != tt.wantRecovery {
			t.Errorf("%s: got drains (%d,%d) recovery %d, want (%d,%d) %d",
				SeverityName(tt.severity), inj.HealthDrain, inj.StaminaDrain, inj.RecoveryTime,
				tt.wantHealth, tt.wantStamina, tt.wantRecovery)
		}
	}
}

func TestNew_DrainFloorOfOne(t *testing.T) {
	def := types.InjuryDef{Type: "Bruise", BaseHealthDrain: 1, BaseStaminaDrain: 1, BaseRecoveryTime: 2}
	inj := New(def, types.SeverityMinor)
	if inj.HealthDrain < 1 || inj.StaminaDrain < 1 || inj.RecoveryTime < 1 {
		t.Errorf("scaled values should floor at 1, got %+v", inj)
	}
}

func TestNewRandom_WithinSeverityRange(t *testing.T) {
	def := woundDef()
	def.MinSeverity = types.SeverityModerate
	def.MaxSeverity = types.SeveritySevere
	for roll := 1; roll <= 2; roll++ {
		inj := NewRandom(def, fixedRand{roll: roll})
		if inj.Severity < types.SeverityModerate || inj.Severity > types.SeveritySevere {
			t.Errorf("roll %d: severity %d outside allowed range", roll, inj.Severity)
		}
	}
}

func TestProcessDaily_AccumulatesDrains(t *testing.T) {
	injuries := []types.Injury{
		New(woundDef(), types.SeverityModerate),
		New(woundDef(), types.SeverityMinor),
	}
	rep := ProcessDaily(injuries, map[string]types.InjuryDef{}, fixedRand{roll: 100})
	if rep.HealthDrain != 3 {
		t.Errorf("health drain = %d, want 3", rep.HealthDrain)
	}
	if rep.StaminaDrain != 6 {
		t.Errorf("stamina drain = %d, want 6", rep.StaminaDrain)
	}
	if len(rep.Updated) != 2 {
		t.Errorf("updated = %d injuries, want 2", len(rep.Updated))
	}
}

func TestProcessDaily_HealsAtRecoveryTime(t *testing.T) {
	inj := New(woundDef(), types.SeverityModerate)
	inj.DaysAfflicted = inj.RecoveryTime - 1 // ages to RecoveryTime this pass
	rep := ProcessDaily([]types.Injury{inj}, map[string]types.InjuryDef{}, fixedRand{roll: 100})
	if len(rep.Updated) != 0 {
		t.Errorf("expected injury healed, still have %v", rep.Updated)
	}
	if len(rep.Healed) != 1 || rep.Healed[0] != "Gash" {
		t.Errorf("healed = %v, want [Gash]", rep.Healed)
	}
}

func TestProcessDaily_InfectionAfterGracePeriod(t *testing.T) {
	def := woundDef()
	defs := map[string]types.InjuryDef{def.Type: def}
	inj := New(def, types.SeverityModerate)
	inj.RecoveryTime = 30
	inj.DaysAfflicted = 3 // ages to 4 this pass, past the grace period

	rep := ProcessDaily([]types.Injury{inj}, defs, fixedRand{roll: 1}) // roll <= 15 infects
	if len(rep.Worsened) != 1 || rep.Worsened[0] != "Gash" {
		t.Fatalf("worsened = %v, want [Gash]", rep.Worsened)
	}
	if len(rep.Updated) != 1 || rep.Updated[0].Type != InfectedWoundType {
		t.Fatalf("updated = %v, want a single Infected Wound", rep.Updated)
	}
	if rep.Updated[0].Severity != types.SeveritySevere {
		t.Errorf("infected wound severity = %d, want Severe", rep.Updated[0].Severity)
	}
	if rep.Updated[0].DaysAfflicted != 0 {
		t.Errorf("replacement injury should start fresh, daysAfflicted = %d", rep.Updated[0].DaysAfflicted)
	}
}

func TestProcessDaily_NoInfectionDuringGracePeriod(t *testing.T) {
	def := woundDef()
	defs := map[string]types.InjuryDef{def.Type: def}
	inj := New(def, types.SeverityModerate)
	inj.RecoveryTime = 30
	inj.DaysAfflicted = 1

	rep := ProcessDaily([]types.Injury{inj}, defs, fixedRand{roll: 1})
	if len(rep.Worsened) != 0 {
		t.Errorf("wound infected during grace period: %v", rep.Worsened)
	}
}

func TestProcessDaily_InfectedWoundDoesNotReinfect(t *testing.T) {
	defs := map[string]types.InjuryDef{
		InfectedWoundType: {Type: InfectedWoundType, BaseHealthDrain: 3, BaseStaminaDrain: 2, BaseRecoveryTime: 10, CanInfect: true},
	}
	inj := New(defs[InfectedWoundType], types.SeveritySevere)
	inj.DaysAfflicted = 5

	rep := ProcessDaily([]types.Injury{inj}, defs, fixedRand{roll: 1})
	if len(rep.Worsened) != 0 {
		t.Errorf("infected wound should not escalate again: %v", rep.Worsened)
	}
}

func TestCanTreat(t *testing.T) {
	items := map[string]types.ItemDef{
		"bandage": {Name: "bandage", Treats: []string{"Gash"}},
		"bread":   {Name: "bread"},
	}
	if !CanTreat("Gash", map[string]int{"bandage": 1}, items) {
		t.Error("bandage should treat a Gash")
	}
	if CanTreat("Gash", map[string]int{"bread": 3}, items) {
		t.Error("bread should not treat a Gash")
	}
	if CanTreat("Gash", map[string]int{}, items) {
		t.Error("empty inventory cannot treat anything")
	}
}
