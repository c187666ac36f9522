package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/pilgrim/engine/ledger"
	"github.com/nathoo/pilgrim/engine/state"
	"github.com/nathoo/pilgrim/narrative"
	"github.com/nathoo/pilgrim/types"
)

// stubNarrator returns a fixed delta, or fails when err is set.
type stubNarrator struct {
	delta types.OutcomeDelta
	err   error
}

func (s stubNarrator) ProposeOutcome(context.Context, narrative.TravelContext) (types.OutcomeDelta, error) {
	return s.delta, s.err
}

func (s stubNarrator) GenerateEncounter(context.Context, narrative.TravelContext) (types.NPC, []types.NPCOption, error) {
	return types.NPC{}, nil, s.err
}

func (s stubNarrator) ResolveEncounter(context.Context, narrative.EncounterContext) (types.OutcomeDelta, error) {
	return s.delta, s.err
}

func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{Title: "Test Journey", Version: "1.0"},
		Items: map[string]types.ItemDef{
			"bread":      {Name: "bread", Price: 2, FoodEffect: 2},
			"dried meat": {Name: "dried meat", Price: 5, FoodEffect: 4, EmergencyFood: true},
			"hide":       {Name: "hide", Price: 8},
			"linen":      {Name: "linen", Price: 3},
			"bandage":    {Name: "bandage", Price: 6, Treats: []string{"Cut"}},
			"herbal remedy": {
				Name: "herbal remedy", Price: 12, HealthEffect: 10,
				Clears: []types.Condition{types.ConditionDiseased},
				Treats: []string{"Infected Wound"},
			},
		},
		Recipes: map[string]types.RecipeDef{
			"bandage": {Name: "bandage", Costs: map[string]int{"linen": 2}, Result: "bandage", Quantity: 1},
			"herbal remedy": {
				Name: "herbal remedy", Profession: "Healer",
				Costs: map[string]int{"linen": 1}, Result: "herbal remedy", Quantity: 1,
			},
		},
		Animals: map[string]types.AnimalDef{
			"rabbit": {Name: "rabbit", SuccessChance: 100, FoodYieldMin: 1, FoodYieldMax: 2},
			"boar":   {Name: "boar", SuccessChance: 0, FoodYieldMin: 6, FoodYieldMax: 12, InjuryRisk: 100},
		},
		Injuries: map[string]types.InjuryDef{
			"Cut": {Type: "Cut", BaseHealthDrain: 1, BaseRecoveryTime: 4, CanInfect: true},
			"Infected Wound": {
				Type: "Infected Wound", BaseHealthDrain: 3, BaseStaminaDrain: 2, BaseRecoveryTime: 10,
			},
		},
		Professions: map[string]types.ProfessionDef{
			"Merchant": {Name: "Merchant", StartingMoney: 100, StartingFood: 10},
			"Hunter":   {Name: "Hunter", StartingMoney: 40, StartingFood: 25, HuntBonus: 20},
			"Healer":   {Name: "Healer", StartingMoney: 60, StartingFood: 12},
		},
	}
}

func testPlayer() *types.Player {
	return &types.Player{
		Name:       "Anna",
		Profession: "Merchant",
		Origin:     "Augsburg",
		Route: []types.Checkpoint{
			{Name: "Innsbruck", Distance: 130},
			{Name: "Rome", Distance: 820},
		},
		Transportation: types.TransportFoot,
	}
}

// testEngine builds an engine on the stub narrator with a fixed seed.
func testEngine(t *testing.T, n narrative.Narrator) *Engine {
	t.Helper()
	if n == nil {
		n = stubNarrator{delta: types.OutcomeDelta{DistanceChange: 30, HealthChange: -1}}
	}
	return New(testDefs(), testPlayer(), 42, n)
}

func TestResolve_TravelAdvancesWeek(t *testing.T) {
	e := testEngine(t, nil)
	e.current.Party = []types.PartyMember{{Name: "Hans", Health: 100, Relationship: 50}}

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionTravel})
	if r.Rejected {
		t.Fatalf("travel rejected: %v", r.Output)
	}
	if r.State.Day != 8 {
		t.Errorf("Day = %d, want 8", r.State.Day)
	}
	// Two mouths at normal rations: 10 food packs down to 8.
	if r.State.Food != 8 {
		t.Errorf("Food = %d, want 8", r.State.Food)
	}
	// Base 30 scaled by weather on foot: storm floor is 18.
	if r.State.DistanceTraveled < 18 || r.State.DistanceTraveled > 30 {
		t.Errorf("DistanceTraveled = %d, want 18..30", r.State.DistanceTraveled)
	}
	if got, want := r.State.DistanceToRome, 820-r.State.DistanceTraveled; got != want {
		t.Errorf("DistanceToRome = %d, want %d", got, want)
	}
	// Delta health -1 plus at most 3 weather toll.
	if r.State.Health < 96 || r.State.Health > 99 {
		t.Errorf("Health = %d, want 96..99", r.State.Health)
	}
}

func TestResolve_TravelFastFocusCostsStamina(t *testing.T) {
	e := testEngine(t, nil)
	e.current.Stamina = 20
	e.current.WeeklyFocus = types.FocusFast

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionTravel})
	if r.Rejected {
		t.Fatalf("travel rejected: %v", r.Output)
	}
	// 20 plus the normal ration restore of 60, minus 5 for the hard pace.
	if r.State.Stamina != 75 {
		t.Errorf("Stamina = %d, want 75", r.State.Stamina)
	}
}

func TestResolve_TravelDeltaInjuryTagBecomesInjury(t *testing.T) {
	n := stubNarrator{delta: types.OutcomeDelta{DistanceChange: 30, ConditionsAdd: []string{"cut"}}}
	e := testEngine(t, n)

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionTravel})
	if r.Rejected {
		t.Fatalf("travel rejected: %v", r.Output)
	}
	if len(r.State.Injuries) != 1 || r.State.Injuries[0].Type != "Cut" {
		t.Fatalf("Injuries = %v, want a single Cut", r.State.Injuries)
	}
	if ledger.HasCondition(r.State.Conditions, types.Condition("cut")) ||
		ledger.HasCondition(r.State.Conditions, types.Condition("Cut")) {
		t.Error("an injury tag must not also land in the condition set")
	}

	// A second week with the same tag must not stack a duplicate.
	r = e.Resolve(context.Background(), types.Action{Kind: types.ActionTravel})
	for i, inj := range r.State.Injuries {
		for _, other := range r.State.Injuries[i+1:] {
			if inj.Type == other.Type {
				t.Errorf("injury %q stacked", inj.Type)
			}
		}
	}
}

func TestResolve_TravelRejectedInCamp(t *testing.T) {
	e := testEngine(t, nil)
	e.current.Phase = types.PhaseCamp

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionTravel})
	if !r.Rejected {
		t.Fatal("expected rejection while camped")
	}
	if r.State.Day != 1 {
		t.Errorf("rejected travel advanced the calendar to day %d", r.State.Day)
	}
}

func TestResolve_FallbackOnNarratorFailure(t *testing.T) {
	e := testEngine(t, stubNarrator{err: errors.New("service unavailable")})

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionTravel})
	if r.Rejected {
		t.Fatalf("travel rejected: %v", r.Output)
	}
	if r.State.Day != 8 {
		t.Errorf("Day = %d, want 8", r.State.Day)
	}
	if r.State.DistanceTraveled < 1 {
		t.Error("fallback travel gained no distance")
	}
}

func TestResolve_StarvationFiresRegardlessOfAction(t *testing.T) {
	e := testEngine(t, nil)
	e.current.Food = 0
	e.current.Money = 0

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionRest})
	if r.State.Outcome != types.OutcomeStarvation {
		t.Fatalf("Outcome = %q, want starvation", r.State.Outcome)
	}
	found := false
	for _, ev := range r.Events {
		if ev.Type == "game_over" {
			found = true
		}
	}
	if !found {
		t.Error("no game_over event emitted")
	}
}

func TestResolve_EmergencyFoodDefersStarvation(t *testing.T) {
	e := testEngine(t, nil)
	e.current.Food = 0
	e.current.Money = 0
	e.current.Inventory["dried meat"] = 1

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionRest})
	if r.State.Outcome != types.OutcomeNone {
		t.Fatalf("Outcome = %q, want none while emergency food is held", r.State.Outcome)
	}
}

func TestResolve_ArrivalBeatsDeath(t *testing.T) {
	e := testEngine(t, nil)
	e.current.DistanceToRome = 0
	e.current.Health = 0

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionRest})
	if r.State.Outcome != types.OutcomeArrival {
		t.Errorf("Outcome = %q, want arrival", r.State.Outcome)
	}
}

func TestResolve_SinkStateAfterGameOver(t *testing.T) {
	e := testEngine(t, nil)
	e.current.Outcome = types.OutcomeDeath
	e.current.OutcomeMessage = "Fell from a bridge."

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionTravel})
	if r.State.Day != 1 {
		t.Errorf("sink state mutated: Day = %d", r.State.Day)
	}
	if len(r.Output) == 0 || !strings.Contains(r.Output[len(r.Output)-1], "journey is over") {
		t.Errorf("output = %v, want game-over notice", r.Output)
	}
}

func TestResolve_InFlightGuard(t *testing.T) {
	e := testEngine(t, nil)
	e.resolving.Store(true)

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionRest})
	if !r.Rejected {
		t.Error("overlapping resolution was not rejected")
	}
}

func TestArriveAtCheckpoint_NeverTriggersTwice(t *testing.T) {
	e := testEngine(t, nil)
	s := state.Clone(e.current)
	s.DistanceTraveled = 140

	var out []string
	var evts []types.Event
	if !e.arriveAtCheckpoint(s, &out, &evts) {
		t.Fatal("expected arrival at Innsbruck")
	}
	if s.CurrentLocation != "Innsbruck" || s.NextCheckpoint != 1 {
		t.Errorf("location %q cursor %d, want Innsbruck/1", s.CurrentLocation, s.NextCheckpoint)
	}
	if s.Phase != types.PhaseInCity {
		t.Errorf("Phase = %q, want in_city", s.Phase)
	}
	if e.arriveAtCheckpoint(s, &out, &evts) {
		t.Error("checkpoint triggered twice at the same distance")
	}
}

func TestArriveAtCheckpoint_ConsumesAllPassed(t *testing.T) {
	e := testEngine(t, nil)
	s := state.Clone(e.current)
	s.DistanceTraveled = 900

	var out []string
	var evts []types.Event
	e.arriveAtCheckpoint(s, &out, &evts)
	if s.CurrentLocation != "Rome" || s.NextCheckpoint != 2 {
		t.Errorf("location %q cursor %d, want Rome/2", s.CurrentLocation, s.NextCheckpoint)
	}
	if len(evts) != 2 {
		t.Errorf("got %d checkpoint events, want 2", len(evts))
	}
}

func TestResolve_MerchantBeatsCheckpoint(t *testing.T) {
	e := testEngine(t, stubNarrator{delta: types.OutcomeDelta{
		DistanceChange:      400,
		MerchantEncountered: true,
	}})

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionTravel})
	if r.State.Phase != types.PhaseMerchant {
		t.Errorf("Phase = %q, want merchant_encounter", r.State.Phase)
	}
	// The crossed checkpoint is deferred, not lost.
	if r.State.NextCheckpoint != 0 {
		t.Errorf("NextCheckpoint = %d, want 0", r.State.NextCheckpoint)
	}
}

func TestResolve_PartyMemberDeathIsFinal(t *testing.T) {
	e := testEngine(t, nil)
	e.current.Food = 0 // money remains, so no starvation outcome
	e.current.Party = []types.PartyMember{{Name: "Hans", Health: 3, Relationship: 50}}

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionTravel})
	if len(r.State.Party) != 0 {
		t.Fatalf("party = %+v, want empty after death", r.State.Party)
	}
	died := false
	for _, ev := range r.Events {
		if ev.Type == "member_died" && ev.Data["name"] == "Hans" {
			died = true
		}
	}
	if !died {
		t.Error("no member_died event for Hans")
	}
}

func TestHunt_SuccessCostsAmmoAndStamina(t *testing.T) {
	e := testEngine(t, nil)
	e.current.Ammunition = 5
	food := e.current.Food

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionHunt, Target: "rabbit"})
	if r.Rejected {
		t.Fatalf("hunt rejected: %v", r.Output)
	}
	if r.State.Ammunition != 4 {
		t.Errorf("Ammunition = %d, want 4", r.State.Ammunition)
	}
	if r.State.Stamina != 80 {
		t.Errorf("Stamina = %d, want 80", r.State.Stamina)
	}
	if r.State.Food <= food {
		t.Errorf("Food = %d, want more than %d after a sure catch", r.State.Food, food)
	}
}

func TestHunt_FailureStillCosts(t *testing.T) {
	e := testEngine(t, nil)
	e.current.Ammunition = 2
	food := e.current.Food

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionHunt, Target: "boar"})
	if r.Rejected {
		t.Fatalf("hunt rejected: %v", r.Output)
	}
	if r.State.Ammunition != 1 || r.State.Stamina != 80 {
		t.Errorf("ammo %d stamina %d, want 1/80 on failure too", r.State.Ammunition, r.State.Stamina)
	}
	if r.State.Food != food {
		t.Errorf("Food = %d, want unchanged %d", r.State.Food, food)
	}
	if !ledger.HasCondition(r.State.Conditions, types.ConditionWounded) {
		t.Error("certain injury risk did not wound")
	}
}

func TestHunt_FailureInflictsInjury(t *testing.T) {
	e := testEngine(t, nil)

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionHunt, Target: "boar"})
	if r.Rejected {
		t.Fatalf("hunt rejected: %v", r.Output)
	}
	// The only drawable def in the test tables is the Cut; the infection
	// escalation target is never drawn directly.
	if len(r.State.Injuries) != 1 || r.State.Injuries[0].Type != "Cut" {
		t.Fatalf("Injuries = %v, want a single Cut", r.State.Injuries)
	}
	if r.State.Injuries[0].RecoveryTime < 1 {
		t.Error("injury rolled without a recovery time")
	}
}

func TestHunt_RejectedWithoutAmmo(t *testing.T) {
	e := testEngine(t, nil)
	e.current.Ammunition = 0

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionHunt, Target: "rabbit"})
	if !r.Rejected {
		t.Error("hunt without ammunition was not rejected")
	}
}

func TestHunt_FuzzyAnimalName(t *testing.T) {
	e := testEngine(t, nil)

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionHunt, Target: "rabit"})
	if r.Rejected {
		t.Errorf("misspelled rabbit rejected: %v", r.Output)
	}
}

func TestRepairWagon_Rejections(t *testing.T) {
	// No wagon at all.
	e := testEngine(t, nil)
	if r := e.Resolve(context.Background(), types.Action{Kind: types.ActionRepair}); !r.Rejected {
		t.Error("repair without a wagon was not rejected")
	}

	// Wagon fine.
	e = testEngine(t, nil)
	e.Player.HasWagon = true
	if r := e.Resolve(context.Background(), types.Action{Kind: types.ActionRepair}); !r.Rejected {
		t.Error("repair of an unbroken wagon was not rejected")
	}

	// Broken but no parts.
	e = testEngine(t, nil)
	e.Player.HasWagon = true
	e.current.Conditions = ledger.AddCondition(e.current.Conditions, types.ConditionBrokenWagon)
	e.current.SpareParts = 0
	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionRepair})
	if !r.Rejected {
		t.Error("repair without spare parts was not rejected")
	}
	if ledger.HasCondition(r.State.Conditions, types.ConditionBrokenWagon) == false {
		t.Error("rejection cleared the broken wagon")
	}
}

func TestRepairWagon_Success(t *testing.T) {
	e := testEngine(t, nil)
	e.Player.HasWagon = true
	e.current.Conditions = ledger.AddCondition(e.current.Conditions, types.ConditionBrokenWagon)
	e.current.SpareParts = 2

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionRepair})
	if r.Rejected {
		t.Fatalf("repair rejected: %v", r.Output)
	}
	if r.State.SpareParts != 1 {
		t.Errorf("SpareParts = %d, want 1", r.State.SpareParts)
	}
	if r.State.Stamina != 85 {
		t.Errorf("Stamina = %d, want 85", r.State.Stamina)
	}
	if ledger.HasCondition(r.State.Conditions, types.ConditionBrokenWagon) {
		t.Error("Broken Wagon condition survived the repair")
	}
}

func TestRest_RestoresAndClearsExhaustion(t *testing.T) {
	e := testEngine(t, nil)
	e.current.Stamina = 10
	e.current.Health = 95
	e.current.Conditions = ledger.AddCondition(e.current.Conditions, types.ConditionExhausted)

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionRest})
	if r.State.Stamina != 60 {
		t.Errorf("Stamina = %d, want 60", r.State.Stamina)
	}
	if r.State.Health != 100 {
		t.Errorf("Health = %d, want clamped 100", r.State.Health)
	}
	if ledger.HasCondition(r.State.Conditions, types.ConditionExhausted) {
		t.Error("Exhausted not cleared by rest")
	}
	if r.State.Day != 1 {
		t.Errorf("rest advanced the calendar to day %d", r.State.Day)
	}
}

func TestFeedParty_RejectsWhenShort(t *testing.T) {
	e := testEngine(t, nil)
	e.current.Party = []types.PartyMember{{Name: "Hans", Health: 60}, {Name: "Greta", Health: 60}}
	e.current.Food = 2 // three mouths need three food

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionFeedParty})
	if !r.Rejected {
		t.Error("feeding on short food was not rejected")
	}
	if r.State.Food != 2 {
		t.Errorf("rejection consumed food: %d", r.State.Food)
	}
}

func TestBuy_MerchantMarkup(t *testing.T) {
	e := testEngine(t, nil)
	e.current.Phase = types.PhaseMerchant
	e.current.Money = 100

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionBuy, Target: "hide", Amount: 1})
	if r.Rejected {
		t.Fatalf("buy rejected: %v", r.Output)
	}
	// 8 ducats marked up 1.25x.
	if r.State.Money != 90 {
		t.Errorf("Money = %d, want 90", r.State.Money)
	}
	if r.State.Inventory["hide"] != 1 {
		t.Errorf("Inventory[hide] = %d, want 1", r.State.Inventory["hide"])
	}
}

func TestBuy_RejectedOnTheRoad(t *testing.T) {
	e := testEngine(t, nil)
	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionBuy, Target: "bread"})
	if !r.Rejected {
		t.Error("buying while traveling was not rejected")
	}
}

func TestSell_HalfPrice(t *testing.T) {
	e := testEngine(t, nil)
	e.current.Phase = types.PhaseInCity
	e.current.Inventory["hide"] = 2
	money := e.current.Money

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionSell, Target: "hide", Amount: 2})
	if r.Rejected {
		t.Fatalf("sell rejected: %v", r.Output)
	}
	if r.State.Money != money+8 {
		t.Errorf("Money = %d, want %d", r.State.Money, money+8)
	}
	if _, held := r.State.Inventory["hide"]; held {
		t.Error("sold-out item still has an inventory entry")
	}
}

func TestUseItem_TreatsAndClears(t *testing.T) {
	e := testEngine(t, nil)
	e.current.Inventory["herbal remedy"] = 1
	e.current.Health = 80
	e.current.Conditions = ledger.AddCondition(e.current.Conditions, types.ConditionDiseased)
	e.current.Injuries = []types.Injury{{Type: "Infected Wound", HealthDrain: 3, RecoveryTime: 10}}

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionUseItem, Target: "herbal remedy"})
	if r.Rejected {
		t.Fatalf("use rejected: %v", r.Output)
	}
	if r.State.Health != 90 {
		t.Errorf("Health = %d, want 90", r.State.Health)
	}
	if ledger.HasCondition(r.State.Conditions, types.ConditionDiseased) {
		t.Error("Diseased not cleared")
	}
	if len(r.State.Injuries) != 0 {
		t.Errorf("injuries = %+v, want treated away", r.State.Injuries)
	}
	if _, held := r.State.Inventory["herbal remedy"]; held {
		t.Error("consumed item still has an inventory entry")
	}
}

func TestCraft_ProfessionGate(t *testing.T) {
	e := testEngine(t, nil) // Merchant
	e.current.Inventory["linen"] = 5

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionCraft, Target: "herbal remedy"})
	if !r.Rejected {
		t.Error("Healer-only recipe crafted by a Merchant")
	}

	r = e.Resolve(context.Background(), types.Action{Kind: types.ActionCraft, Target: "bandage"})
	if r.Rejected {
		t.Fatalf("universal recipe rejected: %v", r.Output)
	}
	if r.State.Inventory["linen"] != 3 {
		t.Errorf("Inventory[linen] = %d, want 3", r.State.Inventory["linen"])
	}
	if r.State.Inventory["bandage"] != 1 {
		t.Errorf("Inventory[bandage] = %d, want 1", r.State.Inventory["bandage"])
	}
	if r.State.Stamina != 85 {
		t.Errorf("Stamina = %d, want 85", r.State.Stamina)
	}
}

func TestConverse_Cooldown(t *testing.T) {
	e := testEngine(t, nil)
	e.current.Day = 5
	e.current.Party = []types.PartyMember{
		{Name: "Hans", Health: 100, Relationship: 40, LastConversation: 4},
	}

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionConverse, Target: "Hans"})
	if !r.Rejected {
		t.Error("deep conversation inside the cooldown was not rejected")
	}

	e.current.Party[0].LastConversation = 0
	r = e.Resolve(context.Background(), types.Action{Kind: types.ActionConverse, Target: "Hans"})
	if r.Rejected {
		t.Fatalf("first-ever conversation rejected: %v", r.Output)
	}
	if r.State.Party[0].Relationship != 45 {
		t.Errorf("Relationship = %d, want 45", r.State.Party[0].Relationship)
	}
}

func TestSetRations_Validation(t *testing.T) {
	e := testEngine(t, nil)

	r := e.Resolve(context.Background(), types.Action{Kind: types.ActionSetRations, Target: "lavish"})
	if !r.Rejected {
		t.Error("unknown ration level accepted")
	}

	r = e.Resolve(context.Background(), types.Action{Kind: types.ActionSetRations, Target: "meager"})
	if r.Rejected || r.State.RationLevel != types.RationMeager {
		t.Errorf("RationLevel = %q, want meager", r.State.RationLevel)
	}
}

func TestState_ReturnsDetachedCopy(t *testing.T) {
	e := testEngine(t, nil)
	s := e.State()
	s.Food = -999
	s.Inventory["bread"] = 50

	if e.current.Food == -999 {
		t.Error("mutating the returned state reached the authoritative state")
	}
	if e.current.Inventory["bread"] == 50 {
		t.Error("returned inventory aliases the authoritative map")
	}
}
