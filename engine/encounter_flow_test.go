package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/nathoo/pilgrim/types"
)

func TestStartEncounter_FallbackOnGeneratorFailure(t *testing.T) {
	e := testEngine(t, stubNarrator{err: errors.New("service unavailable")})

	npc, opts, err := e.StartEncounter(context.Background())
	if err != nil {
		t.Fatalf("StartEncounter failed: %v", err)
	}
	if npc.Name == "" {
		t.Error("fallback encounter has no NPC")
	}
	if len(opts) != 4 {
		t.Fatalf("got %d options, want 4", len(opts))
	}
	wantKinds := []types.NPCOptionKind{types.OptionFight, types.OptionMoney, types.OptionSkill, types.OptionCustom}
	for i, k := range wantKinds {
		if opts[i].Kind != k {
			t.Errorf("option %d kind = %q, want %q", i, opts[i].Kind, k)
		}
	}
}

func TestChooseEncounterOption_MoneyCost(t *testing.T) {
	e := testEngine(t, stubNarrator{err: errors.New("offline")}) // fallback both ways
	if _, _, err := e.StartEncounter(context.Background()); err != nil {
		t.Fatalf("StartEncounter failed: %v", err)
	}
	money := e.current.Money

	r := e.ChooseEncounterOption(context.Background(), 1, "") // offer ducats
	if r.Rejected {
		t.Fatalf("choice rejected: %v", r.Output)
	}
	if r.State.Money != money-5 {
		t.Errorf("Money = %d, want %d", r.State.Money, money-5)
	}
	if _, _, active := e.Encounter(); active {
		t.Error("encounter still active after resolution")
	}
}

func TestChooseEncounterOption_CustomNeedsText(t *testing.T) {
	e := testEngine(t, stubNarrator{err: errors.New("offline")})
	if _, _, err := e.StartEncounter(context.Background()); err != nil {
		t.Fatalf("StartEncounter failed: %v", err)
	}

	r := e.ChooseEncounterOption(context.Background(), 3, "   ")
	if !r.Rejected {
		t.Error("empty custom response was not rejected")
	}
	// Flow stays open so the player can answer properly.
	r = e.ChooseEncounterOption(context.Background(), 3, "Offer to share the fire tonight.")
	if r.Rejected {
		t.Fatalf("custom response rejected: %v", r.Output)
	}
}

func TestChooseEncounterOption_NoActiveEncounter(t *testing.T) {
	e := testEngine(t, nil)
	r := e.ChooseEncounterOption(context.Background(), 0, "")
	if !r.Rejected {
		t.Error("choice without an active encounter was not rejected")
	}
}

func TestStartEncounter_RejectedWhileBusy(t *testing.T) {
	e := testEngine(t, nil)
	e.resolving.Store(true)
	if _, _, err := e.StartEncounter(context.Background()); err == nil {
		t.Error("expected errBusy while a resolution is in flight")
	}
}

func TestDismissEncounter_ClosesFlow(t *testing.T) {
	e := testEngine(t, stubNarrator{err: errors.New("offline")})
	if _, _, err := e.StartEncounter(context.Background()); err != nil {
		t.Fatalf("StartEncounter failed: %v", err)
	}
	e.DismissEncounter()
	if _, _, active := e.Encounter(); active {
		t.Error("encounter still active after dismissal")
	}
}
