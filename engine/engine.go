// Package engine implements the journey state machine and resource
// resolution: it owns the authoritative GameState, applies player actions
// and exogenous effects under fixed precedence rules, and drives phase
// transitions and terminal conditions.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/nathoo/pilgrim/engine/encounter"
	"github.com/nathoo/pilgrim/engine/state"
	"github.com/nathoo/pilgrim/narrative"
	"github.com/nathoo/pilgrim/types"
)

// errBusy is returned when a second resolution is attempted while one is
// already in flight.
var errBusy = errors.New("a resolution is already in flight")

// Engine holds the content definitions, the player profile, and the single
// authoritative journey state.
type Engine struct {
	Defs     *state.Defs
	Player   *types.Player
	RNG      *RNG
	Narrator narrative.Narrator

	current    *types.GameState
	flow       encounter.Flow
	huntOffers []types.AnimalDef

	// encounterPending is set after a travel week that should open an
	// encounter; the front end decides when to start it.
	encounterPending bool

	// resolving guards against overlapping resolutions: the UI may read
	// state while a narrative call is in flight, but not mutate.
	resolving atomic.Bool
}

// New creates an engine for the given player. A nil narrator means offline
// play on the deterministic fallback.
func New(defs *state.Defs, player *types.Player, seed int64, narrator narrative.Narrator) *Engine {
	if narrator == nil {
		narrator = narrative.Fallback{}
	}
	return &Engine{
		Defs:     defs,
		Player:   player,
		RNG:      NewRNG(seed),
		Narrator: narrator,
		current:  state.NewState(defs, player),
	}
}

// Restore rebuilds an engine from a saved journey. The RNG is advanced to
// its saved position so the dice continue where they left off.
func Restore(defs *state.Defs, player *types.Player, saved *types.GameState, seed, position int64, narrator narrative.Narrator) *Engine {
	if narrator == nil {
		narrator = narrative.Fallback{}
	}
	return &Engine{
		Defs:     defs,
		Player:   player,
		RNG:      RestoreRNG(seed, position),
		Narrator: narrator,
		current:  state.Clone(saved),
	}
}

// SetParty installs the starting companions. Journey setup only; once play
// begins the party changes only through resolution.
func (e *Engine) SetParty(members []types.PartyMember) {
	e.current.Party = append([]types.PartyMember(nil), members...)
}

// State returns a deep copy of the current state. Callers can never reach
// the authoritative state through it.
func (e *Engine) State() types.GameState {
	return *state.Clone(e.current)
}

// GameOver reports whether a terminal outcome has fired.
func (e *Engine) GameOver() bool {
	return e.current.Outcome != types.OutcomeNone
}

// EncounterPending reports whether the last travel week left a roadside
// encounter waiting to be started.
func (e *Engine) EncounterPending() bool {
	return e.encounterPending
}

// snapshot wraps the current state in a Result without mutation.
func (e *Engine) snapshot() types.Result {
	return types.Result{State: e.State()}
}

// reject returns the unchanged state with a user-visible message.
func (e *Engine) reject(msg string) types.Result {
	r := e.snapshot()
	r.Rejected = true
	r.Output = append(r.Output, msg)
	return r
}

// commit runs terminal checks on the candidate state, installs it as the
// authoritative state, and returns the result.
func (e *Engine) commit(next *types.GameState, output []string, events []types.Event) types.Result {
	e.checkTerminal(next, &output, &events)
	e.current = next
	return types.Result{State: *state.Clone(next), Output: output, Events: events}
}

// checkTerminal evaluates the three end conditions in fixed order. Exactly
// one fires; once set, the outcome is never overwritten.
func (e *Engine) checkTerminal(s *types.GameState, output *[]string, events *[]types.Event) {
	if s.Outcome != types.OutcomeNone {
		return
	}
	switch {
	case s.DistanceToRome <= 0:
		s.Outcome = types.OutcomeArrival
		s.OutcomeMessage = "The walls of Rome rise at last above the road. You have arrived."
	case s.Health <= 0:
		s.Outcome = types.OutcomeDeath
		if s.OutcomeMessage == "" {
			s.OutcomeMessage = "Your strength gives out. The journey ends here."
		}
	case s.Food <= 0 && s.Money <= 0 && !state.HasEmergencyFood(s, e.Defs):
		s.Outcome = types.OutcomeStarvation
		s.OutcomeMessage = "No food, no coin, and nothing left to trade. The party starves on the road."
	default:
		return
	}
	*output = append(*output, s.OutcomeMessage)
	*events = append(*events, types.Event{Type: "game_over", Data: map[string]any{"outcome": string(s.Outcome)}})
}

// Resolve processes one player action to completion. Only one resolution is
// ever in flight; a second call while one is running is rejected without
// state change. After a terminal outcome the state is a sink: every further
// call returns the game-over notice.
func (e *Engine) Resolve(ctx context.Context, action types.Action) types.Result {
	if !e.resolving.CompareAndSwap(false, true) {
		return e.reject("The party is still busy with that.")
	}
	defer e.resolving.Store(false)

	if e.current.Outcome != types.OutcomeNone {
		r := e.snapshot()
		r.Output = append(r.Output, gameOverNotice(e.current))
		return r
	}

	// Starvation (and any other terminal condition already satisfied) fires
	// on the next resolution cycle regardless of the action taken.
	probe := state.Clone(e.current)
	var out []string
	var evts []types.Event
	e.checkTerminal(probe, &out, &evts)
	if probe.Outcome != types.OutcomeNone {
		return e.commit(probe, out, evts)
	}

	switch action.Kind {
	case types.ActionTravel:
		return e.resolveTravel(ctx, action)
	case types.ActionRest:
		return e.resolveRest()
	case types.ActionFeedParty:
		return e.resolveFeedParty()
	case types.ActionMakeCamp:
		return e.resolveMakeCamp()
	case types.ActionBreakCamp:
		return e.resolveBreakCamp()
	case types.ActionLeaveCity:
		return e.resolveLeaveCity()
	case types.ActionRepair:
		return e.resolveRepairWagon()
	case types.ActionHunt:
		return e.resolveHunt(action)
	case types.ActionForage:
		return e.resolveForage()
	case types.ActionCraft:
		return e.resolveCraft(action)
	case types.ActionUseItem:
		return e.resolveUseItem(action)
	case types.ActionTalk:
		return e.resolveTalk(action)
	case types.ActionConverse:
		return e.resolveConverse(action)
	case types.ActionBuy:
		return e.resolveBuy(action)
	case types.ActionSell:
		return e.resolveSell(action)
	case types.ActionSetRations:
		return e.resolveSetRations(action)
	case types.ActionSetFocus:
		return e.resolveSetFocus(action)
	default:
		return e.reject(fmt.Sprintf("Nothing comes of %q.", action.Kind))
	}
}

func gameOverNotice(s *types.GameState) string {
	if s.Outcome == types.OutcomeArrival {
		return "The journey is over: you reached Rome."
	}
	return "The journey is over: " + s.OutcomeMessage
}
