// Package party adjusts per-member relationship, trust, mood, and health
// from structured deltas and from local interactions (talking, feeding,
// resting), and prunes deceased members.
package party

import (
	"github.com/nathoo/pilgrim/engine/ledger"
	"github.com/nathoo/pilgrim/types"
)

// deepConversationCooldownDays gates deep conversations per member.
const deepConversationCooldownDays = 3

// Apply folds structured changes into the party. Changes are matched to
// members by exact name; changes naming nobody are dropped. Health and
// relationship are clamped to [0,100]. Trust is never set directly: it
// drifts from the relationship change (+1 on any gain, -2 on a loss worse
// than -5). Mood is overwritten verbatim when supplied.
func Apply(party []types.PartyMember, changes []types.PartyChange) []types.PartyMember {
	for _, ch := range changes {
		idx := -1
		for i := range party {
			if party[i].Name == ch.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		m := &party[idx]

		m.Health = ledger.Clamp(m.Health+ch.HealthChange, 0, 100)
		m.Relationship = ledger.Clamp(m.Relationship+ch.RelationshipChange, 0, 100)

		switch {
		case ch.RelationshipChange > 0:
			m.Trust = ledger.Clamp(m.Trust+1, 0, 100)
		case ch.RelationshipChange < -5:
			m.Trust = ledger.Clamp(m.Trust-2, 0, 100)
		}

		for _, c := range ch.ConditionsAdd {
			m.Conditions = ledger.AddCondition(m.Conditions, types.Condition(c))
		}
		for _, c := range ch.ConditionsRemove {
			m.Conditions = ledger.RemoveCondition(m.Conditions, types.Condition(c))
		}

		if ch.Mood != "" {
			m.Mood = types.Mood(ch.Mood)
		}
	}
	return party
}

// Talk is the light interaction: +3 relationship, repeatable any time.
func Talk(party []types.PartyMember, name string) ([]types.PartyMember, bool) {
	for i := range party {
		if party[i].Name == name {
			party[i].Relationship = ledger.Clamp(party[i].Relationship+3, 0, 100)
			return party, true
		}
	}
	return party, false
}

// CanConverse reports whether a deep conversation with the member is
// permitted on the given day. The cooldown is 3 in-game days.
func CanConverse(m types.PartyMember, day int) bool {
	if m.LastConversation == 0 {
		return true
	}
	return day-m.LastConversation >= deepConversationCooldownDays
}

// DeepConversation is the heavy interaction: +5 relationship (+8 once the
// bond is already strong), +3 trust, gated to once every 3 days per member.
// The member's mood is set from the resulting relationship tier. Returns
// false without mutation if the member is unknown or still on cooldown.
func DeepConversation(party []types.PartyMember, name string, day int) ([]types.PartyMember, bool) {
	for i := range party {
		if party[i].Name != name {
			continue
		}
		m := &party[i]
		if !CanConverse(*m, day) {
			return party, false
		}
		gain := 5
		if m.Relationship >= 60 {
			gain = 8
		}
		m.Relationship = ledger.Clamp(m.Relationship+gain, 0, 100)
		m.Trust = ledger.Clamp(m.Trust+3, 0, 100)
		m.LastConversation = day
		m.Mood = moodForRelationship(m.Relationship)
		return party, true
	}
	return party, false
}

// moodForRelationship maps a relationship score to a mood tier.
func moodForRelationship(rel int) types.Mood {
	switch {
	case rel >= 75:
		return types.MoodHappy
	case rel >= 50:
		return types.MoodContent
	case rel >= 25:
		return types.MoodNeutral
	default:
		return types.MoodWorried
	}
}

// PruneDead removes every member whose health has reached zero. Removal is
// permanent; there is no resurrection path. The survivors keep their
// insertion order. Returns the survivors and the names of the removed.
func PruneDead(party []types.PartyMember) ([]types.PartyMember, []string) {
	var removed []string
	alive := party[:0]
	for _, m := range party {
		if m.Health <= 0 {
			removed = append(removed, m.Name)
			continue
		}
		alive = append(alive, m)
	}
	return alive, removed
}
