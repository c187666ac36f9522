package narrative

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/pilgrim/types"
)

//go:embed prompts/propose_outcome.txt
var proposeOutcomePrompt string

//go:embed prompts/generate_encounter.txt
var generateEncounterPrompt string

//go:embed prompts/resolve_encounter.txt
var resolveEncounterPrompt string

// Gemini is the production Narrator backed by Google's generative models.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini narrator. Close must be called when done.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{
		client: client,
		model:  client.GenerativeModel("gemini-2.5-flash"),
	}, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() {
	g.client.Close()
}

// promptData is what every prompt template receives: YAML snapshots of the
// relevant context, rendered once here so the templates stay declarative.
type promptData struct {
	StateYAML  string
	PlayerYAML string
	Action     string
	Target     string
	NPCYAML    string
	OptionYAML string
	CustomText string
	SkillYAML  string
}

func buildTravelData(tc TravelContext) (promptData, error) {
	stateYAML, err := yaml.Marshal(snapshotForPrompt(tc.State))
	if err != nil {
		return promptData{}, err
	}
	playerYAML, err := yaml.Marshal(tc.Player)
	if err != nil {
		return promptData{}, err
	}
	return promptData{
		StateYAML:  string(stateYAML),
		PlayerYAML: string(playerYAML),
		Action:     string(tc.Action.Kind),
		Target:     tc.Action.Target,
	}, nil
}

// snapshotForPrompt trims the state to the fields the generator needs, so
// the prompt stays small and the model is not tempted to echo bookkeeping.
func snapshotForPrompt(s types.GameState) map[string]any {
	partyNames := make([]string, 0, len(s.Party))
	for _, m := range s.Party {
		partyNames = append(partyNames, fmt.Sprintf("%s (%s, health %d, mood %s)", m.Name, m.Role, m.Health, m.Mood))
	}
	return map[string]any{
		"day":               s.Day,
		"season":            s.Season,
		"weather":           s.Weather,
		"terrain":           s.Terrain,
		"health":            s.Health,
		"stamina":           s.Stamina,
		"food":              s.Food,
		"ducats":            s.Money,
		"conditions":        s.Conditions,
		"party":             partyNames,
		"distance_traveled": s.DistanceTraveled,
		"distance_to_rome":  s.DistanceToRome,
		"current_location":  s.CurrentLocation,
		"weekly_focus":      s.WeeklyFocus,
	}
}

// generate renders the template and asks the model, returning raw text.
func (g *Gemini) generate(ctx context.Context, name, tmplText string, data promptData) (string, error) {
	tmpl, err := template.New(name).Parse(tmplText)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(buf.String()))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from model")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from model")
	}
	return string(text), nil
}

// ProposeOutcome asks the model for a travel outcome delta.
func (g *Gemini) ProposeOutcome(ctx context.Context, tc TravelContext) (types.OutcomeDelta, error) {
	data, err := buildTravelData(tc)
	if err != nil {
		return types.OutcomeDelta{}, err
	}
	raw, err := g.generate(ctx, "propose_outcome", proposeOutcomePrompt, data)
	if err != nil {
		return types.OutcomeDelta{}, err
	}
	delta, err := ParseOutcome(raw)
	if err != nil {
		return types.OutcomeDelta{}, err
	}
	// Travel food cost is a local rule; the generator is instructed to
	// propose zero but a misbehaving model must not double-count it.
	if tc.Action.Kind == types.ActionTravel {
		delta.FoodChange = 0
	}
	return delta, nil
}

// GenerateEncounter asks the model for an NPC and its four fixed options.
func (g *Gemini) GenerateEncounter(ctx context.Context, tc TravelContext) (types.NPC, []types.NPCOption, error) {
	data, err := buildTravelData(tc)
	if err != nil {
		return types.NPC{}, nil, err
	}
	raw, err := g.generate(ctx, "generate_encounter", generateEncounterPrompt, data)
	if err != nil {
		return types.NPC{}, nil, err
	}
	return ParseEncounter(raw)
}

// ResolveEncounter asks the model to narrate the chosen response.
func (g *Gemini) ResolveEncounter(ctx context.Context, ec EncounterContext) (types.OutcomeDelta, error) {
	data, err := buildTravelData(TravelContext{State: ec.State, Player: ec.Player})
	if err != nil {
		return types.OutcomeDelta{}, err
	}
	npcYAML, err := yaml.Marshal(ec.NPC)
	if err != nil {
		return types.OutcomeDelta{}, err
	}
	optYAML, err := yaml.Marshal(ec.Option)
	if err != nil {
		return types.OutcomeDelta{}, err
	}
	data.NPCYAML = string(npcYAML)
	data.OptionYAML = string(optYAML)
	data.CustomText = ec.CustomText
	if ec.SkillCheck != nil {
		skillYAML, err := yaml.Marshal(ec.SkillCheck)
		if err != nil {
			return types.OutcomeDelta{}, err
		}
		data.SkillYAML = string(skillYAML)
	}

	raw, err := g.generate(ctx, "resolve_encounter", resolveEncounterPrompt, data)
	if err != nil {
		return types.OutcomeDelta{}, err
	}
	return ParseOutcome(raw)
}
