// Package types defines the shared data structures for the Pilgrim engine.
// This package contains only type definitions — no logic, no methods.
package types

// GamePhase is the top-level mode of play, driving which actions are legal.
type GamePhase string

const (
	PhaseTraveling GamePhase = "traveling"
	PhaseCamp      GamePhase = "camp"
	PhaseInCity    GamePhase = "in_city"
	PhaseMerchant  GamePhase = "merchant_encounter"
)

// Condition is a tag on the player or a party member (Wounded, Diseased, ...).
type Condition string

const (
	ConditionWounded     Condition = "Wounded"
	ConditionDiseased    Condition = "Diseased"
	ConditionExhausted   Condition = "Exhausted"
	ConditionBrokenWagon Condition = "Broken Wagon"
	ConditionStarving    Condition = "Starving"
)

// InjurySeverity scales an injury's drains and recovery time.
// The constants are ordered from least to most severe.
type InjurySeverity int

const (
	SeverityMinor InjurySeverity = iota
	SeverityModerate
	SeveritySevere
	SeverityCritical
)

// Weather is re-rolled on each Travel action.
type Weather string

const (
	WeatherClear Weather = "Clear"
	WeatherRain  Weather = "Rain"
	WeatherStorm Weather = "Storm"
	WeatherSnow  Weather = "Snow"
	WeatherFog   Weather = "Fog"
)

// Terrain is re-rolled on each Travel action.
type Terrain string

const (
	TerrainPlains   Terrain = "Plains"
	TerrainForest   Terrain = "Forest"
	TerrainHills    Terrain = "Hills"
	TerrainMountain Terrain = "Mountains"
	TerrainRiver    Terrain = "River Crossing"
)

// Season is derived from the calendar month, never set directly.
type Season string

const (
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonAutumn Season = "Autumn"
	SeasonWinter Season = "Winter"
)

// RationLevel trades food consumption against stamina recovery on Travel.
type RationLevel string

const (
	RationMeager  RationLevel = "meager"
	RationNormal  RationLevel = "normal"
	RationFilling RationLevel = "filling"
)

// WeeklyFocus is a player-selected travel-style modifier.
type WeeklyFocus string

const (
	FocusNormal   WeeklyFocus = "normal"
	FocusCautious WeeklyFocus = "cautious"
	FocusFast     WeeklyFocus = "fast"
	FocusForage   WeeklyFocus = "forage"
	FocusBond     WeeklyFocus = "bond"
	FocusVigilant WeeklyFocus = "vigilant"
)

// Transportation multiplies distance gained on Travel.
type Transportation string

const (
	TransportFoot     Transportation = "On Foot"
	TransportWagon    Transportation = "Wagon"
	TransportCarriage Transportation = "Carriage"
	TransportHorse    Transportation = "Horse"
	TransportRoyal    Transportation = "Royal Procession"
)

// Mood is a party member's current disposition.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodContent Mood = "content"
	MoodNeutral Mood = "neutral"
	MoodWorried Mood = "worried"
	MoodAngry   Mood = "angry"
)

// PersonalityTrait is fixed at party member creation.
type PersonalityTrait string

const (
	TraitCheerful    PersonalityTrait = "cheerful"
	TraitStoic       PersonalityTrait = "stoic"
	TraitAnxious     PersonalityTrait = "anxious"
	TraitHotheaded   PersonalityTrait = "hotheaded"
	TraitPious       PersonalityTrait = "pious"
	TraitResourceful PersonalityTrait = "resourceful"
)

// PartyRole describes a member's place in the traveling party.
type PartyRole string

const (
	RoleSpouse    PartyRole = "spouse"
	RoleChild     PartyRole = "child"
	RoleGuard     PartyRole = "guard"
	RoleServant   PartyRole = "servant"
	RoleCompanion PartyRole = "companion"
)

// Injury is a richer affliction than a Condition tag: it drains health and
// stamina daily and heals (or worsens) over time.
type Injury struct {
	Type          string
	Severity      InjurySeverity
	HealthDrain   int
	StaminaDrain  int
	RecoveryTime  int // days until healed
	DaysAfflicted int
	Description   string
}

// PartyMember travels with the player. Name is the identity key: lookups are
// by name, so names must be unique within a party.
type PartyMember struct {
	Name             string
	Role             PartyRole
	Age              int
	Health           int // 0..100
	Conditions       []Condition
	Injuries         []Injury
	Relationship     int // 0..100
	Trust            int // 0..100
	Mood             Mood
	Trait            PersonalityTrait
	LastConversation int // day of last deep conversation, 0 = never
}

// Skills are fixed at character creation.
type Skills struct {
	Combat    int
	Diplomacy int
	Survival  int
	Medicine  int
	Stealth   int
	Knowledge int
}

// Equipment is what the player currently carries in each slot.
type Equipment struct {
	Weapon string
	Armor  string
	Tool   string
}

// Checkpoint is a named waypoint along the route with a trigger distance.
type Checkpoint struct {
	Name     string
	Distance int
}

// Player is the immutable profile fixed at character creation.
type Player struct {
	Name           string
	Profession     string
	Gender         string
	Age            int
	Origin         string
	Route          []Checkpoint // ordered by ascending distance; last is the destination
	Motivation     string
	Languages      []string
	Reputation     int
	Transportation Transportation
	HasWagon       bool
	Skills         Skills
}

// TerminalOutcome is set once when the journey ends; the state is then a sink.
type TerminalOutcome string

const (
	OutcomeNone       TerminalOutcome = ""
	OutcomeArrival    TerminalOutcome = "arrival"
	OutcomeDeath      TerminalOutcome = "death"
	OutcomeStarvation TerminalOutcome = "starvation"
)

// GameState is the complete state of a journey. The resolver returns a fresh
// copy on every transition; callers never see partial writes.
type GameState struct {
	Day        int
	Year       int
	Month      int // 1..12
	DayOfMonth int

	DistanceTraveled int
	DistanceToRome   int

	Health     int // 0..100
	Stamina    int // 0..100
	Food       int
	Money      int // ducats
	Oxen       int
	Ammunition int
	SpareParts int

	Inventory  map[string]int // no entry ever maps to a value <= 0
	Conditions []Condition    // set semantics, no duplicates
	Injuries   []Injury

	Phase GamePhase
	Party []PartyMember // insertion order preserved

	Weather Weather
	Terrain Terrain
	Season  Season

	RationLevel RationLevel
	WeeklyFocus WeeklyFocus
	Equipment   Equipment

	CurrentLocation string
	NextCheckpoint  int // index into Player.Route of the next unvisited checkpoint

	Outcome        TerminalOutcome
	OutcomeMessage string
}

// InventoryChange adjusts one item's quantity.
type InventoryChange struct {
	Item   string `yaml:"item"`
	Change int    `yaml:"change"`
}

// PartyChange is a structured adjustment to one member, matched by name.
type PartyChange struct {
	Name               string   `yaml:"name"`
	HealthChange       int      `yaml:"health_change"`
	ConditionsAdd      []string `yaml:"conditions_add"`
	ConditionsRemove   []string `yaml:"conditions_remove"`
	RelationshipChange int      `yaml:"relationship_change"`
	Mood               string   `yaml:"mood"`
}

// OutcomeDelta is the structured set of proposed changes produced by either
// local rules or the external narrative generator. It is folded into
// GameState once and discarded, never stored.
type OutcomeDelta struct {
	Description         string            `yaml:"description"`
	WeeklyHappenings    []string          `yaml:"weekly_happenings"`
	InstantDeath        bool              `yaml:"instant_death"`
	DeathMessage        string            `yaml:"death_message"`
	HealthChange        int               `yaml:"health_change"`
	FoodChange          int               `yaml:"food_change"`
	MoneyChange         int               `yaml:"money_change"`
	OxenChange          int               `yaml:"oxen_change"`
	DistanceChange      int               `yaml:"distance_change"`
	MerchantEncountered bool              `yaml:"merchant_encountered"`
	InventoryChanges    []InventoryChange `yaml:"inventory_changes"`
	ConditionsAdd       []string          `yaml:"conditions_add"`
	ConditionsRemove    []string          `yaml:"conditions_remove"`
	PartyChanges        []PartyChange     `yaml:"party_changes"`
}

// ActionKind enumerates the player intents the resolver accepts.
type ActionKind string

const (
	ActionTravel     ActionKind = "travel"
	ActionRest       ActionKind = "rest"
	ActionFeedParty  ActionKind = "feed_party"
	ActionMakeCamp   ActionKind = "make_camp"
	ActionBreakCamp  ActionKind = "break_camp"
	ActionLeaveCity  ActionKind = "leave_city"
	ActionRepair     ActionKind = "repair_wagon"
	ActionHunt       ActionKind = "hunt"
	ActionForage     ActionKind = "forage"
	ActionCraft      ActionKind = "craft"
	ActionUseItem    ActionKind = "use_item"
	ActionTalk       ActionKind = "talk"
	ActionConverse   ActionKind = "deep_conversation"
	ActionBuy        ActionKind = "buy"
	ActionSell       ActionKind = "sell"
	ActionSetRations ActionKind = "set_rations"
	ActionSetFocus   ActionKind = "set_focus"
)

// Action is one player intent handed to the resolver.
type Action struct {
	Kind   ActionKind
	Target string // item, animal, recipe, or member name depending on Kind
	Amount int    // quantity for buy/sell
}

// Event is emitted when a resolution causes a notable state change.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single resolution.
type Result struct {
	State    GameState // the new authoritative state
	Rejected bool      // true if the action was refused with no state change
	Output   []string
	Events   []Event
}

// NPCOptionKind tags one of the four fixed encounter responses.
type NPCOptionKind string

const (
	OptionFight  NPCOptionKind = "fight"
	OptionMoney  NPCOptionKind = "money"
	OptionSkill  NPCOptionKind = "skill"
	OptionCustom NPCOptionKind = "custom"
)

// NPCOption is one of exactly four ways to respond to an encounter.
type NPCOption struct {
	Kind      NPCOptionKind `yaml:"kind"`
	Text      string        `yaml:"text"`
	Skill     string        `yaml:"skill"`     // skill option only
	Threshold int           `yaml:"threshold"` // skill option only
	Cost      int           `yaml:"cost"`      // money option only; negative = gain
}

// NPC is the generated counterpart in an encounter.
type NPC struct {
	Name           string `yaml:"name"`
	Type           string `yaml:"type"`
	Description    string `yaml:"description"`
	Mood           string `yaml:"mood"`
	Dialogue       string `yaml:"dialogue"`
	TravelExigence string `yaml:"travel_exigence"`
}

// ItemDef is a static item definition from content.
type ItemDef struct {
	Name          string
	Price         int
	HealthEffect  int
	StaminaEffect int
	FoodEffect    int
	EmergencyFood bool
	Treats        []string    // injury types this item can treat
	Clears        []Condition // conditions removed on use
}

// RecipeDef is the canonical recipe form: a cost map and a result.
// Legacy single-item recipes are normalized to this shape at load time.
type RecipeDef struct {
	Name       string
	Profession string // empty = universal
	Costs      map[string]int
	Result     string
	Quantity   int
}

// AnimalDef describes one huntable animal.
type AnimalDef struct {
	Name          string
	SuccessChance int // percent
	FoodYieldMin  int
	FoodYieldMax  int
	InjuryRisk    int // percent chance of a Wounded condition on failure
}

// InjuryDef is the base definition an Injury is scaled from.
type InjuryDef struct {
	Type             string
	BaseHealthDrain  int
	BaseStaminaDrain int
	BaseRecoveryTime int
	MinSeverity      InjurySeverity
	MaxSeverity      InjurySeverity
	CanInfect        bool
	Description      string
}

// ProfessionDef holds profession starting stats and bonuses.
type ProfessionDef struct {
	Name          string
	StartingMoney int
	StartingFood  int
	Skills        Skills
	HuntBonus     int // added to hunt success chance
	Equipment     Equipment
}

// RouteDef is an ordered list of checkpoints ending at the destination.
type RouteDef struct {
	Name        string
	Origin      string
	Checkpoints []Checkpoint
}

// GameDef holds content metadata.
type GameDef struct {
	Title   string
	Version string
	Intro   string
}
