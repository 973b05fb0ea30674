package models

// EventType distinguishes the narrative events that reset the event timer.
type EventType string

const (
	EventDiscovery      EventType = "discovery"
	EventThreat         EventType = "threat"
	EventTransformation EventType = "transformation"
)

// NarrativeEvent is one event reported alongside generated narrative.
type NarrativeEvent struct {
	Type        EventType `json:"type"`
	Description string    `json:"description"`
}

// VisualIntensity describes how degraded the presentation should be, derived
// from choice count and instability. Consumed by the rendering collaborator.
type VisualIntensity string

const (
	IntensityStable    VisualIntensity = "stable"
	IntensityUnsettled VisualIntensity = "unsettled"
	IntensityDisturbed VisualIntensity = "disturbed"
	IntensityBreaking  VisualIntensity = "breaking"
	IntensityCollapsed VisualIntensity = "collapsed"
)

// ProgressionSnapshot is the read-only aggregate view of a session handed to
// the narrative-generation collaborator and returned from choice processing.
// Two snapshots taken without an intervening state change are identical.
type ProgressionSnapshot struct {
	CharacterStats CharacterStats `json:"characterStats"`
	HiddenStats    HiddenStats    `json:"hiddenStats"`

	ChoiceCount      int             `json:"choiceCount"`
	PreviousChoice   string          `json:"previousChoice"`
	RecentNarrative  string          `json:"recentNarrative"`
	InstabilityLevel int             `json:"instabilityLevel"`
	VisualIntensity  VisualIntensity `json:"visualIntensity"`
	EventFlags       []string        `json:"eventFlags"`

	// Event tracking for forced progression.
	EventUrgency      bool     `json:"eventUrgency"`
	RecentDiscoveries []string `json:"recentDiscoveries"`
	ActiveThreats     []string `json:"activeThreats"`
	Transformations   []string `json:"transformations"`

	// Concept variety steering for the generator.
	HorrorConceptsUsed   []string `json:"horrorConceptsUsed"`
	ConceptDiversityHint string   `json:"conceptDiversityHint,omitempty"`

	// Narrative momentum and pacing.
	MomentumLevel   int    `json:"momentumLevel"`
	PacingHint      string `json:"pacingHint,omitempty"`
	ClimaxTriggered bool   `json:"climaxTriggered"`
	MustEndSoon     bool   `json:"mustEndSoon"`

	// Per-turn consequence feedback.
	LastDangerLevel DangerLevel `json:"lastDangerLevel"`
	LastDamageDealt int         `json:"lastDamageDealt"`
	// HealthOverkill is how far below zero the last fatal health delta would
	// have landed before clamping. Zero unless health is 0.
	HealthOverkill int `json:"healthOverkill"`

	// External meta-narrative progression, consumed but never computed here.
	RevelationLevel int `json:"revelationLevel"`
	SessionCount    int `json:"sessionCount"`
}
