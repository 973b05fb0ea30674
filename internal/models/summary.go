package models

// SessionSummary is the serialization boundary for cross-session
// persistence. It carries everything needed to restore a session mid-flight:
// stats, counters, flag sets, event logs and the mutation slot state.
// The persistence collaborator owns the encoding.
type SessionSummary struct {
	CharacterStats CharacterStats `json:"characterStats"`
	HiddenStats    HiddenStats    `json:"hiddenStats"`

	ChoiceCount      int      `json:"choiceCount"`
	ChoiceHistory    []string `json:"choiceHistory"`
	EventFlags       []string `json:"eventFlags"`
	InstabilityLevel int      `json:"instabilityLevel"`
	MomentumLevel    int      `json:"momentumLevel"`
	EventTimer       int      `json:"eventTimer"`
	ClimaxTriggered  bool     `json:"climaxTriggered"`
	MustEndSoon      bool     `json:"mustEndSoon"`

	Discoveries        []string `json:"discoveries"`
	ActiveThreats      []string `json:"activeThreats"`
	Transformations    []string `json:"transformations"`
	HorrorConceptsUsed []string `json:"horrorConceptsUsed"`

	MutationHistory   []string `json:"mutationHistory"`
	MutationCooldown  int      `json:"mutationCooldown"`
	ActiveMutationKey string   `json:"activeMutationKey,omitempty"`
	MutationDuration  int      `json:"mutationDuration,omitempty"`

	RevelationLevel int `json:"revelationLevel"`
	SessionCount    int `json:"sessionCount"`
}
