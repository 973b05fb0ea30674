package models

// MutationCategory splits the mutation catalog into the pool available from
// the start and the pool unlocked at high revelation.
type MutationCategory string

const (
	MutationModerate MutationCategory = "moderate"
	MutationWild     MutationCategory = "wild"
)

// Mutation is an immutable definition of a temporary rule change applied to
// how turns are presented. Duration counts turns; 0 means a one-shot effect
// that clears on the next check.
type Mutation struct {
	Name         string           `json:"name"`
	Key          string           `json:"key"`
	Category     MutationCategory `json:"category"`
	Description  string           `json:"description"`
	Announcement string           `json:"announcement"`
	Duration     int              `json:"duration"`
}

// InputMode tells the rendering collaborator how player input should be
// collected while a mutation is active.
type InputMode string

const (
	InputModeStandard     InputMode = "standard"
	InputModeFreeText     InputMode = "free_text"
	InputModeTimed        InputMode = "timed"
	InputModeAutoContinue InputMode = "auto_continue"
)
