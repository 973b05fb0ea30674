// Package messaging carries the narrative-generation contract over
// RabbitMQ: the service publishes a task per processed turn and consumes
// the generator's results.
package messaging

import "narrator-server/internal/models"

// Result statuses reported by the narrative generator.
const (
	ResultStatusSuccess = "success"
	ResultStatusError   = "error"
)

// MutationDirective tells the generator which presentation mutation is
// active for the upcoming scene.
type MutationDirective struct {
	Key          string           `json:"key"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Announcement string           `json:"announcement,omitempty"`
	InputMode    models.InputMode `json:"inputMode"`
}

// EndingDirective tells the generator the session has resolved and which
// ending scene to produce.
type EndingDirective struct {
	Key             string `json:"key"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	Seed            string `json:"seed"`
	RevelationAware bool   `json:"revelationAware"`
	IsGood          bool   `json:"isGood"`
}

// NarrativeTaskPayload is one scene-generation request. It carries the full
// progression context plus the directives derived from this turn.
type NarrativeTaskPayload struct {
	TaskID    string `json:"task_id"`
	SessionID string `json:"session_id"`

	ChoiceText  string `json:"choice_text"`
	ChoiceIndex int    `json:"choice_index"`

	Context models.ProgressionSnapshot `json:"context"`

	// Feedback line about the last turn's damage, "" when none.
	Feedback string `json:"feedback,omitempty"`

	// One-shot warning that health just went critical.
	LowHealthWarning bool `json:"low_health_warning,omitempty"`

	Mutation *MutationDirective `json:"mutation,omitempty"`
	Ending   *EndingDirective   `json:"ending,omitempty"`
}

// NarrativeResultPayload is the generator's answer: the scene text, the
// next choice list, and the stat consequences and events the scene implies.
type NarrativeResultPayload struct {
	TaskID    string `json:"task_id"`
	SessionID string `json:"session_id"`
	Status    string `json:"status"`

	Narrative string   `json:"narrative,omitempty"`
	Choices   []string `json:"choices,omitempty"`

	Consequences map[string]int          `json:"consequences,omitempty"`
	Events       []models.NarrativeEvent `json:"events,omitempty"`
	EventFlags   []string                `json:"event_flags,omitempty"`

	ErrorDetails string `json:"error_details,omitempty"`
}
