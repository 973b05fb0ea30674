package handler

import (
	"github.com/google/uuid"

	"narrator-server/internal/models"
)

// CreateSessionRequest starts a new narrator run.
type CreateSessionRequest struct {
	PlayerID        uuid.UUID `json:"player_id" validate:"required"`
	RevelationLevel int       `json:"revelation_level" validate:"min=0,max=5"`
}

// CreateSessionResponse returns the new session and its opening context.
type CreateSessionResponse struct {
	SessionID uuid.UUID                  `json:"session_id"`
	Status    models.SessionStatus       `json:"status"`
	Context   models.ProgressionSnapshot `json:"context"`
}

// SubmitChoiceRequest carries one player choice.
type SubmitChoiceRequest struct {
	ChoiceText  string `json:"choice_text" validate:"required,max=500"`
	ChoiceIndex int    `json:"choice_index" validate:"min=-1"`
}

// SubmitChoiceResponse is the turn outcome. Ending and Mutation are only
// present when the turn produced them; the narrative itself arrives
// asynchronously under TaskID.
type SubmitChoiceResponse struct {
	SessionID uuid.UUID                  `json:"session_id"`
	TaskID    string                     `json:"task_id,omitempty"`
	Context   models.ProgressionSnapshot `json:"context"`
	Ending    *models.Ending             `json:"ending,omitempty"`
	Mutation  *models.Mutation           `json:"mutation,omitempty"`
	Feedback  string                     `json:"feedback,omitempty"`
	InputMode models.InputMode           `json:"input_mode"`
}

// ApplyConsequencesRequest feeds stat deltas and narrative events into a
// session from a collaborating service.
type ApplyConsequencesRequest struct {
	Consequences map[string]int      `json:"consequences" validate:"required"`
	Events       []NarrativeEventDTO `json:"events,omitempty" validate:"dive"`
}

// NarrativeEventDTO mirrors models.NarrativeEvent on the wire.
type NarrativeEventDTO struct {
	Type        string `json:"type" validate:"required,oneof=discovery threat transformation"`
	Description string `json:"description" validate:"max=500"`
}

// SessionSummaryResponse exposes the stored session record.
type SessionSummaryResponse struct {
	SessionID uuid.UUID             `json:"session_id"`
	PlayerID  uuid.UUID             `json:"player_id"`
	Status    models.SessionStatus  `json:"status"`
	EndingKey string                `json:"ending_key,omitempty"`
	Summary   models.SessionSummary `json:"summary"`
}

// APIError is the standard error envelope.
type APIError struct {
	Message string `json:"message"`
}
