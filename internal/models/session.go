package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a stored narrator session.
type SessionStatus string

const (
	SessionStatusActive   SessionStatus = "active"
	SessionStatusFinished SessionStatus = "finished"
)

// GameSession is the persisted record of one narrator run.
type GameSession struct {
	ID       uuid.UUID     `json:"id" db:"id"`
	PlayerID uuid.UUID     `json:"playerId" db:"player_id"`
	Status   SessionStatus `json:"status" db:"status"`

	// Key of the resolved ending, "" while the session is active.
	EndingKey string `json:"endingKey,omitempty" db:"ending_key"`

	// Full progression state, stored as JSONB.
	Summary SessionSummary `json:"summary" db:"summary"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
