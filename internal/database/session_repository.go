package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"narrator-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	gameSessionFields = `id, player_id, status, ending_key, summary, created_at, updated_at`

	createSessionsTableQuery = `
        CREATE TABLE IF NOT EXISTS narrator_sessions (
            id UUID PRIMARY KEY,
            player_id UUID NOT NULL,
            status TEXT NOT NULL,
            ending_key TEXT NOT NULL DEFAULT '',
            summary JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_narrator_sessions_player ON narrator_sessions (player_id, updated_at DESC);
    `

	insertSessionQuery = `
        INSERT INTO narrator_sessions (id, player_id, status, ending_key, summary, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `

	updateSessionQuery = `
        UPDATE narrator_sessions SET
            status = $2,
            ending_key = $3,
            summary = $4,
            updated_at = $5
        WHERE id = $1
        RETURNING id
    `

	getSessionByIDQuery = `
        SELECT ` + gameSessionFields + `
        FROM narrator_sessions
        WHERE id = $1
    `

	countFinishedByPlayerQuery = `
        SELECT COUNT(*)
        FROM narrator_sessions
        WHERE player_id = $1 AND status = $2
    `

	deleteSessionByIDQuery = `DELETE FROM narrator_sessions WHERE id = $1`
)

// SessionRepository persists narrator sessions.
type SessionRepository interface {
	Create(ctx context.Context, querier DBTX, session *models.GameSession) error
	GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.GameSession, error)
	Update(ctx context.Context, querier DBTX, session *models.GameSession) error
	Delete(ctx context.Context, querier DBTX, id uuid.UUID) error
	// CountFinishedByPlayer reports how many runs the player has completed;
	// it seeds the cross-session counter of a new session.
	CountFinishedByPlayer(ctx context.Context, querier DBTX, playerID uuid.UUID) (int, error)
}

// Compile-time check.
var _ SessionRepository = (*pgSessionRepository)(nil)

type pgSessionRepository struct {
	logger *zap.Logger
}

// NewPgSessionRepository creates the PostgreSQL session repository.
func NewPgSessionRepository(logger *zap.Logger) SessionRepository {
	return &pgSessionRepository{logger: logger.Named("PgSessionRepo")}
}

// Bootstrap creates the sessions table when it does not exist yet.
func Bootstrap(ctx context.Context, querier DBTX) error {
	if _, err := querier.Exec(ctx, createSessionsTableQuery); err != nil {
		return fmt.Errorf("failed to bootstrap narrator_sessions: %w", err)
	}
	return nil
}

func (r *pgSessionRepository) Create(ctx context.Context, querier DBTX, session *models.GameSession) error {
	now := time.Now().UTC()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = now
	session.UpdatedAt = now

	summaryJSON, err := json.Marshal(session.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode session summary: %w", err)
	}

	var returnedID uuid.UUID
	err = querier.QueryRow(ctx, insertSessionQuery,
		session.ID,
		session.PlayerID,
		session.Status,
		session.EndingKey,
		summaryJSON,
		session.CreatedAt,
		session.UpdatedAt,
	).Scan(&returnedID)
	if err != nil {
		r.logger.Error("Failed to insert session",
			zap.String("sessionID", session.ID.String()),
			zap.String("playerID", session.PlayerID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to insert session: %w", err)
	}

	r.logger.Info("Session created",
		zap.String("sessionID", returnedID.String()),
		zap.String("playerID", session.PlayerID.String()))
	return nil
}

func (r *pgSessionRepository) GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.GameSession, error) {
	row := querier.QueryRow(ctx, getSessionByIDQuery, id)

	var session models.GameSession
	var summaryJSON []byte
	err := row.Scan(
		&session.ID,
		&session.PlayerID,
		&session.Status,
		&session.EndingKey,
		&summaryJSON,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Session not found", zap.String("sessionID", id.String()))
			return nil, models.ErrSessionNotFound
		}
		r.logger.Error("Failed to get session", zap.String("sessionID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err := json.Unmarshal(summaryJSON, &session.Summary); err != nil {
		r.logger.Error("Failed to decode session summary", zap.String("sessionID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to decode session summary: %w", err)
	}
	return &session, nil
}

func (r *pgSessionRepository) Update(ctx context.Context, querier DBTX, session *models.GameSession) error {
	session.UpdatedAt = time.Now().UTC()

	summaryJSON, err := json.Marshal(session.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode session summary: %w", err)
	}

	var returnedID uuid.UUID
	err = querier.QueryRow(ctx, updateSessionQuery,
		session.ID,
		session.Status,
		session.EndingKey,
		summaryJSON,
		session.UpdatedAt,
	).Scan(&returnedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrSessionNotFound
		}
		r.logger.Error("Failed to update session", zap.String("sessionID", session.ID.String()), zap.Error(err))
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

func (r *pgSessionRepository) Delete(ctx context.Context, querier DBTX, id uuid.UUID) error {
	tag, err := querier.Exec(ctx, deleteSessionByIDQuery, id)
	if err != nil {
		r.logger.Error("Failed to delete session", zap.String("sessionID", id.String()), zap.Error(err))
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrSessionNotFound
	}
	r.logger.Info("Session deleted", zap.String("sessionID", id.String()))
	return nil
}

func (r *pgSessionRepository) CountFinishedByPlayer(ctx context.Context, querier DBTX, playerID uuid.UUID) (int, error) {
	var count int
	err := querier.QueryRow(ctx, countFinishedByPlayerQuery, playerID, models.SessionStatusFinished).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count finished sessions", zap.String("playerID", playerID.String()), zap.Error(err))
		return 0, fmt.Errorf("failed to count finished sessions: %w", err)
	}
	return count, nil
}
