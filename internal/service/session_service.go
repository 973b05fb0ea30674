package service

import (
	"context"
	"fmt"

	"narrator-server/internal/database"
	"narrator-server/internal/messaging"
	"narrator-server/internal/models"
	"narrator-server/internal/rng"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TxRunner runs a function inside a database transaction. Implemented by
// database.PoolRunner; mocked in tests.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx database.DBTX) error) error
}

// ChoiceResult is the outward-facing result of one submitted choice.
type ChoiceResult struct {
	SessionID uuid.UUID                  `json:"sessionId"`
	TaskID    string                     `json:"taskId,omitempty"`
	Context   models.ProgressionSnapshot `json:"context"`
	Ending    *models.Ending             `json:"ending,omitempty"`
	Mutation  *models.Mutation           `json:"mutation,omitempty"`
	Feedback  string                     `json:"feedback,omitempty"`
	InputMode models.InputMode           `json:"inputMode"`
}

// SessionOrchestrator is the session API the HTTP layer depends on.
type SessionOrchestrator interface {
	CreateSession(ctx context.Context, playerID uuid.UUID, revelationLevel int) (*models.GameSession, error)
	SubmitChoice(ctx context.Context, sessionID uuid.UUID, choiceText string, choiceIndex int) (*ChoiceResult, error)
	GetContext(ctx context.Context, sessionID uuid.UUID) (*models.ProgressionSnapshot, error)
	ApplyConsequences(ctx context.Context, sessionID uuid.UUID, deltas map[string]int, events []models.NarrativeEvent) (*models.ProgressionSnapshot, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*models.GameSession, error)
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
}

// SessionService owns session lifecycle and the turn loop around the pure
// session aggregate: persistence, context caching, and dispatching
// scene-generation tasks.
type SessionService struct {
	tx        TxRunner
	db        database.DBTX
	repo      database.SessionRepository
	cache     database.ContextCache
	publisher messaging.NarrativeTaskPublisher
	logger    *zap.Logger

	// Factory for per-session randomness; swapped for a scripted source in
	// tests.
	newSource func() rng.Source
}

var (
	_ SessionOrchestrator     = (*SessionService)(nil)
	_ messaging.ResultApplier = (*SessionService)(nil)
)

// NewSessionService wires the session service.
func NewSessionService(
	tx TxRunner,
	db database.DBTX,
	repo database.SessionRepository,
	cache database.ContextCache,
	publisher messaging.NarrativeTaskPublisher,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		tx:        tx,
		db:        db,
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    logger.Named("SessionService"),
		newSource: rng.NewTimeSeeded,
	}
}

// WithSourceFactory overrides the randomness factory. Test hook.
func (s *SessionService) WithSourceFactory(factory func() rng.Source) *SessionService {
	s.newSource = factory
	return s
}

// CreateSession starts a new narrator run for the player. The player's
// finished-run count seeds the cross-session counter the ending resolver
// and mutation pool read.
func (s *SessionService) CreateSession(ctx context.Context, playerID uuid.UUID, revelationLevel int) (*models.GameSession, error) {
	if playerID == uuid.Nil {
		return nil, models.ErrInvalidInput
	}

	finished, err := s.repo.CountFinishedByPlayer(ctx, s.db, playerID)
	if err != nil {
		return nil, err
	}

	session := NewSession(s.newSource())
	session.SetMetaProgression(revelationLevel, finished)

	record := &models.GameSession{
		PlayerID: playerID,
		Status:   models.SessionStatusActive,
		Summary:  session.StateSummary(),
	}
	if err := s.repo.Create(ctx, s.db, record); err != nil {
		return nil, err
	}

	if err := s.cache.SetContext(ctx, record.ID, session.GetContext()); err != nil {
		// The cache is rebuilt on demand; a write failure is not fatal.
		s.logger.Warn("Failed to prime context cache", zap.String("sessionID", record.ID.String()), zap.Error(err))
	}

	s.logger.Info("Session started",
		zap.String("sessionID", record.ID.String()),
		zap.String("playerID", playerID.String()),
		zap.Int("sessionCount", finished),
		zap.Int("revelationLevel", revelationLevel))
	return record, nil
}

// SubmitChoice runs one turn: load, play, persist, then dispatch the
// scene-generation task for the new state.
func (s *SessionService) SubmitChoice(ctx context.Context, sessionID uuid.UUID, choiceText string, choiceIndex int) (*ChoiceResult, error) {
	var result TurnResult
	var record *models.GameSession

	err := s.tx.WithTx(ctx, func(ctx context.Context, tx database.DBTX) error {
		var err error
		record, err = s.repo.GetByID(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if record.Status == models.SessionStatusFinished {
			return models.ErrSessionFinished
		}

		session := RestoreSession(record.Summary, s.newSource())
		result, err = session.SubmitChoice(choiceText, choiceIndex)
		if err != nil {
			return err
		}

		record.Summary = session.StateSummary()
		if result.Ending != nil {
			record.Status = models.SessionStatusFinished
			record.EndingKey = result.Ending.Key
		}
		return s.repo.Update(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetContext(ctx, sessionID, result.Snapshot); err != nil {
		s.logger.Warn("Failed to refresh context cache", zap.String("sessionID", sessionID.String()), zap.Error(err))
	}

	taskID := uuid.NewString()
	payload := buildNarrativeTask(taskID, sessionID, choiceText, choiceIndex, result)
	if err := s.publisher.PublishNarrativeTask(ctx, payload); err != nil {
		// The turn is already committed; the caller still gets its result,
		// but generation will not arrive.
		s.logger.Error("Failed to dispatch narrative task",
			zap.String("sessionID", sessionID.String()),
			zap.String("taskID", taskID),
			zap.Error(err))
		return nil, fmt.Errorf("turn applied but narrative dispatch failed: %w", err)
	}

	out := &ChoiceResult{
		SessionID: sessionID,
		TaskID:    taskID,
		Context:   result.Snapshot,
		Ending:    result.Ending,
		Mutation:  result.Mutation,
		Feedback:  result.Feedback,
		InputMode: result.InputMode,
	}
	return out, nil
}

// GetContext returns the current progression snapshot, preferring the
// cache.
func (s *SessionService) GetContext(ctx context.Context, sessionID uuid.UUID) (*models.ProgressionSnapshot, error) {
	if snapshot, err := s.cache.GetContext(ctx, sessionID); err == nil {
		return snapshot, nil
	}

	record, err := s.repo.GetByID(ctx, s.db, sessionID)
	if err != nil {
		return nil, err
	}

	session := RestoreSession(record.Summary, s.newSource())
	snapshot := session.GetContext()

	if err := s.cache.SetContext(ctx, sessionID, snapshot); err != nil {
		s.logger.Warn("Failed to backfill context cache", zap.String("sessionID", sessionID.String()), zap.Error(err))
	}
	return &snapshot, nil
}

// ApplyConsequences applies externally supplied stat deltas and events,
// typically called by collaborators over HTTP.
func (s *SessionService) ApplyConsequences(ctx context.Context, sessionID uuid.UUID, deltas map[string]int, events []models.NarrativeEvent) (*models.ProgressionSnapshot, error) {
	var snapshot models.ProgressionSnapshot

	err := s.tx.WithTx(ctx, func(ctx context.Context, tx database.DBTX) error {
		record, err := s.repo.GetByID(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if record.Status == models.SessionStatusFinished {
			return models.ErrSessionFinished
		}

		session := RestoreSession(record.Summary, s.newSource())
		if err := session.ApplyConsequences(deltas, events); err != nil {
			return err
		}
		// External damage can push the state over a termination edge; the
		// cascade runs here, at the point of change.
		if e := session.CheckEnding(); e != nil {
			record.Status = models.SessionStatusFinished
			record.EndingKey = e.Key
		}
		snapshot = session.GetContext()

		record.Summary = session.StateSummary()
		return s.repo.Update(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetContext(ctx, sessionID, snapshot); err != nil {
		s.logger.Warn("Failed to refresh context cache", zap.String("sessionID", sessionID.String()), zap.Error(err))
	}
	return &snapshot, nil
}

// ApplyNarrativeResult feeds a generation result back into its session:
// narrative for concept tracking, consequences, events and flags.
// Satisfies messaging.ResultApplier.
func (s *SessionService) ApplyNarrativeResult(ctx context.Context, sessionID uuid.UUID, result messaging.NarrativeResultPayload) error {
	if result.Status != messaging.ResultStatusSuccess {
		s.logger.Warn("Narrative generation failed upstream",
			zap.String("sessionID", sessionID.String()),
			zap.String("taskID", result.TaskID),
			zap.String("details", result.ErrorDetails))
		return nil
	}

	var snapshot models.ProgressionSnapshot

	err := s.tx.WithTx(ctx, func(ctx context.Context, tx database.DBTX) error {
		record, err := s.repo.GetByID(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if record.Status == models.SessionStatusFinished {
			// The run resolved while generation was in flight; nothing to
			// apply.
			return nil
		}

		session := RestoreSession(record.Summary, s.newSource())
		session.SetNarrative(result.Narrative)
		if err := session.ApplyConsequences(result.Consequences, result.Events); err != nil {
			return err
		}
		for _, flag := range result.EventFlags {
			session.TriggerEvent(flag)
		}
		if e := session.CheckEnding(); e != nil {
			record.Status = models.SessionStatusFinished
			record.EndingKey = e.Key
		}
		snapshot = session.GetContext()

		record.Summary = session.StateSummary()
		return s.repo.Update(ctx, tx, record)
	})
	if err != nil {
		return err
	}

	if err := s.cache.SetContext(ctx, sessionID, snapshot); err != nil {
		s.logger.Warn("Failed to refresh context cache", zap.String("sessionID", sessionID.String()), zap.Error(err))
	}
	return nil
}

// GetSession returns the stored session record, including its summary.
func (s *SessionService) GetSession(ctx context.Context, sessionID uuid.UUID) (*models.GameSession, error) {
	return s.repo.GetByID(ctx, s.db, sessionID)
}

// DeleteSession removes a session and its cached context.
func (s *SessionService) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.repo.Delete(ctx, s.db, sessionID); err != nil {
		return err
	}
	if err := s.cache.DeleteContext(ctx, sessionID); err != nil {
		s.logger.Warn("Failed to drop cached context", zap.String("sessionID", sessionID.String()), zap.Error(err))
	}
	return nil
}

func buildNarrativeTask(taskID string, sessionID uuid.UUID, choiceText string, choiceIndex int, result TurnResult) messaging.NarrativeTaskPayload {
	payload := messaging.NarrativeTaskPayload{
		TaskID:           taskID,
		SessionID:        sessionID.String(),
		ChoiceText:       choiceText,
		ChoiceIndex:      choiceIndex,
		Context:          result.Snapshot,
		Feedback:         result.Feedback,
		LowHealthWarning: result.LowHealthWarning,
	}
	if m := result.Mutation; m != nil {
		payload.Mutation = &messaging.MutationDirective{
			Key:          m.Key,
			Name:         m.Name,
			Description:  m.Description,
			Announcement: m.Announcement,
			InputMode:    result.InputMode,
		}
	}
	if e := result.Ending; e != nil {
		payload.Ending = &messaging.EndingDirective{
			Key:             e.Key,
			Name:            e.Name,
			Category:        string(e.Category),
			Seed:            e.Seed,
			RevelationAware: e.RevelationAware,
			IsGood:          e.IsGood,
		}
	}
	return payload
}
