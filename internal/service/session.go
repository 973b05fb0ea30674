// Package service assembles the progression core into a playable session
// and orchestrates persistence, caching and narrative generation around it.
package service

import (
	"narrator-server/internal/ending"
	"narrator-server/internal/engine"
	"narrator-server/internal/models"
	"narrator-server/internal/mutation"
	"narrator-server/internal/rng"
)

// TurnResult is everything one submitted choice produced: the updated
// context, a resolved ending when the session is over, and the active
// mutation with its derived presentation hints.
type TurnResult struct {
	Snapshot models.ProgressionSnapshot
	Ending   *models.Ending
	Mutation *models.Mutation

	// How the last turn's damage reads back to the player, "" when none.
	Feedback string

	// One-shot warning when health first drops to critical.
	LowHealthWarning bool

	// Input mode the renderer should use while the mutation is active.
	InputMode models.InputMode
}

// Session is the pure aggregate of one narrator run: engine, mutation slot
// and ending resolver sharing a single randomness source. It performs no
// I/O; SessionService owns loading and saving it.
type Session struct {
	engine    *engine.Engine
	mutations *mutation.Manager
	endings   *ending.Resolver
	finished  bool
}

// NewSession creates a fresh session.
func NewSession(random rng.Source) *Session {
	return &Session{
		engine:    engine.New(random),
		mutations: mutation.NewManager(random),
		endings:   ending.NewResolver(random),
	}
}

// RestoreSession rebuilds a session from a persisted summary, including a
// mutation still counting down its duration.
func RestoreSession(summary models.SessionSummary, random rng.Source) *Session {
	return &Session{
		engine: engine.Restore(summary, random),
		mutations: mutation.RestoreManager(
			summary.MutationHistory,
			summary.MutationCooldown,
			summary.ActiveMutationKey,
			summary.MutationDuration,
			random,
		),
		endings: ending.NewResolver(random),
	}
}

// SubmitChoice runs one full turn: the choice is classified and applied,
// progression recomputed, the mutation slot advanced, and the resulting
// state run through the termination cascade exactly once. State changed
// between turns (external consequences, generation results) gets its own
// cascade pass at the point of change, not a re-roll here.
func (s *Session) SubmitChoice(choiceText string, choiceIndex int) (TurnResult, error) {
	if s.finished {
		return TurnResult{}, models.ErrSessionFinished
	}
	if choiceText == "" {
		return TurnResult{}, models.ErrInvalidInput
	}

	snap := s.engine.ProcessChoice(choiceText, choiceIndex)
	if snap.LastDangerLevel == models.DangerInstantDeath {
		s.endings.MarkInstantDeath()
	}

	active := s.mutations.Check(snap)

	result := TurnResult{
		Snapshot:         snap,
		Mutation:         active,
		Feedback:         s.engine.ConsequenceFeedback(),
		LowHealthWarning: s.endings.ShouldWarnLowHealth(snap.CharacterStats.Health),
		InputMode:        mutation.ModeFor(active),
	}

	if e := s.endings.Check(snap); e != nil {
		s.finished = true
		result.Ending = e
	}
	return result, nil
}

// GetContext returns the aggregate view for the narrative generator.
func (s *Session) GetContext() models.ProgressionSnapshot {
	return s.engine.Snapshot()
}

// ApplyConsequences applies stat deltas chosen by the generated narrative
// and records any narrative events that came with them.
func (s *Session) ApplyConsequences(deltas map[string]int, events []models.NarrativeEvent) error {
	if s.finished {
		return models.ErrSessionFinished
	}

	s.engine.ApplyConsequences(deltas)
	for _, ev := range events {
		s.engine.RecordEvent(ev.Type, ev.Description)
	}
	return nil
}

// SetNarrative records the latest generated narrative for concept tracking.
func (s *Session) SetNarrative(narrative string) {
	s.engine.SetNarrative(narrative)
}

// TriggerEvent latches a named event flag.
func (s *Session) TriggerEvent(name string) {
	s.engine.TriggerEvent(name)
}

// MarkSacrifice records that the next death resolves as intentional.
func (s *Session) MarkSacrifice() {
	s.endings.MarkSacrifice()
}

// SetMetaProgression records the externally owned cross-session counters.
func (s *Session) SetMetaProgression(revelationLevel, sessionCount int) {
	s.engine.SetRevelationLevel(revelationLevel)
	s.engine.SetSessionCount(sessionCount)
}

// CheckEnding evaluates the termination cascade against the current state
// without advancing the turn.
func (s *Session) CheckEnding() *models.Ending {
	if e := s.endings.Check(s.engine.Snapshot()); e != nil {
		s.finished = true
		return e
	}
	return nil
}

// Finished reports whether an ending has resolved.
func (s *Session) Finished() bool {
	return s.finished
}

// ActiveMutation returns the currently active mutation, or nil.
func (s *Session) ActiveMutation() *models.Mutation {
	return s.mutations.Active()
}

// StateSummary captures the complete persistable state, merging the
// engine's summary with the full mutation slot state.
func (s *Session) StateSummary() models.SessionSummary {
	summary := s.engine.StateSummary()
	summary.MutationHistory = s.mutations.History()
	summary.MutationCooldown = s.mutations.Cooldown()
	if active := s.mutations.Active(); active != nil {
		summary.ActiveMutationKey = active.Key
		summary.MutationDuration = s.mutations.DurationRemaining()
	}
	return summary
}
