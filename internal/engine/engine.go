// Package engine implements the progression core of a narrator session:
// clamped stat tracking, choice classification with consequences, and the
// derived instability/momentum scalars that drive mutations and endings.
//
// The engine is pure state + decision logic. It performs no I/O, holds no
// locks, and draws all randomness from the single rng.Source injected at
// construction, so a session is replayable given a fixed seed.
package engine

import (
	"strings"

	"narrator-server/internal/models"
	"narrator-server/internal/rng"
)

// Engine owns the per-session progression state. It is not safe for
// concurrent use; a session is owned by exactly one caller.
type Engine struct {
	characterStats models.CharacterStats
	hiddenStats    models.HiddenStats

	choiceCount      int
	choiceHistory    []string
	eventFlags       []string
	currentNarrative string
	instabilityLevel int

	// Event tracking for forced progression.
	eventTimer      int
	discoveries     []string
	activeThreats   []string
	transformations []string

	// Horror concept tags already used this session, for variety steering.
	horrorConceptsUsed []string

	// Narrative momentum; the climax latch is one-way.
	momentumLevel   int
	climaxTriggered bool
	mustEndSoon     bool

	// Per-turn consequence feedback.
	lastDangerLevel models.DangerLevel
	lastDamageDealt int
	healthOverkill  int

	// External meta-narrative progression, consumed but never computed here.
	revelationLevel int
	sessionCount    int

	random rng.Source
}

// New creates a fresh engine with default stats.
func New(random rng.Source) *Engine {
	return &Engine{
		characterStats:  models.DefaultCharacterStats(),
		hiddenStats:     models.DefaultHiddenStats(),
		lastDangerLevel: models.DangerNone,
		random:          random,
	}
}

// Restore rebuilds an engine from a previously captured state summary.
func Restore(summary models.SessionSummary, random rng.Source) *Engine {
	e := New(random)
	e.characterStats = summary.CharacterStats
	e.hiddenStats = summary.HiddenStats
	e.choiceCount = summary.ChoiceCount
	e.choiceHistory = append([]string(nil), summary.ChoiceHistory...)
	e.eventFlags = append([]string(nil), summary.EventFlags...)
	e.instabilityLevel = summary.InstabilityLevel
	e.momentumLevel = summary.MomentumLevel
	e.eventTimer = summary.EventTimer
	e.climaxTriggered = summary.ClimaxTriggered
	e.mustEndSoon = summary.MustEndSoon
	e.discoveries = append([]string(nil), summary.Discoveries...)
	e.activeThreats = append([]string(nil), summary.ActiveThreats...)
	e.transformations = append([]string(nil), summary.Transformations...)
	e.horrorConceptsUsed = append([]string(nil), summary.HorrorConceptsUsed...)
	e.revelationLevel = summary.RevelationLevel
	e.sessionCount = summary.SessionCount
	return e
}

// ProcessChoice applies a player choice: classification, consequences,
// lexical stat effects, and the progression recompute. It returns the
// updated snapshot for the narrative-generation collaborator.
func (e *Engine) ProcessChoice(choiceText string, choiceIndex int) models.ProgressionSnapshot {
	e.choiceCount++
	e.choiceHistory = append(e.choiceHistory, choiceText)
	e.lastDangerLevel = models.DangerNone
	e.lastDamageDealt = 0
	e.healthOverkill = 0

	// The event timer forces the generator to make something happen every
	// few quiet turns.
	e.eventTimer++

	e.applyChoiceEffects(strings.ToLower(strings.TrimSpace(choiceText)))
	e.updateInstability()
	e.updateMomentum()

	return e.Snapshot()
}

// ApplyCharacterDelta adjusts a visible stat with clamping: health to
// [0, MaxHealth], everything else to [1, 10]. Unknown stat names are a
// no-op so partially specified external payloads stay harmless.
func (e *Engine) ApplyCharacterDelta(stat string, delta int) {
	switch stat {
	case models.StatHealth:
		next := e.characterStats.Health + delta
		if next < 0 {
			// Remember how hard the killing blow landed; the ending
			// resolver separates violent deaths from slow decay on it.
			e.healthOverkill = -next
			next = 0
		}
		if next > e.characterStats.MaxHealth {
			next = e.characterStats.MaxHealth
		}
		e.characterStats.Health = next
	case models.StatStrength:
		e.characterStats.Strength = clampAttribute(e.characterStats.Strength + delta)
	case models.StatSpeed:
		e.characterStats.Speed = clampAttribute(e.characterStats.Speed + delta)
	case models.StatIntelligence:
		e.characterStats.Intelligence = clampAttribute(e.characterStats.Intelligence + delta)
	}
}

// ApplyHiddenDelta adjusts a hidden stat, clamped to [0, 10]. Unknown stat
// names are a no-op.
func (e *Engine) ApplyHiddenDelta(stat string, delta int) {
	switch stat {
	case models.StatSanity:
		e.hiddenStats.Sanity = clampHidden(e.hiddenStats.Sanity + delta)
	case models.StatCourage:
		e.hiddenStats.Courage = clampHidden(e.hiddenStats.Courage + delta)
	case models.StatCuriosity:
		e.hiddenStats.Curiosity = clampHidden(e.hiddenStats.Curiosity + delta)
	case models.StatTrust:
		e.hiddenStats.Trust = clampHidden(e.hiddenStats.Trust + delta)
	}
}

// ApplyConsequences applies externally supplied stat deltas (typically from
// the generated narrative) through the same clamped primitives. Only
// recognized stat names take effect. Negative health deltas update the
// danger feedback fields so the caller can report what just happened.
func (e *Engine) ApplyConsequences(deltas map[string]int) {
	for stat, delta := range deltas {
		if delta == 0 {
			continue
		}
		switch stat {
		case models.StatHealth:
			e.ApplyCharacterDelta(stat, delta)
			if delta < 0 {
				e.lastDamageDealt = -delta
				e.lastDangerLevel = models.DangerFromDamage(-delta)
			} else {
				e.lastDamageDealt = 0
				e.lastDangerLevel = models.DangerNone
			}
		case models.StatStrength, models.StatSpeed, models.StatIntelligence:
			e.ApplyCharacterDelta(stat, delta)
		case models.StatSanity, models.StatCourage, models.StatCuriosity, models.StatTrust:
			e.ApplyHiddenDelta(stat, delta)
		}
	}
}

// RecordEvent records a narrative event and resets the event timer.
// Threats are deduplicated; discoveries and transformations accumulate.
func (e *Engine) RecordEvent(eventType models.EventType, description string) {
	switch eventType {
	case models.EventDiscovery:
		e.discoveries = append(e.discoveries, description)
	case models.EventThreat:
		for _, t := range e.activeThreats {
			if t == description {
				e.eventTimer = 0
				return
			}
		}
		e.activeThreats = append(e.activeThreats, description)
	case models.EventTransformation:
		e.transformations = append(e.transformations, description)
	default:
		return
	}
	e.eventTimer = 0
}

// TriggerEvent latches a named event flag. Critical flags raise instability
// on the next recompute.
func (e *Engine) TriggerEvent(name string) {
	for _, f := range e.eventFlags {
		if f == name {
			return
		}
	}
	e.eventFlags = append(e.eventFlags, name)
	e.updateInstability()
}

// SetNarrative stores the latest generated narrative and updates the
// horror-concept usage tags derived from it.
func (e *Engine) SetNarrative(narrative string) {
	e.currentNarrative = narrative
	e.detectHorrorConcepts(narrative)
}

// SetRevelationLevel records the externally owned meta-narrative counter.
func (e *Engine) SetRevelationLevel(level int) {
	e.revelationLevel = level
}

// SetSessionCount records how many prior sessions this player has run.
func (e *Engine) SetSessionCount(count int) {
	e.sessionCount = count
}

// ChoiceCount returns the number of choices processed so far.
func (e *Engine) ChoiceCount() int {
	return e.choiceCount
}

// Snapshot returns the current aggregate view. It never mutates state, so
// consecutive calls without an intervening update are identical.
func (e *Engine) Snapshot() models.ProgressionSnapshot {
	previous := "BEGIN"
	if len(e.choiceHistory) > 0 {
		previous = e.choiceHistory[len(e.choiceHistory)-1]
	}

	recentDiscoveries := e.discoveries
	if len(recentDiscoveries) > 3 {
		recentDiscoveries = recentDiscoveries[len(recentDiscoveries)-3:]
	}

	return models.ProgressionSnapshot{
		CharacterStats:       e.characterStats,
		HiddenStats:          e.hiddenStats,
		ChoiceCount:          e.choiceCount,
		PreviousChoice:       previous,
		RecentNarrative:      e.currentNarrative,
		InstabilityLevel:     e.instabilityLevel,
		VisualIntensity:      e.visualIntensity(),
		EventFlags:           append([]string(nil), e.eventFlags...),
		EventUrgency:         e.eventTimer >= eventUrgencyThreshold,
		RecentDiscoveries:    append([]string(nil), recentDiscoveries...),
		ActiveThreats:        append([]string(nil), e.activeThreats...),
		Transformations:      append([]string(nil), e.transformations...),
		HorrorConceptsUsed:   append([]string(nil), e.horrorConceptsUsed...),
		ConceptDiversityHint: e.conceptDiversityHint(),
		MomentumLevel:        e.momentumLevel,
		PacingHint:           e.pacingHint(),
		ClimaxTriggered:      e.climaxTriggered,
		MustEndSoon:          e.mustEndSoon,
		LastDangerLevel:      e.lastDangerLevel,
		LastDamageDealt:      e.lastDamageDealt,
		HealthOverkill:       e.healthOverkill,
		RevelationLevel:      e.revelationLevel,
		SessionCount:         e.sessionCount,
	}
}

// StateSummary captures everything the engine owns for cross-session
// persistence. Mutation slot state is merged in by the session layer.
func (e *Engine) StateSummary() models.SessionSummary {
	return models.SessionSummary{
		CharacterStats:     e.characterStats,
		HiddenStats:        e.hiddenStats,
		ChoiceCount:        e.choiceCount,
		ChoiceHistory:      append([]string(nil), e.choiceHistory...),
		EventFlags:         append([]string(nil), e.eventFlags...),
		InstabilityLevel:   e.instabilityLevel,
		MomentumLevel:      e.momentumLevel,
		EventTimer:         e.eventTimer,
		ClimaxTriggered:    e.climaxTriggered,
		MustEndSoon:        e.mustEndSoon,
		Discoveries:        append([]string(nil), e.discoveries...),
		ActiveThreats:      append([]string(nil), e.activeThreats...),
		Transformations:    append([]string(nil), e.transformations...),
		HorrorConceptsUsed: append([]string(nil), e.horrorConceptsUsed...),
		RevelationLevel:    e.revelationLevel,
		SessionCount:       e.sessionCount,
	}
}

func clampAttribute(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

func clampHidden(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
