package mutation

import (
	"narrator-server/internal/models"
	"narrator-server/internal/rng"
)

const (
	// Choice counts at which a mutation is guaranteed to fire.
	guaranteedThresholdEarly = 7
	guaranteedThresholdMid   = 15
	guaranteedThresholdLate  = 23

	// Activation probability: base + instability * step.
	baseChance        = 0.05
	instabilityStep   = 0.02
	cooldownMinTurns  = 3
	cooldownMaxTurns  = 6
	antiRepeatWindow  = 5
	wildUnlockedAtRev = 3
)

// Manager runs the single mutation slot: idle (cooldown may be counting
// down) -> active (remaining duration counting down) -> idle.
type Manager struct {
	active            *models.Mutation
	durationRemaining int
	cooldown          int
	history           []string

	random rng.Source
}

// NewManager creates an idle manager.
func NewManager(random rng.Source) *Manager {
	return &Manager{random: random}
}

// RestoreManager rebuilds a manager from persisted slot state so a mutation
// mid-flight keeps counting down across load/store cycles. A one-shot
// (remaining duration 0) is not resumed: its next Check clears the slot
// either way.
func RestoreManager(history []string, cooldown int, activeKey string, durationRemaining int, random rng.Source) *Manager {
	m := NewManager(random)
	m.history = append([]string(nil), history...)
	if cooldown > 0 {
		m.cooldown = cooldown
	}
	if activeKey != "" && durationRemaining > 0 {
		if def, ok := ByKey(activeKey); ok {
			m.active = &def
			m.durationRemaining = durationRemaining
		}
	}
	return m
}

// Check advances the slot by one turn and reports the mutation to apply to
// the upcoming presentation, if any. While a mutation is active the same
// definition is returned until its duration runs out; afterwards the slot
// may activate a new one, either guaranteed at fixed choice counts or by an
// instability-driven draw.
func (m *Manager) Check(ctx models.ProgressionSnapshot) *models.Mutation {
	if m.active != nil && m.durationRemaining > 0 {
		m.durationRemaining--
		if m.durationRemaining == 0 {
			m.active = nil
		}
		return m.active
	}

	// One-shot effects (duration 0) fall through here on the turn after
	// activation and clear the slot.
	m.active = nil

	if m.cooldown > 0 {
		m.cooldown--
		return nil
	}

	switch ctx.ChoiceCount {
	case guaranteedThresholdEarly, guaranteedThresholdMid, guaranteedThresholdLate:
		chosen := m.selectMutation(ctx)
		m.activate(chosen)
		return m.active
	}

	chance := baseChance + float64(ctx.InstabilityLevel)*instabilityStep
	if m.random.Float64() < chance {
		chosen := m.selectMutation(ctx)
		m.activate(chosen)
		return m.active
	}

	return nil
}

// selectMutation draws uniformly from the eligible pool: moderate only
// below revelation 3, both catalogs at or above. Keys seen in the trailing
// history window are excluded unless that would empty the pool.
func (m *Manager) selectMutation(ctx models.ProgressionSnapshot) models.Mutation {
	pool := ModerateCatalog()
	if ctx.RevelationLevel >= wildUnlockedAtRev {
		pool = append(pool, WildCatalog()...)
	}

	recent := m.history
	if len(recent) > antiRepeatWindow {
		recent = recent[len(recent)-antiRepeatWindow:]
	}

	available := make([]models.Mutation, 0, len(pool))
	for _, candidate := range pool {
		used := false
		for _, key := range recent {
			if candidate.Key == key {
				used = true
				break
			}
		}
		if !used {
			available = append(available, candidate)
		}
	}
	// Never block progress: ignore the exclusion for this draw only.
	if len(available) == 0 {
		available = pool
	}

	chosen := available[m.random.Intn(len(available))]
	m.history = append(m.history, chosen.Key)
	return chosen
}

func (m *Manager) activate(chosen models.Mutation) {
	m.active = &chosen
	m.durationRemaining = chosen.Duration
	m.cooldown = m.random.Range(cooldownMinTurns, cooldownMaxTurns)
}

// Active returns the currently active mutation, or nil when idle.
func (m *Manager) Active() *models.Mutation {
	return m.active
}

// DurationRemaining returns the turns left on the active mutation.
func (m *Manager) DurationRemaining() int {
	return m.durationRemaining
}

// Cooldown returns the turns before another mutation may activate.
func (m *Manager) Cooldown() int {
	return m.cooldown
}

// History returns the activation history, oldest first. Only the trailing
// window is consulted for anti-repeat, but the full log is persisted.
func (m *Manager) History() []string {
	return append([]string(nil), m.history...)
}
