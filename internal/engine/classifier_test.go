package engine_test

import (
	"testing"

	"narrator-server/internal/engine"
	"narrator-server/internal/models"
	"narrator-server/internal/rng"

	"github.com/stretchr/testify/assert"
)

// Draw order for a dangerous choice: damage, sanity drain, then one pair of
// draws per matching lexical category.

func TestProcessChoice_ExtremeDanger(t *testing.T) {
	script := &rng.Script{Ints: []int{25, -2, 4, 2}}
	e := engine.New(script)

	snap := e.ProcessChoice("Attack the creature", 0)

	assert.Equal(t, models.DangerExtreme, snap.LastDangerLevel)
	assert.Equal(t, 25, snap.LastDamageDealt)
	assert.Equal(t, 75, snap.CharacterStats.Health)
	assert.Equal(t, 8, snap.HiddenStats.Sanity)
	// Lexical effects are halved in the early game: courage +4 -> +2,
	// strength +2 -> +1.
	assert.Equal(t, 7, snap.HiddenStats.Courage)
	assert.Equal(t, 6, snap.CharacterStats.Strength)
}

func TestProcessChoice_SafeChoiceDealsNoDamage(t *testing.T) {
	e := engine.New(&rng.Script{})

	snap := e.ProcessChoice("breathe", 0)

	assert.Equal(t, models.DangerNone, snap.LastDangerLevel)
	assert.Equal(t, 0, snap.LastDamageDealt)
	assert.Equal(t, 100, snap.CharacterStats.Health)
}

func TestProcessChoice_InstantDeathTrap(t *testing.T) {
	t.Run("fires on a low roll", func(t *testing.T) {
		script := &rng.Script{Floats: []float64{0.01}}
		e := engine.New(script)

		snap := e.ProcessChoice("walk into the obvious trap", 0)

		assert.Equal(t, models.DangerInstantDeath, snap.LastDangerLevel)
		assert.Equal(t, 0, snap.CharacterStats.Health)
		assert.Equal(t, 0, snap.HealthOverkill, "the trap kills cleanly, not violently")
		assert.Contains(t, snap.EventFlags, engine.FlagInstantDeathTrap)
	})

	t.Run("spares on a high roll but still punishes the trap", func(t *testing.T) {
		script := &rng.Script{Floats: []float64{0.5}, Ints: []int{-30, -2}}
		e := engine.New(script)

		snap := e.ProcessChoice("walk into the obvious trap", 0)

		assert.NotEqual(t, models.DangerInstantDeath, snap.LastDangerLevel)
		assert.Equal(t, 70, snap.CharacterStats.Health)
		assert.Equal(t, 8, snap.HiddenStats.Sanity)
		assert.Contains(t, snap.EventFlags, engine.FlagTrapTriggered)
		assert.True(t, snap.MustEndSoon)
	})

	t.Run("never fires without an explicit marker", func(t *testing.T) {
		script := &rng.Script{Floats: []float64{0.0}, Ints: []int{20, -1, 2, 1}}
		e := engine.New(script)

		snap := e.ProcessChoice("attack the shadow", 0)

		assert.Equal(t, models.DangerExtreme, snap.LastDangerLevel)
		assert.NotZero(t, snap.CharacterStats.Health)
	})
}

func TestProcessChoice_ParentheticalWarningIsATrap(t *testing.T) {
	script := &rng.Script{Ints: []int{-40, -3}}
	e := engine.New(script)

	snap := e.ProcessChoice("drink it (poison)", 0)

	assert.Contains(t, snap.EventFlags, engine.FlagTrapTriggered)
	assert.Equal(t, 60, snap.CharacterStats.Health)
	assert.Equal(t, 7, snap.HiddenStats.Sanity)
	assert.True(t, snap.MustEndSoon)
	assert.GreaterOrEqual(t, snap.MomentumLevel, 5)
}

func TestProcessChoice_EarlyGameDampening(t *testing.T) {
	// Low-tier danger, plus the observation lexical pair.
	draws := []int{5, -2, 4}

	early := engine.New(&rng.Script{Ints: append([]int(nil), draws...)})
	earlySnap := early.ProcessChoice("observe the shadows", 0)

	// Same draws on a session past the dampening window.
	late := engine.Restore(models.SessionSummary{
		CharacterStats: models.DefaultCharacterStats(),
		HiddenStats:    models.DefaultHiddenStats(),
		ChoiceCount:    10,
	}, &rng.Script{Ints: append([]int(nil), draws...)})
	lateSnap := late.ProcessChoice("observe the shadows", 0)

	// Early: full damage but halved lexical effects (truncated toward zero).
	assert.Equal(t, 95, earlySnap.CharacterStats.Health)
	assert.Equal(t, 9, earlySnap.HiddenStats.Sanity)
	assert.Equal(t, 7, earlySnap.HiddenStats.Curiosity)

	// Late: low-tier damage picks up the mid-game multiplier, lexical
	// effects land at full strength.
	assert.Equal(t, 94, lateSnap.CharacterStats.Health)
	assert.Equal(t, 8, lateSnap.HiddenStats.Sanity)
	assert.Equal(t, 9, lateSnap.HiddenStats.Curiosity)
}

func TestProcessChoice_LateGameDamageMultiplier(t *testing.T) {
	script := &rng.Script{Ints: []int{20, -1, 2, 1}}
	e := engine.Restore(models.SessionSummary{
		CharacterStats: models.DefaultCharacterStats(),
		HiddenStats:    models.DefaultHiddenStats(),
		ChoiceCount:    20,
	}, script)

	snap := e.ProcessChoice("fight it", 0)

	// Base roll 20 scaled by the late-game 1.5x multiplier.
	assert.Equal(t, 30, snap.LastDamageDealt)
	assert.Equal(t, 70, snap.CharacterStats.Health)
}

func TestConsequenceFeedback(t *testing.T) {
	script := &rng.Script{Ints: []int{1}}
	e := engine.New(script)

	assert.Empty(t, e.ConsequenceFeedback(), "no feedback before any damage")

	e.ApplyConsequences(map[string]int{"health": -25})
	assert.Equal(t, "Your health suffers.", e.ConsequenceFeedback())
}

func TestMomentum_ClimaxLatchIsOneWay(t *testing.T) {
	e := engine.New(&rng.Script{})

	var snap models.ProgressionSnapshot
	for i := 0; i < 17; i++ {
		snap = e.ProcessChoice("breathe", 0)
	}

	assert.True(t, snap.ClimaxTriggered)
	assert.True(t, snap.MustEndSoon)

	momentum := snap.MomentumLevel
	snap = e.ProcessChoice("breathe", 0)
	assert.True(t, snap.ClimaxTriggered)
	assert.Greater(t, snap.MomentumLevel, momentum, "momentum only ever grows")
}

func TestInstability_TracksChoicesAndLowStats(t *testing.T) {
	e := engine.New(&rng.Script{})
	for i := 0; i < 10; i++ {
		e.ProcessChoice("breathe", 0)
	}
	assert.Equal(t, 2, e.Snapshot().InstabilityLevel)

	e.ApplyConsequences(map[string]int{"sanity": -8})
	e.ProcessChoice("breathe", 0)
	assert.Equal(t, 4, e.Snapshot().InstabilityLevel, "sanity below 3 adds two levels")
}

func TestVisualIntensity_Ladder(t *testing.T) {
	e := engine.New(&rng.Script{})
	assert.Equal(t, models.IntensityStable, e.Snapshot().VisualIntensity)

	for i := 0; i < 10; i++ {
		e.ProcessChoice("breathe", 0)
	}
	assert.Equal(t, models.IntensityDisturbed, e.Snapshot().VisualIntensity)

	for i := 0; i < 8; i++ {
		e.ProcessChoice("breathe", 0)
	}
	assert.Equal(t, models.IntensityBreaking, e.Snapshot().VisualIntensity)

	for i := 0; i < 7; i++ {
		e.ProcessChoice("breathe", 0)
	}
	assert.Equal(t, models.IntensityCollapsed, e.Snapshot().VisualIntensity)
}
