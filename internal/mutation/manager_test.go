package mutation_test

import (
	"testing"

	"narrator-server/internal/models"
	"narrator-server/internal/mutation"
	"narrator-server/internal/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(choices, instability, revelation int) models.ProgressionSnapshot {
	return models.ProgressionSnapshot{
		ChoiceCount:      choices,
		InstabilityLevel: instability,
		RevelationLevel:  revelation,
	}
}

func TestCheck_GuaranteedThresholds(t *testing.T) {
	// Index 0 selects choice_inflation; 4 is the cooldown roll.
	m := mutation.NewManager(&rng.Script{Ints: []int{0, 4}})

	active := m.Check(snapshot(7, 0, 0))

	require.NotNil(t, active)
	assert.Equal(t, "choice_inflation", active.Key)
	assert.Equal(t, models.MutationModerate, active.Category)
	assert.Equal(t, 1, m.DurationRemaining())
	assert.Equal(t, 4, m.Cooldown())
	assert.Equal(t, []string{"choice_inflation"}, m.History())
}

func TestCheck_NoActivationWithoutTriggers(t *testing.T) {
	// Float 1.0 never beats the chance roll.
	m := mutation.NewManager(&rng.Script{Floats: []float64{1.0, 1.0, 1.0}})

	for _, count := range []int{1, 2, 3} {
		assert.Nil(t, m.Check(snapshot(count, 0, 0)))
	}
	assert.Empty(t, m.History())
}

func TestCheck_DurationCountdown(t *testing.T) {
	// Index 5 selects temporal_loop (duration 3) from the combined pool at
	// revelation 3: moderate indexes 0-9, wild 10-19.
	m := mutation.NewManager(&rng.Script{Ints: []int{15, 3}})

	active := m.Check(snapshot(7, 0, 3))
	require.NotNil(t, active)
	assert.Equal(t, "temporal_loop", active.Key)
	assert.Equal(t, 3, m.DurationRemaining())

	// Stays active for two more turns, then clears.
	for i := 0; i < 2; i++ {
		active = m.Check(snapshot(8+i, 0, 3))
		require.NotNil(t, active)
		assert.Equal(t, "temporal_loop", active.Key)
	}
	assert.Nil(t, m.Check(snapshot(10, 0, 3)))
	assert.Nil(t, m.Active())
}

func TestCheck_OneShotClearsNextTurn(t *testing.T) {
	// Index 3 selects forced_random (duration 0).
	m := mutation.NewManager(&rng.Script{Ints: []int{3, 3}, Floats: []float64{1.0}})

	active := m.Check(snapshot(7, 0, 0))
	require.NotNil(t, active)
	assert.Equal(t, "forced_random", active.Key)
	assert.Equal(t, 0, m.DurationRemaining())

	// The one-shot is already spent; the next turn is idle and the
	// cooldown starts counting.
	assert.Nil(t, m.Check(snapshot(8, 0, 0)))
	assert.Equal(t, 2, m.Cooldown())
}

func TestCheck_CooldownBlocksActivation(t *testing.T) {
	m := mutation.NewManager(&rng.Script{
		Ints:   []int{0, 6, 1, 3},
		Floats: []float64{0.0, 0.0},
	})

	// Chance roll 0.0 activates at choice 9; cooldown rolls 6.
	require.NotNil(t, m.Check(snapshot(9, 0, 0)))
	assert.Nil(t, m.Check(snapshot(10, 0, 0)), "duration expiry turn")

	// Cooldown 6 swallows the next six turns, including the guaranteed
	// threshold at 15.
	for count := 11; count <= 16; count++ {
		assert.Nil(t, m.Check(snapshot(count, 10, 0)))
	}
	assert.Equal(t, 0, m.Cooldown())

	// First post-cooldown turn can activate again (scripted roll 0.0).
	active := m.Check(snapshot(17, 0, 0))
	require.NotNil(t, active)
}

func TestCheck_InstabilityRaisesChance(t *testing.T) {
	// chance = 0.05 + 5*0.02 = 0.15; a 0.10 roll activates.
	m := mutation.NewManager(&rng.Script{Ints: []int{2, 3}, Floats: []float64{0.10}})

	active := m.Check(snapshot(9, 5, 0))
	require.NotNil(t, active)
	assert.Equal(t, "time_pressure", active.Key)

	// The same roll fails at zero instability (chance 0.05).
	m2 := mutation.NewManager(&rng.Script{Floats: []float64{0.10}})
	assert.Nil(t, m2.Check(snapshot(9, 0, 0)))
}

func TestSelect_WildPoolRequiresRevelation(t *testing.T) {
	// Below revelation 3 only the moderate catalog is eligible; an index
	// past its end wraps back into it.
	m := mutation.NewManager(&rng.Script{Ints: []int{12, 3}})

	active := m.Check(snapshot(7, 0, 2))
	require.NotNil(t, active)
	assert.Equal(t, models.MutationModerate, active.Category)
}

func TestSelect_AntiRepeatWindow(t *testing.T) {
	history := []string{
		"choice_inflation", "choice_drought", "time_pressure",
		"forced_random", "hidden_choice",
	}
	// With the first five moderate keys excluded, index 0 of the filtered
	// pool is stat_reveal.
	m := mutation.RestoreManager(history, 0, "", 0, &rng.Script{Ints: []int{0, 3}})

	active := m.Check(snapshot(7, 0, 0))
	require.NotNil(t, active)
	assert.Equal(t, "stat_reveal", active.Key)
}

func TestSelect_OnlyTrailingWindowExcluded(t *testing.T) {
	// choice_inflation is in the history but outside the trailing window
	// of five, so it is eligible again.
	history := []string{
		"choice_inflation",
		"choice_drought", "time_pressure", "forced_random",
		"hidden_choice", "stat_reveal",
	}
	m := mutation.RestoreManager(history, 0, "", 0, &rng.Script{Ints: []int{0, 3}})

	active := m.Check(snapshot(7, 0, 0))
	require.NotNil(t, active)
	assert.Equal(t, "choice_inflation", active.Key)
}

func TestRestoreManager_ResumesIdle(t *testing.T) {
	m := mutation.RestoreManager([]string{"fourth_wall"}, 2, "", 0, rng.New(1))

	assert.Nil(t, m.Active())
	assert.Equal(t, 2, m.Cooldown())
	assert.Equal(t, []string{"fourth_wall"}, m.History())

	// The persisted cooldown still counts down before anything activates.
	assert.Nil(t, m.Check(snapshot(12, 0, 0)))
	assert.Equal(t, 1, m.Cooldown())
}

func TestRestoreManager_ResumesActiveMutation(t *testing.T) {
	// Activate temporal_loop (duration 3), then rebuild a manager from the
	// persisted slot state. The restored slot must keep counting the same
	// mutation down, not start over idle.
	m := mutation.NewManager(&rng.Script{Ints: []int{15, 3}})
	active := m.Check(snapshot(7, 0, 3))
	require.NotNil(t, active)
	require.Equal(t, "temporal_loop", active.Key)

	restored := mutation.RestoreManager(m.History(), m.Cooldown(), active.Key, m.DurationRemaining(), &rng.Script{})

	next := restored.Check(snapshot(8, 0, 3))
	require.NotNil(t, next)
	assert.Equal(t, "temporal_loop", next.Key)
	assert.Equal(t, 2, restored.DurationRemaining())

	// Countdown continues across a second rebuild until expiry.
	restored = mutation.RestoreManager(restored.History(), restored.Cooldown(), next.Key, restored.DurationRemaining(), &rng.Script{})
	require.NotNil(t, restored.Check(snapshot(9, 0, 3)))
	assert.Nil(t, restored.Check(snapshot(10, 0, 3)))
}

func TestRestoreManager_UnknownKeyResumesIdle(t *testing.T) {
	m := mutation.RestoreManager(nil, 0, "not_a_mutation", 2, &rng.Script{Floats: []float64{1.0}})

	assert.Nil(t, m.Active())
	assert.Nil(t, m.Check(snapshot(9, 0, 0)))
}

func TestSingleSlot_NeverTwoActive(t *testing.T) {
	// Always-activate rolls; the slot must still hold one mutation at a
	// time across a long run.
	random := rng.New(99)
	m := mutation.NewManager(random)

	activeTurns := 0
	for count := 1; count <= 200; count++ {
		active := m.Check(snapshot(count, 8, 5))
		if active != nil {
			activeTurns++
			require.NotNil(t, m.Active())
			require.Equal(t, active.Key, m.Active().Key)
		}
	}
	assert.Greater(t, activeTurns, 0)
}
