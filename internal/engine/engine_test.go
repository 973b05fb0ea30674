package engine_test

import (
	"testing"

	"narrator-server/internal/engine"
	"narrator-server/internal/models"
	"narrator-server/internal/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCharacterDelta_Clamping(t *testing.T) {
	e := engine.New(rng.New(1))

	t.Run("health never exceeds max", func(t *testing.T) {
		e.ApplyCharacterDelta(models.StatHealth, 500)
		assert.Equal(t, 100, e.Snapshot().CharacterStats.Health)
	})

	t.Run("health never drops below zero", func(t *testing.T) {
		e.ApplyCharacterDelta(models.StatHealth, -500)
		assert.Equal(t, 0, e.Snapshot().CharacterStats.Health)
	})

	t.Run("attributes clamp to 1..10", func(t *testing.T) {
		e.ApplyCharacterDelta(models.StatStrength, 100)
		e.ApplyCharacterDelta(models.StatSpeed, -100)
		snap := e.Snapshot()
		assert.Equal(t, 10, snap.CharacterStats.Strength)
		assert.Equal(t, 1, snap.CharacterStats.Speed)
	})

	t.Run("unknown stat is a no-op", func(t *testing.T) {
		before := e.Snapshot().CharacterStats
		e.ApplyCharacterDelta("charisma", 5)
		assert.Equal(t, before, e.Snapshot().CharacterStats)
	})
}

func TestApplyHiddenDelta_Clamping(t *testing.T) {
	e := engine.New(rng.New(1))

	e.ApplyHiddenDelta(models.StatSanity, -50)
	e.ApplyHiddenDelta(models.StatCuriosity, 50)
	e.ApplyHiddenDelta("dread", 3) // unknown, ignored

	snap := e.Snapshot()
	assert.Equal(t, 0, snap.HiddenStats.Sanity)
	assert.Equal(t, 10, snap.HiddenStats.Curiosity)
	assert.Equal(t, 5, snap.HiddenStats.Courage)
}

func TestClampProperty_RandomDeltaSequences(t *testing.T) {
	random := rng.New(42)
	e := engine.New(rng.New(7))

	stats := []string{
		models.StatHealth, models.StatStrength, models.StatSpeed, models.StatIntelligence,
		models.StatSanity, models.StatCourage, models.StatCuriosity, models.StatTrust,
	}

	for i := 0; i < 2000; i++ {
		stat := stats[random.Intn(len(stats))]
		delta := random.Range(-40, 40)
		e.ApplyCharacterDelta(stat, delta)
		e.ApplyHiddenDelta(stat, delta)

		snap := e.Snapshot()
		require.GreaterOrEqual(t, snap.CharacterStats.Health, 0)
		require.LessOrEqual(t, snap.CharacterStats.Health, snap.CharacterStats.MaxHealth)
		for _, v := range []int{snap.CharacterStats.Strength, snap.CharacterStats.Speed, snap.CharacterStats.Intelligence} {
			require.GreaterOrEqual(t, v, 1)
			require.LessOrEqual(t, v, 10)
		}
		for _, v := range []int{snap.HiddenStats.Sanity, snap.HiddenStats.Courage, snap.HiddenStats.Curiosity, snap.HiddenStats.Trust} {
			require.GreaterOrEqual(t, v, 0)
			require.LessOrEqual(t, v, 10)
		}
	}
}

func TestApplyConsequences(t *testing.T) {
	t.Run("applies recognized fields and infers danger", func(t *testing.T) {
		e := engine.New(rng.New(1))
		e.ApplyConsequences(map[string]int{
			"health":  -25,
			"sanity":  -2,
			"courage": 1,
			"mana":    99, // unrecognized, ignored
		})

		snap := e.Snapshot()
		assert.Equal(t, 75, snap.CharacterStats.Health)
		assert.Equal(t, 8, snap.HiddenStats.Sanity)
		assert.Equal(t, 6, snap.HiddenStats.Courage)
		assert.Equal(t, models.DangerHigh, snap.LastDangerLevel)
		assert.Equal(t, 25, snap.LastDamageDealt)
	})

	t.Run("records overkill on a fatal delta", func(t *testing.T) {
		e := engine.New(rng.New(1))
		e.ApplyConsequences(map[string]int{"health": -125})

		snap := e.Snapshot()
		assert.Equal(t, 0, snap.CharacterStats.Health)
		assert.Equal(t, 25, snap.HealthOverkill)
		assert.Equal(t, models.DangerExtreme, snap.LastDangerLevel)
	})

	t.Run("healing clears the danger feedback", func(t *testing.T) {
		e := engine.New(rng.New(1))
		e.ApplyConsequences(map[string]int{"health": -10})
		e.ApplyConsequences(map[string]int{"health": 5})

		snap := e.Snapshot()
		assert.Equal(t, models.DangerNone, snap.LastDangerLevel)
		assert.Equal(t, 0, snap.LastDamageDealt)
	})
}

func TestRecordEvent(t *testing.T) {
	e := engine.New(rng.New(1))

	e.ProcessChoice("breathe", 0)
	e.ProcessChoice("breathe", 0)
	assert.True(t, e.Snapshot().EventUrgency, "timer should signal urgency after two quiet turns")

	e.RecordEvent(models.EventDiscovery, "the locked door")
	snap := e.Snapshot()
	assert.False(t, snap.EventUrgency, "recording an event resets the timer")
	assert.Equal(t, []string{"the locked door"}, snap.RecentDiscoveries)

	e.RecordEvent(models.EventThreat, "the thing in the hall")
	e.RecordEvent(models.EventThreat, "the thing in the hall")
	assert.Len(t, e.Snapshot().ActiveThreats, 1, "threats are deduplicated")

	e.RecordEvent(models.EventTransformation, "your left hand is wrong")
	assert.Len(t, e.Snapshot().Transformations, 1)
}

func TestSnapshot_Idempotent(t *testing.T) {
	e := engine.New(rng.New(3))
	e.ProcessChoice("open the door", 0)

	first := e.Snapshot()
	second := e.Snapshot()
	assert.Equal(t, first, second)
}

func TestStateSummaryRoundTrip(t *testing.T) {
	e := engine.New(rng.New(5))
	e.SetRevelationLevel(2)
	e.SetSessionCount(4)
	e.ProcessChoice("examine the wall", 0)
	e.ProcessChoice("listen to the voice", 1)
	e.RecordEvent(models.EventDiscovery, "a second door")
	e.TriggerEvent("narrator_attention")

	summary := e.StateSummary()
	restored := engine.Restore(summary, rng.New(5))

	assert.Equal(t, e.Snapshot(), restored.Snapshot())
	assert.Equal(t, summary, restored.StateSummary())
}

func TestTriggerEvent_CriticalFlagRaisesInstability(t *testing.T) {
	e := engine.New(rng.New(1))
	before := e.Snapshot().InstabilityLevel

	e.TriggerEvent("trap_triggered")
	after := e.Snapshot().InstabilityLevel

	assert.Equal(t, before+1, after)

	// Flags latch once; repeating the trigger changes nothing.
	e.TriggerEvent("trap_triggered")
	assert.Equal(t, after, e.Snapshot().InstabilityLevel)
}
