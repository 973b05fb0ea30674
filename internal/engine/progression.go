package engine

import "narrator-server/internal/models"

// Progression tuning. One consistent constant set; the thresholds are the
// same ones the mutation engine and ending resolver are calibrated against.
const (
	// Instability gains one level per this many choices.
	instabilityChoiceThreshold = 5

	// Momentum accrual and the forced-climax ceiling.
	momentumMidGameChoices  = 8
	momentumLateGameChoices = 12
	momentumLowHealthBelow  = 30
	momentumLowSanityBelow  = 3
	momentumClimaxCeiling   = 15

	// Turns without a recorded event before urgency is signaled.
	eventUrgencyThreshold = 2

	// Visual degradation ladder.
	minorBreakdownAt  = 10
	majorBreakdownAt  = 18
	realityCollapseAt = 25
)

// Event flags recognized by the engine itself.
const (
	FlagInstantDeathTrap = "instant_death_trap"
	FlagTrapTriggered    = "trap_triggered"
)

// criticalEvents are the flags that spike instability while latched.
var criticalEvents = map[string]struct{}{
	FlagInstantDeathTrap: {},
	FlagTrapTriggered:    {},
	"narrator_attention": {},
	"mirror_shattered":   {},
	"true_name_spoken":   {},
}

// updateInstability recomputes the derived instability scalar: choice-based
// progression, low-stat penalties, and critical-event spikes.
func (e *Engine) updateInstability() {
	level := e.choiceCount / instabilityChoiceThreshold

	if e.hiddenStats.Sanity < 3 {
		level += 2
	}
	if e.hiddenStats.Trust < 2 {
		level++
	}

	for _, flag := range e.eventFlags {
		if _, ok := criticalEvents[flag]; ok {
			level++
		}
	}

	e.instabilityLevel = level
}

// updateMomentum accumulates narrative momentum; it only ever grows. The
// first crossing of the ceiling latches the climax flags permanently.
func (e *Engine) updateMomentum() {
	if e.choiceCount >= momentumLateGameChoices {
		e.momentumLevel += 2
	} else if e.choiceCount >= momentumMidGameChoices {
		e.momentumLevel++
	}

	if e.characterStats.Health < momentumLowHealthBelow {
		e.momentumLevel += 2
	}
	if e.hiddenStats.Sanity < momentumLowSanityBelow {
		e.momentumLevel += 3
	}

	if e.momentumLevel >= momentumClimaxCeiling && !e.climaxTriggered {
		e.climaxTriggered = true
		e.mustEndSoon = true
	}
}

// visualIntensity maps progression onto the presentation degradation ladder.
func (e *Engine) visualIntensity() models.VisualIntensity {
	switch {
	case e.choiceCount >= realityCollapseAt:
		return models.IntensityCollapsed
	case e.choiceCount >= majorBreakdownAt:
		return models.IntensityBreaking
	case e.choiceCount >= minorBreakdownAt:
		return models.IntensityDisturbed
	case e.instabilityLevel > 0:
		return models.IntensityUnsettled
	}
	return models.IntensityStable
}

// pacingHint tells the generator how hard to push. Deliberately subtle; the
// player is never told directly that the end is near.
func (e *Engine) pacingHint() string {
	switch {
	case e.mustEndSoon:
		return "Raise stakes significantly. Make choices matter more."
	case e.momentumLevel >= 10:
		return "Increase tension and consequences."
	case e.momentumLevel >= 5:
		return "Begin escalating stakes."
	}
	return ""
}
