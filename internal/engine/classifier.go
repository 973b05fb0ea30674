package engine

import (
	"strings"

	"narrator-server/internal/models"
)

// Keyword tiers for danger classification, checked highest first. Extreme is
// direct confrontation, high is investigative contact, medium is
// exploration, low is passive observation.
var (
	extremeKeywords = []string{"attack", "charge", "confront directly", "fight"}
	highKeywords    = []string{"investigate", "touch", "open", "enter", "confront"}
	mediumKeywords  = []string{"explore", "examine closely", "follow", "pursue"}
	lowKeywords     = []string{"look", "listen", "observe", "cautious"}

	// Explicit self-endangerment markers eligible for the instant-death trap.
	instantDeathMarkers = []string{"obvious trap", "clearly dangerous", "suicide"}
)

const (
	// Chance the instant-death trap fires when a marker is present.
	instantDeathChance = 0.015

	// Lexical stat effects are halved for this many opening choices so a
	// session cannot end before the player has seen anything.
	earlyGameChoices    = 8
	earlyGameMultiplier = 0.5

	midGameAfter       = 10
	midGameMultiplier  = 1.2
	lateGameAfter      = 20
	lateGameMultiplier = 1.5
)

// Trap indicators for the classic "you were warned" mechanic.
var trapIndicators = []string{
	"ignore warning", "ignore the warning", "ignore all",
	"obviously", "despite", "anyway", "against",
	"clearly dangerous", "strange liquid", "unknown substance",
	"trust the", "believe the", "follow the monster",
	"touch the", "grab the", "drink the", "eat the",
	"step into the trap", "walk into",
}

var parentheticalWarningWords = []string{
	"poison", "danger", "trap", "dead", "death", "hurt", "bad", "kill", "fatal",
}

var consequenceFeedback = map[models.DangerLevel][]string{
	models.DangerExtreme: {
		"(that was unwise)",
		"(brave, but stupid)",
		"You pay the price.",
		"(ouch)",
	},
	models.DangerHigh: {
		"(that cost you)",
		"Your health suffers.",
		"(was it worth it?)",
		"Pain follows.",
	},
	models.DangerMedium: {
		"(careful...)",
		"That hurt.",
		"(consequences)",
	},
	models.DangerLow: {
		"(you felt that)",
		"A small price.",
	},
}

// applyChoiceEffects runs the full consequence pipeline for a normalized
// choice text: danger classification and damage first, then the smaller
// additive lexical stat effects, then trap handling.
func (e *Engine) applyChoiceEffects(text string) {
	earlyMultiplier := 1.0
	if e.choiceCount <= earlyGameChoices {
		earlyMultiplier = earlyGameMultiplier
	}

	danger := e.assessChoiceDanger(text)
	e.lastDangerLevel = danger
	e.applyDangerConsequences(danger, text)

	if danger == models.DangerInstantDeath {
		return
	}

	// Courage: confrontation raises it, retreat drains it.
	if containsAny(text, "attack", "fight", "confront", "face", "charge") {
		e.ApplyHiddenDelta(models.StatCourage, scaled(e.random.Range(2, 4), earlyMultiplier))
		e.ApplyCharacterDelta(models.StatStrength, scaled(e.random.Range(1, 3), earlyMultiplier))
	} else if containsAny(text, "flee", "hide", "retreat", "avoid", "run") {
		e.ApplyHiddenDelta(models.StatCourage, scaled(e.random.Range(-4, -2), earlyMultiplier))
		e.ApplyCharacterDelta(models.StatSpeed, scaled(e.random.Range(0, 2), earlyMultiplier))
	}

	// Observation erodes sanity but feeds curiosity.
	if containsAny(text, "look", "examine", "study", "observe", "stare") {
		e.ApplyHiddenDelta(models.StatSanity, scaled(e.random.Range(-2, -1), earlyMultiplier))
		e.ApplyHiddenDelta(models.StatCuriosity, scaled(e.random.Range(2, 4), earlyMultiplier))
	}

	// Active investigation.
	if containsAny(text, "open", "read", "touch", "take", "investigate") {
		e.ApplyHiddenDelta(models.StatCuriosity, scaled(e.random.Range(2, 4), earlyMultiplier))
		e.ApplyHiddenDelta(models.StatTrust, scaled(e.random.Range(-2, 0), earlyMultiplier))
	}

	// Trust in, or defiance of, the narrator.
	if containsAny(text, "listen", "follow", "trust", "believe", "accept") {
		e.ApplyHiddenDelta(models.StatTrust, scaled(e.random.Range(1, 3), earlyMultiplier))
	} else if containsAny(text, "ignore", "refuse", "doubt", "question", "reject") {
		e.ApplyHiddenDelta(models.StatTrust, scaled(e.random.Range(-3, -1), earlyMultiplier))
		e.ApplyHiddenDelta(models.StatCourage, scaled(e.random.Range(0, 2), earlyMultiplier))
	}

	if e.isTrapChoice(text) {
		e.applyTrapConsequences()
	}
}

// assessChoiceDanger classifies normalized choice text into a danger level.
// First matching tier wins; the instant-death branch preempts everything.
func (e *Engine) assessChoiceDanger(text string) models.DangerLevel {
	if containsAny(text, instantDeathMarkers...) && e.random.Float64() < instantDeathChance {
		return models.DangerInstantDeath
	}

	switch {
	case containsAny(text, extremeKeywords...):
		return models.DangerExtreme
	case containsAny(text, highKeywords...):
		return models.DangerHigh
	case containsAny(text, mediumKeywords...):
		return models.DangerMedium
	case containsAny(text, lowKeywords...):
		return models.DangerLow
	}
	return models.DangerNone
}

// applyDangerConsequences deals the health/sanity cost for the tier. Danger
// damage scales with progression, not with the early-game dampener.
func (e *Engine) applyDangerConsequences(danger models.DangerLevel, text string) {
	multiplier := e.progressionMultiplier()

	switch danger {
	case models.DangerInstantDeath:
		e.characterStats.Health = 0
		e.healthOverkill = 0
		e.TriggerEvent(FlagInstantDeathTrap)
		return

	case models.DangerExtreme:
		damage := scaled(e.random.Range(20, 30), multiplier)
		e.ApplyCharacterDelta(models.StatHealth, -damage)
		e.ApplyHiddenDelta(models.StatSanity, e.random.Range(-2, -1))
		e.lastDamageDealt = damage

	case models.DangerHigh:
		damage := scaled(e.random.Range(15, 25), multiplier)
		e.ApplyCharacterDelta(models.StatHealth, -damage)
		e.ApplyHiddenDelta(models.StatSanity, e.random.Range(-1, 0))
		e.lastDamageDealt = damage

	case models.DangerMedium:
		damage := scaled(e.random.Range(10, 20), multiplier)
		e.ApplyCharacterDelta(models.StatHealth, -damage)
		e.lastDamageDealt = damage

	case models.DangerLow:
		damage := e.random.Range(5, 10)
		if e.choiceCount > midGameAfter {
			damage = scaled(damage, multiplier)
		}
		e.ApplyCharacterDelta(models.StatHealth, -damage)
		e.lastDamageDealt = damage
	}

	// Witnessing horror drains sanity regardless of tier.
	if strings.Contains(text, "horror") || strings.Contains(text, "witness") {
		e.ApplyHiddenDelta(models.StatSanity, e.random.Range(-2, -1))
	}
	if strings.Contains(text, "paranoid") || strings.Contains(text, "suspicious") {
		e.ApplyHiddenDelta(models.StatSanity, -1)
	}
}

// isTrapChoice detects obviously self-destructive picks, including choices
// that ignore a parenthetical warning.
func (e *Engine) isTrapChoice(text string) bool {
	if containsAny(text, trapIndicators...) {
		return true
	}

	openIdx := strings.Index(text, "(")
	closeIdx := strings.Index(text, ")")
	if openIdx >= 0 && closeIdx > openIdx {
		return containsAny(text[openIdx+1:closeIdx], parentheticalWarningWords...)
	}
	return false
}

// applyTrapConsequences punishes a trap choice: heavy damage, a sanity hit,
// a latched flag and a momentum spike that forces the ending phase.
func (e *Engine) applyTrapConsequences() {
	e.ApplyCharacterDelta(models.StatHealth, e.random.Range(-40, -25))
	e.ApplyHiddenDelta(models.StatSanity, e.random.Range(-3, -1))
	e.TriggerEvent(FlagTrapTriggered)
	e.mustEndSoon = true
	e.momentumLevel += 5
}

// ConsequenceFeedback returns a short narrator aside about the damage just
// taken, or "" when the last turn dealt none.
func (e *Engine) ConsequenceFeedback() string {
	if e.lastDamageDealt <= 0 {
		return ""
	}
	lines, ok := consequenceFeedback[e.lastDangerLevel]
	if !ok {
		return ""
	}
	return lines[e.random.Intn(len(lines))]
}

// progressionMultiplier keeps danger meaningful as the session lengthens.
func (e *Engine) progressionMultiplier() float64 {
	switch {
	case e.choiceCount > lateGameAfter:
		return lateGameMultiplier
	case e.choiceCount > midGameAfter:
		return midGameMultiplier
	}
	return 1.0
}

// scaled truncates toward zero, same as the damage formulas expect.
func scaled(value int, multiplier float64) int {
	return int(float64(value) * multiplier)
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
