package models

// DangerLevel classifies how risky a player choice is. It drives the
// magnitude of health/sanity consequences for the turn.
type DangerLevel string

const (
	DangerNone         DangerLevel = "none"
	DangerLow          DangerLevel = "low"
	DangerMedium       DangerLevel = "medium"
	DangerHigh         DangerLevel = "high"
	DangerExtreme      DangerLevel = "extreme"
	DangerInstantDeath DangerLevel = "instant_death"
)

// DangerFromDamage infers a danger level from a raw damage amount. Used to
// report feedback for externally supplied consequences, which arrive as bare
// deltas without a classification.
func DangerFromDamage(damage int) DangerLevel {
	switch {
	case damage <= 0:
		return DangerNone
	case damage >= 30:
		return DangerExtreme
	case damage >= 20:
		return DangerHigh
	case damage >= 10:
		return DangerMedium
	default:
		return DangerLow
	}
}
