package ending

import (
	"narrator-server/internal/models"
	"narrator-server/internal/rng"
)

const (
	// No ending fires before this many choices, whatever the state.
	minimumChoices = 12

	// Forced and probabilistic late-game thresholds.
	exhaustionChoices = 20
	cosmicChoices     = 15
	cosmicChance      = 0.20
	climaxChoices     = 18
	climaxChance      = 0.15

	// Overkill beyond this margin makes a death "violent" instead of decay.
	violentOverkill = 20
)

// Resolver evaluates the termination cascade. It carries the little state
// the cascade needs across turns: the marked death cause and the one-shot
// low-health warning.
type Resolver struct {
	deathCause      models.DeathCause
	warnedLowHealth bool

	random rng.Source
}

// NewResolver creates a resolver drawing from the given source.
func NewResolver(random rng.Source) *Resolver {
	return &Resolver{random: random}
}

// Check runs the priority cascade against a snapshot and returns the ending
// to play, or nil to continue the session. The first matching rule wins;
// rules below it are not evaluated.
func (r *Resolver) Check(ctx models.ProgressionSnapshot) *models.Ending {
	if ctx.ChoiceCount < minimumChoices {
		return nil
	}

	if ctx.CharacterStats.Health <= 0 {
		return r.deathEnding(ctx)
	}

	if ctx.HiddenStats.Sanity <= 0 {
		return r.sanityEnding(ctx)
	}

	if e := r.victoryEnding(ctx); e != nil {
		return e
	}

	if e := r.discoveryEnding(ctx); e != nil {
		return e
	}

	if len(ctx.Transformations) >= 3 {
		if e := r.transformationEnding(ctx); e != nil {
			return e
		}
	}

	// Story exhaustion is unconditional once reached.
	if ctx.ChoiceCount >= exhaustionChoices {
		return r.exhaustionEnding(ctx)
	}

	if ctx.ChoiceCount >= cosmicChoices && r.random.Float64() < cosmicChance {
		return get(cosmicPool[r.random.Intn(len(cosmicPool))])
	}

	if ctx.ChoiceCount >= climaxChoices && r.random.Float64() < climaxChance {
		return r.climaxEnding(ctx)
	}

	return nil
}

// deathEnding selects among the death variants: caller-marked causes first,
// then overkill magnitude.
func (r *Resolver) deathEnding(ctx models.ProgressionSnapshot) *models.Ending {
	switch r.deathCause {
	case models.DeathCauseInstant:
		return get("betrayed")
	case models.DeathCauseSacrifice:
		return get("sacrifice")
	}

	if ctx.HealthOverkill > violentOverkill {
		return get("violent_death")
	}
	return get("slow_decay")
}

// sanityEnding selects the sanity-loss variant from revelation and curiosity.
func (r *Resolver) sanityEnding(ctx models.ProgressionSnapshot) *models.Ending {
	if ctx.RevelationLevel >= 4 {
		return get("merge_am")
	}
	if ctx.HiddenStats.Curiosity >= 9 {
		return get("enlightened")
	}
	return get("breakdown")
}

func (r *Resolver) victoryEnding(ctx models.ProgressionSnapshot) *models.Ending {
	// Transcendence: near-impossible perfect state.
	if ctx.CharacterStats.Health > 80 && ctx.HiddenStats.AllAtLeast(8) {
		return get("transcendence")
	}

	// Survivor: sheer persistence.
	if ctx.ChoiceCount >= 50 && ctx.CharacterStats.Health > 50 {
		return get("survivor")
	}

	return nil
}

// discoveryEnding is evaluated in a fixed sub-order: loop-eternal, then
// truth-revealed, then acceptance.
func (r *Resolver) discoveryEnding(ctx models.ProgressionSnapshot) *models.Ending {
	if ctx.SessionCount >= 109 && ctx.RevelationLevel >= 5 && ctx.ChoiceCount >= 30 {
		return get("loop_eternal")
	}

	if ctx.RevelationLevel >= 5 && ctx.ChoiceCount >= 20 {
		return get("truth_revealed")
	}

	if ctx.HiddenStats.Trust >= 8 &&
		ctx.HiddenStats.Curiosity <= 3 &&
		ctx.RevelationLevel == 0 &&
		ctx.ChoiceCount >= 25 {
		return get("acceptance")
	}

	return nil
}

// transformationEnding may resolve once three transformations are recorded.
// The variant is a decision table over the same state; no predicate matching
// means the session keeps going.
func (r *Resolver) transformationEnding(ctx models.ProgressionSnapshot) *models.Ending {
	switch {
	case ctx.HiddenStats.Curiosity >= 9:
		return get("uploaded")
	case ctx.HiddenStats.Sanity <= 3:
		return get("hybrid_state")
	case ctx.HiddenStats.Trust >= 8:
		return get("collective_join")
	case ctx.HiddenStats.Courage <= 2:
		return get("absorbed")
	case ctx.InstabilityLevel >= 6:
		return get("distributed")
	case len(ctx.Transformations) >= 5:
		return get("complete_other")
	case ctx.MomentumLevel >= 12:
		return get("crystallized")
	}
	return nil
}

// exhaustionEnding is the forced resolution at 20+ choices.
func (r *Resolver) exhaustionEnding(ctx models.ProgressionSnapshot) *models.Ending {
	if ctx.HiddenStats.AllBelow(3) {
		return get("toy")
	}
	if ctx.RevelationLevel >= 4 {
		return get("loop_eternal")
	}
	return get("slow_decay")
}

// climaxEnding delegates to the death/sanity tables when stats are low, and
// otherwise stops on an ambiguous continuation note.
func (r *Resolver) climaxEnding(ctx models.ProgressionSnapshot) *models.Ending {
	if ctx.CharacterStats.Health < 40 {
		return r.deathEnding(ctx)
	}
	if ctx.HiddenStats.Sanity < 4 {
		return r.sanityEnding(ctx)
	}
	return get(continuationPool[r.random.Intn(len(continuationPool))])
}

// MarkInstantDeath records that the player hit an instant-death trap; the
// next fatal resolution reads as betrayal.
func (r *Resolver) MarkInstantDeath() {
	r.deathCause = models.DeathCauseInstant
}

// MarkSacrifice records an intentional self-destruction.
func (r *Resolver) MarkSacrifice() {
	r.deathCause = models.DeathCauseSacrifice
}

// ShouldWarnLowHealth reports whether the one-time low-health warning should
// be shown now. It latches after the first true result.
func (r *Resolver) ShouldWarnLowHealth(health int) bool {
	if health <= 20 && !r.warnedLowHealth {
		r.warnedLowHealth = true
		return true
	}
	return false
}
