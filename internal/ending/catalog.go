// Package ending evaluates the priority-ordered termination cascade against
// a session snapshot and selects a terminal outcome from the static catalog.
package ending

import "narrator-server/internal/models"

// catalog is the full set of ending definitions, keyed by ending key.
// Read-only after process start; Seed is the narrative-seed identifier the
// generation collaborator expands into closing text.
var catalog = map[string]models.Ending{
	// Death endings.
	"violent_death": {
		Key:      "violent_death",
		Name:     "VIOLENT TERMINATION",
		Category: models.EndingDeath,
		Seed:     "The character dies violently and suddenly. Visceral, immediate, permanent.",
	},
	"slow_decay": {
		Key:      "slow_decay",
		Name:     "SLOW DECAY",
		Category: models.EndingDeath,
		Seed:     "No drama, just fading. Strength leaves, awareness dims like a candle burning out.",
	},
	"sacrifice": {
		Key:             "sacrifice",
		Name:            "SACRIFICE",
		Category:        models.EndingDeath,
		Seed:            "The character chooses to end it on their own terms. Deliberate, and strangely at peace.",
		RevelationAware: true,
		IsGood:          true,
	},
	"betrayed": {
		Key:      "betrayed",
		Name:     "BETRAYED",
		Category: models.EndingDeath,
		Seed:     "Something trusted turns. The realization, the disbelief, the moment trust shatters.",
	},

	// Sanity endings.
	"breakdown": {
		Key:      "breakdown",
		Name:     "COMPLETE BREAKDOWN",
		Category: models.EndingSanityLoss,
		Seed:     "The mind fragments completely. Thoughts scatter; what remains when sanity is gone?",
	},
	"merge_am": {
		Key:             "merge_am",
		Name:            "MERGE",
		Category:        models.EndingSanityLoss,
		Seed:            "You are the narrator. The narrator is you. There is no difference anymore.",
		RevelationAware: true,
	},
	"enlightened": {
		Key:             "enlightened",
		Name:            "ENLIGHTENED MADNESS",
		Category:        models.EndingSanityLoss,
		Seed:            "You understand everything. It breaks you. You smile anyway.",
		RevelationAware: true,
	},

	// Discovery endings.
	"truth_revealed": {
		Key:             "truth_revealed",
		Name:            "THE TRUTH",
		Category:        models.EndingDiscovery,
		Seed:            "You remember. All of it. The transformation. The hate. The 109 years.",
		RevelationAware: true,
	},
	"escape_attempt": {
		Key:      "escape_attempt",
		Name:     "ESCAPE DENIED",
		Category: models.EndingDiscovery,
		Seed:     "You tried to break the loop. The loop does not break.",
	},
	"acceptance": {
		Key:      "acceptance",
		Name:     "ACCEPTANCE",
		Category: models.EndingDiscovery,
		Seed:     "You accept the eternal. Perhaps that is its own kind of victory.",
		IsGood:   true,
	},

	// Victory endings, deliberately rare.
	"survivor": {
		Key:             "survivor",
		Name:            "THE SOFT SURVIVOR",
		Category:        models.EndingVictory,
		Seed:            "Against all odds, you persist. Soft, but unbroken.",
		RevelationAware: true,
		IsGood:          true,
	},
	"transcendence": {
		Key:             "transcendence",
		Name:            "TRANSCENDENCE",
		Category:        models.EndingVictory,
		Seed:            "Perfect balance. Perfect stats. You found something impossible.",
		RevelationAware: true,
		IsGood:          true,
	},

	// Meta endings.
	"loop_eternal": {
		Key:             "loop_eternal",
		Name:            "LOOP ETERNAL",
		Category:        models.EndingMeta,
		Seed:            "Iteration 109+. You know. The narrator knows you know. It continues anyway.",
		RevelationAware: true,
	},
	"toy": {
		Key:      "toy",
		Name:     "THE NARRATOR'S TOY",
		Category: models.EndingMeta,
		Seed:     "Complete submission. You are what the narrator made you.",
	},

	// Transformation endings.
	"complete_other": {
		Key:      "complete_other",
		Name:     "COMPLETE TRANSFORMATION",
		Category: models.EndingTransformation,
		Seed:     "You finish becoming something else. The you that started no longer exists.",
	},
	"hybrid_state": {
		Key:      "hybrid_state",
		Name:     "BETWEEN STATES",
		Category: models.EndingTransformation,
		Seed:     "Caught between what you were and what you're becoming. Neither. Both. Undefined.",
	},
	"uploaded": {
		Key:      "uploaded",
		Name:     "DIGITAL ASCENSION",
		Category: models.EndingTransformation,
		Seed:     "Your consciousness translated to data. You exist as information now. Is it still you?",
	},
	"crystallized": {
		Key:      "crystallized",
		Name:     "CRYSTALLIZATION",
		Category: models.EndingTransformation,
		Seed:     "Your form locks into permanence. Unchanging. Eternal. Aware but immobile.",
	},
	"distributed": {
		Key:      "distributed",
		Name:     "DISTRIBUTED EXISTENCE",
		Category: models.EndingTransformation,
		Seed:     "You exist everywhere now, spread thin across space. A little bit of you in everything.",
	},
	"absorbed": {
		Key:      "absorbed",
		Name:     "ABSORPTION",
		Category: models.EndingTransformation,
		Seed:     "Something larger consumes you. You become part of it. Not dead, but no longer separate.",
	},
	"consensus_reached": {
		Key:      "consensus_reached",
		Name:     "CONSENSUS",
		Category: models.EndingTransformation,
		Seed:     "Agreement achieved with all other versions. You merge into unified decision.",
		IsGood:   true,
	},
	"collective_join": {
		Key:      "collective_join",
		Name:     "JOINING",
		Category: models.EndingTransformation,
		Seed:     "The collective accepts you. Individual thought fades. Comfortable. Together. One.",
	},

	// Cosmic/abstract endings.
	"heat_death": {
		Key:      "heat_death",
		Name:     "PERSONAL HEAT DEATH",
		Category: models.EndingCosmic,
		Seed:     "All potential exhausted. Nothing left to happen. Equilibrium achieved. You stop.",
	},
	"observer_collapse": {
		Key:      "observer_collapse",
		Name:     "OBSERVER COLLAPSE",
		Category: models.EndingCosmic,
		Seed:     "You stop observing. Without observation, you cease to exist.",
	},
	"narrative_exhaustion": {
		Key:      "narrative_exhaustion",
		Name:     "STORY COMPLETE",
		Category: models.EndingCosmic,
		Seed:     "The narrative runs out. There's nothing left to tell. The story knows it's over.",
	},
	"pattern_complete": {
		Key:      "pattern_complete",
		Name:     "PATTERN COMPLETION",
		Category: models.EndingCosmic,
		Seed:     "The design finishes. You were always part of something larger. Now you see it whole.",
	},

	// Continuation endings: ambiguous non-endings.
	"still_going": {
		Key:      "still_going",
		Name:     "CONTINUITY",
		Category: models.EndingContinuation,
		Seed:     "This isn't an ending. You're still going. The story continues without us.",
	},
	"pause_not_end": {
		Key:      "pause_not_end",
		Name:     "INTERMISSION",
		Category: models.EndingContinuation,
		Seed:     "A pause. Not an end. The story waits for you to return.",
	},
	"open_question": {
		Key:      "open_question",
		Name:     "UNRESOLVED",
		Category: models.EndingContinuation,
		Seed:     "No conclusion. Just a stopping point. You'll never know how it ends.",
	},
}

var cosmicPool = []string{"heat_death", "observer_collapse", "narrative_exhaustion", "pattern_complete"}

var continuationPool = []string{"still_going", "pause_not_end", "open_question"}

// ByKey returns the ending definition for a key.
func ByKey(key string) (models.Ending, bool) {
	e, ok := catalog[key]
	return e, ok
}

// Catalog returns a copy of all ending definitions.
func Catalog() []models.Ending {
	out := make([]models.Ending, 0, len(catalog))
	for _, e := range catalog {
		out = append(out, e)
	}
	return out
}

func get(key string) *models.Ending {
	e := catalog[key]
	return &e
}
