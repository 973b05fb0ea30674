package models

// EndingCategory groups endings by the kind of conclusion they narrate.
type EndingCategory string

const (
	EndingDeath          EndingCategory = "death"
	EndingSanityLoss     EndingCategory = "sanity_loss"
	EndingVictory        EndingCategory = "victory"
	EndingDiscovery      EndingCategory = "discovery"
	EndingTransformation EndingCategory = "transformation"
	EndingMeta           EndingCategory = "meta"
	EndingCosmic         EndingCategory = "cosmic"
	EndingContinuation   EndingCategory = "continuation"
)

// Ending is an immutable definition of a terminal outcome. Seed is the
// narrative-seed identifier handed to the generation collaborator, which
// turns it into the actual closing text.
type Ending struct {
	Key             string         `json:"key"`
	Name            string         `json:"name"`
	Category        EndingCategory `json:"category"`
	Seed            string         `json:"seed"`
	RevelationAware bool           `json:"revelationAware"`
	IsGood          bool           `json:"isGood"`
}

// DeathCause marks how a fatal turn came about, set by the caller before
// the resolver runs. It selects among the death ending variants.
type DeathCause string

const (
	DeathCauseNone      DeathCause = ""
	DeathCauseInstant   DeathCause = "instant"
	DeathCauseSacrifice DeathCause = "sacrifice"
)
