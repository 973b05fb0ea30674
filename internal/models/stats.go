package models

// Stat name constants shared by the classifier, the engine and external
// consequence payloads. Unknown names in a payload are ignored, never an error.
const (
	StatHealth       = "health"
	StatMaxHealth    = "max_health"
	StatStrength     = "strength"
	StatSpeed        = "speed"
	StatIntelligence = "intelligence"

	StatSanity    = "sanity"
	StatCourage   = "courage"
	StatCuriosity = "curiosity"
	StatTrust     = "trust"
)

// CharacterStats are the stats visible to the player. Health is clamped to
// [0, MaxHealth], the remaining attributes to [1, 10]. MaxHealth is constant
// for the lifetime of a session.
type CharacterStats struct {
	Health       int `db:"health" json:"health"`
	MaxHealth    int `db:"max_health" json:"maxHealth"`
	Strength     int `db:"strength" json:"strength"`
	Speed        int `db:"speed" json:"speed"`
	Intelligence int `db:"intelligence" json:"intelligence"`
}

// HiddenStats drive decision logic and narrative generation but are never
// shown to the player during normal play. All four are clamped to [0, 10].
type HiddenStats struct {
	Sanity    int `db:"sanity" json:"sanity"`
	Courage   int `db:"courage" json:"courage"`
	Curiosity int `db:"curiosity" json:"curiosity"`
	Trust     int `db:"trust" json:"trust"`
}

// DefaultCharacterStats returns the stats a fresh session starts with.
func DefaultCharacterStats() CharacterStats {
	return CharacterStats{
		Health:       100,
		MaxHealth:    100,
		Strength:     5,
		Speed:        5,
		Intelligence: 5,
	}
}

// DefaultHiddenStats returns the hidden stats a fresh session starts with.
func DefaultHiddenStats() HiddenStats {
	return HiddenStats{
		Sanity:    10,
		Courage:   5,
		Curiosity: 5,
		Trust:     5,
	}
}

// AllAtLeast reports whether every hidden stat is >= n.
func (h HiddenStats) AllAtLeast(n int) bool {
	return h.Sanity >= n && h.Courage >= n && h.Curiosity >= n && h.Trust >= n
}

// AllBelow reports whether every hidden stat is < n.
func (h HiddenStats) AllBelow(n int) bool {
	return h.Sanity < n && h.Courage < n && h.Curiosity < n && h.Trust < n
}
