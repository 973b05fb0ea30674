// Package mutation selects, activates and expires the temporary
// "reality mutations" that alter how turns are presented. At most one
// mutation is active at a time.
package mutation

import "narrator-server/internal/models"

// moderateCatalog is available from the start of a session.
var moderateCatalog = []models.Mutation{
	{
		Name:         "Choice Inflation",
		Key:          "choice_inflation",
		Category:     models.MutationModerate,
		Description:  "Suddenly provides 6-8 choices instead of the normal 3-4",
		Announcement: "[REALITY SHIFT: choice inflation detected]",
		Duration:     1,
	},
	{
		Name:         "Choice Drought",
		Key:          "choice_drought",
		Category:     models.MutationModerate,
		Description:  "Only 2 choices, both clearly bad",
		Announcement: "[REALITY SHIFT: options collapsing]",
		Duration:     1,
	},
	{
		Name:         "Time Pressure",
		Key:          "time_pressure",
		Category:     models.MutationModerate,
		Description:  "10-second timer added to input",
		Announcement: "[REALITY SHIFT: temporal acceleration]",
		Duration:     1,
	},
	{
		Name:         "Forced Random",
		Key:          "forced_random",
		Category:     models.MutationModerate,
		Description:  "Narrator auto-selects a choice for you",
		Announcement: "[REALITY SHIFT: agency override]",
		Duration:     0,
	},
	{
		Name:         "Hidden Choice",
		Key:          "hidden_choice",
		Category:     models.MutationModerate,
		Description:  "One choice is blank/corrupted, mystery option",
		Announcement: "[REALITY SHIFT: information corruption]",
		Duration:     1,
	},
	{
		Name:         "Stat Reveal",
		Key:          "stat_reveal",
		Category:     models.MutationModerate,
		Description:  "Suddenly shows hidden stats, then hides them again",
		Announcement: "[REALITY SHIFT: data exposure]",
		Duration:     0,
	},
	{
		Name:         "Reverse Choices",
		Key:          "reverse_choices",
		Category:     models.MutationModerate,
		Description:  "Choices listed backwards or shuffled",
		Announcement: "[REALITY SHIFT: sequence inversion]",
		Duration:     1,
	},
	{
		Name:         "Duplicate Choices",
		Key:          "duplicate_choices",
		Category:     models.MutationModerate,
		Description:  "Same choice appears 3 times with tiny variations",
		Announcement: "[REALITY SHIFT: pattern repetition]",
		Duration:     1,
	},
	{
		Name:         "No Narrative",
		Key:          "no_narrative",
		Category:     models.MutationModerate,
		Description:  "Just choices, no story text this turn",
		Announcement: "[REALITY SHIFT: context collapse]",
		Duration:     1,
	},
	{
		Name:         "No Choices",
		Key:          "no_choices",
		Category:     models.MutationModerate,
		Description:  "Just narrative, auto-continues after a pause",
		Announcement: "[REALITY SHIFT: agency suspension]",
		Duration:     1,
	},
}

// wildCatalog joins the candidate pool at revelation level 3.
var wildCatalog = []models.Mutation{
	{
		Name:         "Narrator Split",
		Key:          "narrator_split",
		Category:     models.MutationWild,
		Description:  "Two narrators arguing about what happens",
		Announcement: "[REALITY FRACTURE: narrative schism]",
		Duration:     2,
	},
	{
		Name:         "Format Shift",
		Key:          "format_shift",
		Category:     models.MutationWild,
		Description:  "Game becomes poetry, chat log, error messages, etc.",
		Announcement: "[REALITY FRACTURE: format corruption]",
		Duration:     2,
	},
	{
		Name:         "Memory Rewrite",
		Key:          "memory_rewrite",
		Category:     models.MutationWild,
		Description:  "Previous choice gets retconned",
		Announcement: "[REALITY FRACTURE: history revision]",
		Duration:     0,
	},
	{
		Name:         "Fourth Wall Breach",
		Key:          "fourth_wall",
		Category:     models.MutationWild,
		Description:  "Narrator addresses the player directly about their terminal",
		Announcement: "[REALITY FRACTURE: containment breach]",
		Duration:     1,
	},
	{
		Name:         "Choice Rebellion",
		Key:          "choice_rebellion",
		Category:     models.MutationWild,
		Description:  "Your selection gets overridden mid-action",
		Announcement: "[REALITY FRACTURE: will override]",
		Duration:     0,
	},
	{
		Name:         "Temporal Loop",
		Key:          "temporal_loop",
		Category:     models.MutationWild,
		Description:  "Next 3 choices repeat your last 3 exactly",
		Announcement: "[REALITY FRACTURE: causality loop]",
		Duration:     3,
	},
	{
		Name:         "Cross-Session Bleed",
		Key:          "cross_session",
		Category:     models.MutationWild,
		Description:  "References to 'other iterations' appear",
		Announcement: "[REALITY FRACTURE: iteration bleed detected]",
		Duration:     1,
	},
	{
		Name:         "Format Corruption",
		Key:          "format_corruption",
		Category:     models.MutationWild,
		Description:  "Output becomes pure ASCII art, code, or glitch",
		Announcement: "[REALITY FRACTURE: rendering failure]",
		Duration:     1,
	},
	{
		Name:         "Interactive Narrator",
		Key:          "interactive_narrator",
		Category:     models.MutationWild,
		Description:  "Narrator asks YOU questions about the story",
		Announcement: "[REALITY FRACTURE: role inversion]",
		Duration:     1,
	},
	{
		Name:         "Reality Negotiation",
		Key:          "reality_negotiation",
		Category:     models.MutationWild,
		Description:  "Choices become debates with the narrator about what's real",
		Announcement: "[REALITY FRACTURE: consensus required]",
		Duration:     2,
	},
}

// ModerateCatalog returns the moderate mutation definitions. The returned
// slice is a copy; the catalog itself is never mutated at runtime.
func ModerateCatalog() []models.Mutation {
	return append([]models.Mutation(nil), moderateCatalog...)
}

// WildCatalog returns the wild mutation definitions as a copy.
func WildCatalog() []models.Mutation {
	return append([]models.Mutation(nil), wildCatalog...)
}

// ByKey looks a mutation definition up across both catalogs.
func ByKey(key string) (models.Mutation, bool) {
	for _, m := range moderateCatalog {
		if m.Key == key {
			return m, true
		}
	}
	for _, m := range wildCatalog {
		if m.Key == key {
			return m, true
		}
	}
	return models.Mutation{}, false
}
