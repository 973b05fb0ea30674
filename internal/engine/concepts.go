package engine

import (
	"fmt"
	"strings"
)

// horrorConcepts lists each concept tag with the narrative keywords that
// betray its use. Tracked so the generator can be steered away from
// repetition. A slice, not a map: detection order must be stable so the
// recorded tags replay identically for the same narrative.
var horrorConcepts = []struct {
	tag      string
	keywords []string
}{
	{"doppelganger", []string{"doppelganger", "double", "twin", "copy", "duplicate", "reflection that moves", "other you", "another you", "identical"}},
	{"mirror", []string{"mirror", "reflection", "glass"}},
	{"pursuit", []string{"chasing", "following", "pursuing", "hunting you"}},
	{"transformation", []string{"changing", "transforming", "morphing", "becoming"}},
	{"voices", []string{"voices", "whispers", "speaking", "calling"}},
	{"darkness", []string{"darkness", "shadow", "dark", "blackness"}},
	{"eyes", []string{"eyes watching", "staring", "gaze", "observing"}},
	{"doors", []string{"door", "doorway", "entrance", "threshold"}},
	{"time_loop", []string{"again", "repeat", "before", "happened before"}},
	{"body_horror", []string{"flesh", "skin", "bones", "organs", "blood"}},
	{"isolation", []string{"alone", "empty", "abandoned", "no one"}},
	{"fragmentation", []string{"pieces", "fragments", "breaking apart", "dissolving"}},
}

// freshAngles are concept directions suggested to the generator once the
// session has burned through several of the common ones.
var freshAngles = []string{
	"geometric impossibility", "mathematical horror", "sensory confusion",
	"bureaucratic nightmare", "linguistic breakdown", "archaeological dread",
	"chemical transformation", "quantum uncertainty", "biological invasion",
	"architectural wrongness", "temporal paradox", "gravity distortion",
	"sound-based horror", "tactile wrongness", "olfactory nightmare",
	"pressure changes", "temperature extremes", "spatial compression",
	"crowd horror", "absence of expected", "too many of something",
	"scale distortion", "texture horror", "pattern recognition failure",
}

// detectHorrorConcepts tags the concepts present in a generated narrative.
// Each tag is recorded once per session.
func (e *Engine) detectHorrorConcepts(narrative string) {
	lower := strings.ToLower(narrative)
	for _, concept := range horrorConcepts {
		if !containsAny(lower, concept.keywords...) {
			continue
		}
		seen := false
		for _, used := range e.horrorConceptsUsed {
			if used == concept.tag {
				seen = true
				break
			}
		}
		if !seen {
			e.horrorConceptsUsed = append(e.horrorConceptsUsed, concept.tag)
		}
	}
}

// conceptDiversityHint suggests unexplored directions once at least three
// concepts have been used. The suggestion rotates deterministically with the
// number of used concepts, keeping snapshots stable between state changes.
func (e *Engine) conceptDiversityHint() string {
	used := e.horrorConceptsUsed
	if len(used) < 3 {
		return ""
	}

	offset := (len(used) * 3) % len(freshAngles)
	suggestions := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		suggestions = append(suggestions, freshAngles[(offset+i)%len(freshAngles)])
	}

	recent := used
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}

	return fmt.Sprintf(
		"FRESH ANGLES TO EXPLORE: %s. ALREADY EXPLORED THIS SESSION: %s - find new ways to unsettle.",
		strings.Join(suggestions, ", "),
		strings.Join(recent, ", "),
	)
}
