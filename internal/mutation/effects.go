package mutation

import (
	"fmt"
	"strings"

	"narrator-server/internal/models"
	"narrator-server/internal/rng"
)

var glitchRunes = []rune{'█', '▓', '▒', '░'}

var choiceVariations = []string{" (carefully)", " (quickly)", " (hesitantly)", " (recklessly)"}

var fourthWallAsides = []string{
	"(I can see your terminal window, you know.)",
	"(How long have you been sitting there?)",
	"(Your keyboard sounds nervous.)",
}

var crossSessionReferences = []string{
	"(This happened differently in iteration #47.)",
	"(The other you made a different choice here.)",
	"(Across 109 sessions, no one has done this.)",
}

var interactiveQuestions = []string{
	"Should I continue?",
	"What would you like to see happen?",
	"Is this what you expected?",
}

var negotiationDebates = []string{
	"Insist this is real",
	"Claim this is simulation",
	"Deny the narrator's authority",
}

// ApplyToChoices transforms the choice list for an active mutation. The
// second result reports whether input should be skipped entirely
// (auto-continue). A nil mutation passes the list through unchanged.
func ApplyToChoices(m *models.Mutation, choices []string, random rng.Source) ([]string, bool) {
	if m == nil {
		return choices, false
	}

	switch m.Key {
	case "choice_inflation":
		inflated := append([]string(nil), choices...)
		limit := len(choices)
		if limit > 2 {
			limit = 2
		}
		for _, choice := range choices[:limit] {
			inflated = append(inflated, choice+choiceVariations[random.Intn(len(choiceVariations))])
		}
		return inflated, false

	case "choice_drought":
		return []string{"Give up", "Accept the inevitable"}, false

	case "hidden_choice":
		if len(choices) == 0 {
			return choices, false
		}
		out := append([]string(nil), choices...)
		out[random.Intn(len(out))] = "░░░░░░░░░░░░░░"
		return out, false

	case "reverse_choices":
		out := make([]string, len(choices))
		for i, choice := range choices {
			out[len(choices)-1-i] = choice
		}
		return out, false

	case "duplicate_choices":
		if len(choices) == 0 {
			return choices, false
		}
		base := choices[random.Intn(len(choices))]
		return []string{base, base + ".", base + " "}, false

	case "no_choices":
		return nil, true

	case "fourth_wall":
		return append(append([]string(nil), choices...), "(close the terminal)"), false

	case "cross_session":
		return append(append([]string(nil), choices...), "Remember other iterations"), false

	case "format_corruption":
		out := make([]string, len(choices))
		for i, choice := range choices {
			if random.Float64() < 0.5 {
				out[i] = glitchText(choice, 1.0, random)
			} else {
				out[i] = choice
			}
		}
		return out, false

	case "interactive_narrator":
		return append([]string(nil), interactiveQuestions...), false

	case "reality_negotiation":
		return append([]string(nil), negotiationDebates...), false
	}

	return choices, false
}

// ApplyToNarrative transforms the narrative text for an active mutation.
func ApplyToNarrative(m *models.Mutation, narrative string, random rng.Source) string {
	if m == nil {
		return narrative
	}

	switch m.Key {
	case "no_narrative":
		return ""

	case "format_shift":
		switch random.Intn(4) {
		case 0:
			lines := strings.Split(narrative, ". ")
			for i, line := range lines {
				lines[i] = "  " + line
			}
			return "[POETRY MODE]\n" + strings.Join(lines, "\n")
		case 1:
			return fmt.Sprintf("[SYSTEM]: %s\n[USER]: ...", narrative)
		case 2:
			return fmt.Sprintf("// NARRATIVE_BUFFER\nstd::string story = %q;\n// EXECUTION_CONTINUE", truncate(narrative, 50)+"...")
		default:
			return fmt.Sprintf("ERROR 0x7F9A: %s... [STACK TRACE CORRUPTED]", truncate(narrative, 30))
		}

	case "fourth_wall":
		return narrative + "\n\n" + fourthWallAsides[random.Intn(len(fourthWallAsides))]

	case "cross_session":
		return narrative + "\n\n" + crossSessionReferences[random.Intn(len(crossSessionReferences))]

	case "format_corruption":
		words := strings.Fields(narrative)
		for i, word := range words {
			if random.Float64() < 0.3 {
				words[i] = glitchText(word, 1.0, random)
			}
		}
		return strings.Join(words, " ")
	}

	return narrative
}

// SpecialEffect returns the one-time system message for mutations that need
// it, or "" when the mutation has none.
func SpecialEffect(m *models.Mutation, ctx models.ProgressionSnapshot, random rng.Source) string {
	if m == nil {
		return ""
	}

	switch m.Key {
	case "time_pressure":
		return "[You have 10 seconds to choose]"

	case "forced_random":
		return "[The narrator chooses for you]"

	case "stat_reveal":
		stats := ctx.HiddenStats
		return fmt.Sprintf(
			"[STATS EXPOSED]\nCourage: %d\nSanity: %d\nCuriosity: %d\nTrust: %d\n[DATA PURGED]",
			stats.Courage, stats.Sanity, stats.Curiosity, stats.Trust,
		)

	case "memory_rewrite":
		if ctx.PreviousChoice == "" || ctx.PreviousChoice == "BEGIN" {
			return ""
		}
		verbs := []string{"run", "hide", "scream", "surrender"}
		return fmt.Sprintf(
			"[MEMORY CORRECTION]\nNo, wait. Actually, you chose to %s.\nThe records have been updated.",
			verbs[random.Intn(len(verbs))],
		)

	case "choice_rebellion":
		return "[Your choice is noted. But you do something else instead.]"
	}

	return ""
}

// ModeFor maps a mutation to the input mode the rendering collaborator
// should switch to while it is active.
func ModeFor(m *models.Mutation) models.InputMode {
	if m == nil {
		return models.InputModeStandard
	}
	switch m.Key {
	case "interactive_narrator", "reality_negotiation":
		return models.InputModeFreeText
	case "time_pressure":
		return models.InputModeTimed
	case "no_choices", "forced_random", "choice_rebellion":
		return models.InputModeAutoContinue
	}
	return models.InputModeStandard
}

func glitchText(text string, density float64, random rng.Source) string {
	out := make([]rune, 0, len(text))
	for _, r := range text {
		if random.Float64() < density*0.8 {
			out = append(out, glitchRunes[random.Intn(len(glitchRunes))])
		} else {
			out = append(out, r)
		}
	}
	return string(out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
