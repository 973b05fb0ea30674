package mutation_test

import (
	"strings"
	"testing"

	"narrator-server/internal/models"
	"narrator-server/internal/mutation"
	"narrator-server/internal/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func byKey(t *testing.T, key string) *models.Mutation {
	t.Helper()
	m, ok := mutation.ByKey(key)
	require.True(t, ok, "catalog is missing %q", key)
	return &m
}

func TestApplyToChoices(t *testing.T) {
	choices := []string{"Open the door", "Run away", "Wait"}

	t.Run("nil mutation passes through", func(t *testing.T) {
		out, skip := mutation.ApplyToChoices(nil, choices, &rng.Script{})
		assert.Equal(t, choices, out)
		assert.False(t, skip)
	})

	t.Run("choice_inflation appends decorated copies", func(t *testing.T) {
		out, skip := mutation.ApplyToChoices(byKey(t, "choice_inflation"), choices, &rng.Script{Ints: []int{0, 1}})
		assert.False(t, skip)
		require.Len(t, out, 5)
		assert.Equal(t, "Open the door (carefully)", out[3])
		assert.Equal(t, "Run away (quickly)", out[4])
	})

	t.Run("choice_drought replaces everything", func(t *testing.T) {
		out, _ := mutation.ApplyToChoices(byKey(t, "choice_drought"), choices, &rng.Script{})
		assert.Equal(t, []string{"Give up", "Accept the inevitable"}, out)
	})

	t.Run("hidden_choice redacts one entry", func(t *testing.T) {
		out, _ := mutation.ApplyToChoices(byKey(t, "hidden_choice"), choices, &rng.Script{Ints: []int{1}})
		assert.Equal(t, "░░░░░░░░░░░░░░", out[1])
		assert.Equal(t, "Open the door", out[0])
	})

	t.Run("reverse_choices flips the order", func(t *testing.T) {
		out, _ := mutation.ApplyToChoices(byKey(t, "reverse_choices"), choices, &rng.Script{})
		assert.Equal(t, []string{"Wait", "Run away", "Open the door"}, out)
	})

	t.Run("duplicate_choices offers one choice three ways", func(t *testing.T) {
		out, _ := mutation.ApplyToChoices(byKey(t, "duplicate_choices"), choices, &rng.Script{Ints: []int{2}})
		require.Len(t, out, 3)
		for _, c := range out {
			assert.Equal(t, "Wait", strings.TrimRight(c, ". "))
		}
	})

	t.Run("no_choices skips input", func(t *testing.T) {
		out, skip := mutation.ApplyToChoices(byKey(t, "no_choices"), choices, &rng.Script{})
		assert.Empty(t, out)
		assert.True(t, skip)
	})

	t.Run("fourth_wall adds the terminal option", func(t *testing.T) {
		out, _ := mutation.ApplyToChoices(byKey(t, "fourth_wall"), choices, &rng.Script{})
		require.Len(t, out, 4)
		assert.Equal(t, "(close the terminal)", out[3])
	})

	t.Run("interactive_narrator asks its own questions", func(t *testing.T) {
		out, _ := mutation.ApplyToChoices(byKey(t, "interactive_narrator"), choices, &rng.Script{})
		require.Len(t, out, 3)
		assert.Equal(t, "Should I continue?", out[0])
	})

	t.Run("input is never mutated in place", func(t *testing.T) {
		original := append([]string(nil), choices...)
		for _, key := range []string{"choice_inflation", "hidden_choice", "reverse_choices", "fourth_wall", "format_corruption"} {
			mutation.ApplyToChoices(byKey(t, key), choices, rng.New(5))
			require.Equal(t, original, choices, "%s mutated its input", key)
		}
	})
}

func TestApplyToNarrative(t *testing.T) {
	narrative := "The door breathes. You pretend not to notice."

	t.Run("no_narrative blanks the text", func(t *testing.T) {
		assert.Empty(t, mutation.ApplyToNarrative(byKey(t, "no_narrative"), narrative, &rng.Script{}))
	})

	t.Run("format_shift rewrites the frame", func(t *testing.T) {
		out := mutation.ApplyToNarrative(byKey(t, "format_shift"), narrative, &rng.Script{Ints: []int{1}})
		assert.Contains(t, out, "[SYSTEM]:")
		assert.Contains(t, out, narrative)
	})

	t.Run("fourth_wall appends an aside", func(t *testing.T) {
		out := mutation.ApplyToNarrative(byKey(t, "fourth_wall"), narrative, &rng.Script{Ints: []int{0}})
		assert.True(t, strings.HasPrefix(out, narrative))
		assert.Contains(t, out, "terminal window")
	})

	t.Run("unrelated mutation passes through", func(t *testing.T) {
		assert.Equal(t, narrative, mutation.ApplyToNarrative(byKey(t, "time_pressure"), narrative, &rng.Script{}))
	})
}

func TestSpecialEffect(t *testing.T) {
	ctx := models.ProgressionSnapshot{
		HiddenStats:    models.HiddenStats{Sanity: 4, Courage: 7, Curiosity: 9, Trust: 2},
		PreviousChoice: "open the door",
	}

	t.Run("stat_reveal exposes hidden stats", func(t *testing.T) {
		out := mutation.SpecialEffect(byKey(t, "stat_reveal"), ctx, &rng.Script{})
		assert.Contains(t, out, "Courage: 7")
		assert.Contains(t, out, "Sanity: 4")
		assert.Contains(t, out, "Trust: 2")
	})

	t.Run("memory_rewrite needs a previous choice", func(t *testing.T) {
		out := mutation.SpecialEffect(byKey(t, "memory_rewrite"), ctx, &rng.Script{Ints: []int{2}})
		assert.Contains(t, out, "you chose to scream")

		fresh := models.ProgressionSnapshot{PreviousChoice: "BEGIN"}
		assert.Empty(t, mutation.SpecialEffect(byKey(t, "memory_rewrite"), fresh, &rng.Script{}))
	})

	t.Run("most mutations have none", func(t *testing.T) {
		assert.Empty(t, mutation.SpecialEffect(byKey(t, "choice_drought"), ctx, &rng.Script{}))
		assert.Empty(t, mutation.SpecialEffect(nil, ctx, &rng.Script{}))
	})
}

func TestModeFor(t *testing.T) {
	assert.Equal(t, models.InputModeStandard, mutation.ModeFor(nil))
	assert.Equal(t, models.InputModeTimed, mutation.ModeFor(byKey(t, "time_pressure")))
	assert.Equal(t, models.InputModeFreeText, mutation.ModeFor(byKey(t, "interactive_narrator")))
	assert.Equal(t, models.InputModeAutoContinue, mutation.ModeFor(byKey(t, "no_choices")))
	assert.Equal(t, models.InputModeAutoContinue, mutation.ModeFor(byKey(t, "choice_rebellion")))
	assert.Equal(t, models.InputModeStandard, mutation.ModeFor(byKey(t, "no_narrative")))
}
