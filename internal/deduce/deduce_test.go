package deduce

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/brewlab/internal/brew"
	"github.com/roach88/brewlab/internal/element"
	"github.com/roach88/brewlab/internal/ingredient"
	"github.com/roach88/brewlab/internal/rng"
)

func fullMarks(els ...element.Element) map[int]Mark {
	row := map[int]Mark{}
	for slot, m := range TrueMarks(els) {
		row[slot] = m
	}
	return row
}

func TestParseMark(t *testing.T) {
	cases := map[string]Mark{
		"":         Unknown,
		"unknown":  Unknown,
		"NONE":     None,
		"notleft":  NotLeft,
		"NotRight": NotRight,
		"moon":     Mark(element.Moon),
		" Fire ":   Mark(element.Fire),
	}
	for in, want := range cases {
		got, err := ParseMark(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMark("Lightning")
	assert.Error(t, err)
}

func TestSheet_UnmarshalJSON(t *testing.T) {
	var sheet Sheet
	err := json.Unmarshal([]byte(`{"ing-01":{"0":"sun","2":"none","3":""}}`), &sheet)
	require.NoError(t, err)
	assert.Equal(t, Mark(element.Sun), sheet.Get("ing-01", 0))
	assert.Equal(t, None, sheet.Get("ing-01", 2))
	assert.Equal(t, Unknown, sheet.Get("ing-01", 3))

	err = json.Unmarshal([]byte(`{"ing-01":{"0":"Steam"}}`), &sheet)
	assert.Error(t, err)
}

func TestMark_Pins(t *testing.T) {
	sunMoon := element.Pairs[0]
	e, ok := MarkOf(element.Sun).Pins(sunMoon)
	require.True(t, ok)
	assert.Equal(t, element.Sun, e)

	_, ok = MarkOf(element.Fire).Pins(sunMoon)
	assert.False(t, ok, "element outside the slot's pair pins nothing")

	for _, m := range []Mark{"", Unknown, None, NotLeft, NotRight} {
		_, ok := m.Pins(sunMoon)
		assert.False(t, ok, string(m))
	}
}

func TestTrueMarks(t *testing.T) {
	marks := TrueMarks([]element.Element{element.Moon, element.Air, element.Water})
	assert.Equal(t, []Mark{Mark(element.Moon), Mark(element.Air), Mark(element.Water), None}, marks)
}

func TestSheet_SetGetValidate(t *testing.T) {
	s := Sheet{}
	assert.Equal(t, Unknown, s.Get("ing-01", 2))

	s.Set("ing-01", 0, MarkOf(element.Sun))
	s.Set("ing-01", 1, NotLeft)
	assert.Equal(t, Mark(element.Sun), s.Get("ing-01", 0))
	require.NoError(t, s.Validate())

	s.Set("ing-02", 1, MarkOf(element.Fire))
	assert.ErrorContains(t, s.Validate(), "not in pair")

	bad := Sheet{"ing-01": {7: None}}
	assert.ErrorContains(t, bad.Validate(), "out of range")

	bad = Sheet{"ing-01": {0: "Maybe"}}
	assert.ErrorContains(t, bad.Validate(), "invalid mark")
}

func TestResolveKnownElements(t *testing.T) {
	els, ok := ResolveKnownElements(map[int]Mark{
		0: "Sun", 1: "Air", 2: "Water", 3: None,
	}, element.Pairs)
	require.True(t, ok)
	assert.Equal(t, []element.Element{element.Water, element.Air, element.Sun}, els)

	_, ok = ResolveKnownElements(map[int]Mark{
		0: "Moon", 1: NotLeft, 2: "Water", 3: None,
	}, element.Pairs)
	assert.False(t, ok, "only two elements pinned")

	_, ok = ResolveKnownElements(nil, element.Pairs)
	assert.False(t, ok)

	// Fire sits in the Fire/Water slot, not Plant/Animal.
	_, ok = ResolveKnownElements(map[int]Mark{
		0: "Sun", 1: "Air", 3: "Fire",
	}, element.Pairs)
	assert.False(t, ok)
}

func TestEstimateOutcome_TooFewSelected(t *testing.T) {
	_, ok := EstimateOutcome(nil, Sheet{})
	assert.False(t, ok)
	_, ok = EstimateOutcome([]string{"a"}, Sheet{"a": fullMarks(element.Sun, element.Air, element.Fire)})
	assert.False(t, ok)
}

func TestEstimateOutcome_FullKnowledge(t *testing.T) {
	sheet := Sheet{
		"A": fullMarks(element.Moon, element.Air, element.Water),
		"B": fullMarks(element.Moon, element.Earth, element.Plant),
	}
	est, ok := EstimateOutcome([]string{"A", "B"}, sheet)
	require.True(t, ok)
	assert.Equal(t, []element.Element{element.Moon}, est.Effects)
	assert.Equal(t, est.Effects, est.Certain)
	assert.Empty(t, est.Possible)
	assert.False(t, est.Ambiguous)
	assert.Equal(t, []string{"A", "B"}, est.Resolved)
}

func TestEstimateOutcome_FullKnowledgeNull(t *testing.T) {
	sheet := Sheet{
		"A": fullMarks(element.Moon, element.Air, element.Water),
		"B": fullMarks(element.Moon, element.Earth, element.Plant),
		"C": fullMarks(element.Sun, element.Fire, element.Animal),
	}
	est, ok := EstimateOutcome([]string{"A", "B", "C"}, sheet)
	require.True(t, ok)
	assert.Empty(t, est.Effects)
	assert.False(t, est.Ambiguous, "a fully known null brew is not ambiguous")
}

func TestEstimateOutcome_PartialMarksAreAmbiguous(t *testing.T) {
	sheet := Sheet{
		"A": {0: "Sun", 1: "Air", 2: "Water", 3: None},
		"B": {0: "Moon", 1: NotLeft, 2: "Water", 3: None},
	}
	est, ok := EstimateOutcome([]string{"A", "B", "C"}, sheet)
	require.True(t, ok)
	assert.True(t, est.Ambiguous)
	assert.Equal(t, []string{"A"}, est.Resolved)
	assert.Empty(t, est.Certain)
	assert.NotContains(t, est.Possible, element.Fire)
	assert.Equal(t, []element.Element{
		element.Water, element.Air, element.Sun, element.Plant, element.Animal,
	}, est.Effects)
}

func TestEstimateOutcome_CertainDominates(t *testing.T) {
	fas := fullMarks(element.Fire, element.Air, element.Sun)
	sheet := Sheet{"a": fas, "b": fas, "c": fas}
	est, ok := EstimateOutcome([]string{"a", "b", "c", "unknown"}, sheet)
	require.True(t, ok)
	assert.Equal(t, []element.Element{element.Fire, element.Air, element.Sun}, est.Certain)
	assert.Empty(t, est.Possible)
	assert.False(t, est.Ambiguous)
}

func TestEstimateOutcome_PossibleOutnumbersCertain(t *testing.T) {
	fas := fullMarks(element.Fire, element.Air, element.Sun)
	sheet := Sheet{"a": fas, "b": fas}
	est, ok := EstimateOutcome([]string{"a", "b", "unknown"}, sheet)
	require.True(t, ok)
	assert.Empty(t, est.Certain)
	assert.Equal(t, []element.Element{element.Fire, element.Air, element.Sun}, est.Possible)
	assert.True(t, est.Ambiguous)
}

// Property: certain ⊆ effects, effects = certain ∪ possible in canonical
// order, and full knowledge agrees with the brew evaluator.
func TestEstimateOutcome_Properties(t *testing.T) {
	for s := 0; s < 200; s++ {
		g := rng.FromString(fmt.Sprintf("deduce-%d", s))
		ings := ingredient.Generate(g, 6)
		picked := ings[:2+g.Intn(3)]

		full := Sheet{}
		partial := Sheet{}
		for _, ing := range picked {
			for slot, m := range TrueMarks(ing.List()) {
				full.Set(ing.ID, slot, m)
				if g.Intn(3) > 0 {
					partial.Set(ing.ID, slot, m)
				}
			}
		}
		ids := ingredient.IDs(picked)

		est, ok := EstimateOutcome(ids, full)
		require.True(t, ok)
		require.False(t, est.Ambiguous, "seed %d", s)
		require.Equal(t, brew.Brew(picked).Effects, est.Effects, "seed %d", s)

		est, ok = EstimateOutcome(ids, partial)
		require.True(t, ok)
		for _, e := range est.Certain {
			require.Contains(t, est.Effects, e)
		}
		union := append(append([]element.Element{}, est.Certain...), est.Possible...)
		require.Equal(t, element.Sorted(union), est.Effects, "seed %d", s)
		require.Len(t, est.Effects, len(est.Certain)+len(est.Possible))
		for _, e := range est.Effects {
			require.NotContains(t, est.Certain, e.Opponent(), "seed %d", s)
		}
	}
}
