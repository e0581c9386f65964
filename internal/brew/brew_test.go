package brew

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/brewlab/internal/element"
	"github.com/roach88/brewlab/internal/ingredient"
	"github.com/roach88/brewlab/internal/rng"
)

var (
	ingA = ingredient.MustNew("a", "A", element.Moon, element.Air, element.Water)
	ingB = ingredient.MustNew("b", "B", element.Moon, element.Earth, element.Plant)
	ingC = ingredient.MustNew("c", "C", element.Sun, element.Fire, element.Animal)
)

func TestBrew_MoonPair(t *testing.T) {
	r := Brew([]ingredient.Ingredient{ingA, ingB})
	assert.Equal(t, []element.Element{element.Moon}, r.Effects)
	assert.False(t, r.IsNull)
	assert.Equal(t, "Moon", r.String())
}

func TestBrew_SunCancelsMoon(t *testing.T) {
	r := Brew([]ingredient.Ingredient{ingA, ingB, ingC})
	assert.False(t, r.Has(element.Moon), "Moon margin drops to 1")
	assert.True(t, r.IsNull)
	assert.Equal(t, "null", r.String())
}

func TestBrew_Empty(t *testing.T) {
	r := Brew(nil)
	assert.True(t, r.IsNull)
	assert.NotNil(t, r.Effects)
	assert.Empty(t, r.Effects)
}

func TestBrew_MultipleEffectsCanonicalOrder(t *testing.T) {
	x := ingredient.MustNew("x", "X", element.Animal, element.Sun, element.Fire)
	y := ingredient.MustNew("y", "Y", element.Animal, element.Sun, element.Air)
	r := Brew([]ingredient.Ingredient{x, y})
	assert.Equal(t, []element.Element{element.Sun, element.Animal}, r.Effects)
}

func TestCompositions_MatchesBrew(t *testing.T) {
	r := Compositions([][]element.Element{ingA.List(), ingB.List()})
	assert.Equal(t, Brew([]ingredient.Ingredient{ingA, ingB}), r)
}

func TestTally_Margin(t *testing.T) {
	tl := Tally{}
	tl.Add(element.Fire, element.Fire, element.Fire, element.Water)
	assert.Equal(t, 2, tl.Margin(element.Fire))
	assert.Equal(t, -2, tl.Margin(element.Water))
	assert.Equal(t, []element.Element{element.Fire}, tl.Effects())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal([]element.Element{element.Sun, element.Fire}, []element.Element{element.Fire, element.Sun}))
	assert.False(t, Equal([]element.Element{element.Sun}, []element.Element{element.Sun, element.Fire}))
	assert.True(t, Equal(nil, []element.Element{}))
}

// Property: across random subsets no result holds both elements of a pair,
// and effects are always canonically sorted.
func TestBrew_NoCoTriggerAndCanonicalOrder(t *testing.T) {
	for s := 0; s < 300; s++ {
		g := rng.FromString(fmt.Sprintf("brew-%d", s))
		pool := ingredient.Generate(g, 14)
		size := 2 + g.Intn(3)
		picked := make([]ingredient.Ingredient, 0, size)
		for k := 0; k < size; k++ {
			picked = append(picked, pool[g.Intn(len(pool))])
		}

		r := Brew(picked)
		require.Equal(t, element.Sorted(r.Effects), r.Effects)
		require.Equal(t, len(r.Effects) == 0, r.IsNull)
		for _, e := range r.Effects {
			require.False(t, r.Has(e.Opponent()), "seed %d: %s and %s co-trigger", s, e, e.Opponent())
		}
	}
}
