package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/brewlab/internal/deduce"
	"github.com/roach88/brewlab/internal/element"
)

const minimalScenario = `
name: minimal
description: "one brew"
ingredients:
  - id: A
    elements: [Moon, Air, Water]
  - id: B
    elements: [Moon, Earth, Plant]
flow:
  - op: brew
    ids: [A, B]
`

func TestLoadScenario_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
	require.Len(t, s.Ingredients, 2)
	assert.Equal(t, []string{"Moon", "Air", "Water"}, s.Ingredients[0].Elements)
	require.Len(t, s.Flow, 1)
	assert.Equal(t, OpBrew, s.Flow[0].Op)
	assert.Nil(t, s.Flow[0].Expect)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_DecodesMarks(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: marks
description: "marks decode case-insensitively"
ingredients:
  - id: A
    elements: [Moon, Air, Water]
  - id: B
    elements: [Moon, Earth, Plant]
flow:
  - op: estimate
    ids: [A, B]
    marks:
      A: { 0: moon, 1: notleft, 3: None }
  - op: resolve
    slots: { 2: water }
`))
	require.NoError(t, err)
	assert.Equal(t, deduce.MarkOf(element.Moon), s.Flow[0].Marks.Get("A", 0))
	assert.Equal(t, deduce.NotLeft, s.Flow[0].Marks.Get("A", 1))
	assert.Equal(t, deduce.Unknown, s.Flow[0].Marks.Get("A", 2))
	assert.Equal(t, deduce.None, s.Flow[0].Marks.Get("A", 3))
	assert.Equal(t, deduce.MarkOf(element.Water), s.Flow[1].Slots[2])
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			yaml:    "name: [unclosed",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "unknown field",
			yaml:    minimalScenario + "assertion: []\n",
			wantErr: "field assertion not found",
		},
		{
			name:    "missing name",
			yaml:    "description: d\nconfig: {seed: s}\nflow: [{op: solve}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nconfig: {seed: s}\nflow: [{op: solve}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no game",
			yaml:    "name: n\ndescription: d\nflow: [{op: solve}]\n",
			wantErr: "one of config or ingredients",
		},
		{
			name:    "both games",
			yaml:    "name: n\ndescription: d\nconfig: {seed: s}\ningredients: [{id: A, elements: [Fire, Air, Sun]}]\nflow: [{op: solve}]\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "max_combo with config",
			yaml:    "name: n\ndescription: d\nconfig: {seed: s}\nmax_combo: 3\nflow: [{op: solve}]\n",
			wantErr: "max_combo applies to ingredients only",
		},
		{
			name:    "empty flow",
			yaml:    "name: n\ndescription: d\nconfig: {seed: s}\nflow: []\n",
			wantErr: "flow list is required",
		},
		{
			name:    "duplicate ingredient",
			yaml:    "name: n\ndescription: d\ningredients: [{id: A, elements: [Fire, Air, Sun]}, {id: A, elements: [Fire, Air, Moon]}]\nflow: [{op: solve, target: [Fire]}]\n",
			wantErr: `duplicate id "A"`,
		},
		{
			name:    "missing op",
			yaml:    "name: n\ndescription: d\nconfig: {seed: s}\nflow: [{ids: [a]}]\n",
			wantErr: "op is required",
		},
		{
			name:    "unknown op",
			yaml:    "name: n\ndescription: d\nconfig: {seed: s}\nflow: [{op: stir}]\n",
			wantErr: `unknown op "stir"`,
		},
		{
			name:    "brew without ids",
			yaml:    "name: n\ndescription: d\nconfig: {seed: s}\nflow: [{op: brew}]\n",
			wantErr: "ids are required for brew",
		},
		{
			name:    "solve hand game without target",
			yaml:    "name: n\ndescription: d\ningredients: [{id: A, elements: [Fire, Air, Sun]}]\nflow: [{op: solve}]\n",
			wantErr: "target is required",
		},
		{
			name:    "unknown target element",
			yaml:    "name: n\ndescription: d\nconfig: {seed: s}\nflow: [{op: solve, target: [Steam]}]\n",
			wantErr: `unknown element "Steam"`,
		},
		{
			name:    "resolve without slots",
			yaml:    "name: n\ndescription: d\nconfig: {seed: s}\nflow: [{op: resolve}]\n",
			wantErr: "slots are required",
		},
		{
			name:    "craft on hand game",
			yaml:    "name: n\ndescription: d\ningredients: [{id: A, elements: [Fire, Air, Sun]}]\nflow: [{op: craft, ids: [A]}]\n",
			wantErr: "craft needs a generated game",
		},
		{
			name:    "bad expect case",
			yaml:    "name: n\ndescription: d\nconfig: {seed: s}\nflow: [{op: solve, expect: {case: Success}}]\n",
			wantErr: "case must be one of",
		},
		{
			name:    "bad mark",
			yaml:    "name: n\ndescription: d\nconfig: {seed: s}\nflow: [{op: resolve, slots: {0: Steam}}]\n",
			wantErr: `invalid mark "Steam"`,
		},
		{
			name:    "unknown assertion",
			yaml:    "name: n\ndescription: d\nconfig: {seed: s}\nflow: [{op: solve}]\nassertions: [{type: final_state}]\n",
			wantErr: `unknown assertion type "final_state"`,
		},
		{
			name:    "trace_count without op",
			yaml:    "name: n\ndescription: d\nconfig: {seed: s}\nflow: [{op: solve}]\nassertions: [{type: trace_count, count: 1}]\n",
			wantErr: "op is required for trace_count",
		},
		{
			name:    "negative count",
			yaml:    "name: n\ndescription: d\nconfig: {seed: s}\nflow: [{op: solve}]\nassertions: [{type: trace_count, op: solve, count: -1}]\n",
			wantErr: "count must be non-negative",
		},
		{
			name:    "trace_order without ops",
			yaml:    "name: n\ndescription: d\nconfig: {seed: s}\nflow: [{op: solve}]\nassertions: [{type: trace_order}]\n",
			wantErr: "ops list is required",
		},
		{
			name:    "coverage with unknown element",
			yaml:    "name: n\ndescription: d\nconfig: {seed: s}\nflow: [{op: solve}]\nassertions: [{type: coverage, uncovered: [Steam]}]\n",
			wantErr: `unknown element "Steam"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadExampleScenarios(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			s, err := LoadScenario(file)
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRunSuite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_ok.yaml"), []byte(minimalScenario), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_broken.yml"), []byte("name: ["), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	outcomes, err := RunSuite(dir, nil)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, "minimal", outcomes[0].Name)
	assert.True(t, outcomes[0].Passed())

	assert.False(t, outcomes[1].Passed())
	assert.Contains(t, outcomes[1].Err, "failed to parse YAML")

	_, err = RunSuite(filepath.Join(dir, "absent"), nil)
	assert.Error(t, err)
}

func TestFindScenarios_SingleFile(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios/spec_examples.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"testdata/scenarios/spec_examples.yaml"}, files)
}
