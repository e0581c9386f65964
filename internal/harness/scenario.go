package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/brewlab/internal/deduce"
	"github.com/roach88/brewlab/internal/element"
	"github.com/roach88/brewlab/internal/game"
)

// Scenario defines one engine test: a game plus a flow of operations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config generates the game. Mutually exclusive with Ingredients.
	Config *game.GenConfig `yaml:"config,omitempty"`

	// Ingredients assemble a fixed game by hand.
	Ingredients []IngredientSpec `yaml:"ingredients,omitempty"`

	// MaxCombo bounds selections for a hand-assembled game.
	// Defaults to game.DefaultMaxCombo.
	MaxCombo int `yaml:"max_combo,omitempty"`

	// Flow lists the operations to execute in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace and the game.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// IngredientSpec is a hand-written ingredient.
type IngredientSpec struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name,omitempty"`
	Elements []string `yaml:"elements"`
}

// FlowStep is one engine operation with an optional expectation.
type FlowStep struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// IDs selects ingredients (brew, estimate, craft).
	IDs []string `yaml:"ids,omitempty"`

	// Target is the effect set to solve for (solve).
	Target []string `yaml:"target,omitempty"`

	// Marks is the player's sheet (estimate).
	Marks deduce.Sheet `yaml:"marks,omitempty"`

	// Slots are one ingredient's marks by pair slot (resolve).
	Slots map[int]deduce.Mark `yaml:"slots,omitempty"`

	// Expect specifies the expected completion. If nil, nothing is checked.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies expected completion behavior.
type ExpectClause struct {
	// Case is the expected completion case (Ok, Found, None, Error).
	Case string `yaml:"case"`

	// Result is a subset match against the completion result.
	Result map[string]any `yaml:"result,omitempty"`
}

// Assertion validates the trace or the game.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Op names the operation (trace_contains, trace_count).
	Op string `yaml:"op,omitempty"`

	// Args are matched as a subset of the invocation args (trace_contains).
	Args map[string]any `yaml:"args,omitempty"`

	// Count is the expected number of invocations (trace_count).
	Count int `yaml:"count,omitempty"`

	// Ops is the expected operation order (trace_order).
	Ops []string `yaml:"ops,omitempty"`

	// Uncovered lists the elements expected to be unbrewable (coverage).
	Uncovered []string `yaml:"uncovered,omitempty"`
}

// Operation names.
const (
	OpBrew     = "brew"
	OpSolve    = "solve"
	OpEstimate = "estimate"
	OpResolve  = "resolve"
	OpCraft    = "craft"
)

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertCoverage      = "coverage"
	AssertSolvable      = "solvable"
)

var validCases = map[string]bool{CaseOk: true, CaseFound: true, CaseNone: true, CaseError: true}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return errors.New("name is required")
	}

	if s.Description == "" {
		return errors.New("description is required")
	}

	switch {
	case s.Config == nil && len(s.Ingredients) == 0:
		return errors.New("one of config or ingredients is required")
	case s.Config != nil && len(s.Ingredients) > 0:
		return errors.New("config and ingredients are mutually exclusive")
	case s.Config != nil && s.MaxCombo != 0:
		return errors.New("max_combo applies to ingredients only; set config.maxCombo")
	}

	if len(s.Flow) == 0 {
		return errors.New("flow list is required and must be non-empty")
	}

	seen := map[string]bool{}
	for i, ing := range s.Ingredients {
		if ing.ID == "" {
			return fmt.Errorf("ingredients[%d]: id is required", i)
		}
		if seen[ing.ID] {
			return fmt.Errorf("ingredients[%d]: duplicate id %q", i, ing.ID)
		}
		seen[ing.ID] = true
	}

	for i, step := range s.Flow {
		if err := validateStep(i, &step, s.Config != nil); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, step *FlowStep, generated bool) error {
	switch step.Op {
	case OpBrew, OpEstimate, OpCraft:
		if len(step.IDs) == 0 {
			return fmt.Errorf("flow[%d]: ids are required for %s", index, step.Op)
		}
	case OpSolve:
		if len(step.Target) == 0 && !generated {
			return fmt.Errorf("flow[%d]: target is required to solve a hand-assembled game", index)
		}
		for _, name := range step.Target {
			if _, err := element.Parse(name); err != nil {
				return fmt.Errorf("flow[%d]: %w", index, err)
			}
		}
	case OpResolve:
		if step.Slots == nil {
			return fmt.Errorf("flow[%d]: slots are required for resolve (use {} for none)", index)
		}
	case "":
		return fmt.Errorf("flow[%d]: op is required", index)
	default:
		return fmt.Errorf("flow[%d]: unknown op %q", index, step.Op)
	}

	if step.Op == OpCraft && !generated {
		return fmt.Errorf("flow[%d]: craft needs a generated game", index)
	}

	if step.Expect != nil && !validCases[step.Expect.Case] {
		return fmt.Errorf("flow[%d].expect: case must be one of Ok, Found, None, Error; got %q", index, step.Expect.Case)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertCoverage:
		for _, name := range a.Uncovered {
			if _, err := element.Parse(name); err != nil {
				return fmt.Errorf("assertions[%d]: %w", index, err)
			}
		}
	case AssertSolvable:
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
