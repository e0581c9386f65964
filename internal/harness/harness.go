package harness

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/brewlab/internal/deduce"
	"github.com/roach88/brewlab/internal/element"
	"github.com/roach88/brewlab/internal/game"
	"github.com/roach88/brewlab/internal/ingredient"
	"github.com/roach88/brewlab/internal/solver"
	"github.com/roach88/brewlab/internal/store"
)

// Harness executes one scenario against one game.
type Harness struct {
	game   *game.Game
	clock  *store.Clock
	logger *slog.Logger
}

type solveResult struct {
	IDs []string `json:"ids"`
}

type resolveResult struct {
	Elements []element.Element `json:"elements"`
}

type craftResult struct {
	Solved bool `json:"solved"`
}

type errorResult struct {
	Message string `json:"message"`
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Build the game from config or ingredients
// 2. Execute flow steps, checking each expect clause
// 3. Evaluate assertions against the trace and the game
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, nil)
}

// RunWithLogger is Run with step logging. A nil logger discards output.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	g, err := buildGame(scenario, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build game: %w", err)
	}

	h := &Harness{game: g, clock: store.NewClock(), logger: logger}
	result := NewResult()
	h.executeFlow(scenario.Flow, result)

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, g) {
		result.AddError(errMsg)
	}
	return result, nil
}

// buildGame generates the scenario's game or assembles it by hand.
func buildGame(s *Scenario, logger *slog.Logger) (*game.Game, error) {
	if s.Config != nil {
		return game.GenerateWithLogger(s.Config.WithDefaults(), logger)
	}

	maxCombo := s.MaxCombo
	if maxCombo == 0 {
		maxCombo = game.DefaultMaxCombo
	}
	if maxCombo < game.MinCombo || maxCombo > game.MaxComboLimit {
		return nil, &game.ValidationError{Field: "max_combo", Value: maxCombo,
			Message: fmt.Sprintf("must be between %d and %d", game.MinCombo, game.MaxComboLimit)}
	}

	ings := make([]ingredient.Ingredient, len(s.Ingredients))
	for k, spec := range s.Ingredients {
		els := make([]element.Element, len(spec.Elements))
		for j, name := range spec.Elements {
			e, err := element.Parse(name)
			if err != nil {
				return nil, fmt.Errorf("ingredient %s: %w", spec.ID, err)
			}
			els[j] = e
		}
		name := spec.Name
		if name == "" {
			name = spec.ID
		}
		ing, err := ingredient.New(spec.ID, name, els)
		if err != nil {
			return nil, err
		}
		ings[k] = ing
	}
	return &game.Game{Seed: s.Name, Variant: "fixture", MaxCombo: maxCombo, Ingredients: ings}, nil
}

func (h *Harness) executeFlow(flow []FlowStep, result *Result) {
	for i, step := range flow {
		result.AddInvocationTrace(step.Op, step.traceArgs(), h.clock.Next())

		outCase, out := h.invoke(step)
		result.AddCompletionTrace(outCase, out, h.clock.Next())

		h.logger.Debug("flow step completed", "step", i, "op", step.Op, "output_case", outCase)

		if step.Expect == nil {
			continue
		}
		if outCase != step.Expect.Case {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected case %s, got %s (%v)",
				i, step.Op, step.Expect.Case, outCase, out))
			continue
		}
		ok, err := matchResult(out, step.Expect.Result)
		if err != nil {
			result.AddError(fmt.Sprintf("flow[%d] %s: %v", i, step.Op, err))
			continue
		}
		if !ok {
			result.AddError(fmt.Sprintf("flow[%d] %s: result %s does not match expected %v",
				i, step.Op, describe(out), step.Expect.Result))
		}
	}
}

// invoke runs one operation and returns its completion case and result.
// A None completion has a nil result.
func (h *Harness) invoke(step FlowStep) (string, any) {
	g := h.game
	switch step.Op {
	case OpBrew:
		r, err := g.Brew(step.IDs)
		if err != nil {
			return CaseError, errorResult{Message: err.Error()}
		}
		return CaseOk, r

	case OpSolve:
		target := g.TargetOrder
		if len(step.Target) > 0 {
			parsed, err := element.ParseList(strings.Join(step.Target, ","))
			if err != nil {
				return CaseError, errorResult{Message: err.Error()}
			}
			target = parsed
		}
		ids, ok := solver.FindExactSolution(g.Ingredients, target, g.MaxCombo)
		if !ok {
			return CaseNone, nil
		}
		return CaseFound, solveResult{IDs: ids}

	case OpEstimate:
		if err := step.Marks.Validate(); err != nil {
			return CaseError, errorResult{Message: err.Error()}
		}
		est, ok, err := g.Estimate(step.IDs, step.Marks)
		if err != nil {
			return CaseError, errorResult{Message: err.Error()}
		}
		if !ok {
			return CaseNone, nil
		}
		return CaseFound, est

	case OpResolve:
		els, ok := deduce.ResolveKnownElements(step.Slots, element.Pairs)
		if !ok {
			return CaseNone, nil
		}
		return CaseFound, resolveResult{Elements: els}

	case OpCraft:
		solved, err := g.CheckCraft(step.IDs)
		if err != nil {
			return CaseError, errorResult{Message: err.Error()}
		}
		return CaseOk, craftResult{Solved: solved}
	}
	return CaseError, errorResult{Message: fmt.Sprintf("unknown op %q", step.Op)}
}

// traceArgs renders the step's inputs for the trace, omitting unset ones.
func (s FlowStep) traceArgs() map[string]any {
	args := map[string]any{}
	if len(s.IDs) > 0 {
		args["ids"] = s.IDs
	}
	if len(s.Target) > 0 {
		args["target"] = s.Target
	}
	if len(s.Marks) > 0 {
		args["marks"] = s.Marks
	}
	if s.Slots != nil {
		args["slots"] = s.Slots
	}
	return args
}
