package harness

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/brewlab/internal/brew"
	"github.com/roach88/brewlab/internal/coverage"
	"github.com/roach88/brewlab/internal/element"
	"github.com/roach88/brewlab/internal/game"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for i, event := range e.Trace {
			if event.Type == "invocation" {
				fmt.Fprintf(&buf, "  [%d] %s %v\n", i+1, event.Op, event.Args)
			}
		}
	}

	return buf.String()
}

// assertTraceContains checks if the trace contains an invocation matching
// the specified op and args (subset match).
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Type != "invocation" || event.Op != assertion.Op {
			continue
		}
		ok, err := matchResult(event.Args, assertion.Args)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("op %s with args %v", assertion.Op, assertion.Args),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks if ops appear in the specified order.
// Ops don't need to be consecutive (intervening ops are allowed).
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if event.Type != "invocation" {
			continue
		}
		if _, seen := positions[event.Op]; !seen {
			positions[event.Op] = i + 1 // 1-indexed for readability
		}
	}

	for _, op := range assertion.Ops {
		if positions[op] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all ops present: %v", assertion.Ops),
				Actual:   fmt.Sprintf("missing op: %s", op),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Ops); i++ {
		prev, curr := assertion.Ops[i-1], assertion.Ops[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("ops in order: %v", assertion.Ops),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertTraceCount checks if the op appears exactly the specified number of times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Type == "invocation" && event.Op == assertion.Op {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Op),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}

	return nil
}

// assertCoverage checks that exactly the listed elements are unbrewable.
func assertCoverage(g *game.Game, assertion Assertion) error {
	want := make([]element.Element, 0, len(assertion.Uncovered))
	for _, name := range assertion.Uncovered {
		e, err := element.Parse(name)
		if err != nil {
			return err
		}
		want = append(want, e)
	}
	element.Sort(want)

	got := coverage.Uncovered(g.Ingredients, g.MaxCombo)
	if element.Key(got) != element.Key(want) {
		return &AssertionError{
			Type:     AssertCoverage,
			Expected: fmt.Sprintf("uncovered %v", want),
			Actual:   fmt.Sprintf("uncovered %v", got),
		}
	}
	return nil
}

// assertSolvable checks that the game's target has an exact solution that
// really brews the target.
func assertSolvable(g *game.Game) error {
	if len(g.TargetOrder) == 0 {
		return &AssertionError{Type: AssertSolvable, Expected: "a target", Actual: "game has no target"}
	}
	ids, ok := g.Solve()
	if !ok {
		return &AssertionError{
			Type:     AssertSolvable,
			Expected: fmt.Sprintf("a solution for %v", g.TargetOrder),
			Actual:   "none found",
		}
	}
	r, err := g.Brew(ids)
	if err != nil {
		return err
	}
	if !brew.Equal(r.Effects, g.TargetOrder) {
		return &AssertionError{
			Type:     AssertSolvable,
			Expected: fmt.Sprintf("%v brews %v", ids, g.TargetOrder),
			Actual:   fmt.Sprintf("brews %v", r.Effects),
		}
	}
	return nil
}

// matchResult checks if actual contains all expected fields (subset match).
// Both sides are compared in their JSON form so YAML integers and Go
// struct fields line up. Extra fields in actual are ignored.
func matchResult(actual any, expected map[string]any) (bool, error) {
	if len(expected) == 0 {
		return true, nil
	}
	a, err := jsonForm(actual)
	if err != nil {
		return false, err
	}
	e, err := jsonForm(expected)
	if err != nil {
		return false, err
	}

	actualMap, ok := a.(map[string]any)
	if !ok {
		return false, nil
	}
	for key, want := range e.(map[string]any) {
		got, exists := actualMap[key]
		if !exists || !valuesEqual(got, want) {
			return false, nil
		}
	}
	return true, nil
}

// valuesEqual compares two decoded JSON values.
func valuesEqual(actual, expected any) bool {
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}
	return reflect.DeepEqual(actual, expected)
}

func jsonForm(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return out, nil
}

// describe renders a completion result for failure messages.
func describe(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// EvaluateAssertions evaluates all assertions against the result and game.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, g *game.Game) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertCoverage:
			err = assertCoverage(g, assertion)
		case AssertSolvable:
			err = assertSolvable(g)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
