// Package harness runs puzzle scenarios against the engine.
//
// A scenario builds one game, either generated from a config or assembled
// from explicit ingredients, then executes a flow of engine operations and
// checks each completion against an expect clause.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	ingredients:            # or config: {seed: ..., maxCombo: 3}
//	  - id: A
//	    name: Ash
//	    elements: [Moon, Air, Water]
//	max_combo: 3
//	flow:
//	  - op: brew
//	    ids: [A, B]
//	    expect:
//	      case: Ok
//	      result: { effects: [Moon], isNull: false }
//	  - op: estimate
//	    ids: [A, B]
//	    marks: { A: { 0: Sun, 1: Air } }
//	    expect:
//	      case: Found
//	      result: { ambiguous: true }
//	assertions:
//	  - type: trace_count
//	    op: brew
//	    count: 1
//	  - type: coverage
//	    uncovered: [Fire]
//
// # Operations
//
//   - brew: brews ids; completes Ok, or Error for an invalid selection
//   - solve: exact solution for target (default: the game's target); Found or None
//   - estimate: outcome estimate for ids under marks; Found or None
//   - resolve: composition pinned by one ingredient's slots; Found or None
//   - craft: exact-craft check of ids; Ok with {solved}, or Error
//
// # Assertion Types
//
//   - trace_contains: an operation appears in the trace with matching args
//   - trace_order: operations appear in the given order
//   - trace_count: an operation appears exactly N times
//   - coverage: exactly the listed elements are unbrewable (default: none)
//   - solvable: the game's target has an exact solution
//
// # Deterministic Testing
//
// Trace events are stamped by a logical clock starting at 1, and generated
// games depend only on their config, so identical scenarios produce
// identical traces for golden snapshot comparison.
package harness
