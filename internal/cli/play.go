package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/brewlab/internal/brew"
	"github.com/roach88/brewlab/internal/deduce"
	"github.com/roach88/brewlab/internal/element"
	"github.com/roach88/brewlab/internal/solver"
)

// PlayOptions holds flags shared by brew, solve, and estimate.
type PlayOptions struct {
	*RootOptions
	Game GameFlags
}

// BrewResult is the outcome of brewing a selection.
type BrewResult struct {
	IDs []string `json:"ids"`
	brew.Result
}

// NewBrewCommand creates the brew command.
func NewBrewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "brew <id>...",
		Short: "Brew two or more ingredients and print the effects",
		Long: `Brew a selection of ingredients from the puzzle and print the
elements the mixture yields. Ids may be given as separate arguments or
comma-separated.

Examples:
  brewlab brew --seed apple ing-01 ing-03
  brewlab brew --daily ing-01,ing-02,ing-05`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrew(opts, splitIDs(args), cmd)
		},
	}
	addGameFlags(cmd, &opts.Game)
	return cmd
}

func runBrew(opts *PlayOptions, ids []string, cmd *cobra.Command) error {
	_, g, err := opts.Game.Game(cmd, newLogger(opts.RootOptions, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	res, err := g.Brew(ids)
	if err != nil {
		return inputError("brew", err)
	}
	return formatter(opts.RootOptions, cmd).Success(BrewResult{IDs: ids, Result: res})
}

func (r BrewResult) renderText(w io.Writer) {
	if r.IsNull {
		fmt.Fprintf(w, "%s: null brew\n", strings.Join(r.IDs, " + "))
		return
	}
	fmt.Fprintf(w, "%s: %s\n", strings.Join(r.IDs, " + "), joinElements(r.Effects))
}

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	PlayOptions
	Target string // comma-separated; empty solves the puzzle's own target
}

// SolveResult is the smallest selection brewing exactly Target.
type SolveResult struct {
	Target []element.Element `json:"target"`
	Found  bool              `json:"found"`
	IDs    []string          `json:"ids"`
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{PlayOptions: PlayOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find the smallest selection brewing exactly a target",
		Long: `Search the puzzle for the smallest selection of ingredients whose
brew is exactly the target effect set. Without --target the puzzle's own
exact-craft target is solved.

Exit codes:
  0 - A solution was found
  1 - No selection brews exactly the target
  2 - Command error

Examples:
  brewlab solve --seed apple
  brewlab solve --seed apple --target Fire,Moon`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, cmd)
		},
	}
	addGameFlags(cmd, &opts.Game)
	cmd.Flags().StringVar(&opts.Target, "target", "", "comma-separated target elements")
	return cmd
}

func runSolve(opts *SolveOptions, cmd *cobra.Command) error {
	_, g, err := opts.Game.Game(cmd, newLogger(opts.RootOptions, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	target := g.TargetOrder
	if opts.Target != "" {
		target, err = element.ParseList(opts.Target)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --target", err)
		}
		if len(target) == 0 {
			return NewExitError(ExitCommandError, "--target names no elements")
		}
	}

	ids, found := solver.FindExactSolution(g.Ingredients, target, g.MaxCombo)
	if ids == nil {
		ids = []string{}
	}
	res := SolveResult{Target: target, Found: found, IDs: ids}
	if err := formatter(opts.RootOptions, cmd).Success(res); err != nil {
		return err
	}
	if !found {
		return NewExitError(ExitFailure, "no exact solution")
	}
	return nil
}

func (r SolveResult) renderText(w io.Writer) {
	if !r.Found {
		fmt.Fprintf(w, "No selection brews exactly %s\n", joinElements(r.Target))
		return
	}
	fmt.Fprintf(w, "%s: %s\n", joinElements(r.Target), strings.Join(r.IDs, " + "))
}

// EstimateOptions holds flags for the estimate command.
type EstimateOptions struct {
	PlayOptions
	MarksFile string
}

// EstimateResult is the outcome interval for a selection under a sheet.
// Estimate is nil when fewer than two ids were selected.
type EstimateResult struct {
	IDs      []string         `json:"ids"`
	Estimate *deduce.Estimate `json:"estimate"`
}

// NewEstimateCommand creates the estimate command.
func NewEstimateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EstimateOptions{PlayOptions: PlayOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "estimate <id>...",
		Short: "Preview a brew from a deduction sheet",
		Long: `Estimate which effects a selection can produce given the player's
marks, without revealing any composition.

The marks file maps ingredient ids to pair slots (0 Sun/Moon, 1 Air/Earth,
2 Fire/Water, 3 Plant/Animal). A mark is an element name, None,
NotLeft, or NotRight:

  ing-01: {0: Sun, 1: None, 2: NotLeft}
  ing-02: {0: Moon}

Examples:
  brewlab estimate --seed apple --marks sheet.yaml ing-01 ing-02`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(opts, splitIDs(args), cmd)
		},
	}
	addGameFlags(cmd, &opts.Game)
	cmd.Flags().StringVar(&opts.MarksFile, "marks", "", "YAML or JSON deduction sheet")
	return cmd
}

func runEstimate(opts *EstimateOptions, ids []string, cmd *cobra.Command) error {
	sheet := deduce.Sheet{}
	if opts.MarksFile != "" {
		var err error
		sheet, err = loadSheet(opts.MarksFile)
		if err != nil {
			return err
		}
	}

	_, g, err := opts.Game.Game(cmd, newLogger(opts.RootOptions, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	est, ok, err := g.Estimate(ids, sheet)
	if err != nil {
		return inputError("estimate", err)
	}
	res := EstimateResult{IDs: ids}
	if ok {
		res.Estimate = &est
	}
	return formatter(opts.RootOptions, cmd).Success(res)
}

// loadSheet reads a marks file, JSON by .json extension and YAML otherwise.
// JSON object keys are strings, so slots there are quoted.
func loadSheet(path string) (deduce.Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "read marks", err)
	}
	sheet := deduce.Sheet{}
	unmarshal := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(path), ".json") {
		unmarshal = json.Unmarshal
	}
	if err := unmarshal(data, &sheet); err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("parse marks %s", path), err)
	}
	if err := sheet.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("invalid marks %s", path), err)
	}
	return sheet, nil
}

func (r EstimateResult) renderText(w io.Writer) {
	if r.Estimate == nil {
		fmt.Fprintln(w, "Select at least two ingredients to estimate.")
		return
	}
	e := r.Estimate
	fmt.Fprintf(w, "Selection: %s\n", strings.Join(r.IDs, " + "))
	fmt.Fprintf(w, "Effects:   %s\n", joinElements(e.Effects))
	fmt.Fprintf(w, "Certain:   %s\n", joinElements(e.Certain))
	fmt.Fprintf(w, "Possible:  %s\n", joinElements(e.Possible))
	if e.Ambiguous {
		fmt.Fprintln(w, "Ambiguous: yes")
	} else {
		fmt.Fprintln(w, "Ambiguous: no")
	}
}
