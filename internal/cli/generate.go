package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/brewlab/internal/canon"
	"github.com/roach88/brewlab/internal/element"
	"github.com/roach88/brewlab/internal/game"
	"github.com/roach88/brewlab/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Game     GameFlags
	Database string // generation log; empty skips logging
}

// GenerateResult is the full generated game, solution included.
type GenerateResult struct {
	Config      game.GenConfig `json:"config"`
	Fingerprint string         `json:"fingerprint"`
	Game        *game.Game     `json:"game"`
	// Logged is set when --db was given: true if this config was new.
	Logged *bool `json:"logged,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a puzzle and print it with its solution",
		Long: `Generate the puzzle for a seed and print every ingredient's
composition, the exact-craft target, and a smallest solution.

Examples:
  brewlab generate --seed apple
  brewlab generate --config puzzle.cue
  brewlab generate --daily --date 2026-10-18
  brewlab generate --seed apple --db brewlab.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	addGameFlags(cmd, &opts.Game)
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the generation in this SQLite database")

	return cmd
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	cfg, g, err := opts.Game.Game(cmd, logger)
	if err != nil {
		return err
	}

	fp, err := canon.Fingerprint(g)
	if err != nil {
		return WrapExitError(ExitFailure, "fingerprint", err)
	}
	res := GenerateResult{Config: cfg, Fingerprint: fp, Game: g}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "open database", err)
		}
		defer st.Close()

		inserted, err := st.LogGenerated(cmd.Context(), cfg, g)
		if err != nil {
			return WrapExitError(ExitFailure, "log generation", err)
		}
		res.Logged = &inserted
		logger.Debug("generation logged", "db", opts.Database, "inserted", inserted)
	}

	return formatter(opts.RootOptions, cmd).Success(res)
}

func (r GenerateResult) renderText(w io.Writer) {
	g := r.Game
	fmt.Fprintf(w, "Seed:        %s\n", g.Seed)
	if g.Daily {
		fmt.Fprintln(w, "Daily:       yes")
	}
	fmt.Fprintf(w, "Variant:     %s\n", g.Variant)
	fmt.Fprintf(w, "Max combo:   %d\n", g.MaxCombo)
	fmt.Fprintf(w, "Fingerprint: %s\n", r.Fingerprint)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ingredients:")
	for _, ing := range g.Ingredients {
		fmt.Fprintf(w, "  %-7s %s\n", ing.ID, ing)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Target:      %s (min size %d)\n", joinElements(g.TargetOrder), g.MinSizeForTarget)
	fmt.Fprintf(w, "Solution:    %s\n", strings.Join(g.TargetIDs, " "))
	fmt.Fprintf(w, "Profile hunt: %s (%s)\n", g.ProfileHuntTarget.ID, g.ProfileHuntTarget.Name)
	if r.Logged != nil {
		if *r.Logged {
			fmt.Fprintln(w, "Logged:      new")
		} else {
			fmt.Fprintln(w, "Logged:      already recorded")
		}
	}
}

func joinElements(els []element.Element) string {
	if len(els) == 0 {
		return "(none)"
	}
	parts := make([]string, len(els))
	for i, e := range els {
		parts[i] = string(e)
	}
	return strings.Join(parts, ", ")
}
