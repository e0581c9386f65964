package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/brewlab/internal/game"
)

// DailyOptions holds flags for the daily command.
type DailyOptions struct {
	*RootOptions
	Date string
	Salt string
	Days int
}

// DailyEntry is the seed for one calendar day.
type DailyEntry struct {
	Date string `json:"date"`
	Seed string `json:"seed"`
}

// DailyResult lists consecutive daily seeds.
type DailyResult struct {
	Days []DailyEntry `json:"days"`
}

// NewDailyCommand creates the daily command.
func NewDailyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DailyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Print the daily puzzle seed",
		Long: `Print the seed shared by every daily player on a UTC calendar day.
The seed is derived from the date with a keyed hash, so it cannot be
predicted without the salt.

Examples:
  brewlab daily
  brewlab daily --date 2026-10-18 --days 7 --salt pepper`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaily(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "first day (YYYY-MM-DD, default today UTC)")
	cmd.Flags().StringVar(&opts.Salt, "salt", "", "daily seed salt (default $"+saltEnv+")")
	cmd.Flags().IntVar(&opts.Days, "days", 1, "number of consecutive days")

	return cmd
}

func runDaily(opts *DailyOptions, cmd *cobra.Command) error {
	if opts.Days < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--days must be at least 1, got %d", opts.Days))
	}
	gf := GameFlags{Date: opts.Date, Salt: opts.Salt}
	start, err := gf.day()
	if err != nil {
		return err
	}
	salt := gf.salt()

	res := DailyResult{Days: make([]DailyEntry, 0, opts.Days)}
	for i := 0; i < opts.Days; i++ {
		day := start.AddDate(0, 0, i)
		res.Days = append(res.Days, DailyEntry{Date: game.DateKey(day), Seed: game.DailySeed(day, salt)})
	}
	return formatter(opts.RootOptions, cmd).Success(res)
}

func (r DailyResult) renderText(w io.Writer) {
	for _, d := range r.Days {
		fmt.Fprintf(w, "%s  %s\n", d.Date, d.Seed)
	}
}
