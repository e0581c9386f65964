package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/brewlab/internal/canon"
	"github.com/roach88/brewlab/internal/game"
	"github.com/roach88/brewlab/internal/session"
	"github.com/roach88/brewlab/internal/store"
)

// SessionOptions holds flags shared by the session subcommands.
type SessionOptions struct {
	*RootOptions
	Database string
}

// SessionSaveOptions holds flags for session save.
type SessionSaveOptions struct {
	*SessionOptions
	ID    string
	Seed  string
	Daily bool
	Mode  string
	Date  string
	Salt  string
}

// SessionView is a stored session with the fingerprint of the game it
// regenerates to.
type SessionView struct {
	store.SessionRecord
	Fingerprint string `json:"fingerprint"`
	Ingredients int    `json:"ingredients"`
}

// SessionList is the result of session list.
type SessionList struct {
	Sessions []store.SessionRecord `json:"sessions"`
}

// NewSessionCommand creates the session command group.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage persisted sessions",
		Long: `Save, show, list, and delete sessions in a SQLite database.

A session stores only its seed, daily flag, and mode. The puzzle itself is
regenerated from those on every load.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "brewlab.db", "SQLite database path")

	cmd.AddCommand(newSessionSaveCommand(opts))
	cmd.AddCommand(newSessionShowCommand(opts))
	cmd.AddCommand(newSessionListCommand(opts))
	cmd.AddCommand(newSessionDeleteCommand(opts))
	return cmd
}

func newSessionSaveCommand(parent *SessionOptions) *cobra.Command {
	opts := &SessionSaveOptions{SessionOptions: parent}

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create or replace a session",
		Long: `Store a session's seed triple. Without --id a new session id is
generated; with --id the session is created or replaced.

Examples:
  brewlab session save --seed apple --mode profile-hunt
  brewlab session save --daily --salt pepper
  brewlab session save --id 0192... --seed pear`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionSave(opts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.ID, "id", "", "session id to create or replace")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "puzzle seed")
	cmd.Flags().BoolVar(&opts.Daily, "daily", false, "use the daily seed (ignores --seed)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "puzzle mode (profile-hunt|full-mapping|exact-craft)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "daily puzzle date (YYYY-MM-DD, default today UTC)")
	cmd.Flags().StringVar(&opts.Salt, "salt", "", "daily seed salt (default $"+saltEnv+")")
	return cmd
}

func runSessionSave(opts *SessionSaveOptions, cmd *cobra.Command) error {
	seed := opts.Seed
	if opts.Daily {
		gf := GameFlags{Date: opts.Date, Salt: opts.Salt}
		day, err := gf.day()
		if err != nil {
			return err
		}
		seed = game.DailySeed(day, gf.salt())
	}
	st, err := session.New(seed, opts.Daily, opts.Mode)
	if err != nil {
		return inputError("invalid session", err)
	}

	return withStore(opts.SessionOptions, func(s *store.Store) error {
		var rec store.SessionRecord
		if opts.ID != "" {
			rec, err = s.SaveSession(cmd.Context(), opts.ID, st)
		} else {
			rec, err = s.CreateSession(cmd.Context(), st)
		}
		if err != nil {
			return WrapExitError(ExitFailure, "save session", err)
		}
		view, err := viewSession(cmd, opts.RootOptions, s, rec)
		if err != nil {
			return err
		}
		return formatter(opts.RootOptions, cmd).Success(view)
	})
}

func newSessionShowCommand(opts *SessionOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Show a session and the game it regenerates",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(s *store.Store) error {
				rec, ok, err := s.LoadSession(cmd.Context(), args[0])
				if err != nil {
					return WrapExitError(ExitFailure, "load session", err)
				}
				if !ok {
					return sessionNotFound(opts, cmd, args[0])
				}
				view, err := viewSession(cmd, opts.RootOptions, s, rec)
				if err != nil {
					return err
				}
				return formatter(opts.RootOptions, cmd).Success(view)
			})
		},
	}
}

func newSessionListCommand(opts *SessionOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored sessions in write order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(s *store.Store) error {
				recs, err := s.ListSessions(cmd.Context())
				if err != nil {
					return WrapExitError(ExitFailure, "list sessions", err)
				}
				return formatter(opts.RootOptions, cmd).Success(SessionList{Sessions: recs})
			})
		},
	}
}

func newSessionDeleteCommand(opts *SessionOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a session",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(s *store.Store) error {
				removed, err := s.DeleteSession(cmd.Context(), args[0])
				if err != nil {
					return WrapExitError(ExitFailure, "delete session", err)
				}
				if !removed {
					return sessionNotFound(opts, cmd, args[0])
				}
				return formatter(opts.RootOptions, cmd).Success(fmt.Sprintf("Deleted session %s", args[0]))
			})
		},
	}
}

// sessionNotFound reports a missing session, as a JSON error body when the
// format asks for one, and exits 1.
func sessionNotFound(opts *SessionOptions, cmd *cobra.Command, id string) error {
	msg := fmt.Sprintf("session %s not found", id)
	if opts.Format == "json" {
		if err := formatter(opts.RootOptions, cmd).Error(CodeNotFound, msg, nil); err != nil {
			return err
		}
	}
	return NewExitError(ExitFailure, msg)
}

func withStore(opts *SessionOptions, fn func(*store.Store) error) error {
	s, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer s.Close()
	return fn(s)
}

// viewSession regenerates the session's game and logs the generation.
func viewSession(cmd *cobra.Command, opts *RootOptions, s *store.Store, rec store.SessionRecord) (SessionView, error) {
	cfg := rec.State.Config()
	g, err := game.GenerateWithLogger(cfg, newLogger(opts, cmd.ErrOrStderr()))
	if err != nil {
		return SessionView{}, inputError("regenerate session", err)
	}
	if _, err := s.LogGenerated(cmd.Context(), cfg, g); err != nil {
		return SessionView{}, WrapExitError(ExitFailure, "log generation", err)
	}
	fp, err := canon.Fingerprint(g)
	if err != nil {
		return SessionView{}, WrapExitError(ExitFailure, "fingerprint", err)
	}
	return SessionView{SessionRecord: rec, Fingerprint: fp, Ingredients: len(g.Ingredients)}, nil
}

func (v SessionView) renderText(w io.Writer) {
	fmt.Fprintf(w, "Session:     %s\n", v.ID)
	fmt.Fprintf(w, "Seed:        %s\n", v.State.Seed)
	fmt.Fprintf(w, "Daily:       %t\n", v.State.Daily)
	fmt.Fprintf(w, "Mode:        %s\n", v.State.Mode)
	fmt.Fprintf(w, "Ingredients: %d\n", v.Ingredients)
	fmt.Fprintf(w, "Fingerprint: %s\n", v.Fingerprint)
}

func (l SessionList) renderText(w io.Writer) {
	if len(l.Sessions) == 0 {
		fmt.Fprintln(w, "No sessions.")
		return
	}
	for _, rec := range l.Sessions {
		daily := ""
		if rec.State.Daily {
			daily = " (daily)"
		}
		fmt.Fprintf(w, "%s  %-12s  %s%s\n", rec.ID, rec.State.Mode, rec.State.Seed, daily)
	}
}
