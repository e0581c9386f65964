package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/brewlab/internal/config"
	"github.com/roach88/brewlab/internal/httpapi"
	"github.com/roach88/brewlab/internal/session"
	"github.com/roach88/brewlab/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	EnvFile  string
	Addr     string
	Database string
	Debug    bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the puzzle HTTP API",
		Long: `Run the JSON HTTP API used by the browser UI.

Settings come from the environment, after loading an optional .env file:
  BREWLAB_ADDR          listen address (default :8080)
  BREWLAB_DB            SQLite database path (default brewlab.db)
  BREWLAB_TOKEN_SECRET  session token signing secret (required)
  BREWLAB_DAILY_SALT    daily seed salt
  BREWLAB_DEBUG         enable GET /api/solution
  BREWLAB_TOKEN_TTL     session token lifetime (default 720h)

Flags override the environment. The server shuts down gracefully on
SIGINT or SIGTERM.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file to load if present")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides BREWLAB_ADDR)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database path (overrides BREWLAB_DB)")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "enable the solution endpoint")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := config.LoadServer(opts.EnvFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "load server config", err)
	}
	if opts.Addr != "" {
		cfg.Addr = opts.Addr
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	if opts.Debug {
		cfg.Debug = true
	}

	logger.Info("opening database", "path", cfg.Database)
	st, err := store.Open(cfg.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	codec, err := session.NewCodec(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		return WrapExitError(ExitCommandError, "token codec", err)
	}

	srv, err := httpapi.New(httpapi.Options{
		Store:     st,
		Codec:     codec,
		Logger:    logger,
		DailySalt: cfg.DailySalt,
		Debug:     cfg.Debug,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "build server", err)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "serve", err)
	}
	logger.Info("server stopped")
	return nil
}
