package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/SteamAutoCracks/Steam-auto-crack/internal/catalog"
	"github.com/SteamAutoCracks/Steam-auto-crack/internal/config"
	"github.com/SteamAutoCracks/Steam-auto-crack/internal/fetcher"
	"github.com/SteamAutoCracks/Steam-auto-crack/internal/search"
	"github.com/SteamAutoCracks/Steam-auto-crack/internal/telemetry"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the steamappcat CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "steamappcat",
		Short: "steamappcat - local Steam app catalog",
		Long: `A local cache of the Steam application catalog.

The catalog is kept in a SQLite file, refreshed from the Steam Web API when it
is empty or older than max_age, and answers lookups by appid, by name, by
token search and by fuzzy search.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default "+config.DefaultPath()+" when present)")

	// Add subcommands
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewCreateConfigCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// newLogger builds the text logger for a command: INFO, DEBUG with --verbose.
func (o *RootOptions) newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads --config, falling back to the default path when it exists.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	path := o.ConfigPath
	if path == "" {
		if _, err := os.Stat(config.DefaultPath()); err == nil {
			path = config.DefaultPath()
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return cfg, nil
}

// newCatalog wires a Catalog from cfg. metrics may be nil.
func newCatalog(cfg *config.Config, logger *slog.Logger, metrics *telemetry.Metrics) *catalog.Catalog {
	f := fetcher.New(cfg.APIKey,
		fetcher.WithEndpoint(cfg.Endpoint),
		fetcher.WithMaxResults(cfg.MaxResults),
		fetcher.WithMaxAttempts(cfg.MaxAttempts),
		fetcher.WithInitialBackoff(cfg.InitialBackoff.Std()),
		fetcher.WithTimeout(cfg.Timeout.Std()),
		fetcher.WithRateLimit(cfg.RequestsPerSecond),
		fetcher.WithLogger(logger),
		fetcher.WithMetrics(metrics),
	)
	return catalog.New(cfg.CacheDir, f,
		catalog.WithLogger(logger),
		catalog.WithDBName(cfg.DBName),
		catalog.WithPolicy(catalog.Policy{MaxAge: cfg.MaxAge.Std()}),
		catalog.WithMetrics(metrics),
		catalog.WithSearchOptions(
			search.WithCutoff(cfg.FuzzyCutoff),
			search.WithLimit(cfg.FuzzyLimit),
		),
	)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// withReadyCatalog opens the catalog, starts a background Initialize, waits
// for readiness and runs fn. The background run is cancelled once fn returns.
func (o *RootOptions) withReadyCatalog(cmd *cobra.Command, fn func(ctx context.Context, c *catalog.Catalog) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	logger := o.newLogger(cmd.ErrOrStderr())
	c := newCatalog(cfg, logger, nil)
	defer func() {
		if closeErr := c.Close(); closeErr != nil {
			logger.Error("error closing catalog", "error", closeErr)
		}
	}()

	ctx, cancel := context.WithCancel(commandContext(cmd))
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Initialize(ctx, false)
	}()
	defer func() {
		cancel()
		<-done
	}()

	if err := c.WaitForReady(ctx); err != nil {
		return o.unusable(cmd, err)
	}
	return fn(ctx, c)
}

func (o *RootOptions) unusable(cmd *cobra.Command, err error) error {
	msg := "steam app catalog is unusable"
	if !errors.Is(err, catalog.ErrCatalogUnusable) {
		msg = "waiting for steam app catalog"
	}
	if o.Format == "json" {
		_ = o.formatter(cmd).Error(CodeUnusable, msg, err.Error())
	}
	return WrapExitError(ExitCommandError, msg, err)
}
