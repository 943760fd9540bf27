package cli

import (
	"github.com/spf13/cobra"
)

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "update",
		Aliases: []string{"updateapplist"},
		Short:   "Force a refresh of the app catalog",
		Long: `Fetch the full Steam app list and merge it into the local catalog.

The refresh runs regardless of the catalog age. Entries already in the catalog
are kept as they are; only new appids are added.

Example:
  steamappcat update
  STEAMAPPCAT_API_KEY=... steamappcat update --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(rootOpts, cmd)
		},
	}
}

func runUpdate(opts *RootOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := opts.newLogger(cmd.ErrOrStderr())
	c := newCatalog(cfg, logger, nil)
	defer func() {
		if closeErr := c.Close(); closeErr != nil {
			logger.Error("error closing catalog", "error", closeErr)
		}
	}()

	ctx := commandContext(cmd)
	c.Initialize(ctx, true)
	if err := c.WaitForReady(ctx); err != nil {
		return opts.unusable(cmd, err)
	}

	return opts.formatter(cmd).Success(updateSummary{
		Count: c.State().Count,
		Path:  c.Path(),
	})
}
