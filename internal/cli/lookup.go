package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SteamAutoCracks/Steam-auto-crack/internal/catalog"
	"github.com/SteamAutoCracks/Steam-auto-crack/internal/steamapp"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <appid>",
		Short: "Look up an app by appid",
		Long: `Look up an app by appid.

Unknown appids are not an error: they print with an empty name.

Example:
  steamappcat get 70`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := steamapp.ParseAppID(args[0])
			if !ok {
				return rootOpts.invalidArgs(cmd, fmt.Sprintf("invalid appid %q", args[0]))
			}
			return rootOpts.withReadyCatalog(cmd, func(ctx context.Context, c *catalog.Catalog) error {
				app, err := c.GetByAppID(ctx, id)
				if err != nil {
					return rootOpts.lookupFailed(cmd, err)
				}
				return rootOpts.formatter(cmd).Success(appRow(app))
			})
		},
	}
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <name>",
		Short: "Look up an app by exact name, ignoring case",
		Long: `Look up an app by its exact name, ignoring case.

When several apps share the name the lowest appid wins. Exits 1 when no app
has the name.

Example:
  steamappcat find "half-life 2"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return rootOpts.withReadyCatalog(cmd, func(ctx context.Context, c *catalog.Catalog) error {
				app, err := c.GetByName(ctx, name)
				if err != nil {
					return rootOpts.lookupFailed(cmd, err)
				}
				if app == nil {
					msg := fmt.Sprintf("no app named %q", name)
					if rootOpts.Format == "json" {
						_ = rootOpts.formatter(cmd).Error(CodeNotFound, msg, nil)
					}
					return NewExitError(ExitFailure, msg)
				}
				return rootOpts.formatter(cmd).Success(appRow(*app))
			})
		},
	}
}

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Fuzzy bool
	Limit int
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search apps by name",
		Long: `Search apps by name.

By default every whitespace-separated word of the query must appear in the
name, ignoring case. With --fuzzy, apps are ranked by similarity instead.
A query that is an appid puts that app first.

Example:
  steamappcat search half life
  steamappcat search --fuzzy "portl 2" --limit 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, strings.Join(args, " "), cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Fuzzy, "fuzzy", false, "rank by fuzzy similarity")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum results (0 = no extra limit)")

	return cmd
}

func runSearch(opts *SearchOptions, query string, cmd *cobra.Command) error {
	if opts.Limit < 0 {
		return opts.invalidArgs(cmd, fmt.Sprintf("invalid limit %d: must not be negative", opts.Limit))
	}
	return opts.withReadyCatalog(cmd, func(ctx context.Context, c *catalog.Catalog) error {
		lookup := c.SearchByName
		if opts.Fuzzy {
			lookup = c.SearchByNameFuzzy
		}
		apps, err := lookup(ctx, query)
		if err != nil {
			return opts.lookupFailed(cmd, err)
		}
		if opts.Limit > 0 && len(apps) > opts.Limit {
			apps = apps[:opts.Limit]
		}
		if apps == nil {
			apps = []steamapp.App{}
		}
		return opts.formatter(cmd).Success(appRows(apps))
	})
}

func (o *RootOptions) invalidArgs(cmd *cobra.Command, msg string) error {
	if o.Format == "json" {
		_ = o.formatter(cmd).Error(CodeInvalidArgs, msg, nil)
	}
	return NewExitError(ExitCommandError, msg)
}

func (o *RootOptions) lookupFailed(cmd *cobra.Command, err error) error {
	if o.Format == "json" {
		_ = o.formatter(cmd).Error(CodeLookup, "catalog lookup failed", err.Error())
	}
	return WrapExitError(ExitCommandError, "catalog lookup failed", err)
}
