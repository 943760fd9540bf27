package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SteamAutoCracks/Steam-auto-crack/internal/config"
)

// CreateConfigOptions holds flags for the createconfig command.
type CreateConfigOptions struct {
	*RootOptions
	Force bool
}

// NewCreateConfigCommand creates the createconfig command.
func NewCreateConfigCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateConfigOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "createconfig [path]",
		Short: "Write a config file with default values",
		Long: `Write a YAML config file holding the default settings.

Without a path the file goes to ` + config.DefaultPath() + `.
An existing file is left alone unless --force is given.

Example:
  steamappcat createconfig
  steamappcat createconfig ./steamappcat.yaml --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if len(args) == 1 {
				path = args[0]
			}
			return runCreateConfig(opts, path, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing file")

	return cmd
}

func runCreateConfig(opts *CreateConfigOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	if !opts.Force {
		if _, err := os.Stat(path); err == nil {
			msg := fmt.Sprintf("config %s already exists (use --force to overwrite)", path)
			if opts.Format == "json" {
				_ = f.Error(CodeConfig, msg, nil)
			}
			return NewExitError(ExitCommandError, msg)
		} else if !errors.Is(err, os.ErrNotExist) {
			return WrapExitError(ExitCommandError, "failed to check config path", err)
		}
	}

	if err := config.Save(path, config.Default()); err != nil {
		if opts.Format == "json" {
			_ = f.Error(CodeConfig, "failed to write config", err.Error())
		}
		return WrapExitError(ExitCommandError, "failed to write config", err)
	}

	return f.Success(configWritten{Path: path})
}
