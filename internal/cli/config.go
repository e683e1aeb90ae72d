package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newConfigCmd(e *env) *cobra.Command {
	var initFile bool
	var force bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after the config file, .env, BOOKFINDER_*
variables and flags have been applied.

With --init the effective configuration is written to the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if initFile {
				path := e.cfg.Path()
				if _, err := os.Stat(path); err == nil && !force {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				} else if err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
				if err := e.cfg.Save(); err != nil {
					return fmt.Errorf("write config: %w", err)
				}
				_, err := fmt.Fprintf(out, "wrote %s\n", path)
				return err
			}

			data, err := e.cfg.Encode()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "# %s\n%s", e.cfg.Path(), data)
			return err
		},
	}

	cmd.Flags().BoolVar(&initFile, "init", false, "Write the configuration file")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file with --init")

	return cmd
}
