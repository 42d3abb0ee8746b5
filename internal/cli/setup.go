package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/idelchi/pathmate/internal/config"
	"github.com/idelchi/pathmate/internal/integration"
	"github.com/idelchi/pathmate/internal/pathmate"
)

func (c *CLI) configCommand() *cobra.Command {
	var write, force bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: heredoc.Doc(`
			Print the effective configuration as YAML. With --write, save it to the
			configuration file, refusing to replace an existing one unless --force is given.
		`),
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if write {
				if pathmate.New(config.ExpandPath(c.configPath)).Exists() && !force {
					return fmt.Errorf("%w: %s (use --force to replace it)", pathmate.ErrExists, c.configPath)
				}

				if err := c.cfg.Save(c.configPath); err != nil {
					return err
				}

				fmt.Fprintf(c.errOut, "Wrote %s\n", c.configPath)

				return nil
			}

			data, err := yaml.Marshal(c.cfg)
			if err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}

			_, err = c.out.Write(data)

			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the configuration file")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing configuration file")

	return cmd
}

func (c *CLI) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Output the zsh integration script",
		Long: heredoc.Doc(`
			Output a zsh script that binds Ctrl-P to pick files with fzf from
			'pathmate select'. Load it with: eval "$(pathmate init)"
		`),
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			rendered, err := integration.Render()
			if err != nil {
				return fmt.Errorf("rendering integration script: %w", err)
			}

			fmt.Fprintln(c.out, rendered)

			return nil
		},
	}
}
