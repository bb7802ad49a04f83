package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"MyWhiteboard/internal/config"
)

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write the configuration file",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			cfg := c.cfg
			printTitle(w, "Configuration")
			printKeyValue(w, "File", c.configPath)
			printKeyValue(w, "Canvas", fmt.Sprintf("%dx%d %s", cfg.Canvas.Width, cfg.Canvas.Height, cfg.Canvas.Background))
			printKeyValue(w, "Pen", fmt.Sprintf("%s %g", cfg.Drawing.Color, cfg.Drawing.Width))
			printKeyValue(w, "Max actions", strconv.Itoa(cfg.Drawing.MaxActions))
			printKeyValue(w, "Undo depth", strconv.Itoa(cfg.Drawing.UndoDepth))
			printKeyValue(w, "Storage", cfg.Storage.Driver)
			printKeyValue(w, "Log level", cfg.Log.Level)
			return nil
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(c.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", c.configPath)
			}
			if err := config.Save(c.configPath, c.cfg); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Wrote configuration")
			printFile(cmd.OutOrStdout(), c.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
