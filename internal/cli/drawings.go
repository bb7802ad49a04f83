package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"MyWhiteboard/internal/export"
)

// drawingsCommand creates the saved-drawing management command.
func (c *CLI) drawingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "drawings",
		Aliases: []string{"drawing"},
		Short:   "Manage saved drawings",
	}
	cmd.AddCommand(c.drawingsListCommand())
	cmd.AddCommand(c.drawingsShowCommand())
	cmd.AddCommand(c.drawingsDeleteCommand())
	cmd.AddCommand(c.drawingsExportCommand())
	return cmd
}

func (c *CLI) drawingsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved drawings in save order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := c.archive(store).List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				printInfo(out, "No saved drawings")
				return nil
			}
			for _, d := range list {
				printRow(out, d.ID, d.Name, d.Summary())
			}
			return nil
		},
	}
}

func (c *CLI) drawingsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved drawing's primitives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			d, err := c.archive(store).Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printTitle(out, d.Name)
			printKeyValue(out, "id", strconv.FormatInt(d.ID, 10))
			printKeyValue(out, "saved", d.SavedAt.Local().Format("2006-01-02 15:04:05"))
			printKeyValue(out, "actions", strconv.Itoa(d.ActionCount))
			for _, p := range d.Actions.Primitives() {
				switch p.Type {
				case "rectangle":
					fmt.Fprintf(out, "  %-11s (%g,%g)-(%g,%g) %s %g\n", p.Type, p.X1, p.Y1, p.X2, p.Y2, p.Color, float64(p.Width))
				default:
					fmt.Fprintf(out, "  %-11s (%g,%g) %s %g\n", p.Type, p.X, p.Y, p.Color, float64(p.Width))
				}
			}
			return nil
		},
	}
}

func (c *CLI) drawingsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved drawing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := c.archive(store).Delete(cmd.Context(), id); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted drawing %d", id)
			return nil
		},
	}
}

func (c *CLI) drawingsExportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Render a saved drawing to a PNG or PDF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			d, err := c.archive(store).Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			canvas := c.cfg.Canvas
			opts := export.Options{Width: canvas.Width, Height: canvas.Height, Background: canvas.Background}
			if err := export.WriteFile(out, d.Actions, opts); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Exported %q", d.Name)
			printFile(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "drawing.png", "output file (.png or .pdf)")
	return cmd
}
