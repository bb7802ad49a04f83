package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"MyWhiteboard/internal/notes"
)

// notesCommand creates the notes management command.
func (c *CLI) notesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note"},
		Short:   "Manage sticky notes",
	}
	cmd.AddCommand(c.notesListCommand())
	cmd.AddCommand(c.notesAddCommand())
	cmd.AddCommand(c.notesEditCommand())
	cmd.AddCommand(c.notesDeleteCommand())
	cmd.AddCommand(c.notesSearchCommand())
	return cmd
}

// withNotes opens the store, loads the notes and runs fn.
func (c *CLI) withNotes(cmd *cobra.Command, fn func(*notes.Store) error) error {
	store, err := c.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := c.loadNotes(cmd.Context(), store)
	if err != nil {
		return err
	}
	return fn(n)
}

func printNotes(cmd *cobra.Command, list []notes.Note) {
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		printInfo(out, "No notes")
		return
	}
	for _, n := range list {
		when := ""
		if !n.CreatedAt.IsZero() {
			when = n.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		printRow(out, n.ID, n.Text, when)
	}
}

func (c *CLI) notesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withNotes(cmd, func(n *notes.Store) error {
				printNotes(cmd, n.All())
				return nil
			})
		},
	}
}

func (c *CLI) notesAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add a note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withNotes(cmd, func(n *notes.Store) error {
				note, err := n.Add(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Added note %d", note.ID)
				return nil
			})
		},
	}
}

func (c *CLI) notesEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Replace a note's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withNotes(cmd, func(n *notes.Store) error {
				if _, err := n.Edit(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Updated note %d", id)
				return nil
			})
		},
	}
}

func (c *CLI) notesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withNotes(cmd, func(n *notes.Store) error {
				if err := n.Delete(cmd.Context(), id); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Deleted note %d", id)
				return nil
			})
		},
	}
}

func (c *CLI) notesSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "List notes containing query, ignoring case",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return c.withNotes(cmd, func(n *notes.Store) error {
				printNotes(cmd, n.Search(query))
				return nil
			})
		},
	}
}
