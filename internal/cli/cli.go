// Package cli implements the whiteboard command line: the GUI launcher plus
// commands for managing saved drawings and notes without opening a window.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"MyWhiteboard/internal/config"
	"MyWhiteboard/internal/notes"
	"MyWhiteboard/internal/state"
	"MyWhiteboard/internal/storage"
)

// Env is what a running whiteboard needs: its configuration, an open store
// and a logger. The caller of a GUIFunc owns the store and closes it.
type Env struct {
	Config *config.Config
	Store  storage.Store
	Logger *log.Logger
}

// GUIFunc opens the whiteboard window and blocks until it is closed.
type GUIFunc func(ctx context.Context, env *Env) error

// ErrNoGUI is returned by the gui command when the binary was built without one.
var ErrNoGUI = errors.New("gui not available")

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	gui        GUIFunc
	configPath string
	verbose    bool
	cfg        *config.Config
}

// New creates a CLI logging to w. gui may be nil.
func New(w io.Writer, gui GUIFunc) *CLI {
	return &CLI{Logger: newLogger(w, log.InfoLevel), gui: gui}
}

// RootCommand creates the root cobra command with all subcommands registered.
// Without a subcommand it launches the GUI.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "whiteboard",
		Short:             "A drawing whiteboard with sticky notes",
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
		RunE:              c.runGUI,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultPath(), "config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.guiCommand())
	root.AddCommand(c.drawingsCommand())
	root.AddCommand(c.notesCommand())
	root.AddCommand(c.configCommand())
	return root
}

func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	level := cfg.LogLevel()
	if c.verbose {
		level = log.DebugLevel
	}
	c.Logger.SetLevel(level)
	c.Logger.Debug("config loaded", "path", c.configPath, "storage", cfg.Storage.Driver)
	return nil
}

func (c *CLI) guiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the whiteboard window",
		Args:  cobra.NoArgs,
		RunE:  c.runGUI,
	}
}

func (c *CLI) runGUI(cmd *cobra.Command, _ []string) error {
	if c.gui == nil {
		return ErrNoGUI
	}
	store, err := c.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()
	return c.gui(cmd.Context(), &Env{Config: c.cfg, Store: store, Logger: c.Logger})
}

// openStore opens the configured backend, creating the sqlite file's directory.
func (c *CLI) openStore(ctx context.Context) (storage.Store, error) {
	s := c.cfg.Storage
	if s.Driver == "sqlite" && s.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	store, err := storage.Open(ctx, storage.Options{
		Driver:      s.Driver,
		Path:        s.Path,
		RedisAddr:   s.RedisAddr,
		RedisPrefix: s.RedisPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", s.Driver, err)
	}
	return store, nil
}

func (c *CLI) archive(store storage.Store) *state.Archive {
	return state.NewArchive(store, nil, c.cfg.Drawing.MaxActions, c.Logger.WithPrefix("archive"))
}

func (c *CLI) loadNotes(ctx context.Context, store storage.Store) (*notes.Store, error) {
	n := notes.New(store, nil, c.Logger.WithPrefix("notes"))
	if err := n.Load(ctx); err != nil {
		return nil, err
	}
	return n, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
