package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/config"
	"github.com/sandeepkv93/tasklist/internal/logging"
	"github.com/sandeepkv93/tasklist/internal/storage"
	"github.com/sandeepkv93/tasklist/internal/store"
	"github.com/sandeepkv93/tasklist/internal/update"
	"github.com/spf13/cobra"
)

// App carries the persistent flags and the resources opened for one command
// invocation.
type App struct {
	ConfigPath string
	Backend    string
	Path       string
	LogLevel   string

	cfg     config.RuntimeConfig
	logger  *log.Logger
	adapter *storage.Adapter
	store   *store.Store
	closers []io.Closer

	// runTUI is swapped out in tests.
	runTUI func(app *App) error
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{runTUI: runTUI})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tasklist",
		Short:        "A small ordered todo list with a terminal UI",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		Example: strings.TrimSpace(`
# Open the terminal UI
tasklist

# Script the list
tasklist add "Buy milk" --note "2% fat"
tasklist ls --filter active
tasklist done 1
tasklist mv 3 1

# Use a SQLite database instead of the JSON file
tasklist --backend sqlite --path ~/todos.db ls
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd, true); err != nil {
				return err
			}
			defer app.close()
			return app.runTUI(app)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/tasklist/config.toml)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend: file, sqlite or memory")
	cmd.PersistentFlags().StringVar(&app.Path, "path", "", "Storage file or database path")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newLsCmd(app))
	cmd.AddCommand(newClearCmd(app))
	cmd.AddCommand(newMvCmd(app))
	cmd.AddCommand(newThemeCmd(app))
	cmd.AddCommand(newExportCmd(app))

	return cmd
}

// resolveConfig layers flags that were explicitly set over the loaded config.
func (a *App) resolveConfig(cmd *cobra.Command) (config.RuntimeConfig, error) {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return config.RuntimeConfig{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = config.Backend(strings.ToLower(strings.TrimSpace(a.Backend)))
	}
	if flags.Changed("path") {
		cfg.Path = a.Path
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.RuntimeConfig{}, err
	}
	return cfg, nil
}

// open resolves config, builds the logger and loads the store. In TUI mode
// log output goes only to the configured log file so it cannot corrupt the
// screen.
func (a *App) open(cmd *cobra.Command, tui bool) error {
	cfg, err := a.resolveConfig(cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg

	var fallback io.Writer
	if !tui {
		fallback = cmd.ErrOrStderr()
	}
	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
		Prefix: config.AppName,
	}, fallback)
	if err != nil {
		return err
	}
	a.logger = logger
	a.closers = append(a.closers, closer)

	slot, err := a.openSlot(cmd.Context(), cfg)
	if err != nil {
		a.close()
		return err
	}
	adapter, err := storage.NewAdapter(slot, logger.WithPrefix("storage"))
	if err != nil {
		a.close()
		return err
	}
	a.adapter = adapter
	a.store = store.New(adapter.Load(cmd.Context()), adapter, store.WithLogger(logger.WithPrefix("store")))
	logger.Debug("store opened", "backend", cfg.Backend, "path", cfg.StoragePath(), "items", len(a.store.Items()))
	return nil
}

func (a *App) openSlot(ctx context.Context, cfg config.RuntimeConfig) (storage.Slot, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return storage.NewMemorySlot(nil), nil
	case config.BackendSQLite:
		path := cfg.StoragePath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		slot, err := storage.OpenSQLite(path, cfg.SlotKey)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, slot)
		if at, err := slot.UpdatedAt(ctx); err == nil {
			a.logger.Debug("sqlite slot opened", "key", slot.Key(), "updated_at", at)
		} else {
			a.logger.Debug("sqlite slot opened", "key", slot.Key(), "empty", errors.Is(err, storage.ErrNotFound))
		}
		return slot, nil
	default:
		return storage.NewFileSlot(cfg.StoragePath())
	}
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}

// withStore opens the store for a subcommand and releases it afterwards.
func (a *App) withStore(cmd *cobra.Command, fn func(ctx context.Context, st *store.Store) error) error {
	if err := a.open(cmd, false); err != nil {
		return err
	}
	defer a.close()
	return describe(fn(cmd.Context(), a.store))
}

// describe turns a persistence failure into an actionable message. The
// in-memory change has already been applied, but for a one-shot command that
// change is lost with the process.
func describe(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrPersist) {
		return fmt.Errorf("%w (change not saved)", err)
	}
	return err
}

func runTUI(app *App) error {
	m := update.NewModel(app.store, update.Options{
		Glamour: app.cfg.Glamour,
		Logger:  app.logger.WithPrefix("tui"),
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tasklist ui: %w", err)
	}
	return nil
}
