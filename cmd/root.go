// Package cmd wires the stemma CLI: the root command launches the TUI,
// subcommands cover listing, exporting, and config bootstrapping.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/zjrosen/stemma/internal/config"
	"github.com/zjrosen/stemma/internal/flow"
	"github.com/zjrosen/stemma/internal/infrastructure/sqlite"
	"github.com/zjrosen/stemma/internal/log"
	"github.com/zjrosen/stemma/internal/tracing"
	"github.com/zjrosen/stemma/internal/ui/flowview"
)

var (
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "stemma",
	Short: "Terminal workflow tree editor",
	Long: `Stemma is a keyboard-driven editor for workflow trees of action,
branch, and end nodes. Flows are stored in a local SQLite database and
every committed edit can be undone.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
			cfg.DataDir = v
		}
		return nil
	},
	RunE: runRoot,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.stemma/config.yml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for the database and log file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().String("flow", "", "flow to open (default from config)")
}

// cmdContext returns the command's context, or Background when the command
// runs outside Execute.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runRoot(cmd *cobra.Command, _ []string) error {
	ctx := cmdContext(cmd)

	logPath, err := cfg.LogPath()
	if err != nil {
		return err
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if err := log.Init(logPath, level); err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	shutdown, err := tracing.Init(ctx, cfg.Tracing, log.Writer())
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.Background()) }()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	repo := db.Flows()

	flowName := cfg.Flow
	if v, _ := cmd.Flags().GetString("flow"); v != "" {
		flowName = v
	}

	fl, err := repo.EnsureDefault(ctx, flowName)
	if err != nil {
		return fmt.Errorf("opening flow %q: %w", flowName, err)
	}
	g, err := repo.LoadGraph(ctx, fl.ID)
	if err != nil {
		return fmt.Errorf("loading flow %q: %w", flowName, err)
	}

	editor := flow.NewEditor(g)
	editor.Subscribe(func(g flow.Graph) {
		log.Debug(log.CatFlow, "Graph changed", "flow", fl.Name, "nodes", len(g))
	})

	view := flowview.New(editor, repo, fl.ID, fl.Name, cfg)
	p := tea.NewProgram(view, tea.WithAltScreen())

	if cfg.AutoRefresh {
		dbPath, err := cfg.DatabasePath()
		if err != nil {
			return err
		}
		stop, err := watchDatabase(dbPath, cfg.AutoRefreshDebounce, p.Send)
		if err != nil {
			// The editor works fine without the watcher.
			log.ErrorErr(log.CatUI, "Database watcher unavailable", err)
		} else {
			defer stop()
		}
	}

	_, err = p.Run()
	return err
}

// openDB opens the configured database, running migrations if needed.
func openDB() (*sqlite.DB, error) {
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	return sqlite.NewDB(dbPath)
}

// watchDatabase sends a ReloadMsg after database writes settle for the
// debounce interval. Watches the parent directory because SQLite rotates
// -wal and -shm files next to the database.
func watchDatabase(dbPath string, debounce time.Duration, send func(tea.Msg)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(dbPath)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		timer := time.NewTimer(debounce)
		stopTimer(timer)
		for {
			select {
			case <-done:
				stopTimer(timer)
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isDatabaseEvent(ev, dbPath) {
					continue
				}
				stopTimer(timer)
				timer.Reset(debounce)
			case <-timer.C:
				send(flowview.ReloadMsg{})
			}
		}
	}()

	return func() {
		close(done)
		_ = watcher.Close()
	}, nil
}

func isDatabaseEvent(ev fsnotify.Event, dbPath string) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return strings.HasPrefix(filepath.Base(ev.Name), filepath.Base(dbPath))
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
