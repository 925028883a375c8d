package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/u7wells/flowo/internal/config"
	"github.com/u7wells/flowo/internal/logger"
	"github.com/u7wells/flowo/internal/planner"
	"github.com/u7wells/flowo/internal/settings"
	"github.com/u7wells/flowo/internal/store"
	"github.com/u7wells/flowo/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath, err := config.Path()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfgPath); errors.Is(err, fs.ErrNotExist) {
		if err := config.Save(cfgPath, cfg); err != nil {
			return err
		}
	}

	log, err := logger.New(cfg.Logging.Development, cfg.Logging.File)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// A snapshot that cannot be read leaves an empty store; the app still starts.
	tasks, err := planner.LoadTaskStore(db, planner.WithLogger(log), planner.WithPersister(db))
	if err != nil {
		log.Error("load tasks", zap.Error(err))
	}
	prefs, err := settings.LoadStore(db, settings.WithLogger(log), settings.WithPersister(db))
	if err != nil {
		log.Error("load settings", zap.Error(err))
	}
	log.Info("started",
		zap.String("config", cfgPath),
		zap.String("database", cfg.Database.Path),
		zap.Int("tasks", len(tasks.Tasks())),
	)

	app := tui.NewApp(tasks, prefs, db, tui.Options{
		ExportDir:       cfg.Export.Dir,
		WeekStart:       cfg.WeekStart(),
		ReminderHorizon: cfg.Notifications.Horizon,
		Logger:          log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
