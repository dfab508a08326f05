package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/studynotes/internal/ai"
	"github.com/yash-srivastava19/studynotes/internal/api"
	"github.com/yash-srivastava19/studynotes/internal/config"
	"github.com/yash-srivastava19/studynotes/internal/event"
	"github.com/yash-srivastava19/studynotes/internal/storage"
	"github.com/yash-srivastava19/studynotes/internal/ui"
)

const version = "0.1.0"

var (
	configPath string
	debug      bool
)

// app bundles everything a command needs.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	client    *api.Client
	store     storage.Store
	assistant *ai.Assistant
	bus       *event.Bus
	closers   []io.Closer
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// setup wires the client, local store, assistant and bus. Logs go to w.
func setup(cfg *config.Config, w io.Writer) (*app, error) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))

	store, err := storage.Open(cfg.Storage, cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	client := api.New(cfg, logger)
	history := ai.NewHistory(store, logger)
	bus := event.NewBus()
	if cfg.AI.ClearHistoryOnDelete {
		history.ClearOnDelete(bus)
	}

	return &app{
		cfg:       cfg,
		log:       logger,
		client:    client,
		store:     store,
		assistant: ai.NewAssistant(client, history, logger),
		bus:       bus,
		closers:   []io.Closer{store},
	}, nil
}

func main() {
	root := &cobra.Command{
		Use:           "studynotes",
		Short:         "study notes in the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runTUI,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/studynotes/config.yaml)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging")

	root.AddCommand(
		listCmd(),
		searchCmd(),
		showCmd(),
		newCmd(),
		favCmd(),
		deleteCmd(),
		askCmd(),
		historyCmd(),
		exportCmd(),
		statsCmd(),
		healthCmd(),
		versionCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		die("%v", err)
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		return err
	}
	// the terminal belongs to the UI while it runs
	logFile, err := os.OpenFile(filepath.Join(cfg.StateDir, "studynotes.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer logFile.Close()

	a, err := setup(cfg, logFile)
	if err != nil {
		return err
	}
	defer a.Close()

	model := ui.New(ui.Options{
		Config:    a.cfg,
		Backend:   a.client,
		Assistant: a.assistant,
		Store:     a.store,
		Bus:       a.bus,
		Logger:    a.log,
	})
	defer model.Close()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}

// withApp wires the app for a one-shot command logging to stderr.
func withApp(run func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := setup(cfg, os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd.Context(), a, args)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", s)
	}
	return id, nil
}

func die(format string, args ...any) {
	fmt.Fprintln(os.Stderr, "studynotes: "+clean(fmt.Sprintf(format, args...)))
	os.Exit(1)
}
