package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"raffle-spinner.klederson.com/internal/app"
	"raffle-spinner.klederson.com/internal/config"
	"raffle-spinner.klederson.com/internal/history"
	"raffle-spinner.klederson.com/internal/participant"
)

var (
	flagCSV       string
	flagDemo      int
	flagTicket    string
	flagConfig    string
	flagDB        string
	flagDBDriver  string
	flagLogFile   string
	flagNoHistory bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "raffle-spinner",
		Short: "Raffle Spinner - slot-machine style winner reveal in the terminal",
		Long: `Raffle Spinner loads participants from a CSV file and reveals each winner
on a spinning slot-machine reel. Lists of any size are supported: only a
hundred rows are ever on the reel, and the winner is swapped in while the
reel is a blur.

The CSV needs a ticket column; first and last name columns are optional.
Use --demo to spin generated participants instead.`,
		SilenceUsage: true,
		RunE:         run,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", config.DefaultPath(), "Preferences file (YAML)")
	pf.StringVar(&flagCSV, "csv", "", "Participants CSV file")
	pf.IntVar(&flagDemo, "demo", 0, "Use N generated participants instead of a CSV")
	pf.StringVar(&flagTicket, "ticket", "", "Ticket the first draw lands on (random when empty)")
	pf.StringVar(&flagDB, "db", "", "History database path or DSN (overrides preferences)")
	pf.StringVar(&flagDBDriver, "db-driver", "", "History database driver: sqlite or postgres")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.Flags().BoolVar(&flagNoHistory, "no-history", false, "Do not read or record draw history")

	rootCmd.AddCommand(newRenderCmd(), newHistoryCmd(), newGenerateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	prefs, err := loadPreferences()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs only go to a file.
	log, closeLog, err := fileLogger(prefs)
	if err != nil {
		return err
	}
	defer closeLog()

	people, source, err := loadParticipants()
	if err != nil {
		return err
	}
	log.Info().Int("participants", len(people)).Str("source", source).Msg("participants loaded")

	var store *history.Store
	if !flagNoHistory {
		store, err = openHistory(cmd.Context(), prefs)
		if err != nil {
			log.Warn().Err(err).Msg("history disabled")
		} else {
			defer store.Close()
		}
	}

	model := app.New(app.Options{
		Participants: people,
		Source:       source,
		Preferences:  prefs,
		Ticket:       flagTicket,
		Store:        store,
		Logger:       &log,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(config.TargetFPS),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}

	// Keep the deceleration and duration chosen with the keys.
	if m, ok := final.(app.AppModel); ok && m.Preferences() != prefs {
		if err := config.Save(flagConfig, m.Preferences()); err != nil {
			log.Warn().Err(err).Msg("failed to save preferences")
		}
	}
	return nil
}

// loadPreferences reads the preferences file, overlays the environment and
// then any flags given on the command line.
func loadPreferences() (config.Preferences, error) {
	prefs, err := config.Load(flagConfig)
	if err != nil {
		return prefs, err
	}
	if err := prefs.ApplyEnv(); err != nil {
		return prefs, err
	}
	if flagDB != "" {
		prefs.DBPath = flagDB
	}
	if flagDBDriver != "" {
		prefs.DBDriver = flagDBDriver
	}
	if flagLogFile != "" {
		prefs.LogFile = flagLogFile
	}
	if err := prefs.Validate(); err != nil {
		return prefs, fmt.Errorf("invalid preferences: %w", err)
	}
	return prefs, nil
}

func loadParticipants() ([]participant.Participant, string, error) {
	if flagCSV != "" {
		people, err := participant.LoadCSV(flagCSV)
		if err != nil {
			return nil, "", err
		}
		return people, filepath.Base(flagCSV), nil
	}

	n := flagDemo
	if n <= 0 {
		n = config.DemoParticipants
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return participant.Generate(n, config.DemoStartTicket, rng), fmt.Sprintf("demo (%d)", n), nil
}

func openHistory(ctx context.Context, prefs config.Preferences) (*history.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if prefs.DBDriver != history.DriverPostgres && prefs.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(prefs.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history dir: %w", err)
		}
	}
	store, err := history.Open(ctx, prefs.DBDriver, prefs.DBPath)
	if err != nil {
		return nil, err
	}
	if err := store.CreateSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// fileLogger logs to prefs.LogFile, or nowhere when it is empty.
func fileLogger(prefs config.Preferences) (zerolog.Logger, func(), error) {
	if prefs.LogFile == "" {
		return zerolog.Nop(), func() {}, nil
	}
	lvl, err := prefs.Level()
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	f, err := os.OpenFile(prefs.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("failed to open log file: %w", err)
	}
	log := zerolog.New(f).Level(lvl).With().Timestamp().Logger()
	return log, func() { f.Close() }, nil
}

// consoleLogger logs human-readable lines to w, for the subcommands.
func consoleLogger(w io.Writer, prefs config.Preferences) zerolog.Logger {
	lvl, err := prefs.Level()
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger()
}
