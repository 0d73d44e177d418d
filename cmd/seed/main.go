package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/playstyle/internal/adapters/repository"
	"github.com/okian/playstyle/internal/seed"
	"github.com/okian/playstyle/pkg/logger"
)

// Output formats.
const (
	formatSQLite = "sqlite"
	formatCSV    = "csv"
)

var errFileExists = errors.New("output already exists; pass -force to replace it")

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Get().Error(ctx, "seed failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	def := seed.DefaultConfig()
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfg    = def
		format = fs.String("format", formatSQLite, "Output format: sqlite or csv")
		dbPath = fs.String("db", "playstyle.db", "SQLite database to create")
		csvDir = fs.String("csv-dir", "data", "Directory for CSV output")
		force  = fs.Bool("force", false, "Replace an existing database")
	)
	fs.Int64Var(&cfg.Seed, "seed", def.Seed, "Random seed")
	fs.IntVar(&cfg.TeamsPerStyle, "teams-per-style", def.TeamsPerStyle, "Tenures generated per latent style")
	fs.IntVar(&cfg.Matches, "matches", def.Matches, "Matches per tenure")
	fs.Float64Var(&cfg.Noise, "noise", def.Noise, "Team metric noise in standard deviations")
	fs.IntVar(&cfg.CaretakerStep, "caretaker-step", def.CaretakerStep, "Add a caretaker tenure after every n-th team (0 disables)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := logger.GetOrNop()
	d, err := seed.Generate(ctx, cfg)
	if err != nil {
		return err
	}

	switch *format {
	case formatCSV:
		if err := seed.WriteCSV(*csvDir, d); err != nil {
			return err
		}
		log.Info(ctx, "csv dataset written", logger.String("dir", *csvDir), logger.Int("tenures", len(d.Tenures)))
		return nil
	case formatSQLite:
		return writeSQLite(ctx, *dbPath, *force, d, log)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}

func writeSQLite(ctx context.Context, path string, force bool, d *seed.Dataset, log logger.Logger) error {
	if _, err := os.Stat(path); err == nil {
		if !force {
			return fmt.Errorf("%s: %w", path, errFileExists)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}

	st, err := repository.OpenSQLite(ctx, path, repository.WithLogger(log.Named("repository")))
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := seed.Write(ctx, st, d); err != nil {
		return err
	}
	log.Info(ctx, "sqlite dataset written",
		logger.String("db", path),
		logger.Int("tenures", len(d.Tenures)),
		logger.Int("team_rows", len(d.Team)),
		logger.Int("player_rows", len(d.Players)),
	)
	return nil
}
