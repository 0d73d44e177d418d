package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/playstyle/internal/adapters/export"
	service "github.com/okian/playstyle/internal/app"
	"github.com/okian/playstyle/internal/config"
	"github.com/okian/playstyle/pkg/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Get().Error(ctx, "export failed", logger.Error(err))
		os.Exit(1)
	}
}

// run analyzes the configured data source and writes the team styles as CSV
// to -out, or to stdout when -out is empty or "-".
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("out", "team_styles.csv", `Output CSV file ("-" for stdout)`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.GetOrNop()
	_ = logger.SetLevelString(cfg.LogLevel)

	svc := service.New(service.WithConfig(cfg), service.WithLogger(log))
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	styles, err := svc.Styles(ctx)
	if err != nil {
		return err
	}

	if *out == "" || *out == "-" {
		return export.WriteStyles(stdout, styles)
	}
	if err := export.WriteStylesFile(*out, styles); err != nil {
		return err
	}
	log.Info(ctx, "team styles exported", logger.String("file", *out), logger.Int("rows", len(styles)))
	return nil
}
