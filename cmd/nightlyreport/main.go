// cmd/nightlyreport/main.go — builds and emails yesterday's statement.
// Meant to be run from cron; pass a YYYY-MM-DD argument to rebuild another day.
package main

import (
	"context"
	"os"
	"time"

	"github.com/kiwiiwik/snackshack-nz/internal/config"
	"github.com/kiwiiwik/snackshack-nz/internal/infra"
	"github.com/kiwiiwik/snackshack-nz/internal/repository"
	"github.com/kiwiiwik/snackshack-nz/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	day := time.Now().UTC().AddDate(0, 0, -1)
	if len(os.Args) > 1 {
		parsed, err := time.Parse("2006-01-02", os.Args[1])
		if err != nil {
			log.Fatal().Str("arg", os.Args[1]).Msg("expected YYYY-MM-DD")
		}
		day = parsed
	}

	rw := worker.NewReportWorker(
		repository.NewUserRepository(db),
		repository.NewProductRepository(db),
		repository.NewTransactionRepository(db),
		infra.NewMailer(cfg),
		cfg.ShopName, cfg.ReportStoragePath, cfg.LowStockThreshold,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := rw.Run(ctx, day); err != nil {
		log.Fatal().Err(err).Msg("nightly report failed")
	}
}
