package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/burnlog/internal/config"
	"github.com/meltforce/burnlog/internal/engine"
	"github.com/meltforce/burnlog/internal/importer"
	"github.com/meltforce/burnlog/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	importPath := flag.String("path", "", "path to directory of activity CSV exports (required)")
	statePath := flag.String("state", ".burnlog-import", "path to import state directory")
	defaultUser := flag.String("user", "local", "login to attribute rows that have no user column")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *importPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: burnlog-import -config config.yaml -path /path/to/exports [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(*importPath)
	if err != nil || !info.IsDir() {
		log.Error("import path does not exist or is not a directory", "path", *importPath)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode — no data will be written to the database")
	}

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Run import
	eng := engine.New(db, log)
	imp := importer.New(db, eng, log, *defaultUser, *dryRun)
	stats, err := imp.Import(ctx, *importPath, *statePath)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"activities_inserted", stats.ActivitiesInserted,
		"rows_rejected", stats.RowsRejected,
		"users_touched", stats.UsersTouched,
	)
	for _, r := range stats.RejectedRows {
		log.Warn("rejected row", "detail", r)
	}
}
