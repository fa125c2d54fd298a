package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collabnote-be/internal/config"
	"collabnote-be/internal/pkg/logger"
	"collabnote-be/internal/repository/unitofwork"
	"collabnote-be/internal/service"
	"collabnote-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	interval := flag.Duration("interval", 0, "repeat the prune at this interval (0 runs once)")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		color.Red("Invalid configuration: %v", err)
		os.Exit(1)
	}
	if cfg.Note.RevisionRetentionDays == 0 {
		color.Yellow("NOTE_REVISION_RETENTION_DAYS is 0, revisions are kept forever. Nothing to do.")
		return
	}

	db, err := database.NewGormDB(cfg.Database.Driver, cfg.Database.Connection, false)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()
	revisions := service.NewRevisionService(unitofwork.NewRepositoryFactory(db), cfg.Note.RevisionRetentionDays, sysLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !prune(ctx, revisions) && *interval == 0 {
		os.Exit(1)
	}
	if *interval == 0 {
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			color.Cyan("Stopped.")
			return
		case <-ticker.C:
			prune(ctx, revisions)
		}
	}
}

func prune(ctx context.Context, revisions service.IRevisionService) bool {
	started := time.Now()
	result, err := revisions.RemoveOldRevisions(ctx)
	if err != nil {
		color.Red("Prune failed: %v", err)
		return false
	}
	color.Green("Pruned %d revisions across %d notes, rewrote %d (%s)",
		result.RevisionsDeleted, result.NotesScanned, result.RevisionsRewritten, time.Since(started).Round(time.Millisecond))
	return true
}
