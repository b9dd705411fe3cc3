package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/angas/pvplan-go/config"
	"github.com/angas/pvplan-go/database"
)

func NewMaintenanceTask(logger *slog.Logger, db *database.Database, cnfg *config.AppConfig) func() {
	return func() {
		runMaintenanceTask(logger, db, cnfg)
	}
}

func runMaintenanceTask(logger *slog.Logger, db *database.Database, cnfg *config.AppConfig) {
	logger.Debug("running maintenance task...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.Backup(ctx); err != nil {
		logger.Error("database backup failed", slog.Any("error", err))
	}

	if err := db.PurgeRuns(ctx, cnfg.Database.GetRunRetention()); err != nil {
		logger.Error("purging old runs failed", slog.Any("error", err))
	}

	if err := db.PurgeLog(ctx, cnfg.Logging.GetDbMaxEntries()); err != nil {
		logger.Error("purging log failed", slog.Any("error", err))
	}

	if err := db.PurgeBackups(cnfg.Database.GetBackupRetentionDays()); err != nil {
		logger.Error("purging old backups failed", slog.Any("error", err))
	}
}
