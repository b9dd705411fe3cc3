// Package task schedules the recurring work of watch mode: re-running
// the analysis as billing and weather files get refreshed, and nightly
// database maintenance.
package task

import (
	"context"
	"log/slog"

	"github.com/angas/pvplan-go/config"
	"github.com/angas/pvplan-go/database"
	"github.com/robfig/cron/v3"
)

type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	AnalysisTask    func()
	MaintenanceTask func()
}

func NewTasks(db *database.Database, cnfg *config.AppConfig, analysis func()) *Tasks {
	logger := slog.Default().With("module", "tasks")
	return &Tasks{
		cron:            cron.New(),
		cnfg:            cnfg,
		AnalysisTask:    analysis,
		MaintenanceTask: NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), db, cnfg),
	}
}

func (t *Tasks) Run() {
	if _, err := t.cron.AddFunc(t.cnfg.Simulation.GetRunAt(), t.AnalysisTask); err != nil {
		panic(err)
	}
	if _, err := t.cron.AddFunc("30 2 * * *", t.MaintenanceTask); err != nil {
		panic(err)
	}
	t.cron.Start()
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
