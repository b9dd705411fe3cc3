package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/angas/pvplan-go/analysis"
	"github.com/angas/pvplan-go/config"
	"github.com/angas/pvplan-go/database"
	"github.com/angas/pvplan-go/hours"
	"github.com/angas/pvplan-go/load"
	"github.com/angas/pvplan-go/logging"
	"github.com/angas/pvplan-go/report"
	"github.com/angas/pvplan-go/task"
	"github.com/angas/pvplan-go/weather"
	"github.com/lmittmann/tint"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	watch := flag.Bool("watch", false, "keep running and re-run the analysis on schedule")
	latest := flag.Bool("latest", false, "print the newest stored run and exit")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("pvplan is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to open database: %v", err))
	}
	defer db.Close()

	logger := slog.New(logging.NewMultiHandler(
		consoleHandler,
		logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	if *latest {
		if err := printLatestRun(ctx, db); err != nil {
			exitWithError(logger, err)
		}
		return
	}

	var mu sync.Mutex
	current := cnfg

	runOnce := func() {
		mu.Lock()
		cfg := current
		mu.Unlock()

		if err := runAnalysis(ctx, logger, db, cfg); err != nil {
			logger.Error("analysis run failed", slog.Any("error", err))
		}
	}

	runOnce()

	if !*watch {
		return
	}

	tasks := task.NewTasks(db, cnfg, runOnce)
	tasks.Run()
	defer tasks.Stop()

	config.Watch(logger.With("module", "config"), func(fresh *config.AppConfig) {
		mu.Lock()
		current = fresh
		mu.Unlock()
		runOnce()
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		logger.Info("main context done")
	case sig := <-sigCh:
		logger.Info("received signal", slog.Any("signal", sig))
		cancel()
	}
}

func runAnalysis(ctx context.Context, logger *slog.Logger, db *database.Database, cnfg *config.AppConfig) error {
	started := time.Now()

	seed := time.Now().UnixNano()
	if cnfg.Load.Seed != nil {
		seed = *cnfg.Load.Seed
	}
	estimator := load.NewProfileEstimator(cnfg.Load.BaseKVA, cnfg.Load.PeakKVA, cnfg.Load.Jitter, seed)
	provider := weather.NewCSVProvider(cnfg.Weather.Path)

	res, err := analysis.Run(logger.With("module", "analysis"), cnfg, estimator, provider)
	if err != nil {
		return err
	}

	runID, err := db.SaveRun(ctx, runArtifacts(res))
	if err != nil {
		return fmt.Errorf("persisting run: %w", err)
	}

	if cnfg.Report.Dir != "" {
		if err := report.WriteCSVs(cnfg.Report.Dir, res); err != nil {
			return fmt.Errorf("exporting report: %w", err)
		}
	}

	attrs := []any{
		slog.Int64("run_id", runID),
		slog.Duration("took", time.Since(started)),
		slog.Float64("npv", res.Summary.NPV),
		slog.Float64("annual_saving", res.Summary.AnnualSaving),
		slog.Int("anomalies", len(res.Anomalies)),
	}
	if res.Summary.LCOEDefined {
		attrs = append(attrs, slog.Float64("lcoe", res.Summary.LCOE))
	}
	if res.Summary.PaybackReached {
		attrs = append(attrs, slog.Float64("payback_years", res.Summary.PaybackYears))
	} else {
		attrs = append(attrs, slog.String("payback", "not reached within horizon"))
	}
	logger.Info("analysis run complete", attrs...)

	return nil
}

// runArtifacts flattens an analysis result into database rows.
func runArtifacts(res *analysis.Result) database.RunArtifacts {
	a := database.RunArtifacts{
		Year:         res.Year,
		NPV:          res.Summary.NPV,
		LCOE:         sql.NullFloat64{Float64: res.Summary.LCOE, Valid: res.Summary.LCOEDefined},
		PaybackYears: sql.NullFloat64{Float64: res.Summary.PaybackYears, Valid: res.Summary.PaybackReached},
		AnnualSaving: res.Summary.AnnualSaving,
	}

	a.Hours = make([]database.RunHourRow, 0, len(res.CalibratedLoad))
	for i, p := range res.CalibratedLoad {
		a.Hours = append(a.Hours, database.RunHourRow{
			When:       hours.FromTime(p.When),
			LoadKWh:    p.Value,
			POAWm2:     res.POA[i].Value,
			PVKWh:      res.PVOutput[i].Value,
			DeficitKWh: res.Deficit[i].Value,
		})
	}

	factorByMonth := make(map[time.Month]float64, len(res.Factors))
	for _, f := range res.Factors {
		factorByMonth[f.Month] = f.K
	}
	for _, m := range res.Months {
		a.Months = append(a.Months, database.RunMonthRow{
			Month:         int(m.Month),
			ScalingFactor: factorByMonth[m.Month],
			ImportKWh:     m.ImportKWh,
			ExportKWh:     m.ExportKWh,
			LoadKWh:       m.LoadKWh,
			ProducedKWh:   m.ProducedKWh,
		})
	}

	for _, cf := range res.Cashflow {
		a.Cashflow = append(a.Cashflow, database.RunCashflowRow{
			Year:       cf.Year,
			Savings:    cf.Savings,
			OM:         cf.OM,
			Net:        cf.Net,
			Discounted: cf.Discounted,
			Cumulative: cf.Cumulative,
		})
	}

	for _, an := range res.Anomalies {
		a.Anomalies = append(a.Anomalies, database.RunAnomalyRow{Kind: an.Kind, Message: an.Message})
	}

	return a
}

// printLatestRun dumps the newest stored run summary along with any
// warnings the run logged, for a quick look without re-running.
func printLatestRun(ctx context.Context, db *database.Database) error {
	run, err := db.GetLatestRun(ctx)
	if err != nil {
		return fmt.Errorf("no stored runs: %w", err)
	}

	fmt.Printf("run %d from %s, reference year %d\n", run.ID, run.CreatedAt.Format(time.RFC3339), run.Year)
	fmt.Printf("  npv:           %.2f\n", run.NPV)
	if run.LCOE.Valid {
		fmt.Printf("  lcoe:          %.4f per kWh\n", run.LCOE.Float64)
	} else {
		fmt.Println("  lcoe:          undefined (no production)")
	}
	if run.PaybackYears.Valid {
		fmt.Printf("  payback:       %.1f years\n", run.PaybackYears.Float64)
	} else {
		fmt.Println("  payback:       not reached within horizon")
	}
	fmt.Printf("  annual saving: %.2f\n", run.AnnualSaving)

	entries, err := db.GetLogEntries(ctx, slog.LevelWarn, 1, 10)
	if err != nil {
		return fmt.Errorf("reading run warnings: %w", err)
	}
	for _, e := range entries {
		fmt.Printf("  %s %s\n", e.Timestamp.Format(time.RFC3339), e.Message)
	}

	return nil
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}
	time.Sleep(2 * time.Second)
	os.Exit(1)
}
