package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/angas/pvplan-go/convert"
	"github.com/angas/pvplan-go/hours"
)

type RunHourRow struct {
	When       hours.DateHour
	LoadKWh    float64
	POAWm2     float64
	PVKWh      float64
	DeficitKWh float64
}

type RunMonthRow struct {
	Month         int
	ScalingFactor float64
	ImportKWh     float64
	ExportKWh     float64
	LoadKWh       float64
	ProducedKWh   float64
}

type RunCashflowRow struct {
	Year       int
	Savings    float64
	OM         float64
	Net        float64
	Discounted float64
	Cumulative float64
}

type RunAnomalyRow struct {
	Kind    string
	Message string
}

// RunArtifacts is everything one analysis run persists.
type RunArtifacts struct {
	Year         int
	NPV          float64
	LCOE         sql.NullFloat64
	PaybackYears sql.NullFloat64
	AnnualSaving float64
	Hours        []RunHourRow
	Months       []RunMonthRow
	Cashflow     []RunCashflowRow
	Anomalies    []RunAnomalyRow
}

type RunRow struct {
	ID           int64
	CreatedAt    time.Time
	Year         int
	NPV          float64
	LCOE         sql.NullFloat64
	PaybackYears sql.NullFloat64
	AnnualSaving float64
}

// SaveRun persists a complete analysis run in one transaction and
// returns the new run id.
func (d *Database) SaveRun(ctx context.Context, a RunArtifacts) (int64, error) {
	tx, err := d.write.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting run transaction: %w", err)
	}
	defer tx.Rollback()

	r, err := tx.ExecContext(ctx, `
		INSERT INTO run (created_at, year, npv, lcoe, payback_years, annual_saving)
		VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		a.Year,
		convert.TwoDecimals(a.NPV),
		a.LCOE,
		a.PaybackYears,
		convert.TwoDecimals(a.AnnualSaving))
	if err != nil {
		return 0, fmt.Errorf("saving run: %w", err)
	}
	runID, err := r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	hourStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_hour (run_id, date, hour, load_kwh, poa_wm2, pv_kwh, deficit_kwh)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing hour insert: %w", err)
	}
	defer hourStmt.Close()

	for _, h := range a.Hours {
		_, err := hourStmt.ExecContext(ctx,
			runID,
			h.When.Date,
			h.When.Hour,
			convert.TwoDecimals(h.LoadKWh),
			convert.TwoDecimals(h.POAWm2),
			convert.TwoDecimals(h.PVKWh),
			convert.TwoDecimals(h.DeficitKWh))
		if err != nil {
			return 0, fmt.Errorf("saving run hour %s: %w", h.When, err)
		}
	}

	for _, m := range a.Months {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_month (run_id, month, scaling_factor, import_kwh, export_kwh, load_kwh, produced_kwh)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID,
			m.Month,
			m.ScalingFactor,
			convert.TwoDecimals(m.ImportKWh),
			convert.TwoDecimals(m.ExportKWh),
			convert.TwoDecimals(m.LoadKWh),
			convert.TwoDecimals(m.ProducedKWh))
		if err != nil {
			return 0, fmt.Errorf("saving run month %d: %w", m.Month, err)
		}
	}

	for _, cf := range a.Cashflow {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_cashflow (run_id, year, savings, om_cost, net, discounted_net, cumulative)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID,
			cf.Year,
			convert.TwoDecimals(cf.Savings),
			convert.TwoDecimals(cf.OM),
			convert.TwoDecimals(cf.Net),
			convert.TwoDecimals(cf.Discounted),
			convert.TwoDecimals(cf.Cumulative))
		if err != nil {
			return 0, fmt.Errorf("saving cashflow year %d: %w", cf.Year, err)
		}
	}

	for _, an := range a.Anomalies {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_anomaly (run_id, kind, message) VALUES (?, ?, ?)`,
			runID, an.Kind, an.Message)
		if err != nil {
			return 0, fmt.Errorf("saving anomaly: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}

	return runID, nil
}

// GetLatestRun returns the newest run's summary row.
func (d *Database) GetLatestRun(ctx context.Context) (RunRow, error) {
	var row RunRow
	var createdAt string
	err := d.read.QueryRowContext(ctx, `
		SELECT id, created_at, year, npv, lcoe, payback_years, annual_saving
		FROM run
		ORDER BY id DESC
		LIMIT 1`).Scan(
		&row.ID, &createdAt, &row.Year, &row.NPV, &row.LCOE, &row.PaybackYears, &row.AnnualSaving)
	if err != nil {
		return RunRow{}, fmt.Errorf("fetching latest run: %w", err)
	}

	row.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return RunRow{}, fmt.Errorf("parsing run timestamp: %w", err)
	}

	return row, nil
}

// PurgeRuns deletes everything but the newest keep runs.
func (d *Database) PurgeRuns(ctx context.Context, keep int) error {
	d.logger.Debug("purging old runs", "keep", keep)
	_, err := d.write.ExecContext(ctx, `
		DELETE FROM run
		WHERE id NOT IN (SELECT id FROM run ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return fmt.Errorf("purging runs: %w", err)
	}
	return nil
}
