// Package analysis wires the pipeline stages together: synthesize,
// calibrate, convert irradiance, estimate PV output, balance energy
// and evaluate the investment.
package analysis

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/angas/pvplan-go/balance"
	"github.com/angas/pvplan-go/calibrate"
	"github.com/angas/pvplan-go/config"
	"github.com/angas/pvplan-go/finance"
	"github.com/angas/pvplan-go/load"
	"github.com/angas/pvplan-go/series"
	"github.com/angas/pvplan-go/solar"
	"github.com/angas/pvplan-go/weather"
)

// Anomaly kinds attached to a run. Anomalies are recoverable: the run
// completes and the reporting layer decides how to present them.
const (
	AnomalyNegativeFactor   = "negative_scaling_factor"
	AnomalyAllImportMonth   = "month_without_surplus"
	AnomalyPaybackNotInView = "payback_not_reached"
	AnomalyLCOEUndefined    = "lcoe_undefined"
)

type Anomaly struct {
	Kind    string
	Message string
}

type Result struct {
	Year           int
	CalibratedLoad series.Hourly
	POA            series.Hourly
	PVOutput       series.Hourly
	Deficit        series.Hourly
	Factors        []calibrate.Factor
	Months         []balance.MonthBalance
	Cashflow       []finance.YearRecord
	Summary        finance.Summary
	Anomalies      []Anomaly
}

// Run executes the whole pipeline for one reference year. Structural
// failures (incomplete series, undefined calibration) abort the run;
// anomalies are collected on the result instead.
func Run(logger *slog.Logger, cfg *config.AppConfig, est load.Estimator, provider weather.Provider) (*Result, error) {
	year := cfg.Simulation.Year
	loc, err := cfg.Simulation.Location()
	if err != nil {
		return nil, err
	}

	estimated, err := load.Synthesize(year, loc, est)
	if err != nil {
		return nil, fmt.Errorf("synthesizing load: %w", err)
	}
	logger.Debug("load synthesized", slog.Int("hours", len(estimated)))

	cal, err := calibrate.Calibrate(estimated, cfg.Billing.ByMonth())
	if err != nil {
		return nil, fmt.Errorf("calibrating load: %w", err)
	}

	res := &Result{
		Year:           year,
		CalibratedLoad: cal.Series,
		Factors:        cal.Factors,
	}

	for _, f := range cal.Factors {
		if f.Negative() {
			res.warn(logger, AnomalyNegativeFactor, fmt.Sprintf(
				"%s: scaling factor %.3f, off-peak estimate alone exceeds the bill", f.Month, f.K))
		}
	}

	w, err := provider.HourlyWeather(year)
	if err != nil {
		return nil, fmt.Errorf("loading weather: %w", err)
	}

	res.POA = solar.POASeries(w, cfg.PVSystem)
	if err := res.POA.Validate(year); err != nil {
		return nil, fmt.Errorf("weather series: %w", err)
	}
	res.PVOutput = solar.OutputSeries(res.POA, w, cfg.PVSystem)

	bal, err := balance.Compute(res.CalibratedLoad, res.PVOutput)
	if err != nil {
		return nil, fmt.Errorf("balancing energy: %w", err)
	}
	res.Deficit = bal.Deficit
	res.Months = bal.Months

	for _, m := range bal.Months {
		if m.ExportKWh == 0 && m.ProducedKWh > 0 {
			res.warn(logger, AnomalyAllImportMonth, fmt.Sprintf(
				"%s: production never exceeded load, nothing exported", m.Month))
		}
	}

	res.Cashflow, res.Summary, err = finance.Evaluate(bal.Months, cfg.Tariff, cfg.Financial)
	if err != nil {
		var lcoeErr *finance.UndefinedLCOEError
		if !errors.As(err, &lcoeErr) {
			return nil, fmt.Errorf("evaluating cashflow: %w", err)
		}
		// Zero-production systems still get a cashflow table; only the
		// LCOE figure is withheld.
		res.warn(logger, AnomalyLCOEUndefined, lcoeErr.Error())
	}

	if len(res.Cashflow) > 0 && !res.Summary.PaybackReached {
		res.warn(logger, AnomalyPaybackNotInView, fmt.Sprintf(
			"cumulative cashflow still negative after %d years", cfg.Financial.HorizonYears))
	}

	return res, nil
}

func (r *Result) warn(logger *slog.Logger, kind, msg string) {
	logger.Warn(msg, slog.String("anomaly", kind))
	r.Anomalies = append(r.Anomalies, Anomaly{Kind: kind, Message: msg})
}

// AnnualProduction is the simulated year's usable PV energy in kWh.
func (r *Result) AnnualProduction() float64 {
	return r.PVOutput.Total()
}
