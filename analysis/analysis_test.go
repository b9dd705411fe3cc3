package analysis

import (
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/angas/pvplan-go/config"
	"github.com/angas/pvplan-go/hours"
	"github.com/angas/pvplan-go/load"
	"github.com/angas/pvplan-go/weather"
)

// syntheticWeather fakes a pre-acquired weather year: clear-sky noonish
// sun, dark nights.
type syntheticWeather struct{}

func (syntheticWeather) HourlyWeather(year int) ([]weather.Hour, error) {
	ts := hours.Year(year, time.UTC)
	w := make([]weather.Hour, 0, len(ts))
	for _, t := range ts {
		h := weather.Hour{When: t, Temperature: 15, ZenithDeg: 100}
		if hr := t.Hour(); hr >= 7 && hr <= 17 {
			elevation := 50 * math.Sin(float64(hr-7)/10*math.Pi)
			h.ZenithDeg = 90 - elevation
			h.DNI = 600 * math.Sin(float64(hr-7)/10*math.Pi)
			h.DHI = 80
			h.GHI = h.DNI*math.Cos((90-elevation)*math.Pi/180) + h.DHI
			h.Temperature = 20
		}
		w = append(w, h)
	}
	return w, nil
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Simulation: config.AppConfigSimulation{Year: 2023},
		Load:       config.AppConfigLoad{BaseKVA: 10, PeakKVA: 40},
		PVSystem: config.AppConfigPVSystem{
			PanelCount: 60, PanelArea: 1.8, PanelEfficiency: 0.21,
			TempCoefficient: -0.004, SystemEfficiency: 0.85,
			TiltDegrees: 30, Albedo: 0.2,
		},
		Tariff: config.AppConfigTariff{
			ImportRate: 0.32, ExportRate: 0.11, TaxMultiplier: 1.25, ServiceCharge: 18,
		},
		Financial: config.AppConfigFinancial{
			CapitalCost: 40000, AnnualOM: 500, DiscountRate: 0.05, HorizonYears: 25,
		},
		Billing: config.AppConfigBilling{
			MonthlyKWh: []float64{
				9000, 8200, 8100, 7600, 7200, 7000,
				6900, 7100, 7400, 8000, 8600, 9100,
			},
		},
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig()
	est := load.NewProfileEstimator(cfg.Load.BaseKVA, cfg.Load.PeakKVA, 0, 1)

	res, err := Run(discard(), cfg, est, syntheticWeather{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if err := res.CalibratedLoad.Validate(2023); err != nil {
		t.Errorf("calibrated load: %v", err)
	}
	if err := res.PVOutput.Validate(2023); err != nil {
		t.Errorf("pv output: %v", err)
	}
	if err := res.Deficit.Validate(2023); err != nil {
		t.Errorf("deficit: %v", err)
	}

	// Calibration reconciles each month against the bill
	totals := res.CalibratedLoad.MonthTotals()
	for i, want := range cfg.Billing.MonthlyKWh {
		m := time.Month(i + 1)
		if math.Abs(totals[m]-want) > 1e-6 {
			t.Errorf("%s: calibrated %f kWh, billed %f", m, totals[m], want)
		}
	}

	if len(res.Months) != 12 {
		t.Fatalf("expected 12 monthly balances, got %d", len(res.Months))
	}
	for _, m := range res.Months {
		if m.ImportKWh < 0 || m.ExportKWh < 0 {
			t.Errorf("%s: negative aggregates", m.Month)
		}
	}

	if len(res.Cashflow) != 25 {
		t.Errorf("expected 25 cashflow years, got %d", len(res.Cashflow))
	}
	if !res.Summary.LCOEDefined {
		t.Error("LCOE should be defined for a producing system")
	}
	if res.AnnualProduction() <= 0 {
		t.Error("expected positive annual production")
	}
}

// A zero-panel system produces nothing, exports nothing and has no
// defined LCOE, but the run still completes with the anomaly attached.
func TestRunZeroPanels(t *testing.T) {
	cfg := testConfig()
	cfg.PVSystem.PanelCount = 0
	est := load.NewProfileEstimator(cfg.Load.BaseKVA, cfg.Load.PeakKVA, 0, 1)

	res, err := Run(discard(), cfg, est, syntheticWeather{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, m := range res.Months {
		if m.ExportKWh != 0 {
			t.Errorf("%s: exported %f kWh with zero panels", m.Month, m.ExportKWh)
		}
		if m.ProducedKWh != 0 {
			t.Errorf("%s: produced %f kWh with zero panels", m.Month, m.ProducedKWh)
		}
	}

	if res.Summary.LCOEDefined {
		t.Error("LCOE must be undefined with zero production")
	}
	if !hasAnomaly(res.Anomalies, AnomalyLCOEUndefined) {
		t.Error("expected an LCOE anomaly on the result")
	}
	if res.Summary.PaybackReached {
		t.Error("payback can't be reached without savings covering capital")
	}
}

func TestRunDeterministicWithSeed(t *testing.T) {
	cfg := testConfig()

	r1, err := Run(discard(), cfg, load.NewProfileEstimator(10, 40, 0.2, 99), syntheticWeather{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	r2, err := Run(discard(), cfg, load.NewProfileEstimator(10, 40, 0.2, 99), syntheticWeather{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if r1.Summary != r2.Summary {
		t.Errorf("same seed should reproduce the summary: %+v vs %+v", r1.Summary, r2.Summary)
	}
}

func hasAnomaly(anomalies []Anomaly, kind string) bool {
	for _, a := range anomalies {
		if a.Kind == kind {
			return true
		}
	}
	return false
}
