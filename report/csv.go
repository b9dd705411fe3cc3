// Package report exports run artifacts as CSV files for the external
// plotting/reporting layer.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/angas/pvplan-go/analysis"
)

// WriteCSVs writes the monthly balance and the cashflow table into dir.
func WriteCSVs(dir string, res *analysis.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	if err := writeMonthly(filepath.Join(dir, "monthly_balance.csv"), res); err != nil {
		return err
	}
	return writeCashflow(filepath.Join(dir, "cashflow.csv"), res)
}

func writeMonthly(path string, res *analysis.Result) error {
	factors := make(map[int]float64, len(res.Factors))
	for _, f := range res.Factors {
		factors[int(f.Month)] = f.K
	}

	rows := [][]string{{"month", "scaling_factor", "load_kwh", "produced_kwh", "import_kwh", "export_kwh"}}
	for _, m := range res.Months {
		rows = append(rows, []string{
			strconv.Itoa(int(m.Month)),
			f2s(factors[int(m.Month)]),
			f2s(m.LoadKWh),
			f2s(m.ProducedKWh),
			f2s(m.ImportKWh),
			f2s(m.ExportKWh),
		})
	}
	return writeFile(path, rows)
}

func writeCashflow(path string, res *analysis.Result) error {
	rows := [][]string{{"year", "savings", "om_cost", "net", "discounted_net", "cumulative"}}
	for _, cf := range res.Cashflow {
		rows = append(rows, []string{
			strconv.Itoa(cf.Year),
			f2s(cf.Savings),
			f2s(cf.OM),
			f2s(cf.Net),
			f2s(cf.Discounted),
			f2s(cf.Cumulative),
		})
	}
	return writeFile(path, rows)
}

func writeFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

func f2s(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
