// Package finance turns the monthly energy balance into the multi-year
// investment picture: cashflow table, NPV, LCOE and payback.
package finance

import (
	"math"

	"github.com/angas/pvplan-go/balance"
	"github.com/angas/pvplan-go/config"
)

// UndefinedLCOEError means the system produced no energy over the
// whole horizon, so cost per produced kWh has no meaning.
type UndefinedLCOEError struct{}

func (e *UndefinedLCOEError) Error() string {
	return "LCOE undefined: zero discounted energy production over the horizon"
}

// ImportCost is the billed cost of importing kwh in one month. The
// fixed service charge is included here and, symmetrically, in
// ExportRevenue; see config.AppConfigTariff for why.
func ImportCost(t config.AppConfigTariff, kwh float64) float64 {
	return t.ImportRate*kwh*t.TaxMultiplier + t.ServiceCharge
}

// ExportRevenue is the credit for exporting kwh in one month.
func ExportRevenue(t config.AppConfigTariff, kwh float64) float64 {
	return t.ExportRate*kwh*t.TaxMultiplier + t.ServiceCharge
}

// BaselineCost is what the month would have cost with no PV at all,
// importing the entire calibrated load.
func BaselineCost(t config.AppConfigTariff, loadKWh float64) float64 {
	return ImportCost(t, loadKWh)
}

// MonthlySaving is baseline cost minus the net cost with PV.
func MonthlySaving(t config.AppConfigTariff, mb balance.MonthBalance) float64 {
	withPV := ImportCost(t, mb.ImportKWh) - ExportRevenue(t, mb.ExportKWh)
	return BaselineCost(t, mb.LoadKWh) - withPV
}

// AnnualSaving sums the monthly savings across the simulated year.
func AnnualSaving(t config.AppConfigTariff, months []balance.MonthBalance) float64 {
	sum := 0.0
	for _, mb := range months {
		sum += MonthlySaving(t, mb)
	}
	return sum
}

// YearRecord is one row of the cashflow table, year index 1..N.
// Cumulative is the running sum of *undiscounted* net cashflow,
// seeded with -CapitalCost; Discounted carries the per-year
// discounted net used for NPV.
type YearRecord struct {
	Year       int
	Savings    float64
	OM         float64
	Net        float64
	Discounted float64
	Cumulative float64
}

type Summary struct {
	NPV float64
	// Cost per discounted kWh produced; only meaningful when
	// LCOEDefined is true.
	LCOE        float64
	LCOEDefined bool
	// Fractional years until cumulative cashflow turns non-negative;
	// only meaningful when PaybackReached is true.
	PaybackYears   float64
	PaybackReached bool
	AnnualSaving   float64
}

// Evaluate builds the cashflow table and scalar summary from one
// simulated year, held flat across the horizon. Pure function: same
// inputs, bit-identical outputs.
func Evaluate(months []balance.MonthBalance, tariff config.AppConfigTariff, fin config.AppConfigFinancial) ([]YearRecord, Summary, error) {
	annualSaving := AnnualSaving(tariff, months)
	_, _, producedKWh := balance.AnnualTotals(months)

	records := make([]YearRecord, 0, fin.HorizonYears)
	cumulative := -fin.CapitalCost
	npv := -fin.CapitalCost
	discountedOM := 0.0
	discountedEnergy := 0.0

	for t := 1; t <= fin.HorizonYears; t++ {
		net := annualSaving - fin.AnnualOM
		df := math.Pow(1+fin.DiscountRate, float64(t))
		discounted := net / df

		cumulative += net
		npv += discounted
		discountedOM += fin.AnnualOM / df
		discountedEnergy += producedKWh / df

		records = append(records, YearRecord{
			Year:       t,
			Savings:    annualSaving,
			OM:         fin.AnnualOM,
			Net:        net,
			Discounted: discounted,
			Cumulative: cumulative,
		})
	}

	summary := Summary{
		NPV:          npv,
		AnnualSaving: annualSaving,
	}
	summary.PaybackYears, summary.PaybackReached = payback(fin.CapitalCost, records)

	if discountedEnergy <= 0 {
		return records, summary, &UndefinedLCOEError{}
	}
	summary.LCOE = (fin.CapitalCost + discountedOM) / discountedEnergy
	summary.LCOEDefined = true

	return records, summary, nil
}

// payback finds the first year the undiscounted cumulative cashflow
// crosses from negative to non-negative, interpolating linearly within
// that year. Returns false when the horizon ends still under water.
func payback(capital float64, records []YearRecord) (float64, bool) {
	prev := -capital
	if prev >= 0 {
		return 0, true
	}
	for _, r := range records {
		if r.Cumulative >= 0 {
			span := r.Cumulative - prev
			if span <= 0 {
				return float64(r.Year), true
			}
			return float64(r.Year-1) + (-prev)/span, true
		}
		prev = r.Cumulative
	}
	return 0, false
}
