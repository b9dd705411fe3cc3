package solar

import (
	"math"

	"github.com/angas/pvplan-go/config"
	"github.com/angas/pvplan-go/convert"
	"github.com/angas/pvplan-go/series"
	"github.com/angas/pvplan-go/weather"
)

// The reference cell temperature the temp coefficient is quoted at
const stcCellTemp = 25.0

// Output converts plane-of-array irradiance (W/m²) and cell
// temperature (°C) into usable AC-equivalent power in kW. The
// temperature multiplier is clamped at zero, output can't go negative
// however hot the array runs.
func Output(poa, cellTemp float64, spec config.AppConfigPVSystem) float64 {
	if poa == 0 {
		return 0
	}

	derate := 1 + spec.TempCoefficient*(cellTemp-stcCellTemp)
	if derate < 0 {
		derate = 0
	}

	watts := float64(spec.PanelCount) * spec.PanelArea * spec.PanelEfficiency *
		poa * derate * spec.SystemEfficiency
	return convert.WattsToKW(math.Max(0, watts))
}

// OutputSeries computes the hourly usable PV output (kWh per hour at
// unity power factor) from a POA series and the matching weather hours.
func OutputSeries(poa series.Hourly, w []weather.Hour, spec config.AppConfigPVSystem) series.Hourly {
	s := make(series.Hourly, 0, len(poa))
	for i, p := range poa {
		s = append(s, series.Point{
			When:  p.When,
			Value: Output(p.Value, w[i].Temperature, spec),
		})
	}
	return s
}
