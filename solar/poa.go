// Package solar converts irradiance observations into plane-of-array
// irradiance and usable PV output.
package solar

import (
	"math"

	"github.com/angas/pvplan-go/config"
	"github.com/angas/pvplan-go/convert"
	"github.com/angas/pvplan-go/series"
	"github.com/angas/pvplan-go/weather"
)

// POA combines beam, sky-diffuse and ground-reflected irradiance on a
// panel tilted beta radians over ground with reflectance albedo.
// All inputs in W/m² and radians, result clipped at zero.
func POA(dni, dhi, ghi, zenithRad, betaRad, albedo float64) float64 {
	beam := dni * math.Cos(zenithRad)
	if beam < 0 {
		// Sun below the horizon (or behind the panel plane)
		beam = 0
	}
	diffuse := dhi * (1 + math.Cos(betaRad)) / 2
	reflected := ghi * albedo * (1 - math.Cos(betaRad)) / 2

	return math.Max(0, beam+diffuse+reflected)
}

// POASeries computes the hourly plane-of-array irradiance for the
// whole weather series.
func POASeries(w []weather.Hour, spec config.AppConfigPVSystem) series.Hourly {
	beta := convert.DegToRad(spec.TiltDegrees)
	s := make(series.Hourly, 0, len(w))
	for _, h := range w {
		s = append(s, series.Point{
			When:  h.When,
			Value: POA(h.DNI, h.DHI, h.GHI, convert.DegToRad(h.ZenithDeg), beta, spec.Albedo),
		})
	}
	return s
}
