// Package weather provides the pre-acquired hourly irradiance and
// temperature series the simulation runs against. Acquisition itself
// happens outside this system; a provider only hands over data that
// already exists.
package weather

import (
	"time"
)

// Hour is one hour of irradiance and temperature observations.
// Irradiance components are in W/m², temperature in °C and the solar
// zenith angle in degrees.
type Hour struct {
	When        time.Time
	DNI         float64
	DHI         float64
	GHI         float64
	Temperature float64
	ZenithDeg   float64
}

// Provider hands over the weather series for a reference year.
type Provider interface {
	HourlyWeather(year int) ([]Hour, error)
}
