package convert

import (
	"math"
)

func TwoDecimals(number float64) float64 {
	return RoundFloat64(number, 2)
}

func RoundFloat64(number float64, decimals int) float64 {
	return math.Round(number*math.Pow10(decimals)) / math.Pow10(decimals)
}

func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func WattsToKW(w float64) float64 {
	return w / 1000.0
}
