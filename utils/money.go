package utils

import "math"

// Round2 rounds x to 2 decimal places (banking-style simple round).
func Round2(x float64) float64 {
	return RoundTo(x, 2)
}

// RoundTo rounds x to the given number of decimal places. Currency rounding
// goes through this so precision lives in one place.
func RoundTo(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(x*p) / p
}
