package core

import "math"

// ProtonMass is used for charge calculations.
const ProtonMass = 1.00727646688

// PrecursorMZ converts a neutral monoisotopic mass to the m/z of the
// protonated (charge > 0) or deprotonated (charge < 0) ion.
// A zero charge is treated as singly protonated.
func PrecursorMZ(neutralMass float64, charge int) float64 {
	switch {
	case charge == 0:
		charge = 1
	case charge < 0:
		z := float64(-charge)
		return (neutralMass - z*ProtonMass) / z
	}
	z := float64(charge)
	return (neutralMass + z*ProtonMass) / z
}

// RoundFloat rounds a float to n decimal places
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
