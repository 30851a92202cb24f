// Package units provides the metric prefix factor table applied to decoded
// meter readings.
package units

// Prefix identifies a metric scale prefix as shown on the meter's LCD.
type Prefix string

// Prefix constants
const (
	None  Prefix = ""
	Nano  Prefix = "n"
	Micro Prefix = "u"
	Milli Prefix = "m"
	Kilo  Prefix = "k"
	Mega  Prefix = "M"
)

// Factors maps each prefix to its multiplier. The table is treated as an
// injected constant by the decoder; it is never mutated.
var Factors = map[Prefix]float64{
	None:  1,
	Nano:  1e-9,
	Micro: 1e-6,
	Milli: 1e-3,
	Kilo:  1e3,
	Mega:  1e6,
}

// IsValid checks if the given prefix is in the factor table.
func IsValid(p Prefix) bool {
	_, ok := Factors[p]
	return ok
}

// Factor returns the multiplier for a prefix, defaulting to 1 for anything
// not in the table.
func Factor(p Prefix) float64 {
	if f, ok := Factors[p]; ok {
		return f
	}
	return 1
}
