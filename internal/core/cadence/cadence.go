// Package cadence provides the meter-reading cadence lookup table.
// A cadence is the configured interval at which a rented printing
// asset's counters are read and billed.
package cadence

// Cadence identifies a reading interval.
type Cadence string

const (
	Monthly    Cadence = "monthly"
	Bimonthly  Cadence = "bimonthly"
	Quarterly  Cadence = "quarterly"
	Semiannual Cadence = "semiannual"
)

// Default is applied when an asset has no cadence configured.
const Default = Quarterly

type interval struct {
	days   int
	months int
}

var table = map[Cadence]interval{
	Monthly:    {days: 30, months: 1},
	Bimonthly:  {days: 60, months: 2},
	Quarterly:  {days: 90, months: 3},
	Semiannual: {days: 180, months: 6},
}

// Normalize returns c, or Default when c is empty or unknown.
func Normalize(c Cadence) Cadence {
	if _, ok := table[c]; ok {
		return c
	}
	return Default
}

// Valid reports whether c names a known cadence.
func Valid(c Cadence) bool {
	_, ok := table[c]
	return ok
}

// Days returns the minimum number of days between two readings.
// Unknown cadences fall back to Default.
func Days(c Cadence) int {
	return table[Normalize(c)].days
}

// Months returns the number of months covered by one billing period.
// Unknown cadences fall back to Default.
func Months(c Cadence) int {
	return table[Normalize(c)].months
}
