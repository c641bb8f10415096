package jurisdiction

import "time"

// TaxYearFor labels a fiscal year by the calendar year it starts in. With an
// April start, 2024-03-31 is in tax year 2023 and 2024-04-01 in 2024.
// Months outside 1..12 are treated as January.
func TaxYearFor(date time.Time, fiscalStart time.Month) int {
	if fiscalStart < time.January || fiscalStart > time.December {
		fiscalStart = time.January
	}
	if date.Month() >= fiscalStart {
		return date.Year()
	}
	return date.Year() - 1
}
