package enum

import "time"

// RecurrenceType represents how often a recurring expense template fires
type RecurrenceType string

const (
	RecurrenceMonthly   RecurrenceType = "monthly"
	RecurrenceQuarterly RecurrenceType = "quarterly"
	RecurrenceYearly    RecurrenceType = "yearly"
)

func (r RecurrenceType) String() string {
	return string(r)
}

// Valid reports whether the recurrence is one of the known values
func (r RecurrenceType) Valid() bool {
	switch r {
	case RecurrenceMonthly, RecurrenceQuarterly, RecurrenceYearly:
		return true
	}
	return false
}

// SamePeriod reports whether last and target fall in the same recurrence
// period. It is the deduplication rule for expense generation: a template
// that already generated within the current period must not fire again.
func (r RecurrenceType) SamePeriod(last, target time.Time) bool {
	switch r {
	case RecurrenceMonthly:
		return last.Year() == target.Year() && last.Month() == target.Month()
	case RecurrenceQuarterly:
		return last.Year() == target.Year() && quarterOf(last) == quarterOf(target)
	case RecurrenceYearly:
		return last.Year() == target.Year()
	}
	return false
}

func quarterOf(t time.Time) int {
	return (int(t.Month()) - 1) / 3
}
