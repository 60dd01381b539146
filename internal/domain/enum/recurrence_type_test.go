package enum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRecurrenceTypeSamePeriod(t *testing.T) {
	t.Run("monthly matches within the same calendar month", func(t *testing.T) {
		assert.True(t, RecurrenceMonthly.SamePeriod(at(2025, time.January, 15), at(2025, time.January, 20)))
		assert.False(t, RecurrenceMonthly.SamePeriod(at(2025, time.January, 15), at(2025, time.February, 15)))
	})

	t.Run("monthly does not match the same month of another year", func(t *testing.T) {
		assert.False(t, RecurrenceMonthly.SamePeriod(at(2024, time.January, 15), at(2025, time.January, 15)))
	})

	t.Run("quarterly matches within the same quarter", func(t *testing.T) {
		assert.True(t, RecurrenceQuarterly.SamePeriod(at(2025, time.January, 10), at(2025, time.March, 31)))
		assert.False(t, RecurrenceQuarterly.SamePeriod(at(2025, time.March, 31), at(2025, time.April, 1)))
		assert.False(t, RecurrenceQuarterly.SamePeriod(at(2024, time.February, 1), at(2025, time.February, 1)))
	})

	t.Run("yearly matches within the same year", func(t *testing.T) {
		assert.True(t, RecurrenceYearly.SamePeriod(at(2025, time.January, 1), at(2025, time.December, 31)))
		assert.False(t, RecurrenceYearly.SamePeriod(at(2024, time.December, 31), at(2025, time.January, 1)))
	})
}

func TestRecurrenceTypeValid(t *testing.T) {
	assert.True(t, RecurrenceMonthly.Valid())
	assert.True(t, RecurrenceQuarterly.Valid())
	assert.True(t, RecurrenceYearly.Valid())
	assert.False(t, RecurrenceType("weekly").Valid())
}
