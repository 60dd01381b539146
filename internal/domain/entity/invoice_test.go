package entity

import (
	"testing"
	"time"

	"github.com/maktabhq/maktab-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func TestResolveStatus(t *testing.T) {
	due := day(2025, time.March, 5)

	t.Run("paid when total paid covers total due", func(t *testing.T) {
		status := ResolveStatus(d("500000"), d("500000"), due, day(2025, time.March, 1))
		assert.Equal(t, enum.InvoiceStatusPaid, status)
	})

	t.Run("paid wins over overdue even past the due date", func(t *testing.T) {
		status := ResolveStatus(d("500000"), d("500000"), due, day(2025, time.April, 1))
		assert.Equal(t, enum.InvoiceStatusPaid, status)
	})

	t.Run("partial when something but not everything is paid", func(t *testing.T) {
		status := ResolveStatus(d("100000"), d("500000"), due, day(2025, time.March, 1))
		assert.Equal(t, enum.InvoiceStatusPartial, status)
	})

	t.Run("partial wins over overdue past the due date", func(t *testing.T) {
		status := ResolveStatus(d("100000"), d("500000"), due, day(2025, time.April, 1))
		assert.Equal(t, enum.InvoiceStatusPartial, status)
	})

	t.Run("overdue when unpaid past the due date", func(t *testing.T) {
		status := ResolveStatus(decimal.Zero, d("500000"), due, day(2025, time.March, 6))
		assert.Equal(t, enum.InvoiceStatusOverdue, status)
	})

	t.Run("pending on the due date itself", func(t *testing.T) {
		status := ResolveStatus(decimal.Zero, d("500000"), due, due)
		assert.Equal(t, enum.InvoiceStatusPending, status)
	})

	t.Run("pending before the due date", func(t *testing.T) {
		status := ResolveStatus(decimal.Zero, d("500000"), due, day(2025, time.March, 1))
		assert.Equal(t, enum.InvoiceStatusPending, status)
	})

	t.Run("zero due invoice is paid", func(t *testing.T) {
		status := ResolveStatus(decimal.Zero, decimal.Zero, due, day(2025, time.March, 1))
		assert.Equal(t, enum.InvoiceStatusPaid, status)
	})

	t.Run("compares at day granularity ignoring clock time", func(t *testing.T) {
		lateEvening := time.Date(2025, time.March, 5, 23, 59, 0, 0, time.UTC)
		status := ResolveStatus(decimal.Zero, d("500000"), due, lateEvening)
		assert.Equal(t, enum.InvoiceStatusPending, status)
	})
}

func TestInvoiceTotalDue(t *testing.T) {
	inv := Invoice{Amount: d("1000000"), Discount: d("150000")}
	assert.True(t, inv.TotalDue().Equal(d("850000")))
}
