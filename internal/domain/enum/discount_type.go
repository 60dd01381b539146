package enum

// DiscountType represents how a discount value is interpreted
type DiscountType string

const (
	// DiscountTypePercentage deducts value percent of the base amount
	DiscountTypePercentage DiscountType = "percentage"
	// DiscountTypeFixed deducts a fixed amount
	DiscountTypeFixed DiscountType = "fixed"
)

func (t DiscountType) String() string {
	return string(t)
}

// Valid reports whether the type is one of the known values
func (t DiscountType) Valid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}
