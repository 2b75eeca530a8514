package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvariantViolation describes an arithmetic relationship a decoded order
// fails to satisfy. The decoder takes sheet values verbatim, so callers
// must run ValidateOrder before trusting totals for financial use.
type InvariantViolation struct {
	OrderID     int
	DetailIndex int // -1 for order-level violations
	Field       string
	Got         decimal.Decimal
	Want        decimal.Decimal
}

func (e *InvariantViolation) Error() string {
	if e.DetailIndex >= 0 {
		return fmt.Sprintf("order %d detail %d: %s is %s, want %s",
			e.OrderID, e.DetailIndex, e.Field, e.Got, e.Want)
	}
	return fmt.Sprintf("order %d: %s is %s, want %s", e.OrderID, e.Field, e.Got, e.Want)
}

// ValidateOrder checks the declared arithmetic invariants:
// every detail's Amount equals Qty x Rate, and NetAmount equals the sum of
// detail amounts. It returns the first violation found, or nil.
// Values are compared exactly, not recomputed in place.
func ValidateOrder(o Order) error {
	sum := decimal.Zero
	for i, d := range o.Details {
		want := d.Rate.Mul(decimal.NewFromInt(int64(d.Qty)))
		if !d.Amount.Equal(want) {
			return &InvariantViolation{
				OrderID:     o.OrderID,
				DetailIndex: i,
				Field:       "amount",
				Got:         d.Amount,
				Want:        want,
			}
		}
		sum = sum.Add(d.Amount)
	}
	if !o.NetAmount.Equal(sum) {
		return &InvariantViolation{
			OrderID:     o.OrderID,
			DetailIndex: -1,
			Field:       "net amount",
			Got:         o.NetAmount,
			Want:        sum,
		}
	}
	return nil
}
