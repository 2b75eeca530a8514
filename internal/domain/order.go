// Package domain holds the sales order aggregate and its invariant checks.
// Types here are plain data; parsing, persistence and reconciliation live
// in their own packages and operate on these structs.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is an independently owned party referenced by orders.
type Customer struct {
	CustomerID int
	Name       string
}

// Product is an independently owned catalog entry referenced by order details.
type Product struct {
	ProductID int
	Name      string
	Rate      decimal.Decimal
}

// OrderDetail is one line of an order. Rate and Amount are snapshots taken
// at order time and may diverge from the product's current rate.
// OrderDetailID is a storage surrogate; it is zero for transient details
// decoded from a sheet.
type OrderDetail struct {
	OrderDetailID int64
	Product       Product
	Qty           int
	Rate          decimal.Decimal
	Amount        decimal.Decimal
}

// Order is the aggregate root. It exclusively owns its Details slice;
// Customer and the per-detail Products are shared references.
// Details preserve source order (form submission order or sheet row order).
type Order struct {
	OrderID   int
	Date      time.Time
	Customer  Customer
	NetAmount decimal.Decimal
	Details   []OrderDetail
}

// Equal reports whether two orders carry identical field values, including
// detail order. Surrogate detail IDs are ignored since they only exist
// after persistence.
func (o Order) Equal(other Order) bool {
	if o.OrderID != other.OrderID ||
		!o.Date.Equal(other.Date) ||
		o.Customer != other.Customer ||
		!o.NetAmount.Equal(other.NetAmount) ||
		len(o.Details) != len(other.Details) {
		return false
	}
	for i, d := range o.Details {
		e := other.Details[i]
		if d.Product.ProductID != e.Product.ProductID ||
			d.Product.Name != e.Product.Name ||
			!d.Product.Rate.Equal(e.Product.Rate) ||
			d.Qty != e.Qty ||
			!d.Rate.Equal(e.Rate) ||
			!d.Amount.Equal(e.Amount) {
			return false
		}
	}
	return true
}
