package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func validOrder() Order {
	return Order{
		OrderID:   1,
		Date:      time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Customer:  Customer{CustomerID: 10, Name: "Acme"},
		NetAmount: dec("45"),
		Details: []OrderDetail{
			{
				Product: Product{ProductID: 100, Name: "Widget", Rate: dec("3")},
				Qty:     5, Rate: dec("3"), Amount: dec("15"),
			},
			{
				Product: Product{ProductID: 101, Name: "Gadget", Rate: dec("30")},
				Qty:     1, Rate: dec("30"), Amount: dec("30"),
			},
		},
	}
}

func TestValidateOrder(t *testing.T) {
	t.Run("valid order passes", func(t *testing.T) {
		if err := ValidateOrder(validOrder()); err != nil {
			t.Errorf("ValidateOrder() = %v, want nil", err)
		}
	})

	t.Run("net amount mismatch flagged", func(t *testing.T) {
		o := validOrder()
		o.NetAmount = dec("500")
		o.Details[0].Amount = dec("420")
		o.Details[0].Qty = 140 // 140 x 3 = 420, detail invariant holds

		err := ValidateOrder(o)
		var inv *InvariantViolation
		if !errors.As(err, &inv) {
			t.Fatalf("ValidateOrder() = %v, want *InvariantViolation", err)
		}
		if inv.OrderID != 1 || inv.DetailIndex != -1 {
			t.Errorf("violation = %+v, want order-level on order 1", inv)
		}
		if !inv.Got.Equal(dec("500")) || !inv.Want.Equal(dec("450")) {
			t.Errorf("got %s want %s, expected 500 vs 450", inv.Got, inv.Want)
		}
	})

	t.Run("detail amount mismatch flagged", func(t *testing.T) {
		o := validOrder()
		o.Details[1].Amount = dec("31") // 1 x 30 != 31

		err := ValidateOrder(o)
		var inv *InvariantViolation
		if !errors.As(err, &inv) {
			t.Fatalf("ValidateOrder() = %v, want *InvariantViolation", err)
		}
		if inv.DetailIndex != 1 {
			t.Errorf("DetailIndex = %d, want 1", inv.DetailIndex)
		}
		if !inv.Got.Equal(dec("31")) || !inv.Want.Equal(dec("30")) {
			t.Errorf("got %s want %s, expected 31 vs 30", inv.Got, inv.Want)
		}
	})

	t.Run("zero details requires zero net amount", func(t *testing.T) {
		o := Order{OrderID: 2, NetAmount: dec("0")}
		if err := ValidateOrder(o); err != nil {
			t.Errorf("ValidateOrder() = %v, want nil", err)
		}
		o.NetAmount = dec("10")
		if err := ValidateOrder(o); err == nil {
			t.Error("ValidateOrder() = nil, want violation for nonzero net with no details")
		}
	})

	t.Run("scale differences compare equal", func(t *testing.T) {
		o := validOrder()
		o.NetAmount = dec("45.00")
		if err := ValidateOrder(o); err != nil {
			t.Errorf("ValidateOrder() = %v, want nil (45.00 == 45)", err)
		}
	})
}

func TestOrderEqual(t *testing.T) {
	a := validOrder()
	b := validOrder()

	if !a.Equal(b) {
		t.Error("identical orders not Equal")
	}

	b.Details[1].Rate = dec("29")
	if a.Equal(b) {
		t.Error("orders with different detail rates reported Equal")
	}

	c := validOrder()
	c.Details[0].OrderDetailID = 99 // surrogate ids are ignored
	if !a.Equal(c) {
		t.Error("surrogate detail id should not affect Equal")
	}

	d := validOrder()
	d.Details = d.Details[:1]
	if a.Equal(d) {
		t.Error("orders with different detail counts reported Equal")
	}
}
