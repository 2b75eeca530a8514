package sheet

import (
	"errors"
	"testing"

	"github.com/JonMunkholm/SalesOrders/internal/domain"
	"github.com/shopspring/decimal"
)

// row builds one data row for order/detail fields in file column order.
func row(orderID, date, custID, custName, net, prodID, prodName, prodRate, qty, rate, amount string) []string {
	return []string{orderID, date, custID, custName, net, prodID, prodName, prodRate, qty, rate, amount}
}

func header() []string {
	h := make([]string, len(Columns))
	copy(h, Columns)
	return h
}

func TestDecodeGrouping(t *testing.T) {
	// Orders [A,A,B,B,B,C] as contiguous runs must yield exactly three
	// aggregates with detail counts [2,3,1] and no cross-contamination.
	rows := [][]string{
		header(),
		row("1", "2024-01-05", "10", "Acme", "45", "100", "Widget", "3.0", "5", "3.0", "15"),
		row("1", "2024-01-05", "10", "Acme", "45", "101", "Gadget", "30.0", "1", "30.0", "30"),
		row("2", "2024-01-06", "11", "Globex", "21", "102", "Sprocket", "7.0", "1", "7.0", "7"),
		row("2", "2024-01-06", "11", "Globex", "21", "100", "Widget", "3.0", "2", "3.0", "6"),
		row("2", "2024-01-06", "11", "Globex", "21", "103", "Cog", "4.0", "2", "4.0", "8"),
		row("3", "2024-01-07", "12", "Initech", "7", "102", "Sprocket", "7.0", "1", "7.0", "7"),
	}

	orders, err := Decode(rows)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(orders) != 3 {
		t.Fatalf("Decode() returned %d orders, want 3", len(orders))
	}

	wantCounts := []int{2, 3, 1}
	wantIDs := []int{1, 2, 3}
	for i, o := range orders {
		if o.OrderID != wantIDs[i] {
			t.Errorf("order[%d].OrderID = %d, want %d", i, o.OrderID, wantIDs[i])
		}
		if len(o.Details) != wantCounts[i] {
			t.Errorf("order[%d] has %d details, want %d", i, len(o.Details), wantCounts[i])
		}
	}

	// Detail order follows row order
	if orders[1].Details[0].Product.Name != "Sprocket" ||
		orders[1].Details[1].Product.Name != "Widget" ||
		orders[1].Details[2].Product.Name != "Cog" {
		t.Errorf("order 2 details out of row order: %+v", orders[1].Details)
	}
}

func TestDecodeNonContiguousRunsStaySeparate(t *testing.T) {
	// Grouping is by contiguous run: rows A,B,A produce TWO separate
	// groups for order 1. The decoder does not merge or reject them;
	// reconciliation surfaces the duplicate id downstream.
	rows := [][]string{
		header(),
		row("1", "2024-01-05", "10", "Acme", "15", "100", "Widget", "3.0", "5", "3.0", "15"),
		row("2", "2024-01-06", "11", "Globex", "7", "102", "Sprocket", "7.0", "1", "7.0", "7"),
		row("1", "2024-01-05", "10", "Acme", "30", "101", "Gadget", "30.0", "1", "30.0", "30"),
	}

	orders, err := Decode(rows)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(orders) != 3 {
		t.Fatalf("Decode() returned %d orders, want 3 (two separate groups for id 1)", len(orders))
	}
	if orders[0].OrderID != 1 || orders[1].OrderID != 2 || orders[2].OrderID != 1 {
		t.Errorf("order ids = [%d %d %d], want [1 2 1]",
			orders[0].OrderID, orders[1].OrderID, orders[2].OrderID)
	}
	if len(orders[0].Details) != 1 || len(orders[2].Details) != 1 {
		t.Errorf("both id-1 groups should carry one detail each, got %d and %d",
			len(orders[0].Details), len(orders[2].Details))
	}
}

func TestDecodeMalformedRow(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]string
		wantRow int
		wantCol string
	}{
		{
			name: "non-numeric qty",
			rows: [][]string{
				header(),
				row("1", "2024-01-05", "10", "Acme", "45", "100", "Widget", "3.0", "5", "3.0", "15"),
				row("1", "2024-01-05", "10", "Acme", "45", "101", "Gadget", "30.0", "one", "30.0", "30"),
			},
			wantRow: 3,
			wantCol: ColQty,
		},
		{
			name: "bad date",
			rows: [][]string{
				header(),
				row("1", "05/01/2024", "10", "Acme", "45", "100", "Widget", "3.0", "5", "3.0", "15"),
			},
			wantRow: 2,
			wantCol: ColDate,
		},
		{
			name: "bad net amount",
			rows: [][]string{
				header(),
				row("1", "2024-01-05", "10", "Acme", "abc", "100", "Widget", "3.0", "5", "3.0", "15"),
			},
			wantRow: 2,
			wantCol: ColNetAmount,
		},
		{
			name: "empty customer name",
			rows: [][]string{
				header(),
				row("1", "2024-01-05", "10", "", "45", "100", "Widget", "3.0", "5", "3.0", "15"),
			},
			wantRow: 2,
			wantCol: ColCustomerName,
		},
		{
			name: "short row",
			rows: [][]string{
				header(),
				{"1", "2024-01-05", "10", "Acme", "45"},
			},
			wantRow: 2,
			wantCol: ColProductID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, err := Decode(tt.rows)
			if orders != nil {
				t.Errorf("Decode() returned partial result %v, want nil", orders)
			}
			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				t.Fatalf("Decode() error = %v, want *RowError", err)
			}
			if rowErr.Row != tt.wantRow {
				t.Errorf("RowError.Row = %d, want %d", rowErr.Row, tt.wantRow)
			}
			if rowErr.Column != tt.wantCol {
				t.Errorf("RowError.Column = %q, want %q", rowErr.Column, tt.wantCol)
			}
		})
	}
}

func TestDecodeEmptySheet(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
	}{
		{name: "nil rows", rows: nil},
		{name: "header only", rows: [][]string{header()}},
		{name: "header and blank rows", rows: [][]string{header(), {"", "", ""}, {" "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, err := Decode(tt.rows)
			if err != nil {
				t.Fatalf("Decode() error = %v, want nil (empty sheet is valid)", err)
			}
			if len(orders) != 0 {
				t.Errorf("Decode() = %v, want empty", orders)
			}
		})
	}
}

func TestDecodeTakesNetAmountVerbatim(t *testing.T) {
	// The scenario from the interchange contract: two detail rows whose
	// amounts sum to 45 under a stated net amount of 300. Decode must
	// carry 300 through untouched; the invariant check flags it.
	rows := [][]string{
		header(),
		row("1", "2024-01-05", "10", "Acme", "300", "100", "Widget", "3.0", "5", "3.0", "15"),
		row("1", "2024-01-05", "10", "Acme", "300", "101", "Gadget", "30.0", "1", "30.0", "30"),
	}

	orders, err := Decode(rows)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("Decode() returned %d orders, want 1", len(orders))
	}

	o := orders[0]
	if o.OrderID != 1 || o.Customer.CustomerID != 10 || o.Customer.Name != "Acme" {
		t.Errorf("order header = %+v", o)
	}
	if !o.NetAmount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("NetAmount = %s, want 300 verbatim from the file", o.NetAmount)
	}
	if len(o.Details) != 2 {
		t.Fatalf("got %d details, want 2", len(o.Details))
	}
	if o.Details[0].Qty != 5 || !o.Details[0].Amount.Equal(decimal.NewFromInt(15)) {
		t.Errorf("detail[0] = %+v", o.Details[0])
	}
	if o.Details[1].Qty != 1 || !o.Details[1].Amount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("detail[1] = %+v", o.Details[1])
	}

	// Caller-side invariant check must surface the 300 vs 45 mismatch.
	vErr := domain.ValidateOrder(o)
	var inv *domain.InvariantViolation
	if !errors.As(vErr, &inv) {
		t.Fatalf("ValidateOrder() = %v, want *InvariantViolation", vErr)
	}
	if inv.DetailIndex != -1 {
		t.Errorf("violation at detail %d, want order-level (-1)", inv.DetailIndex)
	}
	if !inv.Got.Equal(decimal.NewFromInt(300)) || !inv.Want.Equal(decimal.NewFromInt(45)) {
		t.Errorf("violation got %s want %s, expected 300 vs 45", inv.Got, inv.Want)
	}
}
