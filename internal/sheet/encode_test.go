package sheet

import (
	"reflect"
	"testing"
	"time"

	"github.com/JonMunkholm/SalesOrders/internal/domain"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleOrders() []domain.Order {
	return []domain.Order{
		{
			OrderID:   1,
			Date:      date("2024-01-05"),
			Customer:  domain.Customer{CustomerID: 10, Name: "Acme"},
			NetAmount: dec("45"),
			Details: []domain.OrderDetail{
				{
					Product: domain.Product{ProductID: 100, Name: "Widget", Rate: dec("3")},
					Qty:     5, Rate: dec("3"), Amount: dec("15"),
				},
				{
					Product: domain.Product{ProductID: 101, Name: "Gadget", Rate: dec("30")},
					Qty:     1, Rate: dec("30"), Amount: dec("30"),
				},
			},
		},
		{
			OrderID:   2,
			Date:      date("2024-02-10"),
			Customer:  domain.Customer{CustomerID: 11, Name: "Globex"},
			NetAmount: dec("7.5"),
			Details: []domain.OrderDetail{
				{
					Product: domain.Product{ProductID: 102, Name: "Sprocket", Rate: dec("2.5")},
					Qty:     3, Rate: dec("2.5"), Amount: dec("7.5"),
				},
			},
		},
	}
}

func TestEncodeLayout(t *testing.T) {
	rows, emptyIDs := Encode(sampleOrders())

	if len(emptyIDs) != 0 {
		t.Errorf("emptyIDs = %v, want none", emptyIDs)
	}
	if len(rows) != 4 {
		t.Fatalf("Encode() wrote %d rows, want 4 (header + 3 details)", len(rows))
	}
	if !reflect.DeepEqual(rows[0], Columns) {
		t.Errorf("header row = %v, want %v", rows[0], Columns)
	}

	want := []string{"1", "2024-01-05", "10", "Acme", "45", "100", "Widget", "3", "5", "3", "15"}
	if !reflect.DeepEqual(rows[1], want) {
		t.Errorf("row 1 = %v, want %v", rows[1], want)
	}

	// Order header fields repeat on every detail row
	if rows[2][0] != "1" || rows[2][3] != "Acme" || rows[2][4] != "45" {
		t.Errorf("row 2 does not repeat order header fields: %v", rows[2])
	}
	if rows[3][0] != "2" || rows[3][3] != "Globex" {
		t.Errorf("row 3 = %v, want order 2 fields", rows[3])
	}
}

func TestEncodeZeroDetailOrder(t *testing.T) {
	orders := []domain.Order{
		{
			OrderID:   7,
			Date:      date("2024-03-01"),
			Customer:  domain.Customer{CustomerID: 12, Name: "Initech"},
			NetAmount: dec("0"),
		},
	}

	rows, emptyIDs := Encode(orders)

	if len(rows) != 1 {
		t.Errorf("Encode() wrote %d rows, want header only (no placeholder row)", len(rows))
	}
	if !reflect.DeepEqual(emptyIDs, []int{7}) {
		t.Errorf("emptyIDs = %v, want [7]", emptyIDs)
	}
}

func TestRoundTrip(t *testing.T) {
	// decode(encode(orders)) must reproduce the same orders field for
	// field, including detail order.
	orders := sampleOrders()

	rows, _ := Encode(orders)
	got, err := Decode(rows)
	if err != nil {
		t.Fatalf("Decode(Encode(orders)) error = %v", err)
	}

	if len(got) != len(orders) {
		t.Fatalf("round trip returned %d orders, want %d", len(got), len(orders))
	}
	for i := range orders {
		if !orders[i].Equal(got[i]) {
			t.Errorf("order[%d] round trip mismatch:\n got %+v\nwant %+v", i, got[i], orders[i])
		}
	}
}

func TestRoundTripThroughFile(t *testing.T) {
	orders := sampleOrders()
	path := t.TempDir() + "/orders.csv"

	rows, _ := Encode(orders)
	if err := WriteFile(path, rows); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	readBack, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	got, err := Decode(readBack)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if len(got) != len(orders) {
		t.Fatalf("file round trip returned %d orders, want %d", len(got), len(orders))
	}
	for i := range orders {
		if !orders[i].Equal(got[i]) {
			t.Errorf("order[%d] file round trip mismatch:\n got %+v\nwant %+v", i, got[i], orders[i])
		}
	}
}
