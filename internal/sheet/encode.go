package sheet

import (
	"strconv"

	"github.com/JonMunkholm/SalesOrders/internal/domain"
)

// Encode flattens orders into sheet rows: one header row, then one row per
// detail repeating the parent order's header fields. Detail order is
// preserved, so Decode(Encode(orders)) reproduces validated input exactly.
//
// An order with zero details contributes zero rows; its id is returned in
// emptyOrderIDs so callers can surface the data-quality signal instead of
// the encoder synthesizing a placeholder row.
func Encode(orders []domain.Order) (rows [][]string, emptyOrderIDs []int) {
	rows = make([][]string, 0, len(orders)+1)
	header := make([]string, len(Columns))
	copy(header, Columns)
	rows = append(rows, header)

	for _, o := range orders {
		if len(o.Details) == 0 {
			emptyOrderIDs = append(emptyOrderIDs, o.OrderID)
			continue
		}
		for _, d := range o.Details {
			rows = append(rows, []string{
				strconv.Itoa(o.OrderID),
				o.Date.Format(DateLayout),
				strconv.Itoa(o.Customer.CustomerID),
				o.Customer.Name,
				o.NetAmount.String(),
				strconv.Itoa(d.Product.ProductID),
				d.Product.Name,
				d.Product.Rate.String(),
				strconv.Itoa(d.Qty),
				d.Rate.String(),
				d.Amount.String(),
			})
		}
	}
	return rows, emptyOrderIDs
}
