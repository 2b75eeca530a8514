// Package sheet maps between the flat 11-column order sheet and the
// hierarchical order aggregate. One data row carries one detail line plus
// a repeated copy of its parent order's header fields; contiguous rows
// sharing an order id form one aggregate.
package sheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/SalesOrders/internal/domain"
	"github.com/shopspring/decimal"
)

// Column titles in fixed file order. The header row is skipped
// structurally; the titles exist for human labeling and error context.
const (
	ColOrderID      = "Order ID"
	ColDate         = "Date"
	ColCustomerID   = "Customer ID"
	ColCustomerName = "Customer Name"
	ColNetAmount    = "Net Amount"
	ColProductID    = "Product ID"
	ColProductName  = "Product Name"
	ColProductRate  = "Product Rate"
	ColQty          = "Qty"
	ColRate         = "Rate"
	ColAmount       = "Amount"
)

// Columns lists the sheet columns in file order.
var Columns = []string{
	ColOrderID, ColDate, ColCustomerID, ColCustomerName, ColNetAmount,
	ColProductID, ColProductName, ColProductRate, ColQty, ColRate, ColAmount,
}

// DateLayout is the locale-stable calendar format used in the sheet.
const DateLayout = "2006-01-02"

// Decode parses sheet rows into order aggregates in a single linear pass.
//
// Row 0 is the header and is skipped. Grouping is by contiguous run: a row
// whose order id differs from the currently open order closes that order
// and opens a new one. A later run repeating an earlier id therefore
// produces a second, separate aggregate; reconciliation surfaces that as a
// duplicate rather than this pass guessing a merge.
//
// Any unparsable required cell fails the whole decode with a *RowError
// carrying the 1-based row number and column title. No partial result is
// returned. A sheet with no data rows decodes to an empty list, nil error.
//
// NetAmount is taken verbatim from the file; callers needing trusted
// totals must run domain.ValidateOrder on each result.
func Decode(rows [][]string) ([]domain.Order, error) {
	if len(rows) <= 1 {
		return nil, nil
	}

	var orders []domain.Order
	var open *domain.Order

	for i, row := range rows[1:] {
		fileRow := i + 2 // 1-based, after header

		if isBlankRow(row) {
			continue
		}
		if len(row) < len(Columns) {
			return nil, &RowError{
				Row:    fileRow,
				Column: Columns[len(row)],
				Err:    fmt.Errorf("row has %d columns, expected %d", len(row), len(Columns)),
			}
		}

		p := rowParser{row: row, fileRow: fileRow}

		orderID := p.intCell(0, ColOrderID)
		date := p.dateCell(1, ColDate)
		customerID := p.intCell(2, ColCustomerID)
		customerName := p.textCell(3, ColCustomerName)
		netAmount := p.decimalCell(4, ColNetAmount)

		detail := domain.OrderDetail{
			Product: domain.Product{
				ProductID: p.intCell(5, ColProductID),
				Name:      p.textCell(6, ColProductName),
				Rate:      p.decimalCell(7, ColProductRate),
			},
			Qty:    p.intCell(8, ColQty),
			Rate:   p.decimalCell(9, ColRate),
			Amount: p.decimalCell(10, ColAmount),
		}
		if p.err != nil {
			return nil, p.err
		}

		if open == nil || open.OrderID != orderID {
			if open != nil {
				orders = append(orders, *open)
			}
			open = &domain.Order{
				OrderID:   orderID,
				Date:      date,
				Customer:  domain.Customer{CustomerID: customerID, Name: customerName},
				NetAmount: netAmount,
			}
		}
		open.Details = append(open.Details, detail)
	}

	if open != nil {
		orders = append(orders, *open)
	}
	return orders, nil
}

// rowParser accumulates the first cell-level failure of a row so field
// reads can be written straight-line.
type rowParser struct {
	row     []string
	fileRow int
	err     error
}

func (p *rowParser) fail(col string, err error) {
	if p.err == nil {
		p.err = &RowError{Row: p.fileRow, Column: col, Err: err}
	}
}

func (p *rowParser) textCell(idx int, col string) string {
	s := strings.TrimSpace(p.row[idx])
	if s == "" {
		p.fail(col, fmt.Errorf("empty required field"))
	}
	return s
}

func (p *rowParser) intCell(idx int, col string) int {
	s := strings.TrimSpace(p.row[idx])
	n, err := strconv.Atoi(s)
	if err != nil {
		p.fail(col, fmt.Errorf("invalid integer %q", s))
	}
	return n
}

func (p *rowParser) decimalCell(idx int, col string) decimal.Decimal {
	s := strings.TrimSpace(p.row[idx])
	d, err := decimal.NewFromString(s)
	if err != nil {
		p.fail(col, fmt.Errorf("invalid number %q", s))
		return decimal.Zero
	}
	return d
}

func (p *rowParser) dateCell(idx int, col string) time.Time {
	s := strings.TrimSpace(p.row[idx])
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		p.fail(col, fmt.Errorf("invalid date %q, want %s", s, DateLayout))
	}
	return t
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
