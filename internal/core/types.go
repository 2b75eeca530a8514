// Package core orchestrates the sheet import and export flows: decode,
// invariant validation, reconciliation against the repository, and
// persistence, with full accounting of what was inserted, skipped and
// rejected. It has no HTTP or storage-engine dependencies.
package core

import (
	"context"
	"time"

	"github.com/JonMunkholm/SalesOrders/internal/domain"
	"github.com/shopspring/decimal"
)

// OrderRepository is the narrow storage contract the core depends on.
// Implementations must return fully resolved aggregates from ListOrders;
// the core never triggers follow-up fetches. NextOrderID must be atomic
// against concurrent callers.
type OrderRepository interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	OrderExists(ctx context.Context, orderID int) (bool, error)
	NextOrderID(ctx context.Context) (int, error)
	InsertOrder(ctx context.Context, o domain.Order) error
}

// OrderIssue records one order the import could not accept, with the
// reason (invariant violation or insert failure).
type OrderIssue struct {
	OrderID int    `json:"orderId"`
	Reason  string `json:"reason"`
}

// ImportResult is the full accounting of one import run. Skipped
// duplicates and failed orders are reported, never silently dropped:
// a run with failures is not a bare success.
type ImportResult struct {
	RunID      string        `json:"runId"`
	File       string        `json:"file"`
	RowsRead   int           `json:"rowsRead"` // data rows, excluding the header
	Decoded    int           `json:"decoded"`  // order aggregates decoded
	Inserted   int           `json:"inserted"`
	SkippedIDs []int         `json:"skippedIds"` // already persisted, left untouched
	Failed     []OrderIssue  `json:"failed,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// ExportResult is the accounting of one export run. EmptyOrderIDs lists
// persisted orders that produced zero rows (no details) - a data-quality
// signal, not an error.
type ExportResult struct {
	RunID         string        `json:"runId"`
	File          string        `json:"file"`
	Orders        int           `json:"orders"`
	Rows          int           `json:"rows"` // data rows written, excluding the header
	EmptyOrderIDs []int         `json:"emptyOrderIds,omitempty"`
	Duration      time.Duration `json:"duration"`
}

// DetailInput is one line of an interactive order creation.
type DetailInput struct {
	ProductID   int             `json:"productId"`
	ProductName string          `json:"productName"`
	ProductRate decimal.Decimal `json:"productRate"`
	Qty         int             `json:"qty"`
	Rate        decimal.Decimal `json:"rate"`
}

// CreateOrderInput is an interactive order creation request. The order id
// is assigned by the repository, never by the caller.
type CreateOrderInput struct {
	Date         time.Time     `json:"date"`
	CustomerID   int           `json:"customerId"`
	CustomerName string        `json:"customerName"`
	Details      []DetailInput `json:"details"`
}
