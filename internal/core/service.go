package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/SalesOrders/internal/domain"
	"github.com/JonMunkholm/SalesOrders/internal/metrics"
	"github.com/JonMunkholm/SalesOrders/internal/reconcile"
	"github.com/JonMunkholm/SalesOrders/internal/sheet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput marks an order creation request rejected by input
// validation, before any id is assigned or anything is persisted.
var ErrInvalidInput = errors.New("invalid order input")

// Service wires the sheet codec, the reconciler and the repository.
type Service struct {
	repo       OrderRepository
	metrics    *metrics.Registry
	importPath string
	exportPath string
}

// NewService creates the order service. The metrics registry may be nil
// (tests); counters are then skipped.
func NewService(repo OrderRepository, reg *metrics.Registry, importPath, exportPath string) *Service {
	return &Service{
		repo:       repo,
		metrics:    reg,
		importPath: importPath,
		exportPath: exportPath,
	}
}

// ListOrders returns all persisted orders, eagerly resolved.
func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListOrders(ctx)
}

// Import reads the well-known import sheet, decodes it, validates the
// arithmetic invariants of every aggregate, reconciles against persisted
// state and inserts the accepted orders.
//
// A decode failure aborts the whole run with zero writes. Orders failing
// the invariant check or an individual insert are reported in
// ImportResult.Failed; duplicates land in SkippedIDs. Running the same
// file twice inserts on the first run and skips everything on the second.
func (s *Service) Import(ctx context.Context) (*ImportResult, error) {
	start := time.Now()
	result := &ImportResult{
		RunID: uuid.NewString(),
		File:  s.importPath,
	}
	logger := slog.With("run_id", result.RunID, "file", s.importPath)

	rows, err := sheet.ReadFile(s.importPath)
	if err != nil {
		s.countImportFailure()
		return nil, err
	}
	if len(rows) > 0 {
		result.RowsRead = len(rows) - 1
	}

	orders, err := sheet.Decode(rows)
	if err != nil {
		s.countImportFailure()
		return nil, err
	}
	result.Decoded = len(orders)
	if s.metrics != nil {
		s.metrics.RowsDecoded.Add(float64(result.RowsRead))
	}

	// Caller-side invariant check: sheet totals are never trusted for
	// financial use without it.
	valid := orders[:0:0]
	for _, o := range orders {
		if err := domain.ValidateOrder(o); err != nil {
			result.Failed = append(result.Failed, OrderIssue{OrderID: o.OrderID, Reason: err.Error()})
			continue
		}
		valid = append(valid, o)
	}

	plan, err := reconcile.Build(ctx, valid, s.repo.OrderExists)
	if err != nil {
		s.countImportFailure()
		return nil, fmt.Errorf("reconcile: %w", err)
	}
	result.SkippedIDs = plan.SkippedIDs

	for _, o := range plan.ToInsert {
		if err := s.repo.InsertOrder(ctx, o); err != nil {
			logger.Error("order insert failed", "order_id", o.OrderID, "error", err)
			result.Failed = append(result.Failed, OrderIssue{OrderID: o.OrderID, Reason: err.Error()})
			continue
		}
		result.Inserted++
	}

	result.Duration = time.Since(start)
	if s.metrics != nil {
		s.metrics.OrdersInserted.Add(float64(result.Inserted))
		s.metrics.OrdersSkipped.Add(float64(len(result.SkippedIDs)))
		s.metrics.OrdersRejected.Add(float64(len(result.Failed)))
		s.metrics.ImportSeconds.Observe(result.Duration.Seconds())
	}
	logger.Info("import finished",
		"decoded", result.Decoded,
		"inserted", result.Inserted,
		"skipped", len(result.SkippedIDs),
		"failed", len(result.Failed),
		"duration", result.Duration,
	)
	return result, nil
}

// Export lists all persisted orders, flattens them and replaces the
// well-known export sheet atomically. Re-running overwrites the previous
// output.
func (s *Service) Export(ctx context.Context) (*ExportResult, error) {
	start := time.Now()
	result := &ExportResult{
		RunID: uuid.NewString(),
		File:  s.exportPath,
	}

	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		s.countExportFailure()
		return nil, fmt.Errorf("list orders: %w", err)
	}
	result.Orders = len(orders)

	rows, emptyIDs := sheet.Encode(orders)
	result.Rows = len(rows) - 1
	result.EmptyOrderIDs = emptyIDs

	if err := sheet.WriteFile(s.exportPath, rows); err != nil {
		s.countExportFailure()
		return nil, err
	}

	result.Duration = time.Since(start)
	if s.metrics != nil {
		s.metrics.ExportSeconds.Observe(result.Duration.Seconds())
	}
	slog.Info("export finished",
		"run_id", result.RunID,
		"file", s.exportPath,
		"orders", result.Orders,
		"rows", result.Rows,
		"empty_orders", len(emptyIDs),
		"duration", result.Duration,
	)
	return result, nil
}

// CreateOrder builds and persists an interactively created order. The id
// comes from the repository's atomic counter, each line amount is the
// creation-time Qty x Rate snapshot, and NetAmount is the detail sum, so
// the aggregate satisfies its invariants by construction.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	if err := validateCreateInput(in); err != nil {
		return domain.Order{}, err
	}

	orderID, err := s.repo.NextOrderID(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("assign order id: %w", err)
	}

	order := domain.Order{
		OrderID:  orderID,
		Date:     in.Date,
		Customer: domain.Customer{CustomerID: in.CustomerID, Name: in.CustomerName},
	}
	net := decimal.Zero
	for _, d := range in.Details {
		amount := d.Rate.Mul(decimal.NewFromInt(int64(d.Qty)))
		order.Details = append(order.Details, domain.OrderDetail{
			Product: domain.Product{
				ProductID: d.ProductID,
				Name:      d.ProductName,
				Rate:      d.ProductRate,
			},
			Qty:    d.Qty,
			Rate:   d.Rate,
			Amount: amount,
		})
		net = net.Add(amount)
	}
	order.NetAmount = net

	if err := s.repo.InsertOrder(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("insert order %d: %w", orderID, err)
	}

	slog.Info("order created", "order_id", orderID, "customer_id", in.CustomerID, "details", len(in.Details))
	return order, nil
}

func validateCreateInput(in CreateOrderInput) error {
	if in.CustomerID <= 0 {
		return fmt.Errorf("%w: customer id must be positive", ErrInvalidInput)
	}
	if in.CustomerName == "" {
		return fmt.Errorf("%w: customer name must not be empty", ErrInvalidInput)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if len(in.Details) == 0 {
		return fmt.Errorf("%w: order needs at least one detail line", ErrInvalidInput)
	}
	for i, d := range in.Details {
		switch {
		case d.ProductID <= 0:
			return fmt.Errorf("%w: detail %d: product id must be positive", ErrInvalidInput, i)
		case d.ProductName == "":
			return fmt.Errorf("%w: detail %d: product name must not be empty", ErrInvalidInput, i)
		case d.ProductRate.IsNegative():
			return fmt.Errorf("%w: detail %d: product rate must be non-negative", ErrInvalidInput, i)
		case d.Qty <= 0:
			return fmt.Errorf("%w: detail %d: qty must be positive", ErrInvalidInput, i)
		case d.Rate.IsNegative():
			return fmt.Errorf("%w: detail %d: rate must be non-negative", ErrInvalidInput, i)
		}
	}
	return nil
}

func (s *Service) countImportFailure() {
	if s.metrics != nil {
		s.metrics.ImportFailures.Inc()
	}
}

func (s *Service) countExportFailure() {
	if s.metrics != nil {
		s.metrics.ExportFailures.Inc()
	}
}
