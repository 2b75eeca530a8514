// Package reconcile decides which decoded orders are new against persisted
// state. The policy is intentionally coarse: whole-order dedup keyed on
// order id only. An existing order is never merged, overwritten or diffed
// against the file; content drift between the two is a documented
// limitation, not something this package papers over.
package reconcile

import (
	"context"

	"github.com/JonMunkholm/SalesOrders/internal/domain"
)

// ExistsFunc reports whether an order id is already persisted. It is the
// only storage capability this package needs, injected so planning stays
// free of ambient state.
type ExistsFunc func(ctx context.Context, orderID int) (bool, error)

// Plan partitions decoded orders for an import run.
type Plan struct {
	ToInsert   []domain.Order // new orders, in original decode order
	SkippedIDs []int          // already persisted (or repeated in this run), in encounter order
}

// Build checks each decoded order against storage. Orders whose id already
// exists are skipped entirely. Within one run an id accepted for insert
// also counts as taken, so a second group carrying the same id (the
// non-contiguous-rows case) lands in SkippedIDs instead of producing a
// duplicate insert.
func Build(ctx context.Context, orders []domain.Order, exists ExistsFunc) (Plan, error) {
	plan := Plan{}
	claimed := make(map[int]bool, len(orders))

	for _, o := range orders {
		if claimed[o.OrderID] {
			plan.SkippedIDs = append(plan.SkippedIDs, o.OrderID)
			continue
		}
		found, err := exists(ctx, o.OrderID)
		if err != nil {
			return Plan{}, err
		}
		if found {
			plan.SkippedIDs = append(plan.SkippedIDs, o.OrderID)
			continue
		}
		claimed[o.OrderID] = true
		plan.ToInsert = append(plan.ToInsert, o)
	}
	return plan, nil
}
