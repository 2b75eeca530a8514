package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/SalesOrders/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Orders is the pgx-backed order repository.
type Orders struct {
	pool *pgxpool.Pool
}

// NewOrders creates an order repository on the given pool.
func NewOrders(pool *pgxpool.Pool) *Orders {
	return &Orders{pool: pool}
}

const listOrdersSQL = `
SELECT o.order_id, o.order_date, c.customer_id, c.name, o.net_amount::text,
       d.order_detail_id, p.product_id, p.name, p.rate::text,
       d.qty, d.rate::text, d.amount::text
FROM orders o
JOIN customers c ON c.customer_id = o.customer_id
LEFT JOIN order_details d ON d.order_id = o.order_id
LEFT JOIN products p ON p.product_id = d.product_id
ORDER BY o.order_id, d.line_no`

// ListOrders returns all persisted orders with customer, details and
// products eagerly resolved, ordered by order id with details in
// insertion order. Orders without details come back with an empty
// Details slice rather than being dropped.
func (r *Orders) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var open *domain.Order

	for rows.Next() {
		var (
			orderID      int
			orderDate    time.Time
			customerID   int
			customerName string
			netAmount    string

			detailID    pgtype.Int8
			productID   pgtype.Int4
			productName pgtype.Text
			productRate pgtype.Text
			qty         pgtype.Int4
			rate        pgtype.Text
			amount      pgtype.Text
		)
		if err := rows.Scan(
			&orderID, &orderDate, &customerID, &customerName, &netAmount,
			&detailID, &productID, &productName, &productRate,
			&qty, &rate, &amount,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		if open == nil || open.OrderID != orderID {
			if open != nil {
				orders = append(orders, *open)
			}
			net, err := decimal.NewFromString(netAmount)
			if err != nil {
				return nil, fmt.Errorf("order %d: bad net amount %q: %w", orderID, netAmount, err)
			}
			open = &domain.Order{
				OrderID:   orderID,
				Date:      orderDate,
				Customer:  domain.Customer{CustomerID: customerID, Name: customerName},
				NetAmount: net,
				Details:   []domain.OrderDetail{},
			}
		}

		// LEFT JOIN: no detail row for this order
		if !detailID.Valid {
			continue
		}

		detail, err := scanDetail(detailID, productID, productName, productRate, qty, rate, amount)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", orderID, err)
		}
		open.Details = append(open.Details, detail)
	}
	if open != nil {
		orders = append(orders, *open)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func scanDetail(detailID pgtype.Int8, productID pgtype.Int4, productName, productRate pgtype.Text, qty pgtype.Int4, rate, amount pgtype.Text) (domain.OrderDetail, error) {
	prodRate, err := decimal.NewFromString(productRate.String)
	if err != nil {
		return domain.OrderDetail{}, fmt.Errorf("bad product rate %q: %w", productRate.String, err)
	}
	lineRate, err := decimal.NewFromString(rate.String)
	if err != nil {
		return domain.OrderDetail{}, fmt.Errorf("bad rate %q: %w", rate.String, err)
	}
	lineAmount, err := decimal.NewFromString(amount.String)
	if err != nil {
		return domain.OrderDetail{}, fmt.Errorf("bad amount %q: %w", amount.String, err)
	}
	return domain.OrderDetail{
		OrderDetailID: detailID.Int64,
		Product: domain.Product{
			ProductID: int(productID.Int32),
			Name:      productName.String,
			Rate:      prodRate,
		},
		Qty:    int(qty.Int32),
		Rate:   lineRate,
		Amount: lineAmount,
	}, nil
}

// OrderExists reports whether an order with the given id is persisted.
func (r *Orders) OrderExists(ctx context.Context, orderID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE order_id = $1)`, orderID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("order exists %d: %w", orderID, err)
	}
	return exists, nil
}

const nextOrderIDSQL = `
INSERT INTO order_id_counter AS c (singleton, last_id)
VALUES (TRUE, (SELECT COALESCE(MAX(order_id), 0) FROM orders) + 1)
ON CONFLICT (singleton) DO UPDATE
SET last_id = GREATEST(c.last_id + 1, EXCLUDED.last_id)
RETURNING last_id`

// NextOrderID claims the next interactive order id. The claim is a single
// atomic statement against a counter row: the conflicting insert locks the
// row, so two concurrent creations can never read the same value. The
// GREATEST keeps the counter ahead of ids brought in by imports.
func (r *Orders) NextOrderID(ctx context.Context) (int, error) {
	var id int
	if err := r.pool.QueryRow(ctx, nextOrderIDSQL).Scan(&id); err != nil {
		return 0, fmt.Errorf("next order id: %w", err)
	}
	return id, nil
}

// InsertOrder persists one aggregate in a single transaction: customer and
// products are upserted (existing reference rows win over file values),
// then the order row and its details in source order. Any failure rolls
// the whole aggregate back.
func (r *Orders) InsertOrder(ctx context.Context, o domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insert order %d: %w", o.OrderID, err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	_, err = tx.Exec(ctx,
		`INSERT INTO customers (customer_id, name) VALUES ($1, $2)
		 ON CONFLICT (customer_id) DO NOTHING`,
		o.Customer.CustomerID, o.Customer.Name,
	)
	if err != nil {
		return fmt.Errorf("upsert customer %d: %w", o.Customer.CustomerID, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (order_id, order_date, customer_id, net_amount)
		 VALUES ($1, $2, $3, $4)`,
		o.OrderID, o.Date, o.Customer.CustomerID, o.NetAmount.String(),
	)
	if err != nil {
		return fmt.Errorf("insert order %d: %w", o.OrderID, err)
	}

	for i, d := range o.Details {
		_, err = tx.Exec(ctx,
			`INSERT INTO products (product_id, name, rate) VALUES ($1, $2, $3)
			 ON CONFLICT (product_id) DO NOTHING`,
			d.Product.ProductID, d.Product.Name, d.Product.Rate.String(),
		)
		if err != nil {
			return fmt.Errorf("order %d: upsert product %d: %w", o.OrderID, d.Product.ProductID, err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO order_details (order_id, product_id, line_no, qty, rate, amount)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			o.OrderID, d.Product.ProductID, i, d.Qty, d.Rate.String(), d.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("order %d: insert detail %d: %w", o.OrderID, i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order %d: %w", o.OrderID, err)
	}
	return nil
}
