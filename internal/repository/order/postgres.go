package order

import (
	"context"
	"errors"
	"io"
	"log"

	"gelataria/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id::text, user_id::text, total, phone, delivery_address, delivery_city, delivery_postal_code, notes, status, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Place(ctx context.Context, in PlaceInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	d := in.Delivery
	created, err := scanOrder(tx.QueryRow(ctx, `
INSERT INTO orders (user_id, total, phone, delivery_address, delivery_city, delivery_postal_code, notes, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+orderColumns,
		in.UserID, in.Total, d.Phone, d.Address, d.City, d.PostalCode, d.Notes, string(domain.OrderPending),
	))
	if err != nil {
		r.logger.Printf("order repo: insert order user_id=%s error=%v", in.UserID, err)
		return nil, err
	}

	created.Items = make([]domain.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		var out domain.OrderItem
		err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price)
VALUES ($1, $2::uuid, $3, $4, $5)
RETURNING id::text, order_id::text, product_id::text, product_name, quantity, unit_price
`, created.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice).Scan(
			&out.ID,
			&out.OrderID,
			&out.ProductID,
			&out.ProductName,
			&out.Quantity,
			&out.UnitPrice,
		)
		if err != nil {
			r.logger.Printf("order repo: insert item order_id=%s error=%v", created.ID, err)
			return nil, err
		}
		created.Items = append(created.Items, out)
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO profiles (user_id, phone, address, city, postal_code, updated_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (user_id) DO UPDATE SET
    phone = EXCLUDED.phone,
    address = EXCLUDED.address,
    city = EXCLUDED.city,
    postal_code = EXCLUDED.postal_code,
    updated_at = now()
`, in.UserID, d.Phone, d.Address, d.City, d.PostalCode); err != nil {
		r.logger.Printf("order repo: save delivery profile user_id=%s error=%v", in.UserID, err)
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, in.UserID); err != nil {
		r.logger.Printf("order repo: clear cart user_id=%s error=%v", in.UserID, err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: placed order id=%s user_id=%s items=%d", created.ID, in.UserID, len(created.Items))
	return created, nil
}

func (r *postgresRepo) List(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error) {
	filter := ""
	if status != nil {
		filter = string(*status)
	}
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE ($1 = '' OR status = $1)
ORDER BY created_at DESC
`
	return r.listWithItems(ctx, q, filter)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	return r.listWithItems(ctx, q, userID)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	updated, err := scanOrder(r.pool.QueryRow(ctx, `
UPDATE orders
SET status = $1
WHERE id = $2
RETURNING `+orderColumns, string(status), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: update status id=%s status=%s error=%v", id, status, err)
		return nil, err
	}
	items, err := r.itemsFor(ctx, []string{updated.ID})
	if err != nil {
		return nil, err
	}
	updated.Items = items[updated.ID]
	if updated.Items == nil {
		updated.Items = []domain.OrderItem{}
	}
	return updated, nil
}

func (r *postgresRepo) Stats(ctx context.Context) (domain.OrderStats, error) {
	var s domain.OrderStats
	err := r.pool.QueryRow(ctx, `
SELECT count(*),
       count(*) FILTER (WHERE status = 'pending'),
       count(*) FILTER (WHERE status = 'preparing'),
       count(*) FILTER (WHERE status = 'ready')
FROM orders
`).Scan(&s.Total, &s.Pending, &s.Preparing, &s.Ready)
	if err != nil {
		r.logger.Printf("order repo: stats error=%v", err)
		return domain.OrderStats{}, err
	}
	return s, nil
}

func (r *postgresRepo) listWithItems(ctx context.Context, q string, arg string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	ids := []string{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []domain.OrderItem{}
		}
	}
	return orders, nil
}

func (r *postgresRepo) itemsFor(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id::text, order_id::text, product_id::text, product_name, quantity, unit_price
FROM order_items
WHERE order_id = ANY($1::uuid[])
ORDER BY product_name ASC
`, orderIDs)
	if err != nil {
		r.logger.Printf("order repo: list items orders=%d error=%v", len(orderIDs), err)
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(
			&it.ID,
			&it.OrderID,
			&it.ProductID,
			&it.ProductName,
			&it.Quantity,
			&it.UnitPrice,
		); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	if err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.Total,
		&o.Delivery.Phone,
		&o.Delivery.Address,
		&o.Delivery.City,
		&o.Delivery.PostalCode,
		&o.Delivery.Notes,
		&status,
		&o.CreatedAt,
	); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}
