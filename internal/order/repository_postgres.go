package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	orderColumns = `id, user_id, order_items, shipping_info, payment_method, payment_status, order_status, items_price, shipping_price, total_price, delivered_at, created_at, updated_at`

	insertOrderQuery = `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`
	getOrderByIDQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`
	listOrdersByUserQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	listAllOrdersQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC, id DESC
	`
	updateOrderQuery = `
		UPDATE orders
		SET order_items = $2,
			shipping_info = $3,
			payment_method = $4,
			payment_status = $5,
			order_status = $6,
			items_price = $7,
			shipping_price = $8,
			total_price = $9,
			delivered_at = $10,
			updated_at = $11
		WHERE id = $1
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, o Order) (Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	items, shipping, err := marshalDocs(o)
	if err != nil {
		return Order{}, err
	}

	_, err = r.db.ExecContext(ctx, insertOrderQuery,
		o.ID, o.User, items, shipping, o.PaymentMethod, o.PaymentStatus, o.OrderStatus,
		o.ItemsPrice, o.ShippingPrice, o.TotalPrice, o.DeliveredAt, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, getOrderByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.query(ctx, listOrdersByUserQuery, userID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]Order, error) {
	return r.query(ctx, listAllOrdersQuery)
}

func (r *PostgresRepository) query(ctx context.Context, q string, args ...any) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func (r *PostgresRepository) Update(ctx context.Context, o Order) (Order, error) {
	items, shipping, err := marshalDocs(o)
	if err != nil {
		return Order{}, err
	}

	res, err := r.db.ExecContext(ctx, updateOrderQuery,
		o.ID, items, shipping, o.PaymentMethod, o.PaymentStatus, o.OrderStatus,
		o.ItemsPrice, o.ShippingPrice, o.TotalPrice, o.DeliveredAt, o.UpdatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("update order: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func marshalDocs(o Order) ([]byte, []byte, error) {
	items, err := json.Marshal(o.OrderItems)
	if err != nil {
		return nil, nil, fmt.Errorf("encode order items: %w", err)
	}
	shipping, err := json.Marshal(o.ShippingInfo)
	if err != nil {
		return nil, nil, fmt.Errorf("encode shipping info: %w", err)
	}
	return items, shipping, nil
}

func scanOrder(scanner rowScanner) (Order, error) {
	var (
		o         Order
		items     []byte
		shipping  []byte
		delivered sql.NullTime
	)
	err := scanner.Scan(&o.ID, &o.User, &items, &shipping, &o.PaymentMethod, &o.PaymentStatus, &o.OrderStatus,
		&o.ItemsPrice, &o.ShippingPrice, &o.TotalPrice, &delivered, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, err
		}
		return Order{}, fmt.Errorf("scan order: %w", err)
	}

	if err := json.Unmarshal(items, &o.OrderItems); err != nil {
		return Order{}, fmt.Errorf("decode order items: %w", err)
	}
	if err := json.Unmarshal(shipping, &o.ShippingInfo); err != nil {
		return Order{}, fmt.Errorf("decode shipping info: %w", err)
	}
	if delivered.Valid {
		t := delivered.Time
		o.DeliveredAt = &t
	}
	return o, nil
}
