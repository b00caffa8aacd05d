package postgres

import (
	"context"
	"errors"
	"fmt"

	"caribay-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) domain.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, tracking_code, customer_name, customer_email, customer_phone,
	payment_method, payment_proof_path, total_amount, status, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.TrackingCode, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.PaymentMethod, &o.PaymentProofPath, &o.TotalAmount, &o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) GetAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	where := `WHERE 1=1`
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (tracking_code ILIKE $%d OR customer_name ILIKE $%d OR customer_email ILIKE $%d)`, n, n, n)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf(
		`SELECT `+orderColumns+` FROM orders %s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.TrackingCode, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
			&o.PaymentMethod, &o.PaymentProofPath, &o.TotalAmount, &o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

func (r *orderRepository) GetItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, order_id, product_name, product_sku, product_price, quantity, subtotal
		 FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductName, &it.ProductSKU, &it.ProductPrice, &it.Quantity, &it.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderRepository) SetPaymentProofPath(ctx context.Context, id, path string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET payment_proof_path = $2, updated_at = now() WHERE id = $1`, id, path)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
