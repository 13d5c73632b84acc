package repositories

import (
	"context"
	"errors"
	"fmt"

	"trznica/internal/common"
	"trznica/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of *pgxpool.Pool the order repository uses.
// Declared as an interface so the transaction paths can be exercised
// with pgxmock.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type OrderRepository interface {
	// CreateWithItems persists an order and its items and decrements
	// product stock in a single transaction. The decrement is guarded
	// with "stock >= quantity" so two concurrent checkouts can never
	// drive stock below zero; a failed guard rolls everything back.
	CreateWithItems(ctx context.Context, order *models.Order, items []*models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Order, error)
	Count(ctx context.Context) (int, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	CountActiveByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type orderRepo struct {
	db PgxPool
}

func NewOrderRepository(db PgxPool) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) CreateWithItems(ctx context.Context, order *models.Order, items []*models.OrderItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}

	if err := r.createWithItemsTx(ctx, tx, order, items); err != nil {
		tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

func (r *orderRepo) createWithItemsTx(ctx context.Context, tx pgx.Tx, order *models.Order, items []*models.OrderItem) error {
	for _, item := range items {
		ct, err := tx.Exec(ctx, `
			UPDATE products
			SET stock = stock - $2, updated_at = NOW()
			WHERE id = $1 AND stock >= $2
		`, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}
		// The conditional update is the oversell guard: a concurrent
		// checkout that consumed the stock first leaves no row to update.
		if ct.RowsAffected() != 1 {
			var name string
			err := tx.QueryRow(ctx, `SELECT name FROM products WHERE id = $1`, item.ProductID).Scan(&name)
			if err != nil {
				return fmt.Errorf("izdelek ni na voljo: %w", common.ErrProductUnavailable)
			}
			return fmt.Errorf("nezadostna zaloga za %s: %w", name, common.ErrInsufficientStock)
		}
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, status, total_amount, delivery_address, delivery_city, delivery_postal, phone, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`, order.ID, order.UserID, order.Status, order.TotalAmount, order.DeliveryAddress, order.DeliveryCity, order.DeliveryPostal, order.Phone, order.Notes)
	if err != nil {
		return err
	}

	for _, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
		`, item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, user_id, status, total_amount, delivery_address, delivery_city, delivery_postal, phone, notes, created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.UserID, &order.Status, &order.TotalAmount, &order.DeliveryAddress, &order.DeliveryCity, &order.DeliveryPostal, &order.Phone, &order.Notes, &order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Order, error) {
	query := `
		SELECT id, user_id, status, total_amount, delivery_address, delivery_city, delivery_postal, phone, notes, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.TotalAmount, &order.DeliveryAddress, &order.DeliveryCity, &order.DeliveryPostal, &order.Phone, &order.Notes, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, err
}

func (r *orderRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func (r *orderRepo) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1 AND status = ANY($2)`, userID, models.ActiveOrderStatuses).Scan(&count)
	return count, err
}
