package repositories

import (
	"context"

	"trznica/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderItemRepository interface {
	ListDetailByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItemDetail, error)
	ListFarmRows(ctx context.Context, farmID uuid.UUID, limit int) ([]*models.FarmOrderRow, error)
	HasFarmItem(ctx context.Context, orderID, farmID uuid.UUID) (bool, error)
	FarmRevenue(ctx context.Context, farmID uuid.UUID) (float64, int, error)
}

type orderItemRepo struct {
	db *pgxpool.Pool
}

func NewOrderItemRepository(db *pgxpool.Pool) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) ListDetailByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItemDetail, error) {
	query := `
		SELECT oi.id, oi.product_id, p.name, f.name, oi.quantity, oi.price, p.unit
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		JOIN farms f ON f.id = p.farm_id
		WHERE oi.order_id = $1
		ORDER BY p.name ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItemDetail
	for rows.Next() {
		item := &models.OrderItemDetail{}
		if err := rows.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.FarmName, &item.Quantity, &item.Price, &item.Unit); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListFarmRows returns order items of a farm's products joined with
// their order and buyer, newest orders first. The order service groups
// the rows per order for the farmer dashboard.
func (r *orderItemRepo) ListFarmRows(ctx context.Context, farmID uuid.UUID, limit int) ([]*models.FarmOrderRow, error) {
	query := `
		SELECT o.id, o.status, o.total_amount, o.delivery_address, o.delivery_city, o.phone, o.notes, o.created_at,
			u.name, u.email,
			oi.id, oi.product_id, p.name, p.unit, oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		JOIN orders o ON o.id = oi.order_id
		JOIN users u ON u.id = o.user_id
		WHERE p.farm_id = $1
		ORDER BY o.created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, farmID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.FarmOrderRow
	for rows.Next() {
		row := &models.FarmOrderRow{}
		if err := rows.Scan(&row.OrderID, &row.Status, &row.TotalAmount, &row.DeliveryAddress, &row.DeliveryCity, &row.Phone, &row.Notes, &row.CreatedAt,
			&row.BuyerName, &row.BuyerEmail,
			&row.ItemID, &row.ProductID, &row.ProductName, &row.Unit, &row.Quantity, &row.Price); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *orderItemRepo) HasFarmItem(ctx context.Context, orderID, farmID uuid.UUID) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM order_items oi
			JOIN products p ON p.id = oi.product_id
			WHERE oi.order_id = $1 AND p.farm_id = $2
		)
	`
	err := r.db.QueryRow(ctx, query, orderID, farmID).Scan(&exists)
	return exists, err
}

// FarmRevenue sums price*quantity over all order items of a farm's
// products and returns the item count alongside.
func (r *orderItemRepo) FarmRevenue(ctx context.Context, farmID uuid.UUID) (float64, int, error) {
	var total float64
	var count int
	query := `
		SELECT COALESCE(SUM(oi.price * oi.quantity), 0), COUNT(oi.id)
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE p.farm_id = $1
	`
	err := r.db.QueryRow(ctx, query, farmID).Scan(&total, &count)
	return total, count, err
}
