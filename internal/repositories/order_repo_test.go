package repositories

import (
	"context"
	"testing"

	"trznica/internal/common"
	"trznica/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(userID uuid.UUID) (*models.Order, []*models.OrderItem) {
	orderID := uuid.New()
	order := &models.Order{
		ID:              orderID,
		UserID:          userID,
		Status:          models.OrderStatusPending,
		TotalAmount:     9.10,
		DeliveryAddress: "Trzaska cesta 1",
		DeliveryCity:    "Ljubljana",
		DeliveryPostal:  "1000",
		Phone:           "041123456",
	}
	items := []*models.OrderItem{
		{ID: uuid.New(), OrderID: orderID, ProductID: uuid.New(), Quantity: 2, Price: 1.80},
		{ID: uuid.New(), OrderID: orderID, ProductID: uuid.New(), Quantity: 1, Price: 5.50},
	}
	return order, items
}

func TestCreateWithItems_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	order, items := newTestOrder(uuid.New())
	repo := NewOrderRepository(mock)

	mock.ExpectBegin()
	for _, item := range items {
		mock.ExpectExec("UPDATE products").
			WithArgs(item.ProductID, item.Quantity).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	}
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(order.ID, order.UserID, order.Status, order.TotalAmount, order.DeliveryAddress,
			order.DeliveryCity, order.DeliveryPostal, order.Phone, order.Notes).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	for _, item := range items {
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	err = repo.CreateWithItems(context.Background(), order, items)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithItems_InsufficientStockRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	order, items := newTestOrder(uuid.New())
	items = items[:1]
	repo := NewOrderRepository(mock)

	mock.ExpectBegin()
	// Conditional update touches no row when stock is too low.
	mock.ExpectExec("UPDATE products").
		WithArgs(items[0].ProductID, items[0].Quantity).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT name FROM products").
		WithArgs(items[0].ProductID).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Jabolka"))
	mock.ExpectRollback()

	err = repo.CreateWithItems(context.Background(), order, items)

	assert.ErrorIs(t, err, common.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Jabolka")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithItems_MissingProductRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	order, items := newTestOrder(uuid.New())
	items = items[:1]
	repo := NewOrderRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products").
		WithArgs(items[0].ProductID, items[0].Quantity).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	// The product row is gone entirely.
	mock.ExpectQuery("SELECT name FROM products").
		WithArgs(items[0].ProductID).
		WillReturnRows(pgxmock.NewRows([]string{"name"}))
	mock.ExpectRollback()

	err = repo.CreateWithItems(context.Background(), order, items)

	assert.ErrorIs(t, err, common.ErrProductUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithItems_InsertFailureRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	order, items := newTestOrder(uuid.New())
	items = items[:1]
	repo := NewOrderRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products").
		WithArgs(items[0].ProductID, items[0].Quantity).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(order.ID, order.UserID, order.Status, order.TotalAmount, order.DeliveryAddress,
			order.DeliveryCity, order.DeliveryPostal, order.Phone, order.Notes).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = repo.CreateWithItems(context.Background(), order, items)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFoundReturnsNil(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepository(mock)
	orderID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs(orderID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "status", "total_amount", "delivery_address",
			"delivery_city", "delivery_postal", "phone", "notes", "created_at", "updated_at",
		}))

	order, err := repo.GetByID(context.Background(), orderID)

	assert.NoError(t, err)
	assert.Nil(t, order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepository(mock)
	orderID := uuid.New()

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(models.OrderStatusConfirmed, orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateStatus(context.Background(), orderID, models.OrderStatusConfirmed)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
