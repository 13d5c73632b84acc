package services

import (
	"context"
	"fmt"
	"log"

	"trznica/internal/caching"
	"trznica/internal/common"
	"trznica/internal/models"
	"trznica/internal/repositories"

	"github.com/google/uuid"
)

// OrderService reads orders and drives the fulfillment state machine.
type OrderService interface {
	// GetOrder returns the order with items. Only the buyer, a farmer
	// whose products appear in the order, or an admin may read it.
	GetOrder(ctx context.Context, callerID uuid.UUID, callerRole string, orderID uuid.UUID) (*models.OrderDetail, error)
	// UpdateStatus applies one fulfillment transition. Farmers may only
	// touch orders containing their products; consumers cannot change
	// order status at all.
	UpdateStatus(ctx context.Context, callerID uuid.UUID, callerRole string, orderID uuid.UUID, status string) (*models.Order, error)
	ListConsumerOrders(ctx context.Context, userID uuid.UUID, limit int) ([]*models.OrderDetail, error)
	ListFarmOrders(ctx context.Context, farmID uuid.UUID, limit int) ([]*models.FarmOrder, error)
}

type orderService struct {
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	farmRepo      repositories.FarmRepository
	cacheSvc      caching.CacheService
}

func NewOrderService(orderRepo repositories.OrderRepository, orderItemRepo repositories.OrderItemRepository, farmRepo repositories.FarmRepository, cacheSvc caching.CacheService) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		farmRepo:      farmRepo,
		cacheSvc:      cacheSvc,
	}
}

func (s *orderService) GetOrder(ctx context.Context, callerID uuid.UUID, callerRole string, orderID uuid.UUID) (*models.OrderDetail, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("Narocilo ni najdeno: %w", common.ErrNotFound)
	}

	if err := s.authorizeRead(ctx, callerID, callerRole, order); err != nil {
		return nil, err
	}

	items, err := s.orderItemRepo.ListDetailByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &models.OrderDetail{Order: *order, Items: items}, nil
}

func (s *orderService) authorizeRead(ctx context.Context, callerID uuid.UUID, callerRole string, order *models.Order) error {
	if order.UserID == callerID || callerRole == models.RoleAdmin {
		return nil
	}
	if callerRole == models.RoleFarmer {
		farm, err := s.farmRepo.GetByUserID(ctx, callerID)
		if err != nil {
			return err
		}
		if farm != nil {
			has, err := s.orderItemRepo.HasFarmItem(ctx, order.ID, farm.ID)
			if err != nil {
				return err
			}
			if has {
				return nil
			}
		}
	}
	return fmt.Errorf("Dostop zavrnjen: %w", common.ErrForbidden)
}

func (s *orderService) UpdateStatus(ctx context.Context, callerID uuid.UUID, callerRole string, orderID uuid.UUID, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, fmt.Errorf("Neveljaven status: %w", common.ErrValidation)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("Narocilo ni najdeno: %w", common.ErrNotFound)
	}

	switch callerRole {
	case models.RoleAdmin:
		// Admins may apply any valid transition.
	case models.RoleFarmer:
		farm, err := s.farmRepo.GetByUserID(ctx, callerID)
		if err != nil {
			return nil, err
		}
		if farm == nil {
			return nil, fmt.Errorf("Najprej ustvarite kmetijo: %w", common.ErrForbidden)
		}
		has, err := s.orderItemRepo.HasFarmItem(ctx, orderID, farm.ID)
		if err != nil {
			return nil, err
		}
		if !has {
			return nil, fmt.Errorf("Narocilo ne vsebuje vasih izdelkov: %w", common.ErrForbidden)
		}
	default:
		// Fulfillment is driven by farmers and admins only.
		return nil, fmt.Errorf("Dostop zavrnjen: %w", common.ErrForbidden)
	}

	if !models.CanTransitionOrderStatus(order.Status, status) {
		return nil, fmt.Errorf("Neveljaven prehod statusa %s -> %s: %w", order.Status, status, common.ErrValidation)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	order.Status = status

	if err := s.cacheSvc.DeleteStats(ctx, order.UserID); err != nil {
		log.Printf("Failed to invalidate stats cache %s: %v", order.UserID, err)
	}
	return order, nil
}

func (s *orderService) ListConsumerOrders(ctx context.Context, userID uuid.UUID, limit int) ([]*models.OrderDetail, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	details := make([]*models.OrderDetail, 0, len(orders))
	for _, order := range orders {
		items, err := s.orderItemRepo.ListDetailByOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, &models.OrderDetail{Order: *order, Items: items})
	}
	return details, nil
}

// ListFarmOrders groups the farm's order item rows into per-order
// views, preserving the newest-first row order.
func (s *orderService) ListFarmOrders(ctx context.Context, farmID uuid.UUID, limit int) ([]*models.FarmOrder, error) {
	rows, err := s.orderItemRepo.ListFarmRows(ctx, farmID, limit)
	if err != nil {
		return nil, err
	}

	byOrder := make(map[uuid.UUID]*models.FarmOrder)
	var orders []*models.FarmOrder
	for _, row := range rows {
		order, ok := byOrder[row.OrderID]
		if !ok {
			order = &models.FarmOrder{
				ID:              row.OrderID,
				Status:          row.Status,
				TotalAmount:     row.TotalAmount,
				DeliveryAddress: row.DeliveryAddress,
				DeliveryCity:    row.DeliveryCity,
				Phone:           row.Phone,
				Notes:           row.Notes,
				CreatedAt:       row.CreatedAt,
				BuyerName:       row.BuyerName,
				BuyerEmail:      row.BuyerEmail,
			}
			byOrder[row.OrderID] = order
			orders = append(orders, order)
		}
		order.Items = append(order.Items, &models.OrderItemDetail{
			ID:          row.ItemID,
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
			Price:       row.Price,
			Unit:        row.Unit,
		})
	}
	return orders, nil
}
