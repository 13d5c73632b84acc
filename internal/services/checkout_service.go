package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"trznica/internal/caching"
	"trznica/internal/common"
	"trznica/internal/models"
	"trznica/internal/repositories"

	"github.com/google/uuid"
)

// CheckoutItem is one cart line: the product and the desired quantity.
type CheckoutItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// CheckoutRequest carries the validated cart and delivery details into
// order placement.
type CheckoutRequest struct {
	Items           []CheckoutItem
	DeliveryAddress string
	DeliveryCity    string
	DeliveryPostal  string
	Phone           string
	Notes           *string
}

// CheckoutService turns a cart into a persisted order. Prices and the
// order total always come from the database, never from the client.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, req *CheckoutRequest) (*models.OrderDetail, error)
}

type checkoutService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	cacheSvc    caching.CacheService
}

func NewCheckoutService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, cacheSvc caching.CacheService) CheckoutService {
	return &checkoutService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cacheSvc:    cacheSvc,
	}
}

func (s *checkoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, req *CheckoutRequest) (*models.OrderDetail, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("Kosarca je prazna: %w", common.ErrValidation)
	}
	if strings.TrimSpace(req.DeliveryAddress) == "" ||
		strings.TrimSpace(req.DeliveryCity) == "" ||
		strings.TrimSpace(req.DeliveryPostal) == "" ||
		strings.TrimSpace(req.Phone) == "" {
		return nil, fmt.Errorf("Naslov, mesto, postna stevilka in telefon so obvezni: %w", common.ErrValidation)
	}

	// Merge duplicate cart lines so the stock guard sees the real
	// demand per product.
	quantities := make(map[uuid.UUID]int, len(req.Items))
	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("Kolicina mora biti vecja od nic: %w", common.ErrValidation)
		}
		if _, seen := quantities[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	available, err := s.productRepo.ListAvailableByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	products := make(map[uuid.UUID]*models.CheckoutProduct, len(available))
	for _, p := range available {
		products[p.ID] = p
	}

	var total float64
	orderID := uuid.New()
	items := make([]*models.OrderItem, 0, len(ids))
	for _, id := range ids {
		product, ok := products[id]
		if !ok {
			return nil, fmt.Errorf("Izdelek ni na voljo: %w", common.ErrProductUnavailable)
		}
		qty := quantities[id]
		// Advisory pre-check; the transaction re-checks under the
		// conditional update so a concurrent order cannot slip past.
		if product.Stock < qty {
			return nil, fmt.Errorf("Nezadostna zaloga za %s: %w", product.Name, common.ErrInsufficientStock)
		}
		total += product.Price * float64(qty)
		items = append(items, &models.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: id,
			Quantity:  qty,
			Price:     product.Price,
		})
	}

	order := &models.Order{
		ID:              orderID,
		UserID:          userID,
		Status:          models.OrderStatusPending,
		TotalAmount:     total,
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		DeliveryCity:    strings.TrimSpace(req.DeliveryCity),
		DeliveryPostal:  strings.TrimSpace(req.DeliveryPostal),
		Phone:           strings.TrimSpace(req.Phone),
		Notes:           req.Notes,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.orderRepo.CreateWithItems(ctx, order, items); err != nil {
		return nil, err
	}

	// Stock changed, drop stale cached product details.
	for _, id := range ids {
		if err := s.cacheSvc.DeleteProductDetail(ctx, id); err != nil {
			log.Printf("Failed to invalidate product cache %s: %v", id, err)
		}
	}
	if err := s.cacheSvc.DeleteStats(ctx, userID); err != nil {
		log.Printf("Failed to invalidate stats cache %s: %v", userID, err)
	}

	detail := &models.OrderDetail{Order: *order}
	for _, item := range items {
		product := products[item.ProductID]
		detail.Items = append(detail.Items, &models.OrderItemDetail{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: product.Name,
			FarmName:    product.FarmName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Unit:        product.Unit,
		})
	}
	return detail, nil
}
