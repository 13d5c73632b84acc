package services

import (
	"context"
	"time"

	"trznica/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository mocks repositories.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithItems(ctx context.Context, order *models.Order, items []*models.OrderItem) error {
	args := m.Called(ctx, order, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Order, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockProductRepository mocks repositories.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetDetail(ctx context.Context, id uuid.UUID) (*models.CatalogProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogProduct), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) ListByFarm(ctx context.Context, farmID uuid.UUID) ([]*models.Product, error) {
	args := m.Called(ctx, farmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) ListAvailableByFarm(ctx context.Context, farmID uuid.UUID) ([]*models.Product, error) {
	args := m.Called(ctx, farmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) Catalog(ctx context.Context, filter models.CatalogFilter) ([]*models.CatalogProduct, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.CatalogProduct), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) ListAvailableByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.CheckoutProduct, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CheckoutProduct), args.Error(1)
}

func (m *MockProductRepository) UpdateImage(ctx context.Context, id uuid.UUID, objectName string) error {
	args := m.Called(ctx, id, objectName)
	return args.Error(0)
}

func (m *MockProductRepository) ListLowStock(ctx context.Context, threshold int) ([]*models.LowStockProduct, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LowStockProduct), args.Error(1)
}

func (m *MockProductRepository) CountByFarm(ctx context.Context, farmID uuid.UUID) (int, error) {
	args := m.Called(ctx, farmID)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) CountAvailable(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockOrderItemRepository mocks repositories.OrderItemRepository.
type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) ListDetailByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItemDetail, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OrderItemDetail), args.Error(1)
}

func (m *MockOrderItemRepository) ListFarmRows(ctx context.Context, farmID uuid.UUID, limit int) ([]*models.FarmOrderRow, error) {
	args := m.Called(ctx, farmID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FarmOrderRow), args.Error(1)
}

func (m *MockOrderItemRepository) HasFarmItem(ctx context.Context, orderID, farmID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orderID, farmID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderItemRepository) FarmRevenue(ctx context.Context, farmID uuid.UUID) (float64, int, error) {
	args := m.Called(ctx, farmID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

// MockFarmRepository mocks repositories.FarmRepository.
type MockFarmRepository struct {
	mock.Mock
}

func (m *MockFarmRepository) Create(ctx context.Context, farm *models.Farm) error {
	args := m.Called(ctx, farm)
	return args.Error(0)
}

func (m *MockFarmRepository) Update(ctx context.Context, farm *models.Farm) error {
	args := m.Called(ctx, farm)
	return args.Error(0)
}

func (m *MockFarmRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Farm), args.Error(1)
}

func (m *MockFarmRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Farm, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Farm), args.Error(1)
}

func (m *MockFarmRepository) ListWithRating(ctx context.Context, limit, offset int) ([]*models.FarmWithRating, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FarmWithRating), args.Error(1)
}

func (m *MockFarmRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockUserRepository mocks repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) error {
	args := m.Called(ctx, id, name, email)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockFavoriteRepository mocks repositories.FavoriteRepository.
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) ListProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockFavoriteRepository) Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) Create(ctx context.Context, userID, productID uuid.UUID) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockReviewRepository mocks repositories.ReviewRepository.
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) FarmRating(ctx context.Context, farmID uuid.UUID) (float64, int, error) {
	args := m.Called(ctx, farmID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

// MockCacheService mocks caching.CacheService.
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProductDetail(ctx context.Context, productID uuid.UUID) (*models.CatalogProduct, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogProduct), args.Error(1)
}

func (m *MockCacheService) SetProductDetail(ctx context.Context, product *models.CatalogProduct, ttl time.Duration) error {
	args := m.Called(ctx, product, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteProductDetail(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockCacheService) GetStats(ctx context.Context, userID uuid.UUID) (map[string]any, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockCacheService) SetStats(ctx context.Context, userID uuid.UUID, stats map[string]any, ttl time.Duration) error {
	args := m.Called(ctx, userID, stats, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteStats(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
