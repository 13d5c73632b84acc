package services

import (
	"context"
	"errors"
	"testing"

	"trznica/internal/common"
	"trznica/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CheckoutServiceTestSuite struct {
	suite.Suite
	orderRepo   *MockOrderRepository
	productRepo *MockProductRepository
	cacheSvc    *MockCacheService
	service     CheckoutService
}

func (suite *CheckoutServiceTestSuite) SetupTest() {
	suite.orderRepo = &MockOrderRepository{}
	suite.productRepo = &MockProductRepository{}
	suite.cacheSvc = &MockCacheService{}
	suite.service = NewCheckoutService(suite.orderRepo, suite.productRepo, suite.cacheSvc)

	suite.orderRepo.Test(suite.T())
	suite.productRepo.Test(suite.T())
	suite.cacheSvc.Test(suite.T())
}

func (suite *CheckoutServiceTestSuite) TearDownTest() {
	suite.orderRepo.AssertExpectations(suite.T())
	suite.productRepo.AssertExpectations(suite.T())
	suite.cacheSvc.AssertExpectations(suite.T())
}

func TestCheckoutServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceTestSuite))
}

func validCheckoutRequest(items ...CheckoutItem) *CheckoutRequest {
	return &CheckoutRequest{
		Items:           items,
		DeliveryAddress: "Trzaska cesta 1",
		DeliveryCity:    "Ljubljana",
		DeliveryPostal:  "1000",
		Phone:           "041123456",
	}
}

func (suite *CheckoutServiceTestSuite) TestPlaceOrder_EmptyCart() {
	_, err := suite.service.PlaceOrder(context.Background(), uuid.New(), validCheckoutRequest())

	suite.ErrorIs(err, common.ErrValidation)
	suite.Contains(err.Error(), "Kosarca je prazna")
}

func (suite *CheckoutServiceTestSuite) TestPlaceOrder_MissingDelivery() {
	req := validCheckoutRequest(CheckoutItem{ProductID: uuid.New(), Quantity: 1})
	req.DeliveryCity = "   "

	_, err := suite.service.PlaceOrder(context.Background(), uuid.New(), req)

	suite.ErrorIs(err, common.ErrValidation)
}

func (suite *CheckoutServiceTestSuite) TestPlaceOrder_NonPositiveQuantity() {
	for _, qty := range []int{0, -3} {
		req := validCheckoutRequest(CheckoutItem{ProductID: uuid.New(), Quantity: qty})

		_, err := suite.service.PlaceOrder(context.Background(), uuid.New(), req)

		suite.ErrorIs(err, common.ErrValidation)
	}
}

func (suite *CheckoutServiceTestSuite) TestPlaceOrder_ProductUnavailable() {
	ctx := context.Background()
	productID := uuid.New()
	req := validCheckoutRequest(CheckoutItem{ProductID: productID, Quantity: 1})

	// An unavailable or unknown product is simply absent from the
	// checkout view.
	suite.productRepo.On("ListAvailableByIDs", ctx, []uuid.UUID{productID}).
		Return([]*models.CheckoutProduct{}, nil)

	_, err := suite.service.PlaceOrder(ctx, uuid.New(), req)

	suite.ErrorIs(err, common.ErrProductUnavailable)
}

func (suite *CheckoutServiceTestSuite) TestPlaceOrder_InsufficientStock() {
	ctx := context.Background()
	productID := uuid.New()
	req := validCheckoutRequest(CheckoutItem{ProductID: productID, Quantity: 10})

	suite.productRepo.On("ListAvailableByIDs", ctx, []uuid.UUID{productID}).
		Return([]*models.CheckoutProduct{
			{ID: productID, Name: "Jabolka", Unit: "kg", Price: 1.80, Stock: 4, FarmName: "Kmetija Novak"},
		}, nil)

	_, err := suite.service.PlaceOrder(ctx, uuid.New(), req)

	suite.ErrorIs(err, common.ErrInsufficientStock)
	suite.Contains(err.Error(), "Jabolka")
}

func (suite *CheckoutServiceTestSuite) TestPlaceOrder_Success() {
	ctx := context.Background()
	userID := uuid.New()
	apples := uuid.New()
	honey := uuid.New()
	req := validCheckoutRequest(
		CheckoutItem{ProductID: apples, Quantity: 2},
		CheckoutItem{ProductID: honey, Quantity: 3},
	)

	suite.productRepo.On("ListAvailableByIDs", ctx, []uuid.UUID{apples, honey}).
		Return([]*models.CheckoutProduct{
			{ID: apples, Name: "Jabolka", Unit: "kg", Price: 1.80, Stock: 20, FarmName: "Kmetija Novak"},
			{ID: honey, Name: "Med", Unit: "kozarec", Price: 7.50, Stock: 5, FarmName: "Cebelarstvo Kos"},
		}, nil)
	suite.orderRepo.On("CreateWithItems", ctx, mock.AnythingOfType("*models.Order"), mock.AnythingOfType("[]*models.OrderItem")).
		Return(nil)
	suite.cacheSvc.On("DeleteProductDetail", ctx, apples).Return(nil)
	suite.cacheSvc.On("DeleteProductDetail", ctx, honey).Return(nil)
	suite.cacheSvc.On("DeleteStats", ctx, userID).Return(nil)

	order, err := suite.service.PlaceOrder(ctx, userID, req)

	suite.NoError(err)
	suite.Equal(models.OrderStatusPending, order.Status)
	suite.Equal(userID, order.UserID)
	// Total comes from database prices: 2*1.80 + 3*7.50.
	suite.InDelta(26.10, order.TotalAmount, 0.001)
	suite.Len(order.Items, 2)
	suite.Equal("Jabolka", order.Items[0].ProductName)
	suite.InDelta(1.80, order.Items[0].Price, 0.001)
	suite.Equal("Cebelarstvo Kos", order.Items[1].FarmName)
}

func (suite *CheckoutServiceTestSuite) TestPlaceOrder_MergesDuplicateLines() {
	ctx := context.Background()
	userID := uuid.New()
	apples := uuid.New()
	req := validCheckoutRequest(
		CheckoutItem{ProductID: apples, Quantity: 2},
		CheckoutItem{ProductID: apples, Quantity: 3},
	)

	suite.productRepo.On("ListAvailableByIDs", ctx, []uuid.UUID{apples}).
		Return([]*models.CheckoutProduct{
			{ID: apples, Name: "Jabolka", Unit: "kg", Price: 2.00, Stock: 10, FarmName: "Kmetija Novak"},
		}, nil)
	suite.orderRepo.On("CreateWithItems", ctx, mock.AnythingOfType("*models.Order"), mock.MatchedBy(func(items []*models.OrderItem) bool {
		return len(items) == 1 && items[0].Quantity == 5
	})).Return(nil)
	suite.cacheSvc.On("DeleteProductDetail", ctx, apples).Return(nil)
	suite.cacheSvc.On("DeleteStats", ctx, userID).Return(nil)

	order, err := suite.service.PlaceOrder(ctx, userID, req)

	suite.NoError(err)
	suite.InDelta(10.00, order.TotalAmount, 0.001)
}

func (suite *CheckoutServiceTestSuite) TestPlaceOrder_TransactionFailurePropagates() {
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	req := validCheckoutRequest(CheckoutItem{ProductID: productID, Quantity: 1})

	suite.productRepo.On("ListAvailableByIDs", ctx, []uuid.UUID{productID}).
		Return([]*models.CheckoutProduct{
			{ID: productID, Name: "Sir", Unit: "kos", Price: 4.20, Stock: 3, FarmName: "Sirarna Oblak"},
		}, nil)
	// A concurrent checkout consumed the stock between the read and
	// the transaction.
	suite.orderRepo.On("CreateWithItems", ctx, mock.Anything, mock.Anything).
		Return(errors.New("nezadostna zaloga za Sir: insufficient stock"))

	_, err := suite.service.PlaceOrder(ctx, userID, req)

	suite.Error(err)
	suite.cacheSvc.AssertNotCalled(suite.T(), "DeleteProductDetail", mock.Anything, mock.Anything)
}
