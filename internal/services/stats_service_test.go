package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type StatsServiceTestSuite struct {
	suite.Suite
	orderRepo     *MockOrderRepository
	orderItemRepo *MockOrderItemRepository
	productRepo   *MockProductRepository
	farmRepo      *MockFarmRepository
	favoriteRepo  *MockFavoriteRepository
	reviewRepo    *MockReviewRepository
	cacheSvc      *MockCacheService
	service       StatsService
}

func (suite *StatsServiceTestSuite) SetupTest() {
	suite.orderRepo = &MockOrderRepository{}
	suite.orderItemRepo = &MockOrderItemRepository{}
	suite.productRepo = &MockProductRepository{}
	suite.farmRepo = &MockFarmRepository{}
	suite.favoriteRepo = &MockFavoriteRepository{}
	suite.reviewRepo = &MockReviewRepository{}
	suite.cacheSvc = &MockCacheService{}
	suite.service = NewStatsService(
		suite.orderRepo, suite.orderItemRepo, suite.productRepo,
		suite.farmRepo, suite.favoriteRepo, suite.reviewRepo, suite.cacheSvc,
	)

	suite.orderRepo.Test(suite.T())
	suite.cacheSvc.Test(suite.T())
}

func (suite *StatsServiceTestSuite) TearDownTest() {
	suite.orderRepo.AssertExpectations(suite.T())
	suite.orderItemRepo.AssertExpectations(suite.T())
	suite.productRepo.AssertExpectations(suite.T())
	suite.farmRepo.AssertExpectations(suite.T())
	suite.favoriteRepo.AssertExpectations(suite.T())
	suite.reviewRepo.AssertExpectations(suite.T())
	suite.cacheSvc.AssertExpectations(suite.T())
}

func TestStatsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceTestSuite))
}

func (suite *StatsServiceTestSuite) TestPublicStats_CountsOnCacheMiss() {
	ctx := context.Background()
	suite.cacheSvc.On("GetString", ctx, publicStatsKey).Return("", nil)
	suite.farmRepo.On("Count", ctx).Return(12, nil)
	suite.productRepo.On("CountAvailable", ctx).Return(85, nil)
	suite.orderRepo.On("Count", ctx).Return(430, nil)
	suite.cacheSvc.On("SetString", ctx, publicStatsKey, mock.AnythingOfType("string"), publicStatsCacheTTL).Return(nil)

	stats, err := suite.service.PublicStats(ctx)

	suite.NoError(err)
	suite.Equal(12, stats["farms"])
	suite.Equal(85, stats["products"])
	suite.Equal(430, stats["orders"])
}

func (suite *StatsServiceTestSuite) TestPublicStats_ServesCachedCopy() {
	ctx := context.Background()
	suite.cacheSvc.On("GetString", ctx, publicStatsKey).
		Return(`{"farms":3,"products":40,"orders":90}`, nil)

	stats, err := suite.service.PublicStats(ctx)

	suite.NoError(err)
	suite.EqualValues(3, stats["farms"])
	suite.farmRepo.AssertNotCalled(suite.T(), "Count", ctx)
	suite.orderRepo.AssertNotCalled(suite.T(), "Count", ctx)
}

func (suite *StatsServiceTestSuite) TestPublicStats_RepoErrorPropagates() {
	ctx := context.Background()
	suite.cacheSvc.On("GetString", ctx, publicStatsKey).Return("", assert.AnError)
	suite.farmRepo.On("Count", ctx).Return(0, assert.AnError)

	_, err := suite.service.PublicStats(ctx)

	suite.ErrorIs(err, assert.AnError)
}

func (suite *StatsServiceTestSuite) TestConsumerStats_CacheMissCounts() {
	ctx := context.Background()
	userID := uuid.New()
	suite.cacheSvc.On("GetStats", ctx, userID).Return(nil, nil)
	suite.orderRepo.On("CountByUser", ctx, userID).Return(7, nil)
	suite.orderRepo.On("CountActiveByUser", ctx, userID).Return(2, nil)
	suite.favoriteRepo.On("CountByUser", ctx, userID).Return(5, nil)
	suite.cacheSvc.On("SetStats", ctx, userID, mock.Anything, statsCacheTTL).Return(nil)

	stats, err := suite.service.ConsumerStats(ctx, userID)

	suite.NoError(err)
	suite.Equal(7, stats["totalOrders"])
	suite.Equal(2, stats["activeOrders"])
	suite.Equal(5, stats["favorites"])
}
