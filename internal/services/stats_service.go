package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"trznica/internal/caching"
	"trznica/internal/common"
	"trznica/internal/repositories"

	"github.com/google/uuid"
)

const (
	statsCacheTTL       = 2 * time.Minute
	publicStatsKey      = "trznica:stats:public"
	publicStatsCacheTTL = 5 * time.Minute
)

// StatsService aggregates the dashboard headline numbers. Results are
// cached briefly; the write paths invalidate on change.
type StatsService interface {
	FarmerStats(ctx context.Context, userID uuid.UUID) (map[string]any, error)
	ConsumerStats(ctx context.Context, userID uuid.UUID) (map[string]any, error)
	// PublicStats returns the landing-page counts: farms, listed
	// products and orders placed.
	PublicStats(ctx context.Context) (map[string]any, error)
}

type statsService struct {
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	productRepo   repositories.ProductRepository
	farmRepo      repositories.FarmRepository
	favoriteRepo  repositories.FavoriteRepository
	reviewRepo    repositories.ReviewRepository
	cacheSvc      caching.CacheService
}

func NewStatsService(
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	productRepo repositories.ProductRepository,
	farmRepo repositories.FarmRepository,
	favoriteRepo repositories.FavoriteRepository,
	reviewRepo repositories.ReviewRepository,
	cacheSvc caching.CacheService,
) StatsService {
	return &statsService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		productRepo:   productRepo,
		farmRepo:      farmRepo,
		favoriteRepo:  favoriteRepo,
		reviewRepo:    reviewRepo,
		cacheSvc:      cacheSvc,
	}
}

func (s *statsService) FarmerStats(ctx context.Context, userID uuid.UUID) (map[string]any, error) {
	if cached := s.cachedStats(ctx, userID); cached != nil {
		return cached, nil
	}

	farm, err := s.farmRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, fmt.Errorf("Najprej ustvarite kmetijo: %w", common.ErrForbidden)
	}

	productCount, err := s.productRepo.CountByFarm(ctx, farm.ID)
	if err != nil {
		return nil, err
	}
	revenue, itemsSold, err := s.orderItemRepo.FarmRevenue(ctx, farm.ID)
	if err != nil {
		return nil, err
	}
	rating, reviewCount, err := s.reviewRepo.FarmRating(ctx, farm.ID)
	if err != nil {
		return nil, err
	}

	stats := map[string]any{
		"productCount": productCount,
		"itemsSold":    itemsSold,
		"totalRevenue": revenue,
		"avgRating":    rating,
		"reviewCount":  reviewCount,
	}
	s.storeStats(ctx, userID, stats)
	return stats, nil
}

func (s *statsService) ConsumerStats(ctx context.Context, userID uuid.UUID) (map[string]any, error) {
	if cached := s.cachedStats(ctx, userID); cached != nil {
		return cached, nil
	}

	totalOrders, err := s.orderRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	activeOrders, err := s.orderRepo.CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	favorites, err := s.favoriteRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := map[string]any{
		"totalOrders":  totalOrders,
		"activeOrders": activeOrders,
		"favorites":    favorites,
	}
	s.storeStats(ctx, userID, stats)
	return stats, nil
}

func (s *statsService) PublicStats(ctx context.Context) (map[string]any, error) {
	if cached, err := s.cacheSvc.GetString(ctx, publicStatsKey); err == nil && cached != "" {
		var stats map[string]any
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return stats, nil
		}
	}

	farms, err := s.farmRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.CountAvailable(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := map[string]any{
		"farms":    farms,
		"products": products,
		"orders":   orders,
	}
	if data, err := json.Marshal(stats); err == nil {
		if err := s.cacheSvc.SetString(ctx, publicStatsKey, string(data), publicStatsCacheTTL); err != nil {
			log.Printf("Public stats cache write failed: %v", err)
		}
	}
	return stats, nil
}

func (s *statsService) cachedStats(ctx context.Context, userID uuid.UUID) map[string]any {
	cached, err := s.cacheSvc.GetStats(ctx, userID)
	if err != nil {
		log.Printf("Stats cache read failed %s: %v", userID, err)
		return nil
	}
	return cached
}

func (s *statsService) storeStats(ctx context.Context, userID uuid.UUID, stats map[string]any) {
	if err := s.cacheSvc.SetStats(ctx, userID, stats, statsCacheTTL); err != nil {
		log.Printf("Stats cache write failed %s: %v", userID, err)
	}
}
