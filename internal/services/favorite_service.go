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

type FavoriteService interface {
	// Toggle bookmarks the product for the user, or removes the
	// bookmark if one exists. Returns the resulting state.
	Toggle(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.CatalogProduct, error)
}

type favoriteService struct {
	favoriteRepo repositories.FavoriteRepository
	productRepo  repositories.ProductRepository
	cacheSvc     caching.CacheService
}

func NewFavoriteService(favoriteRepo repositories.FavoriteRepository, productRepo repositories.ProductRepository, cacheSvc caching.CacheService) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
		cacheSvc:     cacheSvc,
	}
}

func (s *favoriteService) Toggle(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	if product == nil {
		return false, fmt.Errorf("Izdelek ni najden: %w", common.ErrNotFound)
	}

	exists, err := s.favoriteRepo.Exists(ctx, userID, productID)
	if err != nil {
		return false, err
	}

	if exists {
		err = s.favoriteRepo.Delete(ctx, userID, productID)
	} else {
		err = s.favoriteRepo.Create(ctx, userID, productID)
	}
	if err != nil {
		return exists, err
	}

	if err := s.cacheSvc.DeleteStats(ctx, userID); err != nil {
		log.Printf("Failed to invalidate stats cache %s: %v", userID, err)
	}
	return !exists, nil
}

func (s *favoriteService) List(ctx context.Context, userID uuid.UUID) ([]*models.CatalogProduct, error) {
	ids, err := s.favoriteRepo.ListProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	products := make([]*models.CatalogProduct, 0, len(ids))
	for _, id := range ids {
		product, err := s.productRepo.GetDetail(ctx, id)
		if err != nil {
			return nil, err
		}
		// Skip bookmarks pointing at deleted products.
		if product != nil {
			products = append(products, product)
		}
	}
	return products, nil
}
