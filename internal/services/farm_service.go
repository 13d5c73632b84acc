package services

import (
	"context"
	"fmt"

	"trznica/internal/common"
	"trznica/internal/models"
	"trznica/internal/repositories"

	"github.com/google/uuid"
)

// FarmDetail is the public farm page: the farm, its review rating and
// its available products.
type FarmDetail struct {
	models.FarmWithRating
	Products []*models.Product `json:"products"`
}

type FarmService interface {
	List(ctx context.Context, limit, offset int) ([]*models.FarmWithRating, error)
	GetFarm(ctx context.Context, farmID uuid.UUID) (*FarmDetail, error)
	// GetMyFarm returns (nil, nil) when the farmer has not created a
	// farm profile yet.
	GetMyFarm(ctx context.Context, userID uuid.UUID) (*models.Farm, error)
	// Upsert creates the caller's farm profile on first call and
	// updates it afterwards. FARMER only; one farm per account.
	Upsert(ctx context.Context, userID uuid.UUID, role string, farm *models.Farm) (*models.Farm, error)
}

type farmService struct {
	farmRepo    repositories.FarmRepository
	productRepo repositories.ProductRepository
	reviewRepo  repositories.ReviewRepository
}

func NewFarmService(farmRepo repositories.FarmRepository, productRepo repositories.ProductRepository, reviewRepo repositories.ReviewRepository) FarmService {
	return &farmService{farmRepo: farmRepo, productRepo: productRepo, reviewRepo: reviewRepo}
}

func (s *farmService) List(ctx context.Context, limit, offset int) ([]*models.FarmWithRating, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.farmRepo.ListWithRating(ctx, limit, offset)
}

func (s *farmService) GetFarm(ctx context.Context, farmID uuid.UUID) (*FarmDetail, error) {
	farm, err := s.farmRepo.GetByID(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, fmt.Errorf("Kmetija ni najdena: %w", common.ErrNotFound)
	}

	rating, count, err := s.reviewRepo.FarmRating(ctx, farmID)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.ListAvailableByFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}
	return &FarmDetail{
		FarmWithRating: models.FarmWithRating{Farm: *farm, Rating: rating, TotalReviews: count},
		Products:       products,
	}, nil
}

func (s *farmService) GetMyFarm(ctx context.Context, userID uuid.UUID) (*models.Farm, error) {
	return s.farmRepo.GetByUserID(ctx, userID)
}

func (s *farmService) Upsert(ctx context.Context, userID uuid.UUID, role string, farm *models.Farm) (*models.Farm, error) {
	if role != models.RoleFarmer {
		return nil, fmt.Errorf("Samo kmetje lahko urejajo kmetijo: %w", common.ErrForbidden)
	}
	if err := common.ValidateRequiredString(farm.Name, "name"); err != nil {
		return nil, fmt.Errorf("Ime kmetije je obvezno: %w", common.ErrValidation)
	}
	if common.ValidateRequiredString(farm.Address, "address") != nil ||
		common.ValidateRequiredString(farm.City, "city") != nil ||
		common.ValidateRequiredString(farm.PostalCode, "postal_code") != nil {
		return nil, fmt.Errorf("Naslov, mesto in postna stevilka so obvezni: %w", common.ErrValidation)
	}

	existing, err := s.farmRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		farm.ID = uuid.New()
		farm.UserID = userID
		farm.Verified = false
		if err := s.farmRepo.Create(ctx, farm); err != nil {
			return nil, err
		}
		return farm, nil
	}

	// Verification status is admin-managed and survives profile edits.
	farm.ID = existing.ID
	farm.UserID = userID
	farm.Verified = existing.Verified
	if err := s.farmRepo.Update(ctx, farm); err != nil {
		return nil, err
	}
	return farm, nil
}
