package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"trznica/internal/caching"
	"trznica/internal/common"
	"trznica/internal/models"
	"trznica/internal/repositories"

	"github.com/google/uuid"
)

const (
	productCacheTTL = 5 * time.Minute
	imageURLExpiry  = time.Hour
	maxProductPrice = 10000
	maxProductStock = 100000
)

// CatalogPage is the public catalog response: one page of products,
// the category sidebar and the total match count.
type CatalogPage struct {
	Products   []*models.CatalogProduct    `json:"products"`
	Categories []*models.CategoryWithCount `json:"categories"`
	Total      int                         `json:"total"`
}

type ProductService interface {
	Catalog(ctx context.Context, filter models.CatalogFilter) (*CatalogPage, error)
	// GetDetail returns the public product view, cache-first, with a
	// presigned image URL when an image object exists.
	GetDetail(ctx context.Context, productID uuid.UUID) (*models.CatalogProduct, error)

	// Farmer dashboard operations. All of them resolve the caller's
	// farm and enforce ownership.
	ListMine(ctx context.Context, userID uuid.UUID) ([]*models.Product, error)
	Create(ctx context.Context, userID uuid.UUID, product *models.Product) error
	Update(ctx context.Context, userID uuid.UUID, product *models.Product) error
	Delete(ctx context.Context, userID, productID uuid.UUID) error
	UploadImage(ctx context.Context, userID, productID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error)
}

type productService struct {
	productRepo repositories.ProductRepository
	farmRepo    repositories.FarmRepository
	catRepo     repositories.CategoryRepository
	cacheSvc    caching.CacheService
	minioSvc    MinioService
	bucketName  string
}

func NewProductService(productRepo repositories.ProductRepository, farmRepo repositories.FarmRepository, catRepo repositories.CategoryRepository, cacheSvc caching.CacheService, minioSvc MinioService, bucketName string) ProductService {
	return &productService{
		productRepo: productRepo,
		farmRepo:    farmRepo,
		catRepo:     catRepo,
		cacheSvc:    cacheSvc,
		minioSvc:    minioSvc,
		bucketName:  bucketName,
	}
}

func (s *productService) Catalog(ctx context.Context, filter models.CatalogFilter) (*CatalogPage, error) {
	filter.Query = common.SanitizeSearchQuery(filter.Query)
	filter.Limit, filter.Offset = common.ValidatePaginationParams(filter.Limit, filter.Offset)

	products, total, err := s.productRepo.Catalog(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		s.presignImage(ctx, p)
	}

	categories, err := s.catRepo.ListWithCounts(ctx)
	if err != nil {
		return nil, err
	}

	return &CatalogPage{Products: products, Categories: categories, Total: total}, nil
}

func (s *productService) GetDetail(ctx context.Context, productID uuid.UUID) (*models.CatalogProduct, error) {
	cached, err := s.cacheSvc.GetProductDetail(ctx, productID)
	if err != nil {
		log.Printf("Product cache read failed %s: %v", productID, err)
	}
	if cached != nil {
		s.presignImage(ctx, cached)
		return cached, nil
	}

	product, err := s.productRepo.GetDetail(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("Izdelek ni najden: %w", common.ErrNotFound)
	}

	if err := s.cacheSvc.SetProductDetail(ctx, product, productCacheTTL); err != nil {
		log.Printf("Product cache write failed %s: %v", productID, err)
	}

	s.presignImage(ctx, product)
	return product, nil
}

// presignImage swaps the stored object name for a short-lived URL.
// Presigning happens after caching so the cache never holds an
// expiring URL.
func (s *productService) presignImage(ctx context.Context, p *models.CatalogProduct) {
	if p.Image == nil || *p.Image == "" || s.minioSvc == nil {
		return
	}
	url, err := s.minioSvc.GetPresignedURL(ctx, s.bucketName, *p.Image, imageURLExpiry)
	if err != nil {
		log.Printf("Presign failed for %s: %v", *p.Image, err)
		return
	}
	p.Image = &url
}

func (s *productService) ListMine(ctx context.Context, userID uuid.UUID) ([]*models.Product, error) {
	farm, err := s.requireFarm(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.productRepo.ListByFarm(ctx, farm.ID)
}

func (s *productService) Create(ctx context.Context, userID uuid.UUID, product *models.Product) error {
	farm, err := s.requireFarm(ctx, userID)
	if err != nil {
		return err
	}
	if err := validateProduct(product); err != nil {
		return err
	}

	product.ID = uuid.New()
	product.FarmID = farm.ID
	return s.productRepo.Create(ctx, product)
}

func (s *productService) Update(ctx context.Context, userID uuid.UUID, product *models.Product) error {
	_, farm, err := s.requireOwnedProduct(ctx, userID, product.ID)
	if err != nil {
		return err
	}
	if err := validateProduct(product); err != nil {
		return err
	}
	product.FarmID = farm.ID

	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	if err := s.cacheSvc.DeleteProductDetail(ctx, product.ID); err != nil {
		log.Printf("Failed to invalidate product cache %s: %v", product.ID, err)
	}
	return nil
}

func (s *productService) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	if _, _, err := s.requireOwnedProduct(ctx, userID, productID); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}
	if err := s.cacheSvc.DeleteProductDetail(ctx, productID); err != nil {
		log.Printf("Failed to invalidate product cache %s: %v", productID, err)
	}
	return nil
}

func (s *productService) UploadImage(ctx context.Context, userID, productID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error) {
	if _, _, err := s.requireOwnedProduct(ctx, userID, productID); err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("products/%s%s", productID, filepath.Ext(filename))
	if err := s.minioSvc.UploadImage(ctx, s.bucketName, objectName, contentType, reader, size); err != nil {
		return "", err
	}
	if err := s.productRepo.UpdateImage(ctx, productID, objectName); err != nil {
		return "", err
	}
	if err := s.cacheSvc.DeleteProductDetail(ctx, productID); err != nil {
		log.Printf("Failed to invalidate product cache %s: %v", productID, err)
	}

	return s.minioSvc.GetPresignedURL(ctx, s.bucketName, objectName, imageURLExpiry)
}

func (s *productService) requireFarm(ctx context.Context, userID uuid.UUID) (*models.Farm, error) {
	farm, err := s.farmRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, fmt.Errorf("Najprej ustvarite kmetijo: %w", common.ErrForbidden)
	}
	return farm, nil
}

func (s *productService) requireOwnedProduct(ctx context.Context, userID, productID uuid.UUID) (*models.Product, *models.Farm, error) {
	farm, err := s.requireFarm(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, fmt.Errorf("Izdelek ni najden: %w", common.ErrNotFound)
	}
	if product.FarmID != farm.ID {
		return nil, nil, fmt.Errorf("Dostop zavrnjen: %w", common.ErrForbidden)
	}
	return product, farm, nil
}

func validateProduct(product *models.Product) error {
	if err := common.ValidateRequiredString(product.Name, "name"); err != nil {
		return fmt.Errorf("Ime izdelka je obvezno: %w", common.ErrValidation)
	}
	if err := common.ValidateRequiredString(product.Unit, "unit"); err != nil {
		return fmt.Errorf("Enota je obvezna: %w", common.ErrValidation)
	}
	if err := common.ValidatePositiveFloat(product.Price, "price", maxProductPrice); err != nil {
		return fmt.Errorf("Cena mora biti pozitivna: %w", common.ErrValidation)
	}
	if product.Stock < 0 || product.Stock > maxProductStock {
		return fmt.Errorf("Zaloga ne sme biti negativna: %w", common.ErrValidation)
	}
	if product.CategoryID == uuid.Nil {
		return fmt.Errorf("Kategorija je obvezna: %w", common.ErrValidation)
	}
	return nil
}
