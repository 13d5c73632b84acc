package handlers

import (
	"net/http"

	"trznica/internal/common"
	"trznica/internal/models"
	"trznica/internal/services"

	"github.com/labstack/echo/v4"
)

// ProductHandlers serves the public catalog and the farmer's product
// dashboard.
type ProductHandlers struct {
	productSvc services.ProductService
}

func NewProductHandlers(productSvc services.ProductService) *ProductHandlers {
	return &ProductHandlers{productSvc: productSvc}
}

// ListCatalog handles the public product listing with category and
// search filters.
func (h *ProductHandlers) ListCatalog(c echo.Context) error {
	var req struct {
		Category string `query:"category"`
		Search   string `query:"search"`
		Limit    int    `query:"limit"`
		Offset   int    `query:"offset"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Neveljavni parametri")
	}

	page, err := h.productSvc.Catalog(c.Request().Context(), models.CatalogFilter{
		CategorySlug: req.Category,
		Query:        req.Search,
		Limit:        req.Limit,
		Offset:       req.Offset,
	})
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetProduct returns the public product detail.
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	productID, err := common.ValidateUUID(c.Param("id"), "product ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	product, err := h.productSvc.GetDetail(c.Request().Context(), productID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// ListMine returns the caller's farm products.
func (h *ProductHandlers) ListMine(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	products, err := h.productSvc.ListMine(ctx, userID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
	})
}

type productRequest struct {
	CategoryID  string  `json:"category_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	Stock       int     `json:"stock"`
	Available   bool    `json:"available"`
}

func (r *productRequest) toModel() (*models.Product, error) {
	categoryID, err := common.ValidateUUID(r.CategoryID, "category ID")
	if err != nil {
		return nil, err
	}
	return &models.Product{
		CategoryID:  categoryID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Unit:        r.Unit,
		Stock:       r.Stock,
		Available:   r.Available,
	}, nil
}

// Create adds a product to the caller's farm.
func (h *ProductHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Neveljavna zahteva")
	}
	product, err := req.toModel()
	if err != nil {
		return common.SendValidationError(c, "category_id", err.Error())
	}

	if err := h.productSvc.Create(ctx, userID, product); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// Update edits one of the caller's products.
func (h *ProductHandlers) Update(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	productID, err := common.ValidateUUID(c.Param("id"), "product ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Neveljavna zahteva")
	}
	product, err := req.toModel()
	if err != nil {
		return common.SendValidationError(c, "category_id", err.Error())
	}
	product.ID = productID

	if err := h.productSvc.Update(ctx, userID, product); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// Delete removes one of the caller's products.
func (h *ProductHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	productID, err := common.ValidateUUID(c.Param("id"), "product ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.productSvc.Delete(ctx, userID, productID); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage stores a product photo and returns its presigned URL.
func (h *ProductHandlers) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	productID, err := common.ValidateUUID(c.Param("id"), "product ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	file, err := c.FormFile("image")
	if err != nil {
		return common.SendValidationError(c, "image", "image file is required")
	}
	src, err := file.Open()
	if err != nil {
		return common.SendServerError(c, "Nalaganje slike ni uspelo")
	}
	defer src.Close()

	url, err := h.productSvc.UploadImage(ctx, userID, productID, file.Filename, file.Header.Get("Content-Type"), src, file.Size)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"image": url})
}
