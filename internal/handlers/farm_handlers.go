package handlers

import (
	"net/http"

	"trznica/internal/common"
	"trznica/internal/models"
	"trznica/internal/services"

	"github.com/labstack/echo/v4"
)

// FarmHandlers serves the public farm directory and the farmer's own
// farm profile.
type FarmHandlers struct {
	farmSvc services.FarmService
}

func NewFarmHandlers(farmSvc services.FarmService) *FarmHandlers {
	return &FarmHandlers{farmSvc: farmSvc}
}

// ListFarms handles the public farm directory.
func (h *FarmHandlers) ListFarms(c echo.Context) error {
	var req struct {
		Limit  int `query:"limit"`
		Offset int `query:"offset"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Neveljavni parametri")
	}

	farms, err := h.farmSvc.List(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"farms": farms})
}

// GetFarm returns one farm with its review rating.
func (h *FarmHandlers) GetFarm(c echo.Context) error {
	farmID, err := common.ValidateUUID(c.Param("id"), "farm ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	farm, err := h.farmSvc.GetFarm(c.Request().Context(), farmID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, farm)
}

// GetMyFarm returns the caller's farm profile, or 404 when none exists.
func (h *FarmHandlers) GetMyFarm(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	farm, err := h.farmSvc.GetMyFarm(ctx, userID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	if farm == nil {
		return common.SendNotFoundError(c, "Kmetija")
	}
	return c.JSON(http.StatusOK, farm)
}

// UpsertMyFarm creates or updates the caller's farm profile.
func (h *FarmHandlers) UpsertMyFarm(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	role, _ := common.GetRoleFromContext(ctx)

	var req struct {
		Name        string   `json:"name"`
		Description *string  `json:"description"`
		Address     string   `json:"address"`
		City        string   `json:"city"`
		PostalCode  string   `json:"postal_code"`
		Phone       *string  `json:"phone"`
		Website     *string  `json:"website"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Neveljavna zahteva")
	}

	farm, err := h.farmSvc.Upsert(ctx, userID, role, &models.Farm{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		PostalCode:  req.PostalCode,
		Phone:       req.Phone,
		Website:     req.Website,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, farm)
}
