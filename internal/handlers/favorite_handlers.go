package handlers

import (
	"net/http"

	"trznica/internal/common"
	"trznica/internal/services"

	"github.com/labstack/echo/v4"
)

type FavoriteHandlers struct {
	favoriteSvc services.FavoriteService
}

func NewFavoriteHandlers(favoriteSvc services.FavoriteService) *FavoriteHandlers {
	return &FavoriteHandlers{favoriteSvc: favoriteSvc}
}

// List returns the caller's bookmarked products.
func (h *FavoriteHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	products, err := h.favoriteSvc.List(ctx, userID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"favorites": products})
}

// Toggle flips the bookmark state of a product for the caller.
func (h *FavoriteHandlers) Toggle(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	productID, err := common.ValidateUUID(c.Param("id"), "product ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	favorited, err := h.favoriteSvc.Toggle(ctx, userID, productID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"favorited": favorited})
}
