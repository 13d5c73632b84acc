package handlers

import (
	"net/http"

	"trznica/internal/common"
	"trznica/internal/models"
	"trznica/internal/services"

	"github.com/labstack/echo/v4"
)

type StatsHandlers struct {
	statsSvc services.StatsService
}

func NewStatsHandlers(statsSvc services.StatsService) *StatsHandlers {
	return &StatsHandlers{statsSvc: statsSvc}
}

// GetPublicStats returns the landing-page counts.
func (h *StatsHandlers) GetPublicStats(c echo.Context) error {
	stats, err := h.statsSvc.PublicStats(c.Request().Context())
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GetDashboardStats returns the caller's headline numbers, switched on
// role.
func (h *StatsHandlers) GetDashboardStats(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	role, _ := common.GetRoleFromContext(ctx)

	var stats map[string]any
	var err error
	if role == models.RoleFarmer {
		stats, err = h.statsSvc.FarmerStats(ctx, userID)
	} else {
		stats, err = h.statsSvc.ConsumerStats(ctx, userID)
	}
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
