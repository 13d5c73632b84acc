package handlers

import (
	"net/http"

	"trznica/internal/common"
	"trznica/internal/services"

	"github.com/labstack/echo/v4"
)

type WaitlistHandlers struct {
	waitlistSvc services.WaitlistService
}

func NewWaitlistHandlers(waitlistSvc services.WaitlistService) *WaitlistHandlers {
	return &WaitlistHandlers{waitlistSvc: waitlistSvc}
}

// Join adds an email to the launch waitlist. Joining twice is not an
// error.
func (h *WaitlistHandlers) Join(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Neveljavna zahteva")
	}

	created, err := h.waitlistSvc.Join(c.Request().Context(), req.Email)
	if err != nil {
		return common.SendDomainError(c, err)
	}

	if created {
		return c.JSON(http.StatusCreated, map[string]string{"message": "Hvala za prijavo!"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Ta email je ze prijavljen"})
}
