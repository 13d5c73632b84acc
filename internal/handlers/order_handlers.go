package handlers

import (
	"fmt"
	"net/http"

	"trznica/internal/common"
	"trznica/internal/models"
	"trznica/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers handles checkout, order reads and status updates.
type OrderHandlers struct {
	checkoutSvc services.CheckoutService
	orderSvc    services.OrderService
	farmSvc     services.FarmService
	receiptSvc  services.ReceiptService
	accountSvc  services.AccountService
}

func NewOrderHandlers(checkoutSvc services.CheckoutService, orderSvc services.OrderService, farmSvc services.FarmService, receiptSvc services.ReceiptService, accountSvc services.AccountService) *OrderHandlers {
	return &OrderHandlers{
		checkoutSvc: checkoutSvc,
		orderSvc:    orderSvc,
		farmSvc:     farmSvc,
		receiptSvc:  receiptSvc,
		accountSvc:  accountSvc,
	}
}

// Checkout places an order from the caller's cart.
func (h *OrderHandlers) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Items []struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
		DeliveryAddress string  `json:"deliveryAddress"`
		DeliveryCity    string  `json:"deliveryCity"`
		DeliveryPostal  string  `json:"deliveryPostal"`
		Phone           string  `json:"phone"`
		Notes           *string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Neveljavna zahteva")
	}

	checkout := &services.CheckoutRequest{
		DeliveryAddress: req.DeliveryAddress,
		DeliveryCity:    req.DeliveryCity,
		DeliveryPostal:  req.DeliveryPostal,
		Phone:           req.Phone,
		Notes:           req.Notes,
	}
	for i, item := range req.Items {
		productID, err := common.ValidateUUID(item.ProductID, fmt.Sprintf("items[%d].productId", i))
		if err != nil {
			return common.SendValidationError(c, "items", err.Error())
		}
		checkout.Items = append(checkout.Items, services.CheckoutItem{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.checkoutSvc.PlaceOrder(ctx, userID, checkout)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// GetOrder returns one order with items.
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	role, _ := common.GetRoleFromContext(ctx)

	orderID, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	order, err := h.orderSvc.GetOrder(ctx, userID, role, orderID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus applies one fulfillment transition to an order.
func (h *OrderHandlers) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	role, _ := common.GetRoleFromContext(ctx)

	orderID, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Neveljavna zahteva")
	}

	order, err := h.orderSvc.UpdateStatus(ctx, userID, role, orderID, req.Status)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ListDashboardOrders returns the caller's orders: purchase history
// for consumers, incoming orders for farmers.
func (h *OrderHandlers) ListDashboardOrders(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	role, _ := common.GetRoleFromContext(ctx)

	var req struct {
		Limit int `query:"limit"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Neveljavni parametri")
	}
	limit, _ := common.ValidatePaginationParams(req.Limit, 0)

	if role == models.RoleFarmer {
		farm, err := h.farmSvc.GetMyFarm(ctx, userID)
		if err != nil {
			return common.SendDomainError(c, err)
		}
		if farm == nil {
			return common.SendForbiddenError(c, "Najprej ustvarite kmetijo")
		}

		orders, err := h.orderSvc.ListFarmOrders(ctx, farm.ID, limit)
		if err != nil {
			return common.SendDomainError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders})
	}

	orders, err := h.orderSvc.ListConsumerOrders(ctx, userID, limit)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders})
}

// Receipt streams the order receipt as a PDF.
func (h *OrderHandlers) Receipt(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	role, _ := common.GetRoleFromContext(ctx)

	orderID, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	order, err := h.orderSvc.GetOrder(ctx, userID, role, orderID)
	if err != nil {
		return common.SendDomainError(c, err)
	}

	buyer, err := h.accountSvc.GetProfile(ctx, order.UserID)
	if err != nil {
		return common.SendDomainError(c, err)
	}

	pdf, err := h.receiptSvc.GenerateReceipt(order, buyer.Name)
	if err != nil {
		return common.SendServerError(c, "Potrdila ni bilo mogoce ustvariti")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="narocilo-%s.pdf"`, orderID))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
