package handlers

import (
	"net/http"

	"trznica/internal/common"
	"trznica/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles registration, login and token endpoints.
type AuthHandlers struct {
	accountSvc services.AccountService
	authSvc    services.AuthService
}

func NewAuthHandlers(accountSvc services.AccountService, authSvc services.AuthService) *AuthHandlers {
	return &AuthHandlers{accountSvc: accountSvc, authSvc: authSvc}
}

// Register creates an account and returns it with a token pair.
func (h *AuthHandlers) Register(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Neveljavna zahteva")
	}

	ctx := c.Request().Context()
	user, err := h.accountSvc.Register(ctx, req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		return common.SendDomainError(c, err)
	}

	tokens, err := h.authSvc.GenerateTokens(ctx, user)
	if err != nil {
		return common.SendServerError(c, "Prijava ni uspela")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"user":   user,
		"tokens": tokens,
	})
}

// Login verifies credentials and returns a token pair.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Neveljavna zahteva")
	}

	ctx := c.Request().Context()
	user, err := h.accountSvc.Login(ctx, req.Email, req.Password)
	if err != nil {
		// Credential failures come back as 401, not 400.
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Napacen email ali geslo", nil))
	}

	tokens, err := h.authSvc.GenerateTokens(ctx, user)
	if err != nil {
		return common.SendServerError(c, "Prijava ni uspela")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh rotates a refresh token into a new token pair.
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return common.SendClientError(c, "Neveljavna zahteva")
	}

	tokens, err := h.authSvc.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Neveljaven zeton", nil))
	}
	return c.JSON(http.StatusOK, tokens)
}

// Logout revokes the presented refresh token.
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return common.SendClientError(c, "Neveljavna zahteva")
	}

	if err := h.authSvc.RevokeRefreshToken(c.Request().Context(), req.RefreshToken); err != nil {
		return common.SendServerError(c, "Odjava ni uspela")
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated account.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.accountSvc.GetProfile(ctx, userID)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe updates the caller's name and email.
func (h *AuthHandlers) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Neveljavna zahteva")
	}

	user, err := h.accountSvc.UpdateProfile(ctx, userID, req.Name, req.Email)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword updates the caller's password.
func (h *AuthHandlers) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Neveljavna zahteva")
	}

	if err := h.accountSvc.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
