package common

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Sentinel errors for the marketplace domain. Services wrap these with
// a user-facing message; handlers map them to HTTP status codes with
// SendDomainError.
var (
	// ErrValidation marks malformed or incomplete requests. Nothing was
	// persisted; the caller can retry after fixing the input.
	ErrValidation = errors.New("validation failed")

	// ErrProductUnavailable marks a cart item referencing a product that
	// does not exist or is not listed as available.
	ErrProductUnavailable = errors.New("product unavailable")

	// ErrInsufficientStock marks a cart item exceeding the product's
	// current stock. The wrapping message names the offending product.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrForbidden marks a caller lacking the role or ownership for the
	// requested operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks a missing entity.
	ErrNotFound = errors.New("not found")
)

// SendDomainError maps a service error onto the HTTP error envelope.
// Unrecognized errors become a generic 500 so persistence details never
// leak to the client.
func SendDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrProductUnavailable),
		errors.Is(err, ErrInsufficientStock):
		return SendClientError(c, err.Error())
	case errors.Is(err, ErrForbidden):
		return SendForbiddenError(c, err.Error())
	case errors.Is(err, ErrNotFound):
		return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", err.Error(), nil))
	default:
		return SendServerError(c, "Operacija ni uspela")
	}
}
