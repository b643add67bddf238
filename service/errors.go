package service

import (
	"errors"
	"net/http"
)

// AppError is the error every rejected request comes back with. StatusCode
// is the HTTP status the transport should answer with.
type AppError struct {
	Message    string
	StatusCode int
}

func (e *AppError) Error() string { return e.Message }

func badRequest(msg string) *AppError {
	return &AppError{Message: msg, StatusCode: http.StatusBadRequest}
}

var (
	ErrInvalidCustomer   = badRequest("customer does not exist")
	ErrInvalidQuantity   = badRequest("some of the sent products have an invalid quantity")
	ErrInvalidProduct    = badRequest("there are invalid products selected")
	ErrInsufficientStock = badRequest("there are some products unavailable to buy now")
	ErrEmptyOrder        = badRequest("order must contain at least one product")

	ErrOrderNotFound   = &AppError{Message: "order not found", StatusCode: http.StatusNotFound}
	ErrProductNotFound = &AppError{Message: "product not found", StatusCode: http.StatusNotFound}
	ErrEmailInUse      = &AppError{Message: "email address already used", StatusCode: http.StatusConflict}
	ErrProductExists   = &AppError{Message: "product with this name already exists", StatusCode: http.StatusConflict}
)

// IsAppError reports whether err carries an AppError and returns it.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
