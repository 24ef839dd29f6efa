package http

import (
	"errors"
	"net/http"

	"orderlifecycle/internal/core/application/usecases/commands"
	"orderlifecycle/internal/core/domain/model/order"
	"orderlifecycle/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var errMissingCaller = errors.New(UserIDHeader + " header must carry the caller's id")

// StatusFor maps an application error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errMissingCaller):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrVersionConflict),
		errors.Is(err, order.ErrOrderCannotBeCancelled),
		errors.Is(err, order.ErrTransitionNotAllowed):
		return http.StatusConflict
	case errors.Is(err, commands.ErrPaymentNotConfirmed):
		return http.StatusPaymentRequired
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrItemsAreRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx echo.Context, err error) error {
	code := StatusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		ctx.Logger().Error(err)
		message = "Internal server error"
	}
	return ctx.JSON(code, Error{Code: code, Message: message})
}
