package handlers

import (
	"errors"
	"net/http"

	"github.com/damacus/bucket-search/internal/errs"
	"github.com/labstack/echo/v4"
)

// HTTPError converts a service error into an echo.HTTPError. The status
// follows the error kind; invalid input keeps its own message so the user
// can see what was wrong, everything else answers with msg.
func HTTPError(err error, msg string) *echo.HTTPError {
	code := errs.StatusCode(err)
	var e *errs.Error
	if code == http.StatusBadRequest && errors.As(err, &e) {
		msg = e.Message
	}
	return echo.NewHTTPError(code, msg).SetInternal(err)
}
