package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// SuccessResponse writes data as the bare JSON body with status 200.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// BadRequestResponse writes validation failures as a 400.
func BadRequestResponse(c echo.Context, details []ValidationError) error {
	msgs := make([]string, 0, len(details))
	for _, d := range details {
		msgs = append(msgs, d.Message)
	}
	return c.JSON(http.StatusBadRequest, ErrorBody{
		Error:   strings.Join(msgs, "; "),
		Details: details,
	})
}

// InternalServerErrorResponse writes a generic 500.
func InternalServerErrorResponse(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, ErrorBody{Error: "Something went wrong"})
}

// ErrorResponse writes err as {"error": message} with the status FromDomainError assigns.
func ErrorResponse(c echo.Context, err error) error {
	if err == nil {
		return InternalServerErrorResponse(c)
	}
	appErr := FromDomainError(err)
	return c.JSON(appErr.Status, ErrorBody{Error: appErr.Message, Details: appErr.Details})
}

// HTTPErrorHandler renders errors returned by handlers and routing failures
// in the same {"error": ...} shape as ErrorResponse.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		switch {
		case he.Code == http.StatusNotFound:
			err = NotFoundError(msg)
		case he.Code >= http.StatusInternalServerError:
			err = InternalError(msg)
		default:
			err = NewAppError("ERR_HTTP", msg, he.Code)
		}
	}
	_ = ErrorResponse(c, err)
}
