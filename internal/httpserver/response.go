package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/akore648/videotube/internal/service"
	"github.com/akore648/videotube/internal/transport"
)

func respond(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, transport.Response{Status: status, Data: data, Message: message})
}

// httpError maps a service error onto its HTTP status. Internal errors get
// a generic message so driver details never reach the client.
func httpError(err error) *echo.HTTPError {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	}
	return echo.NewHTTPError(status, userMessage(err))
}

func userMessage(err error) string {
	if errors.Is(err, service.ErrInternal) {
		return "something went wrong"
	}
	msg := err.Error()
	if _, after, ok := strings.Cut(msg, ": "); ok && after != "" {
		return after
	}
	return msg
}

// ErrorHandler renders every error through the response envelope. Stack
// traces and wrapped causes never leave the process.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, transport.Response{Status: code, Message: message})
}
