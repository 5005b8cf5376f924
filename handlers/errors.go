package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/mailrelay/internal"
	"github.com/dmitrymomot/mailrelay/middlewares"
)

// ErrorHandler renders errors that escape handlers and middleware using the
// same {"status", "error"} shape as the send endpoint.
func ErrorHandler(c internal.Context, err error) error {
	if httpErr := internal.AsHTTPError(err); httpErr != nil {
		resp := StatusResponse{Status: httpErr.Message}
		if httpErr.Err != nil {
			resp.Error = httpErr.Err.Error()
		}
		if httpErr.Code >= http.StatusInternalServerError {
			c.LogError("request failed", slog.String("error", err.Error()))
		}
		return c.JSON(httpErr.Code, resp)
	}

	if _, ok := middlewares.AsTimeoutError(err); ok {
		return c.JSON(http.StatusGatewayTimeout, StatusResponse{Status: StatusRequestTimeout})
	}

	if _, ok := middlewares.AsPanicError(err); ok {
		return c.JSON(http.StatusInternalServerError, StatusResponse{Status: StatusInternalError})
	}

	if errors.Is(err, internal.ErrInvalidJSON) {
		return c.JSON(http.StatusBadRequest, StatusResponse{Status: StatusInvalidBody, Error: err.Error()})
	}

	c.LogError("unhandled error", slog.String("error", err.Error()))
	return c.JSON(http.StatusInternalServerError, StatusResponse{Status: StatusInternalError})
}

// NotFound answers unknown routes.
func NotFound(c internal.Context) error {
	return c.JSON(http.StatusNotFound, StatusResponse{Status: StatusNotFound})
}

// MethodNotAllowed answers known routes hit with the wrong method.
func MethodNotAllowed(c internal.Context) error {
	return c.JSON(http.StatusMethodNotAllowed, StatusResponse{Status: StatusMethodNotAllowed})
}
