// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pdiddy/research-index/internal/filter"
	"github.com/pdiddy/research-index/internal/graphstore"
	"github.com/pdiddy/research-index/internal/repository"
)

// Error is an error rendered as {"error": {"code", "message"}}.
type Error struct {
	HTTPStatus int
	Code       string
	Message    string
	Internal   error
}

func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Internal }

// errorMappings is checked in order; the first sentinel err wraps decides
// the status and code.
var errorMappings = []struct {
	target error
	status int
	code   string
}{
	{filter.ErrInvalidFilter, http.StatusBadRequest, "invalid_filter"},
	{repository.ErrNotFound, http.StatusNotFound, "not_found"},
	{repository.ErrEmptyResult, http.StatusNotFound, "empty_result"},
	{graphstore.ErrStoreUnavailable, http.StatusServiceUnavailable, "store_unavailable"},
}

// FromError classifies err into an *Error. Unclassified errors become
// internal_error with a generic message.
func FromError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return &Error{HTTPStatus: m.status, Code: m.code, Message: err.Error(), Internal: err}
		}
	}
	return &Error{
		HTTPStatus: http.StatusInternalServerError,
		Code:       "internal_error",
		Message:    "An internal error occurred",
		Internal:   err,
	}
}

// HTTPErrorHandler renders every error returned by a handler in the
// {"error": {"code", "message"}} shape.
func HTTPErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var appErr *Error
		if he, ok := err.(*echo.HTTPError); ok {
			appErr = &Error{HTTPStatus: he.Code, Code: httpCode(he.Code), Message: fmt.Sprint(he.Message)}
		} else {
			appErr = FromError(err)
		}

		if appErr.HTTPStatus >= 500 {
			log.Error("request error",
				slog.Int("status", appErr.HTTPStatus),
				slog.String("code", appErr.Code),
				slog.String("error", err.Error()),
			)
		}

		if c.Request().Method == http.MethodHead {
			c.NoContent(appErr.HTTPStatus)
			return
		}
		c.JSON(appErr.HTTPStatus, map[string]any{
			"error": map[string]any{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
	}
}

func httpCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusBadRequest:
		return "bad_request"
	}
	if status >= 500 {
		return "internal_error"
	}
	return "error"
}
