package controller

import (
	"net/http"

	"github.com/caucusdesk/caucusdesk/pkg/middleware"
	"github.com/caucusdesk/caucusdesk/pkg/server/router"
)

// SuccessResponse represents a successful response with data.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
}

// Success sends a successful JSON response with HTTP 200 OK.
func Success(c router.Context, data interface{}) error {
	return c.JSON(http.StatusOK, SuccessResponse{
		Data:      data,
		RequestID: middleware.RequestIDFromContext(c.Request().Context()),
	})
}

// Created sends a successful JSON response with HTTP 201 Created,
// typically after a new record was inserted.
func Created(c router.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:      data,
		RequestID: middleware.RequestIDFromContext(c.Request().Context()),
	})
}

// NoContent sends HTTP 204 with no body, typically after a delete.
func NoContent(c router.Context) error {
	c.Response().WriteHeader(http.StatusNoContent)
	return nil
}

// Error sends an error response with the status code derived by MapError.
func Error(c router.Context, err error) error {
	statusCode, errorResponse := MapError(c.Request().Context(), err)
	return c.JSON(statusCode, errorResponse)
}
