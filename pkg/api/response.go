package api

import (
	"time"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the error envelope shared by all three services.
type ErrorResponse struct {
	Error     string `json:"error"`
	Mensaje   string `json:"mensaje"`
	Timestamp int64  `json:"timestamp"`
}

// SuccessResponse is the envelope for non-resource actions.
type SuccessResponse struct {
	Mensaje   string `json:"mensaje"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func Error(c echo.Context, status int, errTitle, mensaje string) error {
	return c.JSON(status, ErrorResponse{
		Error:     errTitle,
		Mensaje:   mensaje,
		Timestamp: time.Now().UnixMilli(),
	})
}

func Success(c echo.Context, status int, mensaje string, data any) error {
	return c.JSON(status, SuccessResponse{
		Mensaje:   mensaje,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}
