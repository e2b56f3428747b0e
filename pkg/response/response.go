package response

import (
	"errors"
	"net/http"
	"time"

	"wallet-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key holding the request correlation id.
const RequestIDKey = "request_id"

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id"`
	Timestamp string      `json:"timestamp"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data:      data,
		RequestID: getRequestID(c),
		Timestamp: now(),
	})
}

// Created sends a 201 response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Data:      data,
		RequestID: getRequestID(c),
		Timestamp: now(),
	})
}

// Message sends a 200 response wrapping a single message string.
func Message(c *gin.Context, msg string) {
	OK(c, MessageResponse{Message: msg})
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps it accordingly, otherwise returns 500. The original error is
// attached to the gin context so the request logger can record it; it is
// never written to the client.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorResponse{
			ErrorCode: appErr.Code,
			Message:   appErr.Message,
			RequestID: getRequestID(c),
			Timestamp: now(),
		})
		return
	}

	// Unknown error -> 500
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		ErrorCode: "SYS_000",
		Message:   "Internal server error",
		RequestID: getRequestID(c),
		Timestamp: now(),
	})
}

// AbortWithError writes the error envelope and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// getRequestID retrieves request ID from context, or generates one.
func getRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
