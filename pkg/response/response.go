package response

import (
	"errors"
	"net/http"

	"sms-payment-service/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error envelope returned to clients. Business
// failures on the SMS path additionally carry the SMS-style status
// line in Message.
type ErrorResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

// OK sends a 200 response with the payload as-is. The public payloads
// of this API are flat objects; there is no envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response with the payload as-is.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error sends an error response. It checks if err is an
// *apperror.AppError and maps it accordingly, otherwise returns 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorResponse{
			Status:    "error",
			Message:   appErr.Message,
			ErrorCode: appErr.Code,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Status:    "error",
		Message:   "Internal server error",
		ErrorCode: "STORAGE_ERROR",
	})
}
