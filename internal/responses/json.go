package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vibespace/internal/apperrors"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func Success(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func Fail(c *gin.Context, statusCode int, err error, message string) {
	resp := APIResponse{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(statusCode, resp)
}

// FromError maps the error taxonomy onto HTTP status codes in one place
// so handlers never pick codes by hand.
func FromError(c *gin.Context, err error, message string) {
	statusCode := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
	}
	Fail(c, statusCode, err, message)
}
