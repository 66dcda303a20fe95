package delivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samueldmelo/logfoto/internal/domain"
)

type Response struct {
	Status  string      `json:"Status"`
	Message string      `json:"Message"`
	Data    interface{} `json:"Data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Status:  "Fail",
		Message: message,
	})
}

// FailResponse answers with the error's status. Validation failures carry
// their per-field messages in Data.
func FailResponse(c *gin.Context, prefix string, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, Response{
			Status:  "Fail",
			Message: prefix + ": " + err.Error(),
			Data:    ve.Fields,
		})
		return
	}
	ErrorResponse(c, mapErrorToStatus(err), prefix+": "+err.Error())
}

func mapErrorToStatus(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case domain.IsStore(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
