package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error *domain.Error `json:"error"`
}

var statusByKind = map[domain.ErrorKind]int{
	domain.KindValidation:    http.StatusBadRequest,
	domain.KindNotFound:      http.StatusNotFound,
	domain.KindCapacity:      http.StatusConflict,
	domain.KindAuthorization: http.StatusForbidden,
	domain.KindState:         http.StatusConflict,
}

// writeError renders engine errors by kind; anything else is a 500.
func writeError(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		status, ok := statusByKind[de.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, errorResponse{Error: de})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: &domain.Error{
		Kind:    "internal",
		Code:    "Internal",
		Message: "internal error",
	}})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: &domain.Error{
		Kind:    domain.KindValidation,
		Code:    "InvalidRequest",
		Message: message,
	}})
}
