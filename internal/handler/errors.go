package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/clinicware/clinic-api/pkg/errors"
)

// WriteError maps an application error to its HTTP status and writes the
// standard error envelope.
func WriteError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		status = appErr.StatusCode()
		message = appErr.Message
	}

	c.JSON(status, NewErrorResponse(message))
}
