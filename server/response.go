package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/mddapi/errors"
	"github.com/kbukum/mddapi/logger"
)

var (
	errNotFound         = apperrors.New(apperrors.ErrCodeNotFound, "Resource not found", http.StatusNotFound)
	errMethodNotAllowed = apperrors.New(apperrors.ErrCodeMethodNotAllowed, "Method not allowed", http.StatusMethodNotAllowed)
)

// RespondWithError is the single translator from errors to HTTP responses.
// An *apperrors.AppError keeps its status and code; anything else becomes a
// generic 500 and the cause is logged.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		fields := map[string]interface{}{
			logger.FieldPath:   c.Request.URL.Path,
			logger.FieldMethod: c.Request.Method,
			"code":             string(appErr.Code),
		}
		if appErr.Cause != nil {
			fields[logger.FieldError] = appErr.Cause.Error()
		} else if !ok {
			fields[logger.FieldError] = err.Error()
		}
		logger.GetGlobalLogger().WithContext(c.Request.Context()).Error("Request failed", fields)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse(c.Request.URL.Path, time.Now()))
}

// BindJSON decodes the request body into dst, mapping decode failures to a
// VALIDATION_ERROR. Field validation is left to the caller.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperrors.New(apperrors.ErrCodePayloadTooLarge, "Request body too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, io.EOF):
			return apperrors.New(apperrors.ErrCodeValidation, "Request body is required", http.StatusBadRequest)
		default:
			return apperrors.New(apperrors.ErrCodeValidation, "Malformed request body", http.StatusBadRequest)
		}
	}
	return nil
}

// RespondOK sends a 200 JSON response.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// RespondCreated sends a 201 JSON response.
func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// RespondNoContent sends a 204 with no body.
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondMessage sends a 200 response of the form {"message": msg}.
func RespondMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
