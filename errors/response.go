package errors

import (
	stderrors "errors"
	"time"
)

// TimestampLayout is the wall-clock format used in error envelopes.
const TimestampLayout = "2006-01-02 15:04:05"

// ErrorResponse is the JSON envelope returned to clients for every error.
type ErrorResponse struct {
	Error            ErrorCode `json:"error"`
	Message          string    `json:"message"`
	Status           int       `json:"status"`
	Path             string    `json:"path"`
	Timestamp        string    `json:"timestamp"`
	ValidationErrors []string  `json:"validationErrors,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
func (e *AppError) ToResponse(path string, now time.Time) ErrorResponse {
	return ErrorResponse{
		Error:            e.Code,
		Message:          e.Message,
		Status:           e.HTTPStatus,
		Path:             path,
		Timestamp:        now.UTC().Format(TimestampLayout),
		ValidationErrors: e.ValidationErrors,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
