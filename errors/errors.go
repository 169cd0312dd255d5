package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// ValidationErrors lists per-field messages for VALIDATION_ERROR.
	ValidationErrors []string `json:"validationErrors,omitempty"`
	// Details contains additional context for logs. It is never sent to clients.
	Details map[string]any `json:"-"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Account ---

// UserAlreadyExists reports a taken email or username.
func UserAlreadyExists(message string) *AppError {
	return New(ErrCodeUserAlreadyExists, message, http.StatusConflict)
}

// UserNotFound reports a missing user.
func UserNotFound(email string) *AppError {
	return New(ErrCodeUserNotFound, fmt.Sprintf("User not found with email: %s", email), http.StatusNotFound)
}

// --- Authentication / Authorization ---

// InvalidCredentials is returned for every failed login, whatever the cause.
func InvalidCredentials() *AppError {
	return New(ErrCodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)
}

// InvalidToken creates a new AppError for a rejected bearer token.
func InvalidToken(message string) *AppError {
	if message == "" {
		message = "Invalid token"
	}
	return New(ErrCodeInvalidToken, message, http.StatusUnauthorized)
}

// UnauthorizedOperation reports a mutation attempted by someone other than the author.
func UnauthorizedOperation(message string) *AppError {
	if message == "" {
		message = "You are not allowed to perform this operation"
	}
	return New(ErrCodeUnauthorizedOperation, message, http.StatusForbidden)
}

// InvalidAuthorizationHeader reports an Authorization header that is absent or not "Bearer <token>".
func InvalidAuthorizationHeader() *AppError {
	return New(ErrCodeInvalidAuthorizationHeader, "No valid authorization header provided", http.StatusBadRequest)
}

// --- Validation ---

// Validation creates a VALIDATION_ERROR carrying per-field messages.
func Validation(messages ...string) *AppError {
	e := New(ErrCodeValidation, "Validation failed", http.StatusBadRequest)
	if len(messages) > 0 {
		e.ValidationErrors = append([]string(nil), messages...)
	}
	return e
}

// BadRequest creates a new AppError for a request that cannot be applied.
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// --- Feed ---

// ArticleNotFound reports a missing article.
func ArticleNotFound(id int64) *AppError {
	return New(ErrCodeArticleNotFound, fmt.Sprintf("Article not found with id: %d", id), http.StatusNotFound)
}

// CommentNotFound reports a missing comment.
func CommentNotFound(id int64) *AppError {
	return New(ErrCodeCommentNotFound, fmt.Sprintf("Comment not found with id: %d", id), http.StatusNotFound)
}

// ThemeNotFound reports a missing theme.
func ThemeNotFound(id int64) *AppError {
	return New(ErrCodeThemeNotFound, fmt.Sprintf("Theme not found with id: %d", id), http.StatusNotFound)
}

// ThemeAlreadyExists reports a duplicate theme name.
func ThemeAlreadyExists(name string) *AppError {
	return New(ErrCodeThemeAlreadyExists, fmt.Sprintf("Theme already exists with name: %s", name), http.StatusConflict)
}

// --- Internal ---

// Wrap returns err as an AppError, wrapping anything unknown as Internal.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// Internal creates a new AppError for an internal server error. The cause is logged, never returned.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// ServiceUnavailable creates a new AppError for a dependency that is temporarily unavailable.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}
