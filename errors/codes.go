package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Account errors
const (
	// ErrCodeUserAlreadyExists indicates the email or username is taken.
	ErrCodeUserAlreadyExists ErrorCode = "USER_ALREADY_EXISTS"
	// ErrCodeUserNotFound indicates no user matches the lookup.
	ErrCodeUserNotFound ErrorCode = "USER_NOT_FOUND"
)

// Authentication/Authorization errors
const (
	// ErrCodeInvalidCredentials indicates a failed login. The cause is never disclosed.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrCodeInvalidToken indicates a missing, expired, revoked or tampered token.
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	// ErrCodeUnauthorizedOperation indicates the caller does not own the resource.
	ErrCodeUnauthorizedOperation ErrorCode = "UNAUTHORIZED_OPERATION"
	// ErrCodeInvalidAuthorizationHeader indicates the Authorization header is absent or not a bearer header.
	ErrCodeInvalidAuthorizationHeader ErrorCode = "INVALID_AUTHORIZATION_HEADER"
)

// Validation errors
const (
	// ErrCodeValidation indicates the request body failed validation.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeBadRequest indicates a request that is well formed but not applicable.
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	// ErrCodePayloadTooLarge indicates the body exceeded server.max_body_size.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
)

// Routing errors
const (
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
)

// Feed errors
const (
	ErrCodeArticleNotFound    ErrorCode = "ARTICLE_NOT_FOUND"
	ErrCodeCommentNotFound    ErrorCode = "COMMENT_NOT_FOUND"
	ErrCodeThemeNotFound      ErrorCode = "THEME_NOT_FOUND"
	ErrCodeThemeAlreadyExists ErrorCode = "THEME_ALREADY_EXISTS"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_SERVER_ERROR"
	// ErrCodeServiceUnavailable indicates a dependency is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
