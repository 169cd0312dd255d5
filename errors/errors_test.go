package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeUserNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeUserNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeUserNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("USER_NOT_FOUND should not be retryable")
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   ErrorCode
		status int
	}{
		{"UserAlreadyExists", UserAlreadyExists("Email is already in use"), ErrCodeUserAlreadyExists, http.StatusConflict},
		{"UserNotFound", UserNotFound("a@b.c"), ErrCodeUserNotFound, http.StatusNotFound},
		{"InvalidCredentials", InvalidCredentials(), ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{"InvalidToken", InvalidToken(""), ErrCodeInvalidToken, http.StatusUnauthorized},
		{"UnauthorizedOperation", UnauthorizedOperation(""), ErrCodeUnauthorizedOperation, http.StatusForbidden},
		{"InvalidAuthorizationHeader", InvalidAuthorizationHeader(), ErrCodeInvalidAuthorizationHeader, http.StatusBadRequest},
		{"Validation", Validation("Email is required"), ErrCodeValidation, http.StatusBadRequest},
		{"BadRequest", BadRequest("Already subscribed"), ErrCodeBadRequest, http.StatusBadRequest},
		{"ArticleNotFound", ArticleNotFound(1), ErrCodeArticleNotFound, http.StatusNotFound},
		{"CommentNotFound", CommentNotFound(1), ErrCodeCommentNotFound, http.StatusNotFound},
		{"ThemeNotFound", ThemeNotFound(1), ErrCodeThemeNotFound, http.StatusNotFound},
		{"ThemeAlreadyExists", ThemeAlreadyExists("go"), ErrCodeThemeAlreadyExists, http.StatusConflict},
		{"Internal", Internal(nil), ErrCodeInternal, http.StatusInternalServerError},
		{"ServiceUnavailable", ServiceUnavailable("database"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
			if tc.err.Message == "" {
				t.Error("expected a non-empty message")
			}
		})
	}
}

func TestAppError_InvalidToken_DefaultMessage(t *testing.T) {
	if got := InvalidToken("").Message; got != "Invalid token" {
		t.Errorf("expected 'Invalid token', got %q", got)
	}
	if got := InvalidToken("custom").Message; got != "custom" {
		t.Errorf("expected 'custom', got %q", got)
	}
}

func TestAppError_Validation_CopiesMessages(t *testing.T) {
	msgs := []string{"Email is required"}
	err := Validation(msgs...)
	msgs[0] = "mutated"
	if err.ValidationErrors[0] != "Email is required" {
		t.Errorf("expected validation messages to be copied, got %v", err.ValidationErrors)
	}
	if err.Message != "Validation failed" {
		t.Errorf("expected 'Validation failed', got %q", err.Message)
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Error_Format(t *testing.T) {
	s := UserNotFound("x@y.z").Error()
	if !strings.Contains(s, "USER_NOT_FOUND") {
		t.Errorf("expected error string to contain code, got %q", s)
	}

	cause := fmt.Errorf("db down")
	s = Internal(cause).Error()
	if !strings.Contains(s, "db down") {
		t.Errorf("expected error string to contain cause, got %q", s)
	}
}

func TestAppError_Unwrap_Success(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Internal(cause)
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should see the cause")
	}
}

func TestErrorCode_IsRetryableCode(t *testing.T) {
	if !IsRetryableCode(ErrCodeServiceUnavailable) {
		t.Error("expected SERVICE_UNAVAILABLE to be retryable")
	}
	for _, code := range []ErrorCode{ErrCodeInternal, ErrCodeInvalidToken, ErrCodeValidation, ErrCodeUserAlreadyExists} {
		if IsRetryableCode(code) {
			t.Errorf("expected %s to NOT be retryable", code)
		}
	}
}

func TestAppError_ToResponse_Envelope(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.FixedZone("CET", 3600))
	resp := Validation("Username is required").ToResponse("/api/auth/register", now)

	if resp.Error != ErrCodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", resp.Error)
	}
	if resp.Status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.Status)
	}
	if resp.Path != "/api/auth/register" {
		t.Errorf("unexpected path %q", resp.Path)
	}
	if resp.Timestamp != "2024-03-09 13:05:07" {
		t.Errorf("expected UTC timestamp, got %q", resp.Timestamp)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"validationErrors":["Username is required"]`) {
		t.Errorf("expected validationErrors in body, got %s", raw)
	}
}

func TestAppError_ToResponse_OmitsEmptyValidationErrors(t *testing.T) {
	raw, err := json.Marshal(InvalidCredentials().ToResponse("/api/auth/login", time.Now()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "validationErrors") {
		t.Errorf("expected validationErrors to be omitted, got %s", raw)
	}
}

func TestAppError_AsAppError_Success(t *testing.T) {
	wrapped := fmt.Errorf("wrap: %w", InvalidCredentials())

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got.Code != ErrCodeInvalidCredentials {
		t.Errorf("expected INVALID_CREDENTIALS, got %s", got.Code)
	}
	if !IsAppError(wrapped) {
		t.Error("expected IsAppError to return true for wrapped AppError")
	}
	if !HasCode(wrapped, ErrCodeInvalidCredentials) {
		t.Error("expected HasCode to match")
	}

	if _, ok := AsAppError(fmt.Errorf("not an app error")); ok {
		t.Error("expected AsAppError to return false for non-AppError")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}

	orig := ThemeNotFound(3)
	if Wrap(orig) != orig {
		t.Error("Wrap should return the original AppError unchanged")
	}

	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_SERVER_ERROR, got %s", got.Code)
	}
	if got.Cause != plain {
		t.Error("expected cause to be the original error")
	}
}
