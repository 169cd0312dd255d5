package validation

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/mddapi/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// IsEmail reports whether s is a syntactically valid email address.
func IsEmail(s string) bool {
	return getValidator().Var(s, "required,email") == nil
}

// Validator collects human-readable validation messages.
// Checks chain and every failing check appends its message:
//
//	err := validation.New().
//	    Required(in.Email, "Email is required").
//	    Email(in.Email, "Email must be valid").
//	    Validate()
type Validator struct {
	messages []string
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{}
}

// AddError records a validation message.
func (v *Validator) AddError(message string) {
	v.messages = append(v.messages, message)
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.messages) > 0
}

// Messages returns the collected messages in check order.
func (v *Validator) Messages() []string {
	return v.messages
}

// Validate returns a VALIDATION_ERROR AppError, or nil when every check passed.
func (v *Validator) Validate() error {
	if !v.HasErrors() {
		return nil
	}
	return errors.Validation(v.messages...)
}

// Required fails on empty or whitespace-only values.
func (v *Validator) Required(value, message string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(message)
	}
	return v
}

// RequiredID fails when an identifier was not supplied.
func (v *Validator) RequiredID(id int64, message string) *Validator {
	if id <= 0 {
		v.AddError(message)
	}
	return v
}

// Length checks that a non-empty value has between minLen and maxLen characters.
// Empty values are left to Required.
func (v *Validator) Length(value string, minLen, maxLen int, message string) *Validator {
	if value == "" {
		return v
	}
	n := utf8.RuneCountInString(value)
	if n < minLen || n > maxLen {
		v.AddError(message)
	}
	return v
}

// MaxLength checks that value has at most maxLen characters.
func (v *Validator) MaxLength(value string, maxLen int, message string) *Validator {
	if utf8.RuneCountInString(value) > maxLen {
		v.AddError(message)
	}
	return v
}

// Email checks the address format of a non-empty value.
func (v *Validator) Email(value, message string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v
	}
	if !IsEmail(strings.TrimSpace(value)) {
		v.AddError(message)
	}
	return v
}

// Password applies the password policy to a non-empty value.
func (v *Validator) Password(value string) *Validator {
	if value == "" {
		return v
	}
	if msg := CheckPassword(value); msg != "" {
		v.AddError(msg)
	}
	return v
}

// Custom applies a custom validation condition.
func (v *Validator) Custom(condition bool, message string) *Validator {
	if !condition {
		v.AddError(message)
	}
	return v
}
