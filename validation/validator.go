package validation

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

// Error aggregates field-level validation failures.
type Error struct {
	Fields []FieldError `json:"fields"`
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// Checker collects validation errors for hand-written config checks.
type Checker struct {
	errors []FieldError
}

// New creates a new Checker.
func New() *Checker {
	return &Checker{}
}

// AddError adds a field error.
func (c *Checker) AddError(field, message string) *Checker {
	c.errors = append(c.errors, FieldError{Field: field, Message: message})
	return c
}

// HasErrors returns true if there are validation errors.
func (c *Checker) HasErrors() bool {
	return len(c.errors) > 0
}

// Err returns an *Error when anything failed, nil otherwise.
func (c *Checker) Err() error {
	if !c.HasErrors() {
		return nil
	}
	return &Error{Fields: slices.Clone(c.errors)}
}

// Required checks that a string is non-blank.
func (c *Checker) Required(field, value string) *Checker {
	if strings.TrimSpace(value) == "" {
		c.AddError(field, "is required")
	}
	return c
}

// AbsoluteURL checks that value parses as an absolute http(s) URL.
func (c *Checker) AbsoluteURL(field, value string) *Checker {
	if value == "" {
		return c.AddError(field, "is required")
	}
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		c.AddError(field, "must be an absolute http(s) URL")
	}
	return c
}

// NonNegative checks a duration is zero or greater.
func (c *Checker) NonNegative(field string, d time.Duration) *Checker {
	if d < 0 {
		c.AddError(field, "must not be negative")
	}
	return c
}

// Positive checks a duration is strictly greater than zero.
func (c *Checker) Positive(field string, d time.Duration) *Checker {
	if d <= 0 {
		c.AddError(field, "must be positive")
	}
	return c
}

// Min checks an integer meets a minimum.
func (c *Checker) Min(field string, value, minVal int) *Checker {
	if value < minVal {
		c.AddError(field, fmt.Sprintf("must be at least %d", minVal))
	}
	return c
}

// OneOf checks value is one of the allowed strings.
func (c *Checker) OneOf(field, value string, allowed ...string) *Checker {
	if !slices.Contains(allowed, value) {
		c.AddError(field, "must be one of: "+strings.Join(allowed, ", "))
	}
	return c
}

// Merge appends the fields of another validation error, prefixed with
// field when it is non-empty. Other error kinds are recorded under field.
func (c *Checker) Merge(field string, err error) *Checker {
	if err == nil {
		return c
	}
	if ve, ok := err.(*Error); ok {
		for _, f := range ve.Fields {
			name := f.Field
			if field != "" {
				name = field + "." + f.Field
			}
			c.AddError(name, f.Message)
		}
		return c
	}
	return c.AddError(field, err.Error())
}
