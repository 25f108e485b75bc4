package controller

import "strings"

// FieldErrors accumulates per-field validation failures for a submitted
// form. The zero value is ready to use.
type FieldErrors map[string]string

// Require records an error when value is empty or whitespace.
func (f FieldErrors) Require(field, value string) {
	if strings.TrimSpace(value) == "" {
		f[field] = "is required"
	}
}

// Add records an arbitrary message for a field, keeping the first one.
func (f FieldErrors) Add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

// OneOf records an error when value is not among the allowed set.
// Empty values are ignored; combine with Require when the field is
// mandatory.
func (f FieldErrors) OneOf(field, value string, allowed ...string) {
	if value == "" {
		return
	}
	for _, candidate := range allowed {
		if value == candidate {
			return
		}
	}
	f.Add(field, "must be one of: "+strings.Join(allowed, ", "))
}

// Err converts accumulated failures into a validation AppError, or nil
// when the form is clean.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	details := make(map[string]interface{}, len(f))
	for field, message := range f {
		details[field] = message
	}
	return NewValidationError("validation failed", details)
}
