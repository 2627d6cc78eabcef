package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldError reports a single invalid input field. The editor used to coerce
// bad numbers to 0, which silently dropped user input; now each offending
// field is rejected and named.
type FieldError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Message, e.Value)
}

// ParseQuantity parses a line item quantity. Fractional values are allowed
// (e.g. 2.5 linear meters); negatives and non-numbers are not.
func ParseQuantity(field, raw string) (float64, *FieldError) {
	return parsePositiveNumber(field, raw, "quantity must be a non-negative number")
}

// ParseRate parses a unit rate in dollars.
func ParseRate(field, raw string) (float64, *FieldError) {
	return parsePositiveNumber(field, raw, "rate must be a non-negative number")
}

func parsePositiveNumber(field, raw, message string) (float64, *FieldError) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, &FieldError{Field: field, Value: raw, Message: message}
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	// ParseFloat accepts "NaN" and "Inf" spellings; neither is a usable
	// quantity or rate, and NaN also slips past the < 0 check.
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &FieldError{Field: field, Value: raw, Message: message}
	}
	return f, nil
}
