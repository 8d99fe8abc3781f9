// Package forms validates and sanitizes submitted form fields.
//
// A form is checked by an ordered list of rules. Every rule trims and
// HTML-escapes its field's raw value before running its predicate, and
// a failing rule never stops the rules after it: the caller gets every
// field error in one pass, together with a draft built only from
// sanitized values.
package forms

import (
	"html"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// dateLayout is the ISO-8601 calendar date format used on the wire.
const dateLayout = "2006-01-02"

// FieldError describes a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Rule checks one named field. Rules read only the original raw
// input, never another rule's output.
type Rule struct {
	field    string
	repeated bool
	check    func(clean []string) bool
	message  string
}

// NotEmpty requires a non-empty value after trimming.
func NotEmpty(field, message string) Rule {
	return Rule{field: field, message: message, check: func(clean []string) bool {
		return first(clean) != ""
	}}
}

// Length bounds the trimmed value's length in runes. A min of 0
// makes the field optional; an empty value always passes.
func Length(field string, min, max int, message string) Rule {
	return Rule{field: field, message: message, check: func(clean []string) bool {
		n := utf8.RuneCountInString(first(clean))
		if n == 0 && min == 0 {
			return true
		}
		return n >= min && n <= max
	}}
}

// OptionalDate accepts an empty value or a valid ISO calendar date.
func OptionalDate(field, message string) Rule {
	return Rule{field: field, message: message, check: func(clean []string) bool {
		value := first(clean)
		if value == "" {
			return true
		}
		_, err := time.Parse(dateLayout, value)
		return err == nil
	}}
}

// OneOf requires the value to be a member of the allowed set.
func OneOf(field, message string, allowed ...string) Rule {
	return Rule{field: field, message: message, check: func(clean []string) bool {
		value := first(clean)
		for _, candidate := range allowed {
			if value == candidate {
				return true
			}
		}
		return false
	}}
}

// Escape sanitizes the field without any predicate.
func Escape(field string) Rule {
	return Rule{field: field, check: func([]string) bool { return true }}
}

// EachEscaped declares a repeatable field: the raw value is first
// normalized to a list (absent becomes an empty list, a single value a
// one-element list, a list stays as-is), then every element is
// sanitized. No predicate runs.
func EachEscaped(field string) Rule {
	return Rule{field: field, repeated: true, check: func([]string) bool { return true }}
}

// Result carries the sanitized draft values and the collected errors.
type Result struct {
	clean  map[string][]string
	errors []FieldError
}

// Validate applies every rule, in order, against the raw values.
func Validate(raw url.Values, rules ...Rule) *Result {
	result := &Result{clean: make(map[string][]string, len(rules))}

	for _, rule := range rules {
		values := normalizeList(raw[rule.field])
		if !rule.repeated && len(values) > 1 {
			values = values[:1]
		}

		clean := make([]string, len(values))
		for i, value := range values {
			clean[i] = sanitize(value)
		}
		result.clean[rule.field] = clean

		if !rule.check(clean) {
			result.errors = append(result.errors, FieldError{Field: rule.field, Message: rule.message})
		}
	}

	return result
}

// sanitize trims surrounding whitespace and escapes markup-significant
// characters. Sanitized values are the only ones persisted or
// re-rendered.
func sanitize(value string) string {
	return html.EscapeString(strings.TrimSpace(value))
}

// normalizeList maps an absent value to an empty list, a scalar to a
// one-element list, and keeps a list unchanged.
func normalizeList(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Valid reports whether no rule failed.
func (r *Result) Valid() bool {
	return len(r.errors) == 0
}

// Errors returns the field errors in rule order.
func (r *Result) Errors() []FieldError {
	return r.errors
}

// Value returns the sanitized scalar value of a field.
func (r *Result) Value(field string) string {
	return first(r.clean[field])
}

// Values returns the sanitized list value of a repeatable field.
func (r *Result) Values(field string) []string {
	if values, ok := r.clean[field]; ok {
		return values
	}
	return []string{}
}

// Date returns the parsed date of a validated date field, or nil when
// the field is empty or did not parse.
func (r *Result) Date(field string) *time.Time {
	value := r.Value(field)
	if value == "" {
		return nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil
	}
	return &parsed
}
