package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidateID validates a card identifier for safety and correctness.
// IDs end up in SVG attributes and cache keys, so the rules are conservative:
//   - No empty IDs
//   - No control characters
//   - No quotes or angle brackets
//   - Maximum length of 128 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id contains invalid control characters")
		}
	}

	if strings.ContainsAny(id, "\"'<>&") {
		return New(ErrCodeInvalidInput, "id contains invalid characters: %q", id)
	}

	return nil
}

// ValidateCoordinate rejects NaN and infinite values.
func ValidateCoordinate(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", name)
	}
	return nil
}

// ValidateSize rejects non-positive or non-finite extents.
func ValidateSize(name string, v float64) error {
	if err := ValidateCoordinate(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive", name)
	}
	return nil
}

// colorRegex matches hex colors (#rgb, #rrggbb, #rrggbbaa) and plain CSS
// color keywords.
var colorRegex = regexp.MustCompile(`^(#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|[a-zA-Z]{3,20})$`)

// ValidateColor validates a stroke color before it is written into SVG.
func ValidateColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if !colorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid color %q: use #rrggbb or a CSS color name", color)
	}
	return nil
}
