package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"pdf-gateway/internal/domain"
)

var lengthPattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?|\.[0-9]+)\s*([a-zA-Z]*)\s*$`)

// parseLengthInches converts a CSS length to inches. A bare number is pixels.
// The empty string is zero.
func parseLengthInches(value string) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	m := lengthPattern.FindStringSubmatch(value)
	if len(m) != 3 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidMargin, value)
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidMargin, value)
	}

	switch strings.ToLower(m[2]) {
	case "", "px":
		return amount / 96.0, nil
	case "in":
		return amount, nil
	case "cm":
		return amount / 2.54, nil
	case "mm":
		return amount / 25.4, nil
	case "pt":
		return amount / 72.0, nil
	case "pc":
		return amount / 6.0, nil
	default:
		return 0, fmt.Errorf("%w: unsupported unit in %q", domain.ErrInvalidMargin, value)
	}
}
