package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Season bounds: the first world championship ran in 1950, the upper bound
// keeps fat-fingered years out of the database.
const (
	MinSeason = 1950
	MaxSeason = 2100
)

var (
	// ErrInvalidInput indicates the input failed validation
	ErrInvalidInput = errors.New("invalid input")

	// Event name must start alphanumeric, then letters, numbers, spaces,
	// hyphens, underscores and apostrophes, 2-100 chars
	eventNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9 '_-]{1,99}$`)

	// Driver codes are short alphanumerics ("VER", "44")
	driverCodeRegex = regexp.MustCompile(`^[a-zA-Z0-9]{1,4}$`)
)

// SanitizeString removes potentially dangerous characters and trims whitespace
func SanitizeString(input string) string {
	// Trim whitespace
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters except newline and tab
	var builder strings.Builder
	for _, r := range input {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// ValidateSeason checks if a championship season is plausible
func ValidateSeason(season int) error {
	if season < MinSeason {
		return fmt.Errorf("season must be %d or later", MinSeason)
	}

	if season > MaxSeason {
		return fmt.Errorf("season must not exceed %d", MaxSeason)
	}

	return nil
}

// ValidateEventName checks if a Grand Prix event name is valid
func ValidateEventName(name string) error {
	name = SanitizeString(name)

	if name == "" {
		return errors.New("event name cannot be empty")
	}

	if len(name) < 2 {
		return errors.New("event name must be at least 2 characters")
	}

	if len(name) > 100 {
		return errors.New("event name must not exceed 100 characters")
	}

	if !eventNameRegex.MatchString(name) {
		return errors.New("event name must start with alphanumeric and contain only letters, numbers, spaces, hyphens, underscores, and apostrophes")
	}

	return nil
}

// ValidateDriverCode checks if a driver code or number is valid
func ValidateDriverCode(code string) error {
	code = SanitizeString(code)

	if code == "" {
		return errors.New("driver code cannot be empty")
	}

	if !driverCodeRegex.MatchString(code) {
		return errors.New("driver code must be 1-4 letters or digits")
	}

	return nil
}

// ValidateAPIKey checks if an API key has a plausible shape before the
// expensive bcrypt comparison runs
func ValidateAPIKey(key string) error {
	if key == "" {
		return errors.New("api key cannot be empty")
	}

	if len(key) < 8 {
		return errors.New("api key must be at least 8 characters")
	}

	if len(key) > 128 {
		return errors.New("api key must not exceed 128 characters")
	}

	return nil
}

// ClampLimit bounds a caller-supplied result limit, falling back to def
// when the value is missing or non-positive
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}

	if limit > max {
		return max
	}

	return limit
}
