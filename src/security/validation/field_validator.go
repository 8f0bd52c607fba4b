package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrValidationFailed is the sentinel wrapped by every validator here, so
// callers can map any validation failure to a 400 with errors.Is.
var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1024
	MaxStockCodeLength   = 10
	MaxSymbolLength      = 10
)

// --- String Validators ---

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// --- Numeric Validators ---

// ValidatePositiveNumber checks that a value is finite and strictly
// positive. Quantities and unit prices must never be zero or negative, and
// non-finite values must be rejected here: the holdings processor is
// defined only over finite input.
func ValidatePositiveNumber(val float64, fieldName string) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrValidationFailed, fieldName)
	}
	if val <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateNonNegativeNumber checks that a value is finite and >= 0 (fees and taxes).
func ValidateNonNegativeNumber(val float64, fieldName string) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrValidationFailed, fieldName)
	}
	if val < 0 {
		return fmt.Errorf("%w: %s cannot be negative", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateWholeNumber checks that a value has no fractional part. TW stock
// shares trade in whole units only.
func ValidateWholeNumber(val float64, fieldName string) error {
	if val != math.Trunc(val) {
		return fmt.Errorf("%w: %s must be a whole number", ErrValidationFailed, fieldName)
	}
	return nil
}

// --- Date Validator ---

// ValidateDateString checks if a string is a valid date in "YYYY-MM-DD" format.
func ValidateDateString(s, fieldName string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, fieldName); err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s ('%s') is not a valid date (expected YYYY-MM-DD): %v", ErrValidationFailed, fieldName, s, err)
	}
	if t.Format("2006-01-02") != trimmed {
		return time.Time{}, fmt.Errorf("%w: %s ('%s') is an invalid date (e.g., day/month mismatch)", ErrValidationFailed, fieldName, s)
	}
	return t, nil
}

// --- Specific Format Validators ---

var (
	stockCodeRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.]*$`)
	symbolRegex    = regexp.MustCompile(`^[A-Z0-9]+$`)
)

// ValidateMarket checks that market is one of the supported stock markets.
func ValidateMarket(s string) error {
	if s != "TW" && s != "US" {
		return fmt.Errorf("%w: market ('%s') must be TW or US", ErrValidationFailed, s)
	}
	return nil
}

// ValidateAction checks that a transaction type is BUY or SELL.
func ValidateAction(s string) error {
	if s != "BUY" && s != "SELL" {
		return fmt.Errorf("%w: type ('%s') must be BUY or SELL", ErrValidationFailed, s)
	}
	return nil
}

// ValidateStockCode checks a ticker code: uppercase alphanumerics with
// optional dots (e.g. "2330", "BRK.B").
func ValidateStockCode(s string) error {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, "code"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(trimmed, MaxStockCodeLength, "code"); err != nil {
		return err
	}
	if !stockCodeRegex.MatchString(trimmed) {
		return fmt.Errorf("%w: code ('%s') is not in the expected format (uppercase alphanumeric, optional dots)", ErrValidationFailed, s)
	}
	return nil
}

// ValidateCryptoSymbol checks a crypto symbol (e.g. "BTC").
func ValidateCryptoSymbol(s string) error {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, "symbol"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(trimmed, MaxSymbolLength, "symbol"); err != nil {
		return err
	}
	if !symbolRegex.MatchString(trimmed) {
		return fmt.Errorf("%w: symbol ('%s') is not in the expected format (uppercase alphanumeric)", ErrValidationFailed, s)
	}
	return nil
}
