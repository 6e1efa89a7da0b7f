package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrInvalidMonths indicates a dial schedule month count is not positive.
	ErrInvalidMonths = errors.New("dial months must be > 0")

	// ErrInvalidWindow indicates an error window that is not of the form <N>M.
	ErrInvalidWindow = errors.New("error window must look like 3M, 6M, or 12M")
)

var windowRe = regexp.MustCompile(`^\d+M$`)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	if cfg.Dial.FlatMonths <= 0 {
		errs = append(errs, fmt.Errorf("dial.flat_months: %w", ErrInvalidMonths))
	}
	if cfg.Dial.RampMonths <= 0 {
		errs = append(errs, fmt.Errorf("dial.ramp_months: %w", ErrInvalidMonths))
	}

	if w := NormalizeErrorWindow(cfg.Tracking.ErrorWindow); w != "" && !windowRe.MatchString(w) {
		errs = append(errs, fmt.Errorf("tracking.error_window %q: %w", cfg.Tracking.ErrorWindow, ErrInvalidWindow))
	}

	return errs
}

// NormalizeErrorWindow canonicalizes an error window selector.
// "6m", " 6 M ", and "6" all normalize to "6M". Empty stays empty,
// meaning "all error columns".
func NormalizeErrorWindow(window string) string {
	s := strings.ToUpper(strings.ReplaceAll(window, " ", ""))
	if s == "" {
		return ""
	}
	if strings.HasSuffix(s, "M") {
		return s
	}
	if allDigits(s) {
		return s + "M"
	}
	return s
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
