package pkg

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateReference builds a unique transaction reference from the current
// time and a random suffix, e.g. TXN-1735689600123-4F9A21C7B. Collisions are
// treated as negligible; there is no retry-on-collision path.
func GenerateReference() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), suffix)
}

// ValidateAmount checks that an amount is positive.
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}

// ValidateRating checks that a rating is within the 1..5 scale.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	return nil
}

// NormalizeCourseCode upper-cases and trims a course code.
func NormalizeCourseCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DayStart truncates a time to the start of its UTC calendar day. All streak
// and "today" comparisons use UTC day boundaries.
func DayStart(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// DaysBetween returns the whole number of UTC calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DayStart(b).Sub(DayStart(a)) / (24 * time.Hour))
}

// Weekday returns the English weekday name of a time in UTC, matching the
// names stored on schedule items.
func Weekday(t time.Time) string {
	return t.UTC().Weekday().String()
}
