package utils

import (
	"fmt"
	"math"
	"time"

	"fleet-rental-backend/internal/domain"
)

// TotalCost returns dailyRateCents * durationDays. Duration is an explicit
// whole-day count; it is never derived from a pair of dates.
func TotalCost(dailyRateCents int64, durationDays int32) (int64, error) {
	if dailyRateCents <= 0 {
		return 0, domain.Validationf("daily rate must be positive, got %d cents", dailyRateCents)
	}
	if durationDays < 1 {
		return 0, domain.Validationf("duration must be at least 1 day, got %d", durationDays)
	}
	if dailyRateCents > math.MaxInt64/int64(durationDays) {
		return 0, domain.Validationf("total cost overflows for rate %d cents over %d days", dailyRateCents, durationDays)
	}
	return dailyRateCents * int64(durationDays), nil
}

// CheckReturnMileage refuses a return reading below the mileage the rental
// started with.
func CheckReturnMileage(initial, returned int64) error {
	if returned < 0 {
		return domain.Validationf("return mileage must be non-negative, got %d", returned)
	}
	if returned < initial {
		return fmt.Errorf("%w: return mileage %d is below initial mileage %d", domain.ErrMileageRegression, returned, initial)
	}
	return nil
}

// ExpectedReturnDate adds whole calendar days to start.
func ExpectedReturnDate(start time.Time, durationDays int32) time.Time {
	return start.AddDate(0, 0, int(durationDays))
}

// FormatCents renders an amount of cents as a decimal string, e.g. 13500 -> "135.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
