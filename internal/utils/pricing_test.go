package utils

import (
	"errors"
	"math"
	"testing"
	"time"

	"fleet-rental-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestTotalCost(t *testing.T) {
	tests := []struct {
		name     string
		rate     int64
		days     int32
		expected int64
		wantErr  error
	}{
		{"45.00 for 3 days", 4500, 3, 13500, nil},
		{"45.00 for 2 days", 4500, 2, 9000, nil},
		{"single day", 1999, 1, 1999, nil},
		{"zero rate", 0, 3, 0, domain.ErrValidationFailed},
		{"negative rate", -100, 3, 0, domain.ErrValidationFailed},
		{"zero days", 4500, 0, 0, domain.ErrValidationFailed},
		{"overflow", math.MaxInt64 / 2, 3, 0, domain.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := TotalCost(tt.rate, tt.days)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, cost)
		})
	}
}

func TestCheckReturnMileage(t *testing.T) {
	assert.NoError(t, CheckReturnMileage(15000, 15200))
	assert.NoError(t, CheckReturnMileage(15000, 15000))
	assert.True(t, errors.Is(CheckReturnMileage(15000, 14900), domain.ErrMileageRegression))
	assert.True(t, errors.Is(CheckReturnMileage(0, -1), domain.ErrValidationFailed))
}

func TestExpectedReturnDate(t *testing.T) {
	start := time.Date(2024, 2, 28, 10, 0, 0, 0, time.UTC)
	got := ExpectedReturnDate(start, 2)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), got)
	assert.True(t, got.After(start))
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "135.00", FormatCents(13500))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "-1.50", FormatCents(-150))
}
