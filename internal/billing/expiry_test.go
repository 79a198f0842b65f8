package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateExpiry(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		days  int
		want  time.Time
	}{
		{
			name:  "rolls over month boundary",
			start: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
			days:  15,
			want:  time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "rolls over year boundary",
			start: time.Date(2024, 12, 31, 9, 30, 0, 0, time.UTC),
			days:  30,
			want:  time.Date(2025, 1, 30, 9, 30, 0, 0, time.UTC),
		},
		{
			name:  "leap year february",
			start: time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
			days:  1,
			want:  time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "full year",
			start: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
			days:  365,
			want:  time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "zero days is unchanged",
			start: time.Date(2024, 5, 5, 17, 0, 0, 0, time.UTC),
			days:  0,
			want:  time.Date(2024, 5, 5, 17, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(CalculateExpiry(tt.start, tt.days)), "got %s", CalculateExpiry(tt.start, tt.days))
		})
	}
}

func TestCalculateExpiry_CalendarDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	start := time.Date(2024, 3, 9, 8, 0, 0, 0, loc)
	got := CalculateExpiry(start, 1)

	assert.Equal(t, 10, got.Day())
	assert.Equal(t, 8, got.Hour())
}
