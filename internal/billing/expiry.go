package billing

import "time"

// CalculateExpiry adds days as calendar days, rolling over month and year
// boundaries in start's location.
func CalculateExpiry(start time.Time, days int) time.Time {
	if days == 0 {
		return start
	}
	return start.AddDate(0, 0, days)
}
