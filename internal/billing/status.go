package billing

import (
	"math"
	"time"
)

type Status string

const (
	StatusActive       Status = "ACTIVE"
	StatusExpiringSoon Status = "EXPIRING_SOON"
	StatusExpired      Status = "EXPIRED"
)

// ExpiringSoonDays is the largest number of remaining days still reported
// as EXPIRING_SOON.
const ExpiringSoonDays = 5

// DaysLeft returns the number of days until expiry rounded up, so an expiry
// later today yields 0 rather than a negative number.
func DaysLeft(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// Classify derives a subscription status. It is evaluated on every read and
// never persisted.
func Classify(expiry, now time.Time) Status {
	days := DaysLeft(expiry, now)
	switch {
	case days < 0:
		return StatusExpired
	case days <= ExpiringSoonDays:
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusExpiringSoon, StatusExpired:
		return true
	}
	return false
}
