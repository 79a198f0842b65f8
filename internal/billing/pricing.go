package billing

import "github.com/shopspring/decimal"

const (
	DaysOneMonth     = 30
	DaysTwoMonths    = 60
	DaysThreeMonths  = 90
	DaysSixMonths    = 180
	DaysTwelveMonths = 365
)

// CanonicalPlans lists the plan lengths a tenant prices explicitly.
var CanonicalPlans = []int{DaysOneMonth, DaysTwoMonths, DaysThreeMonths, DaysSixMonths, DaysTwelveMonths}

// Pricing is a tenant's price table in whole currency units.
type Pricing struct {
	OneMonth     int64 `db:"price_one_month" json:"one_month" binding:"gte=0"`
	TwoMonths    int64 `db:"price_two_months" json:"two_months" binding:"gte=0"`
	ThreeMonths  int64 `db:"price_three_months" json:"three_months" binding:"gte=0"`
	SixMonths    int64 `db:"price_six_months" json:"six_months" binding:"gte=0"`
	TwelveMonths int64 `db:"price_twelve_months" json:"twelve_months" binding:"gte=0"`
}

func DefaultPricing() Pricing {
	return Pricing{
		OneMonth:     1500,
		TwoMonths:    2800,
		ThreeMonths:  4000,
		SixMonths:    8000,
		TwelveMonths: 15000,
	}
}

func (p Pricing) IsZero() bool {
	return p == Pricing{}
}

// ResolvePrice returns the configured price for a canonical plan length and
// otherwise pro-rates the monthly price per day, rounding half up.
func ResolvePrice(p Pricing, days int) int64 {
	switch days {
	case DaysOneMonth:
		return p.OneMonth
	case DaysTwoMonths:
		return p.TwoMonths
	case DaysThreeMonths:
		return p.ThreeMonths
	case DaysSixMonths:
		return p.SixMonths
	case DaysTwelveMonths:
		return p.TwelveMonths
	}

	return decimal.NewFromInt(p.OneMonth).
		Mul(decimal.NewFromInt(int64(days))).
		Div(decimal.NewFromInt(DaysOneMonth)).
		Round(0).
		IntPart()
}
