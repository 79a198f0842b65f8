package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePrice_CanonicalPlans(t *testing.T) {
	p := Pricing{OneMonth: 1499, TwoMonths: 2800, ThreeMonths: 3999, SixMonths: 8000, TwelveMonths: 15000}

	assert.Equal(t, int64(1499), ResolvePrice(p, 30))
	assert.Equal(t, int64(2800), ResolvePrice(p, 60))
	assert.Equal(t, int64(3999), ResolvePrice(p, 90))
	assert.Equal(t, int64(8000), ResolvePrice(p, 180))
	assert.Equal(t, int64(15000), ResolvePrice(p, 365))
}

func TestResolvePrice_ProRated(t *testing.T) {
	tests := []struct {
		name     string
		oneMonth int64
		days     int
		want     int64
	}{
		{"forty five days", 1500, 45, 2250},
		{"single day rounds down", 1000, 1, 33},
		{"two thirds rounds up", 1000, 2, 67},
		{"exact half rounds up", 45, 1, 2},
		{"zero days", 1500, 0, 0},
		{"twelve months by days is not linear", 1500, 364, 18200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePrice(Pricing{OneMonth: tt.oneMonth}, tt.days))
		})
	}
}

func TestDefaultPricing(t *testing.T) {
	p := DefaultPricing()
	assert.False(t, p.IsZero())
	assert.True(t, Pricing{}.IsZero())
	assert.Equal(t, int64(1500), p.OneMonth)
	assert.Equal(t, int64(15000), p.TwelveMonths)
}
