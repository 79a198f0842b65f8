package member

import (
	"testing"
	"time"

	"github.com/Ashutosh-Mohanty/wowb/internal/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplementBills_NilStoresEmptyArray(t *testing.T) {
	var bills SupplementBills
	v, err := bills.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestPhotos_ScanString(t *testing.T) {
	var p Photos
	require.NoError(t, p.Scan(`{"before":"b.jpg","after":"a.jpg"}`))
	assert.Equal(t, Photos{Before: "b.jpg", After: "a.jpg"}, p)
}

func TestPhotos_ScanUnsupported(t *testing.T) {
	var p Photos
	assert.Error(t, p.Scan(42))
}

func TestNewView_DerivesStatus(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		expiry time.Time
		status billing.Status
		days   int
	}{
		{now.AddDate(0, 0, 20), billing.StatusActive, 20},
		{now.AddDate(0, 0, 5), billing.StatusExpiringSoon, 5},
		{now.Add(-3 * time.Hour), billing.StatusExpiringSoon, 0},
		{now.AddDate(0, 0, -2), billing.StatusExpired, -2},
	}

	for _, tt := range tests {
		v := NewView(Member{ExpiryDate: tt.expiry}, now)
		assert.Equal(t, tt.status, v.Status)
		assert.Equal(t, tt.days, v.DaysLeft)
	}
}
