package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(cat Category, amount int64, at time.Time) Transaction {
	return Transaction{ID: NewTransactionID(), Category: cat, Amount: amount, Date: at}
}

func TestAggregate_All(t *testing.T) {
	now := day(2024, 6, 1)
	txs := []Transaction{
		tx(CategoryMembership, 100, now),
		tx(CategorySupplement, 40, now.AddDate(-1, 0, 0)),
		tx(CategoryMembership, 60, now.AddDate(0, -2, 0)),
	}

	rev := Aggregate(txs, Window{Kind: WindowAll}, now)

	assert.Equal(t, int64(200), rev.Total)
	assert.Equal(t, int64(160), rev.Membership)
	assert.Equal(t, int64(40), rev.Supplement)
	assert.Len(t, rev.Transactions, 3)
}

func TestAggregate_Today(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, loc)
	txs := []Transaction{
		tx(CategoryMembership, 100, time.Date(2024, 6, 1, 0, 30, 0, 0, loc)),
		// 2024-05-31T19:00Z is 2024-06-01 00:30 in IST
		tx(CategorySupplement, 40, time.Date(2024, 5, 31, 19, 0, 0, 0, time.UTC)),
		tx(CategoryMembership, 60, time.Date(2024, 5, 31, 23, 59, 0, 0, loc)),
	}

	rev := Aggregate(txs, Window{Kind: WindowToday}, now)

	assert.Equal(t, int64(140), rev.Total)
	assert.Equal(t, int64(100), rev.Membership)
	assert.Equal(t, int64(40), rev.Supplement)
}

func TestAggregate_ThisMonth(t *testing.T) {
	now := day(2024, 6, 15)
	txs := []Transaction{
		tx(CategoryMembership, 100, day(2024, 6, 1)),
		tx(CategoryMembership, 50, day(2024, 6, 30)),
		tx(CategoryMembership, 70, day(2024, 5, 31)),
		tx(CategoryMembership, 80, day(2023, 6, 10)),
	}

	rev := Aggregate(txs, Window{Kind: WindowMonth}, now)

	assert.Equal(t, int64(150), rev.Total)
	assert.Len(t, rev.Transactions, 2)
}

func TestAggregate_SpecificDate(t *testing.T) {
	now := day(2024, 6, 15)
	txs := []Transaction{
		tx(CategoryMembership, 100, time.Date(2024, 6, 3, 23, 0, 0, 0, time.UTC)),
		tx(CategorySupplement, 20, time.Date(2024, 6, 4, 1, 0, 0, 0, time.UTC)),
	}

	w, err := ParseWindow("date", "2024-06-03", "")
	require.NoError(t, err)

	rev := Aggregate(txs, w, now)

	assert.Equal(t, int64(100), rev.Total)
	assert.Equal(t, int64(0), rev.Supplement)
}

func TestAggregate_RangeIsInclusiveOnRawTimestamps(t *testing.T) {
	now := day(2024, 6, 15)
	txs := []Transaction{
		tx(CategoryMembership, 100, day(2024, 6, 1)),
		tx(CategoryMembership, 10, day(2024, 6, 5)),
		// later on the end date than midnight: excluded
		tx(CategorySupplement, 40, time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC)),
		tx(CategoryMembership, 5, day(2024, 5, 31)),
	}

	w, err := ParseWindow("range", "2024-06-01", "2024-06-05")
	require.NoError(t, err)

	rev := Aggregate(txs, w, now)

	assert.Equal(t, int64(110), rev.Total)
	assert.Equal(t, int64(110), rev.Membership)
	assert.Equal(t, int64(0), rev.Supplement)
}

func TestAggregate_EmptyInput(t *testing.T) {
	rev := Aggregate(nil, Window{Kind: WindowAll}, day(2024, 6, 1))

	assert.Equal(t, int64(0), rev.Total)
	assert.NotNil(t, rev.Transactions)
	assert.Empty(t, rev.Transactions)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	now := day(2024, 6, 1)
	txs := []Transaction{
		tx(CategoryMembership, 100, now),
		tx(CategoryMembership, 60, now.AddDate(0, -2, 0)),
	}
	before := append([]Transaction(nil), txs...)

	Aggregate(txs, Window{Kind: WindowMonth}, now)

	assert.Equal(t, before, txs)
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("", "", "")
	require.NoError(t, err)
	assert.Equal(t, WindowMonth, w.Kind)

	w, err = ParseWindow("today", "", "")
	require.NoError(t, err)
	assert.Equal(t, WindowToday, w.Kind)

	_, err = ParseWindow("date", "06/03/2024", "")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseWindow("range", "2024-06-01", "")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseWindow("week", "", "")
	assert.ErrorIs(t, err, ErrUnknownWindow)
}
