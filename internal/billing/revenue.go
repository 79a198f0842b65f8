package billing

import (
	"errors"
	"time"
)

type WindowKind string

const (
	WindowAll   WindowKind = "all"
	WindowToday WindowKind = "today"
	WindowMonth WindowKind = "month"
	WindowDate  WindowKind = "date"
	WindowRange WindowKind = "range"
)

const isoDate = "2006-01-02"

var (
	ErrUnknownWindow = errors.New("unknown revenue window")
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
)

// Window selects transactions for a revenue summary. Date is used by
// WindowDate; Start and End by WindowRange.
type Window struct {
	Kind  WindowKind
	Date  string
	Start time.Time
	End   time.Time
}

// ParseWindow builds a Window from query parameters. Range bounds are parsed
// as midnight UTC, so a transaction later on the end date falls outside the
// range unless the caller passes a later end.
func ParseWindow(kind, start, end string) (Window, error) {
	switch WindowKind(kind) {
	case "", WindowMonth:
		return Window{Kind: WindowMonth}, nil
	case WindowAll, WindowToday:
		return Window{Kind: WindowKind(kind)}, nil
	case WindowDate:
		if _, err := time.Parse(isoDate, start); err != nil {
			return Window{}, ErrInvalidDate
		}
		return Window{Kind: WindowDate, Date: start}, nil
	case WindowRange:
		s, err := time.Parse(isoDate, start)
		if err != nil {
			return Window{}, ErrInvalidDate
		}
		e, err := time.Parse(isoDate, end)
		if err != nil {
			return Window{}, ErrInvalidDate
		}
		return Window{Kind: WindowRange, Start: s, End: e}, nil
	}
	return Window{}, ErrUnknownWindow
}

// Contains reports whether a transaction timestamp falls in the window.
// TODAY and THIS_MONTH compare calendar fields in now's location; a specific
// date compares the ISO (UTC) date; a range compares raw timestamps,
// inclusive at both ends.
func (w Window) Contains(t, now time.Time) bool {
	switch w.Kind {
	case WindowToday:
		lt := t.In(now.Location())
		ty, tm, td := lt.Date()
		ny, nm, nd := now.Date()
		return ty == ny && tm == nm && td == nd
	case WindowMonth:
		lt := t.In(now.Location())
		return lt.Year() == now.Year() && lt.Month() == now.Month()
	case WindowDate:
		return t.UTC().Format(isoDate) == w.Date
	case WindowRange:
		return !t.Before(w.Start) && !t.After(w.End)
	default:
		return true
	}
}

type Revenue struct {
	Total        int64         `json:"total"`
	Membership   int64         `json:"membership"`
	Supplement   int64         `json:"supplement"`
	Transactions []Transaction `json:"transactions"`
}

// Aggregate filters txs by w and totals them by category. It never mutates
// txs and keeps their order.
func Aggregate(txs []Transaction, w Window, now time.Time) Revenue {
	rev := Revenue{Transactions: make([]Transaction, 0, len(txs))}
	for _, tx := range txs {
		if !w.Contains(tx.Date, now) {
			continue
		}
		rev.Transactions = append(rev.Transactions, tx)
		rev.Total += tx.Amount
		switch tx.Category {
		case CategoryMembership:
			rev.Membership += tx.Amount
		case CategorySupplement:
			rev.Supplement += tx.Amount
		}
	}
	return rev
}
