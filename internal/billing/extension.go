package billing

import (
	"fmt"
	"time"
)

type ExtendInput struct {
	TenantID      string
	MemberID      string
	MemberName    string
	CurrentExpiry time.Time
	Days          int
	// Amount overrides the resolved plan price when set.
	Amount     *int64
	Pricing    Pricing
	Method     Method
	RecordedBy string
	Now        time.Time
}

// Extension is the outcome of a renewal: the member's new window and the
// membership transaction that bills for it. Both must be persisted together.
type Extension struct {
	Anchor           time.Time
	NewExpiry        time.Time
	PlanDurationDays int
	Amount           int64
	Transaction      Transaction
}

// Extend anchors the new window on the later of the current expiry and now,
// so an active membership loses no days and an expired one is never
// back-dated.
func Extend(in ExtendInput) Extension {
	anchor := in.Now
	if in.CurrentExpiry.After(in.Now) {
		anchor = in.CurrentExpiry
	}

	amount := ResolvePrice(in.Pricing, in.Days)
	if in.Amount != nil {
		amount = *in.Amount
	}

	return Extension{
		Anchor:           anchor,
		NewExpiry:        CalculateExpiry(anchor, in.Days),
		PlanDurationDays: in.Days,
		Amount:           amount,
		Transaction: Transaction{
			ID:         NewTransactionID(),
			TenantID:   in.TenantID,
			MemberID:   in.MemberID,
			Date:       in.Now,
			Amount:     amount,
			Method:     methodOrOffline(in.Method),
			RecordedBy: recordedByOrManager(in.RecordedBy),
			Category:   CategoryMembership,
			Details:    fmt.Sprintf("Extension: %d days for %s", in.Days, in.MemberName),
		},
	}
}

type EnrollInput struct {
	TenantID   string
	MemberID   string
	MemberName string
	JoinDate   time.Time
	Days       int
	AmountPaid int64
	Method     Method
	RecordedBy string
}

type Enrollment struct {
	Expiry      time.Time
	Transaction Transaction
}

// Enroll computes a new member's expiry and the initial membership payment,
// dated on the join date.
func Enroll(in EnrollInput) Enrollment {
	return Enrollment{
		Expiry: CalculateExpiry(in.JoinDate, in.Days),
		Transaction: Transaction{
			ID:         NewTransactionID(),
			TenantID:   in.TenantID,
			MemberID:   in.MemberID,
			Date:       in.JoinDate,
			Amount:     in.AmountPaid,
			Method:     methodOrOffline(in.Method),
			RecordedBy: recordedByOrManager(in.RecordedBy),
			Category:   CategoryMembership,
			Details:    fmt.Sprintf("Initial joining for %s", in.MemberName),
		},
	}
}

type SupplementInput struct {
	TenantID   string
	MemberID   string
	MemberName string
	ItemName   string
	Qty        int
	Days       int
	Amount     int64
	Method     Method
	RecordedBy string
	Now        time.Time
}

type SupplementSale struct {
	Bill        SupplementBill
	Transaction Transaction
}

func BillSupplement(in SupplementInput) SupplementSale {
	return SupplementSale{
		Bill: SupplementBill{
			ID:       NewSupplementID(),
			ItemName: in.ItemName,
			Qty:      in.Qty,
			Days:     in.Days,
			Amount:   in.Amount,
			Date:     in.Now,
		},
		Transaction: Transaction{
			ID:         NewTransactionID(),
			TenantID:   in.TenantID,
			MemberID:   in.MemberID,
			Date:       in.Now,
			Amount:     in.Amount,
			Method:     methodOrOffline(in.Method),
			RecordedBy: recordedByOrManager(in.RecordedBy),
			Category:   CategorySupplement,
			Details:    fmt.Sprintf("Supplement: %s x %d for %s", in.ItemName, in.Qty, in.MemberName),
		},
	}
}

func methodOrOffline(m Method) Method {
	if m == MethodOnline {
		return MethodOnline
	}
	return MethodOffline
}

func recordedByOrManager(s string) string {
	if s == "" {
		return RecordedByManager
	}
	return s
}
