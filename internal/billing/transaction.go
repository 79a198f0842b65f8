package billing

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryMembership Category = "MEMBERSHIP"
	CategorySupplement Category = "SUPPLEMENT"
)

type Method string

const (
	MethodOnline  Method = "ONLINE"
	MethodOffline Method = "OFFLINE"
)

// RecordedByManager labels entries written from the manager console.
const RecordedByManager = "Manager"

// Transaction is an immutable payment record. Once appended to a tenant's
// ledger it is never updated or deleted.
type Transaction struct {
	ID         string    `db:"id" json:"id"`
	TenantID   string    `db:"gym_id" json:"gym_id"`
	MemberID   string    `db:"member_id" json:"member_id,omitempty"`
	Date       time.Time `db:"date" json:"date"`
	Amount     int64     `db:"amount" json:"amount"`
	Method     Method    `db:"method" json:"method"`
	RecordedBy string    `db:"recorded_by" json:"recorded_by"`
	Category   Category  `db:"category" json:"category"`
	Details    string    `db:"details" json:"details,omitempty"`
}

// SupplementBill is embedded in a member record. Days is stored as entered
// and not consumed by any calculation.
type SupplementBill struct {
	ID       string    `json:"id"`
	ItemName string    `json:"item_name"`
	Qty      int       `json:"qty"`
	Days     int       `json:"days"`
	Amount   int64     `json:"amount"`
	Date     time.Time `json:"date"`
}

// NewTransactionID returns a time-ordered identifier.
func NewTransactionID() string {
	return "TX-" + newV7()
}

func NewSupplementID() string {
	return "SUP-" + newV7()
}

func newV7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
