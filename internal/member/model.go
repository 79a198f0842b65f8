package member

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ashutosh-Mohanty/wowb/internal/billing"
)

// DefaultSecret is the member secret used when registration omits one.
const DefaultSecret = "1234"

type Photos struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

func (p Photos) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Photos) Scan(src any) error {
	return scanJSON(src, p)
}

type SupplementBills []billing.SupplementBill

func (b SupplementBills) Value() (driver.Value, error) {
	if b == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]billing.SupplementBill(b))
}

func (b *SupplementBills) Scan(src any) error {
	return scanJSON(src, b)
}

// PaymentRecord is kept on the member for compatibility with imported data.
// Nothing in the service writes to it; the ledger is authoritative.
type PaymentRecord struct {
	ID         string           `json:"id"`
	Date       time.Time        `json:"date"`
	Amount     int64            `json:"amount"`
	Method     billing.Method   `json:"method"`
	RecordedBy string           `json:"recorded_by"`
	Category   billing.Category `json:"category"`
	Details    string           `json:"details,omitempty"`
}

type PaymentHistory []PaymentRecord

func (h PaymentHistory) Value() (driver.Value, error) {
	if h == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]PaymentRecord(h))
}

func (h *PaymentHistory) Scan(src any) error {
	return scanJSON(src, h)
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported JSON column type %T", src)
	}
}

// Member belongs to exactly one tenant. Its status is never stored; see View.
type Member struct {
	ID                   string          `db:"id" json:"id"`
	TenantID             string          `db:"gym_id" json:"gym_id"`
	PasswordHash         string          `db:"password_hash" json:"-"`
	Name                 string          `db:"name" json:"name"`
	Phone                string          `db:"phone" json:"phone"`
	Age                  int             `db:"age" json:"age"`
	Weight               float64         `db:"weight" json:"weight"`
	Height               float64         `db:"height" json:"height"`
	Address              string          `db:"address" json:"address"`
	AmountPaid           int64           `db:"amount_paid" json:"amount_paid"`
	ProfilePhoto         string          `db:"profile_photo" json:"profile_photo,omitempty"`
	JoinDate             time.Time       `db:"join_date" json:"join_date"`
	PlanDurationDays     int             `db:"plan_duration_days" json:"plan_duration_days"`
	ExpiryDate           time.Time       `db:"expiry_date" json:"expiry_date"`
	IsActive             bool            `db:"is_active" json:"is_active"`
	Notes                string          `db:"notes" json:"notes,omitempty"`
	TransformationPhotos Photos          `db:"transformation_photos" json:"transformation_photos"`
	SupplementBills      SupplementBills `db:"supplement_bills" json:"supplement_bills"`
	PaymentHistory       PaymentHistory  `db:"payment_history" json:"payment_history"`
}

// View is a member as read by a caller, with status derived at read time.
type View struct {
	Member
	Status   billing.Status `json:"status"`
	DaysLeft int            `json:"days_left"`
}

func NewView(m Member, now time.Time) View {
	return View{
		Member:   m,
		Status:   billing.Classify(m.ExpiryDate, now),
		DaysLeft: billing.DaysLeft(m.ExpiryDate, now),
	}
}

type ListFilter struct {
	Query    string
	Status   string
	Duration int
}

type RegisterRequest struct {
	ID           string         `json:"id"`
	Name         string         `json:"name" binding:"required"`
	Phone        string         `json:"phone" binding:"required"`
	Password     string         `json:"password" binding:"omitempty,min=4"`
	Age          int            `json:"age" binding:"gte=0"`
	Weight       float64        `json:"weight" binding:"gte=0"`
	Height       float64        `json:"height" binding:"gte=0"`
	Address      string         `json:"address"`
	AmountPaid   int64          `json:"amount_paid" binding:"gte=0"`
	ProfilePhoto string         `json:"profile_photo"`
	JoinDate     string         `json:"join_date" example:"2024-01-20"`
	PlanDays     int            `json:"plan_days" binding:"required,gt=0"`
	Method       billing.Method `json:"method" binding:"omitempty,oneof=ONLINE OFFLINE"`
	Notes        string         `json:"notes"`
}

// UpdateProfileRequest replaces personal details only. Billing fields
// change through extension and supplement operations.
type UpdateProfileRequest struct {
	Name         string  `json:"name" binding:"required"`
	Age          int     `json:"age" binding:"gte=0"`
	Weight       float64 `json:"weight" binding:"gte=0"`
	Height       float64 `json:"height" binding:"gte=0"`
	Address      string  `json:"address"`
	Password     string  `json:"password" binding:"omitempty,min=4"`
	ProfilePhoto string  `json:"profile_photo"`
	Notes        string  `json:"notes"`
	IsActive     *bool   `json:"is_active"`
}

type ExtendRequest struct {
	Days int `json:"days" binding:"required,gt=0"`
	// Amount overrides the plan price when present.
	Amount *int64         `json:"amount" binding:"omitempty,gte=0"`
	Method billing.Method `json:"method" binding:"omitempty,oneof=ONLINE OFFLINE"`
}

type ExtendResponse struct {
	Member      View                `json:"member"`
	Transaction billing.Transaction `json:"transaction"`
}

type SupplementRequest struct {
	ItemName string         `json:"item_name" binding:"required"`
	Qty      int            `json:"qty" binding:"omitempty,gte=1"`
	Days     int            `json:"days" binding:"gte=0"`
	Amount   int64          `json:"amount" binding:"gte=0"`
	Method   billing.Method `json:"method" binding:"omitempty,oneof=ONLINE OFFLINE"`
}

type SupplementResponse struct {
	Member      View                   `json:"member"`
	Bill        billing.SupplementBill `json:"bill"`
	Transaction billing.Transaction    `json:"transaction"`
}

type PhotosRequest struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Outreach struct {
	MemberID string `json:"member_id"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Link     string `json:"link"`
}

type GymSummary struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	TermsAndConditions string `json:"terms_and_conditions"`
}

type Dashboard struct {
	Member       View                  `json:"member"`
	Gym          GymSummary            `json:"gym"`
	DaysActive   int                   `json:"days_active"`
	Transactions []billing.Transaction `json:"transactions"`
	Tip          string                `json:"tip"`
}
