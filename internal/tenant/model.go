package tenant

import (
	"time"

	"github.com/Ashutosh-Mohanty/wowb/internal/billing"
)

type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusPaused Status = "PAUSED"
)

const (
	DefaultPlanDays = 365
	DefaultTerms    = "Standard Gym Terms Applied."
	DefaultDue      = 100
)

// Tenant is one gym on the platform. SubscriptionExpiry is always
// CreatedAt + SubscriptionPlanDays and is recomputed whenever either changes.
type Tenant struct {
	ID                   string     `db:"id" json:"id"`
	Name                 string     `db:"name" json:"name"`
	Address              string     `db:"address" json:"address"`
	City                 string     `db:"city" json:"city"`
	IDProof              string     `db:"id_proof" json:"id_proof"`
	ContactEmail         string     `db:"contact_email" json:"contact_email,omitempty"`
	PasswordHash         string     `db:"password_hash" json:"-"`
	Status               Status     `db:"status" json:"status"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	SubscriptionPlanDays int        `db:"subscription_plan_days" json:"subscription_plan_days"`
	SubscriptionExpiry   time.Time  `db:"subscription_expiry" json:"subscription_expiry"`
	TermsAndConditions   string     `db:"terms_and_conditions" json:"terms_and_conditions"`
	SubscriptionDue      int64      `db:"subscription_due" json:"subscription_due"`
	LastPaymentDate      *time.Time `db:"last_payment_date" json:"last_payment_date,omitempty"`
	billing.Pricing      `json:"pricing"`
}

func (t *Tenant) PlatformExpired(now time.Time) bool {
	return t.SubscriptionExpiry.Before(now)
}

// SetSubscription sets the platform window and recomputes its expiry.
func (t *Tenant) SetSubscription(start time.Time, days int) {
	t.CreatedAt = start
	t.SubscriptionPlanDays = days
	t.SubscriptionExpiry = billing.CalculateExpiry(start, days)
}

type CreateTenantRequest struct {
	ID           string           `json:"id" binding:"omitempty,max=32"`
	Name         string           `json:"name" binding:"required"`
	Address      string           `json:"address"`
	City         string           `json:"city"`
	IDProof      string           `json:"id_proof"`
	ContactEmail string           `json:"contact_email" binding:"omitempty,email"`
	Password     string           `json:"password" binding:"required,min=4"`
	JoinDate     string           `json:"join_date" example:"2024-01-20"`
	PlanDays     int              `json:"plan_days" binding:"gte=0"`
	Pricing      *billing.Pricing `json:"pricing"`
}

// UpdateTenantRequest replaces the operator-editable fields. An empty
// password keeps the current secret.
type UpdateTenantRequest struct {
	Name         string          `json:"name" binding:"required"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	IDProof      string          `json:"id_proof"`
	ContactEmail string          `json:"contact_email" binding:"omitempty,email"`
	Password     string          `json:"password" binding:"omitempty,min=4"`
	JoinDate     string          `json:"join_date" binding:"required" example:"2024-01-20"`
	PlanDays     int             `json:"plan_days" binding:"required,gt=0"`
	Pricing      billing.Pricing `json:"pricing"`
}

type UpdatePolicyRequest struct {
	TermsAndConditions string `json:"terms_and_conditions" binding:"required"`
}

type Stats struct {
	Total  int   `json:"total"`
	Active int   `json:"active"`
	Paused int   `json:"paused"`
	Due    int64 `json:"due"`
}
