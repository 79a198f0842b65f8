package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ashutosh-Mohanty/wowb/internal/auth"
	"github.com/Ashutosh-Mohanty/wowb/internal/billing"
	"github.com/Ashutosh-Mohanty/wowb/internal/logger"
	"github.com/Ashutosh-Mohanty/wowb/internal/metrics"
)

var (
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrTenantExists    = errors.New("tenant already exists")
	ErrTenantPaused    = errors.New("tenant is paused")
	ErrPlatformExpired = errors.New("platform subscription expired")
	ErrInvalidJoinDate = errors.New("invalid join date")
	ErrInvalidPlanDays = errors.New("plan days must be positive")
	ErrInvalidPassword = errors.New("invalid tenant secret")
)

const dateLayout = "2006-01-02"

// Notifier is told about operator-visible tenant changes. Delivery is best
// effort and never fails the calling operation.
type Notifier interface {
	TenantCreated(ctx context.Context, t *Tenant) error
	TenantStatusChanged(ctx context.Context, t *Tenant) error
}

type Service interface {
	List(ctx context.Context, query string) ([]Tenant, error)
	Get(ctx context.Context, id string) (*Tenant, error)
	Create(ctx context.Context, req CreateTenantRequest) (*Tenant, error)
	Update(ctx context.Context, id string, req UpdateTenantRequest) (*Tenant, error)
	ToggleStatus(ctx context.Context, id string) (*Tenant, error)
	UpdatePolicy(ctx context.Context, id, terms string) (*Tenant, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*Stats, error)
	// Access loads a tenant and checks it may currently sign in.
	Access(ctx context.Context, id string) (*Tenant, error)
	Authenticate(ctx context.Context, id, password string) (*Tenant, error)
}

type service struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier Notifier) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) List(ctx context.Context, query string) ([]Tenant, error) {
	tenants, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tenants, nil
	}

	filtered := make([]Tenant, 0, len(tenants))
	for _, t := range tenants {
		if strings.Contains(strings.ToLower(t.ID), q) ||
			strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(strings.ToLower(t.City), q) {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (s *service) Get(ctx context.Context, id string) (*Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, req CreateTenantRequest) (*Tenant, error) {
	now := s.now()

	start := now
	if req.JoinDate != "" {
		parsed, err := time.Parse(dateLayout, req.JoinDate)
		if err != nil {
			return nil, ErrInvalidJoinDate
		}
		start = parsed
	}

	days := req.PlanDays
	if days == 0 {
		days = DefaultPlanDays
	}

	pricing := billing.DefaultPricing()
	if req.Pricing != nil && !req.Pricing.IsZero() {
		pricing = *req.Pricing
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash tenant secret: %w", err)
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = fmt.Sprintf("GYM%04d", now.UnixMilli()%10000)
	}

	t := &Tenant{
		ID:                 id,
		Name:               req.Name,
		Address:            req.Address,
		City:               req.City,
		IDProof:            req.IDProof,
		ContactEmail:       req.ContactEmail,
		PasswordHash:       hash,
		Status:             StatusActive,
		TermsAndConditions: DefaultTerms,
		SubscriptionDue:    DefaultDue,
		LastPaymentDate:    &now,
		Pricing:            pricing,
	}
	t.SetSubscription(start, days)

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	logger.Info("tenant created", "tenant_id", t.ID, "expiry", t.SubscriptionExpiry)
	s.notify(t, func(n Notifier) error { return n.TenantCreated(ctx, t) })
	return t, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateTenantRequest) (*Tenant, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	start, err := time.Parse(dateLayout, req.JoinDate)
	if err != nil {
		return nil, ErrInvalidJoinDate
	}
	if req.PlanDays <= 0 {
		return nil, ErrInvalidPlanDays
	}

	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash tenant secret: %w", err)
		}
		t.PasswordHash = hash
	}

	t.Name = req.Name
	t.Address = req.Address
	t.City = req.City
	t.IDProof = req.IDProof
	t.ContactEmail = req.ContactEmail
	t.Pricing = req.Pricing
	t.SetSubscription(start, req.PlanDays)

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) ToggleStatus(ctx context.Context, id string) (*Tenant, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.Status == StatusActive {
		t.Status = StatusPaused
	} else {
		t.Status = StatusActive
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	logger.Info("tenant status changed", "tenant_id", t.ID, "status", t.Status)
	s.notify(t, func(n Notifier) error { return n.TenantStatusChanged(ctx, t) })
	return t, nil
}

func (s *service) UpdatePolicy(ctx context.Context, id, terms string) (*Tenant, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t.TermsAndConditions = terms
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("tenant deleted", "tenant_id", id)
	return nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	tenants, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Total: len(tenants)}
	for _, t := range tenants {
		switch t.Status {
		case StatusActive:
			stats.Active++
		case StatusPaused:
			stats.Paused++
		}
		stats.Due += t.SubscriptionDue
	}

	metrics.SetTenantCounts(stats.Active, stats.Paused)
	return stats, nil
}

func (s *service) Access(ctx context.Context, id string) (*Tenant, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status == StatusPaused {
		return nil, ErrTenantPaused
	}
	if t.PlatformExpired(s.now()) {
		return nil, ErrPlatformExpired
	}
	return t, nil
}

func (s *service) Authenticate(ctx context.Context, id, password string) (*Tenant, error) {
	t, err := s.Access(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(t.PasswordHash, password) {
		return nil, ErrInvalidPassword
	}
	return t, nil
}

func (s *service) notify(t *Tenant, send func(Notifier) error) {
	if s.notifier == nil || t.ContactEmail == "" {
		return
	}
	if err := send(s.notifier); err != nil {
		logger.Warn("failed to queue tenant notification", "tenant_id", t.ID, "error", err)
	}
}
