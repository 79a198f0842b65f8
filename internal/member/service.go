package member

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Ashutosh-Mohanty/wowb/internal/auth"
	"github.com/Ashutosh-Mohanty/wowb/internal/billing"
	"github.com/Ashutosh-Mohanty/wowb/internal/draft"
	"github.com/Ashutosh-Mohanty/wowb/internal/logger"
	"github.com/Ashutosh-Mohanty/wowb/internal/metrics"
	"github.com/Ashutosh-Mohanty/wowb/internal/tenant"
)

var (
	ErrMemberNotFound  = errors.New("member not found")
	ErrMemberExists    = errors.New("member already exists")
	ErrInvalidJoinDate = errors.New("invalid join date")
	ErrInvalidFilter   = errors.New("invalid status filter")
	ErrInvalidPassword = errors.New("invalid member credentials")
)

const dateLayout = "2006-01-02"

type TenantReader interface {
	Get(ctx context.Context, id string) (*tenant.Tenant, error)
}

type LedgerReader interface {
	MemberTransactions(ctx context.Context, tenantID, memberID string) ([]billing.Transaction, error)
}

type Service interface {
	List(ctx context.Context, tenantID string, filter ListFilter) ([]View, error)
	Get(ctx context.Context, tenantID, id string) (*View, error)
	Register(ctx context.Context, tenantID string, req RegisterRequest) (*View, error)
	UpdateProfile(ctx context.Context, tenantID, id string, req UpdateProfileRequest) (*View, error)
	Delete(ctx context.Context, tenantID, id string) error
	Extend(ctx context.Context, tenantID, id string, req ExtendRequest) (*ExtendResponse, error)
	AddSupplement(ctx context.Context, tenantID, id string, req SupplementRequest) (*SupplementResponse, error)
	SetPhotos(ctx context.Context, tenantID, id string, req PhotosRequest) (*View, error)
	Outreach(ctx context.Context, tenantID, id string) (*Outreach, error)
	Dashboard(ctx context.Context, tenantID, id string) (*Dashboard, error)
	Authenticate(ctx context.Context, tenantID, key, password string) (*Member, error)
}

type service struct {
	repo    Repository
	tenants TenantReader
	ledger  LedgerReader
	drafter draft.Drafter
	now     func() time.Time
}

func NewService(repo Repository, tenants TenantReader, ledger LedgerReader, drafter draft.Drafter) Service {
	if drafter == nil {
		drafter = draft.New(nil)
	}
	return &service{
		repo:    repo,
		tenants: tenants,
		ledger:  ledger,
		drafter: drafter,
		now:     time.Now,
	}
}

func (s *service) List(ctx context.Context, tenantID string, filter ListFilter) ([]View, error) {
	wantStatus := strings.ToUpper(strings.TrimSpace(filter.Status))
	switch wantStatus {
	case "", "ALL":
		wantStatus = ""
	default:
		if !billing.Status(wantStatus).Valid() {
			return nil, ErrInvalidFilter
		}
	}

	members, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	views := make([]View, 0, len(members))
	for _, m := range members {
		v := NewView(m, now)
		if q != "" && !strings.Contains(strings.ToLower(m.Name), q) && !strings.Contains(strings.ToLower(m.ID), q) {
			continue
		}
		if !matchesStatus(v.Status, billing.Status(wantStatus)) {
			continue
		}
		if filter.Duration > 0 && m.PlanDurationDays != filter.Duration {
			continue
		}
		views = append(views, v)
	}
	return views, nil
}

// matchesStatus treats an ACTIVE filter as "not expired", so members about
// to lapse still show up in the active list.
func matchesStatus(got, want billing.Status) bool {
	switch want {
	case "":
		return true
	case billing.StatusActive:
		return got == billing.StatusActive || got == billing.StatusExpiringSoon
	default:
		return got == want
	}
}

func (s *service) Get(ctx context.Context, tenantID, id string) (*View, error) {
	m, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	v := NewView(*m, s.now())
	return &v, nil
}

func (s *service) Register(ctx context.Context, tenantID string, req RegisterRequest) (*View, error) {
	now := s.now()

	joinDate := now
	if req.JoinDate != "" {
		parsed, err := time.Parse(dateLayout, req.JoinDate)
		if err != nil {
			return nil, ErrInvalidJoinDate
		}
		joinDate = parsed
	}

	secret := req.Password
	if secret == "" {
		secret = DefaultSecret
	}
	hash, err := auth.HashPassword(secret)
	if err != nil {
		return nil, fmt.Errorf("hash member secret: %w", err)
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = strings.TrimSpace(req.Phone)
	}

	enrollment := billing.Enroll(billing.EnrollInput{
		TenantID:   tenantID,
		MemberID:   id,
		MemberName: req.Name,
		JoinDate:   joinDate,
		Days:       req.PlanDays,
		AmountPaid: req.AmountPaid,
		Method:     req.Method,
	})

	m := &Member{
		ID:               id,
		TenantID:         tenantID,
		PasswordHash:     hash,
		Name:             req.Name,
		Phone:            req.Phone,
		Age:              req.Age,
		Weight:           req.Weight,
		Height:           req.Height,
		Address:          req.Address,
		AmountPaid:       req.AmountPaid,
		ProfilePhoto:     req.ProfilePhoto,
		JoinDate:         joinDate,
		PlanDurationDays: req.PlanDays,
		ExpiryDate:       enrollment.Expiry,
		IsActive:         true,
		Notes:            req.Notes,
		SupplementBills:  SupplementBills{},
		PaymentHistory:   PaymentHistory{},
	}

	if err := s.repo.Create(ctx, m, &enrollment.Transaction); err != nil {
		return nil, err
	}

	metrics.RecordMemberRegistered()
	metrics.RecordRevenue(string(billing.CategoryMembership), enrollment.Transaction.Amount)
	logger.Info("member registered", "tenant_id", tenantID, "member_id", m.ID, "expiry", m.ExpiryDate)

	v := NewView(*m, now)
	return &v, nil
}

func (s *service) UpdateProfile(ctx context.Context, tenantID, id string, req UpdateProfileRequest) (*View, error) {
	m, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash member secret: %w", err)
		}
		m.PasswordHash = hash
	}

	m.Name = req.Name
	m.Age = req.Age
	m.Weight = req.Weight
	m.Height = req.Height
	m.Address = req.Address
	m.ProfilePhoto = req.ProfilePhoto
	m.Notes = req.Notes
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	v := NewView(*m, s.now())
	return &v, nil
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	logger.Info("member deleted", "tenant_id", tenantID, "member_id", id)
	return nil
}

func (s *service) Extend(ctx context.Context, tenantID, id string, req ExtendRequest) (*ExtendResponse, error) {
	gym, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	m, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ext := billing.Extend(billing.ExtendInput{
		TenantID:      tenantID,
		MemberID:      m.ID,
		MemberName:    m.Name,
		CurrentExpiry: m.ExpiryDate,
		Days:          req.Days,
		Amount:        req.Amount,
		Pricing:       gym.Pricing,
		Method:        req.Method,
		Now:           now,
	})

	m.ExpiryDate = ext.NewExpiry
	m.PlanDurationDays = ext.PlanDurationDays

	if err := s.repo.UpdateWithTransaction(ctx, m, &ext.Transaction); err != nil {
		return nil, err
	}

	metrics.RecordExtension(pricingSource(req))
	metrics.RecordRevenue(string(billing.CategoryMembership), ext.Amount)
	logger.Info("membership extended",
		"tenant_id", tenantID,
		"member_id", m.ID,
		"days", req.Days,
		"amount", ext.Amount,
		"new_expiry", ext.NewExpiry,
	)

	return &ExtendResponse{Member: NewView(*m, now), Transaction: ext.Transaction}, nil
}

func pricingSource(req ExtendRequest) string {
	if req.Amount != nil {
		return "override"
	}
	for _, days := range billing.CanonicalPlans {
		if days == req.Days {
			return "plan"
		}
	}
	return "prorated"
}

func (s *service) AddSupplement(ctx context.Context, tenantID, id string, req SupplementRequest) (*SupplementResponse, error) {
	m, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	qty := req.Qty
	if qty == 0 {
		qty = 1
	}

	now := s.now()
	sale := billing.BillSupplement(billing.SupplementInput{
		TenantID:   tenantID,
		MemberID:   m.ID,
		MemberName: m.Name,
		ItemName:   req.ItemName,
		Qty:        qty,
		Days:       req.Days,
		Amount:     req.Amount,
		Method:     req.Method,
		Now:        now,
	})

	m.SupplementBills = append(m.SupplementBills, sale.Bill)

	if err := s.repo.UpdateWithTransaction(ctx, m, &sale.Transaction); err != nil {
		return nil, err
	}

	metrics.RecordRevenue(string(billing.CategorySupplement), sale.Transaction.Amount)
	logger.Info("supplement billed", "tenant_id", tenantID, "member_id", m.ID, "item", req.ItemName, "amount", req.Amount)

	return &SupplementResponse{Member: NewView(*m, now), Bill: sale.Bill, Transaction: sale.Transaction}, nil
}

func (s *service) SetPhotos(ctx context.Context, tenantID, id string, req PhotosRequest) (*View, error) {
	m, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	m.TransformationPhotos = Photos{Before: req.Before, After: req.After}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	v := NewView(*m, s.now())
	return &v, nil
}

func (s *service) Outreach(ctx context.Context, tenantID, id string) (*Outreach, error) {
	m, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	kind := draft.ChooseKind(billing.Classify(m.ExpiryDate, now), m.JoinDate, now)
	text := s.drafter.DraftMessage(ctx, draft.Request{Kind: kind, Name: m.Name, Expiry: m.ExpiryDate})

	return &Outreach{
		MemberID: m.ID,
		Kind:     string(kind),
		Message:  text,
		Link:     draft.WhatsAppLink(m.Phone, text),
	}, nil
}

func (s *service) Dashboard(ctx context.Context, tenantID, id string) (*Dashboard, error) {
	m, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	gym, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	txs, err := s.ledger.MemberTransactions(ctx, tenantID, m.ID)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []billing.Transaction{}
	}

	now := s.now()
	daysActive := int(math.Ceil(now.Sub(m.JoinDate).Hours() / 24))

	return &Dashboard{
		Member: NewView(*m, now),
		Gym: GymSummary{
			ID:                 gym.ID,
			Name:               gym.Name,
			TermsAndConditions: gym.TermsAndConditions,
		},
		DaysActive:   daysActive,
		Transactions: txs,
		Tip:          s.drafter.DraftTip(ctx, daysActive),
	}, nil
}

// Authenticate matches a member of the tenant by id or phone and checks the
// secret. Tenant access rules are enforced by the caller.
func (s *service) Authenticate(ctx context.Context, tenantID, key, password string) (*Member, error) {
	candidates, err := s.repo.FindByLogin(ctx, tenantID, strings.TrimSpace(key))
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if auth.CheckPassword(candidates[i].PasswordHash, password) {
			return &candidates[i], nil
		}
	}
	return nil, ErrInvalidPassword
}
