package ledger

import (
	"context"
	"time"

	"github.com/Ashutosh-Mohanty/wowb/internal/billing"
)

type Service interface {
	Transactions(ctx context.Context, tenantID string) ([]billing.Transaction, error)
	MemberTransactions(ctx context.Context, tenantID, memberID string) ([]billing.Transaction, error)
	Revenue(ctx context.Context, tenantID string, w billing.Window) (*billing.Revenue, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService returns a ledger service whose calendar windows (today, this
// month) are evaluated in loc.
func NewService(repo Repository, loc *time.Location) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{
		repo: repo,
		now:  func() time.Time { return time.Now().In(loc) },
	}
}

func (s *service) Transactions(ctx context.Context, tenantID string) ([]billing.Transaction, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}

func (s *service) MemberTransactions(ctx context.Context, tenantID, memberID string) ([]billing.Transaction, error) {
	return s.repo.ListByMember(ctx, tenantID, memberID)
}

func (s *service) Revenue(ctx context.Context, tenantID string, w billing.Window) (*billing.Revenue, error) {
	txs, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	rev := billing.Aggregate(txs, w, s.now())
	return &rev, nil
}
