package member

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ashutosh-Mohanty/wowb/internal/auth"
	"github.com/Ashutosh-Mohanty/wowb/internal/billing"
	"github.com/Ashutosh-Mohanty/wowb/internal/draft"
	"github.com/Ashutosh-Mohanty/wowb/internal/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, tenantID string) ([]Member, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Member), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, tenantID, id string) (*Member, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) FindByLogin(ctx context.Context, tenantID, key string) ([]Member, error) {
	args := m.Called(ctx, tenantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Member), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, mem *Member, t *billing.Transaction) error {
	return m.Called(ctx, mem, t).Error(0)
}

func (m *MockRepository) Update(ctx context.Context, mem *Member) error {
	return m.Called(ctx, mem).Error(0)
}

func (m *MockRepository) UpdateWithTransaction(ctx context.Context, mem *Member, t *billing.Transaction) error {
	return m.Called(ctx, mem, t).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, tenantID, id string) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type stubTenants struct {
	tenant *tenant.Tenant
	err    error
}

func (s stubTenants) Get(_ context.Context, _ string) (*tenant.Tenant, error) {
	return s.tenant, s.err
}

type stubLedger struct {
	txs []billing.Transaction
}

func (s stubLedger) MemberTransactions(_ context.Context, _, _ string) ([]billing.Transaction, error) {
	return s.txs, nil
}

type stubDrafter struct {
	requests []draft.Request
	tipDays  int
}

func (d *stubDrafter) DraftMessage(_ context.Context, req draft.Request) string {
	d.requests = append(d.requests, req)
	return "Hi " + req.Name + " & crew!"
}

func (d *stubDrafter) DraftTip(_ context.Context, days int) string {
	d.tipDays = days
	return "Sleep well."
}

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func testGym() *tenant.Tenant {
	return &tenant.Tenant{ID: "GYM001", Name: "Iron Temple", TermsAndConditions: "No refunds.", Pricing: billing.DefaultPricing()}
}

func newTestService(repo Repository, d draft.Drafter) *service {
	return &service{
		repo:    repo,
		tenants: stubTenants{tenant: testGym()},
		ledger:  stubLedger{},
		drafter: d,
		now:     func() time.Time { return fixedNow },
	}
}

func TestService_Register(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, draft.New(nil))

	var stored *Member
	var recorded *billing.Transaction
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*Member)
			recorded = args.Get(2).(*billing.Transaction)
		}).
		Return(nil)

	v, err := svc.Register(context.Background(), "GYM001", RegisterRequest{
		Name:       "Asha",
		Phone:      "9876543210",
		AmountPaid: 1500,
		JoinDate:   "2024-03-01",
		PlanDays:   30,
	})
	require.NoError(t, err)

	assert.Equal(t, "9876543210", v.ID)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), v.ExpiryDate)
	assert.Equal(t, billing.StatusActive, v.Status)
	assert.True(t, auth.CheckPassword(stored.PasswordHash, DefaultSecret))
	assert.NotNil(t, stored.SupplementBills)

	require.NotNil(t, recorded)
	assert.Equal(t, int64(1500), recorded.Amount)
	assert.Equal(t, billing.CategoryMembership, recorded.Category)
	assert.Equal(t, "9876543210", recorded.MemberID)
	assert.Equal(t, stored.JoinDate, recorded.Date)
	assert.Equal(t, "Initial joining for Asha", recorded.Details)
}

func TestService_Register_StorageFailure(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("tx aborted"))

	_, err := svc.Register(context.Background(), "GYM001", RegisterRequest{Name: "A", Phone: "1", PlanDays: 30})
	assert.Error(t, err)
}

func TestService_Register_InvalidJoinDate(t *testing.T) {
	svc := newTestService(new(MockRepository), nil)

	_, err := svc.Register(context.Background(), "GYM001", RegisterRequest{Name: "A", Phone: "1", PlanDays: 30, JoinDate: "03/01/2024"})
	assert.ErrorIs(t, err, ErrInvalidJoinDate)
}

func TestService_List_Filters(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)

	repo.On("List", mock.Anything, "GYM001").Return([]Member{
		{ID: "111", Name: "Asha", PlanDurationDays: 30, ExpiryDate: fixedNow.AddDate(0, 0, 20)},
		{ID: "222", Name: "Ravi", PlanDurationDays: 90, ExpiryDate: fixedNow.AddDate(0, 0, 3)},
		{ID: "333", Name: "Meera", PlanDurationDays: 30, ExpiryDate: fixedNow.AddDate(0, 0, -10)},
	}, nil)

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{"all", ListFilter{}, []string{"111", "222", "333"}},
		{"active includes expiring soon", ListFilter{Status: "ACTIVE"}, []string{"111", "222"}},
		{"expiring soon only", ListFilter{Status: "EXPIRING_SOON"}, []string{"222"}},
		{"expired", ListFilter{Status: "expired"}, []string{"333"}},
		{"name search", ListFilter{Query: "RAV"}, []string{"222"}},
		{"id search", ListFilter{Query: "33"}, []string{"333"}},
		{"duration", ListFilter{Duration: 30}, []string{"111", "333"}},
		{"combined", ListFilter{Status: "ACTIVE", Duration: 30}, []string{"111"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := svc.List(context.Background(), "GYM001", tt.filter)
			require.NoError(t, err)
			ids := []string{}
			for _, v := range views {
				ids = append(ids, v.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestService_List_InvalidStatus(t *testing.T) {
	svc := newTestService(new(MockRepository), nil)

	_, err := svc.List(context.Background(), "GYM001", ListFilter{Status: "FROZEN"})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestService_Extend(t *testing.T) {
	custom := int64(999)

	tests := []struct {
		name       string
		expiry     time.Time
		req        ExtendRequest
		wantExpiry time.Time
		wantAmount int64
	}{
		{
			name:       "active member extends from current expiry",
			expiry:     fixedNow.AddDate(0, 0, 10),
			req:        ExtendRequest{Days: 30},
			wantExpiry: fixedNow.AddDate(0, 0, 40),
			wantAmount: 1500,
		},
		{
			name:       "expired member extends from now",
			expiry:     fixedNow.AddDate(0, 0, -20),
			req:        ExtendRequest{Days: 90},
			wantExpiry: fixedNow.AddDate(0, 0, 90),
			wantAmount: 4000,
		},
		{
			name:       "non-standard duration is prorated",
			expiry:     fixedNow,
			req:        ExtendRequest{Days: 45},
			wantExpiry: fixedNow.AddDate(0, 0, 45),
			wantAmount: 2250,
		},
		{
			name:       "override amount wins",
			expiry:     fixedNow.AddDate(0, 0, 1),
			req:        ExtendRequest{Days: 30, Amount: &custom},
			wantExpiry: fixedNow.AddDate(0, 0, 31),
			wantAmount: 999,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			svc := newTestService(repo, nil)

			m := &Member{ID: "111", TenantID: "GYM001", Name: "Asha", PlanDurationDays: 30, ExpiryDate: tt.expiry}
			repo.On("GetByID", mock.Anything, "GYM001", "111").Return(m, nil)
			repo.On("UpdateWithTransaction", mock.Anything, m, mock.AnythingOfType("*billing.Transaction")).Return(nil)

			resp, err := svc.Extend(context.Background(), "GYM001", "111", tt.req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantExpiry, resp.Member.ExpiryDate)
			assert.Equal(t, tt.req.Days, resp.Member.PlanDurationDays)
			assert.Equal(t, tt.wantAmount, resp.Transaction.Amount)
			assert.Equal(t, billing.CategoryMembership, resp.Transaction.Category)
			assert.Equal(t, billing.MethodOffline, resp.Transaction.Method)
			assert.Equal(t, fixedNow, resp.Transaction.Date)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Extend_FailureLeavesNoPartialState(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)

	m := &Member{ID: "111", ExpiryDate: fixedNow}
	repo.On("GetByID", mock.Anything, "GYM001", "111").Return(m, nil)
	repo.On("UpdateWithTransaction", mock.Anything, m, mock.Anything).Return(errors.New("rolled back"))

	_, err := svc.Extend(context.Background(), "GYM001", "111", ExtendRequest{Days: 30})
	assert.Error(t, err)
}

func TestService_Extend_UnknownTenant(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)
	svc.tenants = stubTenants{err: tenant.ErrTenantNotFound}

	_, err := svc.Extend(context.Background(), "GYM404", "111", ExtendRequest{Days: 30})
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	repo.AssertNotCalled(t, "UpdateWithTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_AddSupplement(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)

	m := &Member{ID: "111", Name: "Asha", SupplementBills: SupplementBills{}}
	repo.On("GetByID", mock.Anything, "GYM001", "111").Return(m, nil)
	repo.On("UpdateWithTransaction", mock.Anything, m, mock.Anything).Return(nil)

	resp, err := svc.AddSupplement(context.Background(), "GYM001", "111", SupplementRequest{ItemName: "Whey", Days: 30, Amount: 2500})
	require.NoError(t, err)

	require.Len(t, resp.Member.SupplementBills, 1)
	assert.Equal(t, 1, resp.Bill.Qty)
	assert.Equal(t, 30, resp.Bill.Days)
	assert.Equal(t, int64(2500), resp.Transaction.Amount)
	assert.Equal(t, billing.CategorySupplement, resp.Transaction.Category)
	assert.Equal(t, "Supplement: Whey x 1 for Asha", resp.Transaction.Details)
}

func TestService_SetPhotos(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)

	m := &Member{ID: "111"}
	repo.On("GetByID", mock.Anything, "GYM001", "111").Return(m, nil)
	repo.On("Update", mock.Anything, m).Return(nil)

	v, err := svc.SetPhotos(context.Background(), "GYM001", "111", PhotosRequest{Before: "b.jpg", After: "a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "a.jpg", v.TransformationPhotos.After)
}

func TestService_UpdateProfile_KeepsSecretWhenBlank(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, nil)

	m := &Member{ID: "111", PasswordHash: "existing", ExpiryDate: fixedNow.AddDate(0, 0, 30), PlanDurationDays: 30}
	repo.On("GetByID", mock.Anything, "GYM001", "111").Return(m, nil)
	repo.On("Update", mock.Anything, m).Return(nil)

	v, err := svc.UpdateProfile(context.Background(), "GYM001", "111", UpdateProfileRequest{Name: "Asha K", Weight: 60})
	require.NoError(t, err)
	assert.Equal(t, "existing", m.PasswordHash)
	assert.Equal(t, "Asha K", v.Name)
	assert.Equal(t, 30, v.PlanDurationDays)
}

func TestService_Outreach(t *testing.T) {
	tests := []struct {
		name   string
		member Member
		kind   draft.Kind
	}{
		{"expiring", Member{ID: "1", Name: "Asha", Phone: "911", JoinDate: fixedNow.AddDate(0, -3, 0), ExpiryDate: fixedNow.AddDate(0, 0, 2)}, draft.KindRenewalReminder},
		{"new joiner", Member{ID: "2", Name: "Ravi", Phone: "922", JoinDate: fixedNow.AddDate(0, 0, -2), ExpiryDate: fixedNow.AddDate(0, 0, 28)}, draft.KindWelcome},
		{"regular", Member{ID: "3", Name: "Meera", Phone: "933", JoinDate: fixedNow.AddDate(0, -2, 0), ExpiryDate: fixedNow.AddDate(0, 1, 0)}, draft.KindRetentionOffer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			d := &stubDrafter{}
			svc := newTestService(repo, d)
			m := tt.member
			repo.On("GetByID", mock.Anything, "GYM001", m.ID).Return(&m, nil)

			out, err := svc.Outreach(context.Background(), "GYM001", m.ID)
			require.NoError(t, err)
			assert.Equal(t, string(tt.kind), out.Kind)
			assert.Equal(t, "Hi "+m.Name+" & crew!", out.Message)
			assert.Equal(t, draft.WhatsAppLink(m.Phone, out.Message), out.Link)
			require.Len(t, d.requests, 1)
			assert.Equal(t, m.ExpiryDate, d.requests[0].Expiry)
		})
	}
}

func TestService_Dashboard(t *testing.T) {
	repo := new(MockRepository)
	d := &stubDrafter{}
	svc := newTestService(repo, d)
	svc.ledger = stubLedger{txs: []billing.Transaction{{ID: "TX-1", MemberID: "111", Amount: 1500}}}

	m := &Member{ID: "111", Name: "Asha", JoinDate: fixedNow.Add(-(10*24 + 1) * time.Hour), ExpiryDate: fixedNow.AddDate(0, 0, 20)}
	repo.On("GetByID", mock.Anything, "GYM001", "111").Return(m, nil)

	dash, err := svc.Dashboard(context.Background(), "GYM001", "111")
	require.NoError(t, err)

	assert.Equal(t, "Iron Temple", dash.Gym.Name)
	assert.Equal(t, "No refunds.", dash.Gym.TermsAndConditions)
	assert.Equal(t, 11, dash.DaysActive)
	assert.Equal(t, 11, d.tipDays)
	assert.Equal(t, "Sleep well.", dash.Tip)
	assert.Equal(t, 20, dash.Member.DaysLeft)
	assert.Len(t, dash.Transactions, 1)
}

func TestService_Authenticate(t *testing.T) {
	hash, err := auth.HashPassword("1234")
	require.NoError(t, err)

	repo := new(MockRepository)
	svc := newTestService(repo, nil)
	repo.On("FindByLogin", mock.Anything, "GYM001", "9876543210").Return([]Member{
		{ID: "9876543210", PasswordHash: hash, Name: "Asha"},
	}, nil)
	repo.On("FindByLogin", mock.Anything, "GYM001", "unknown").Return([]Member{}, nil)

	m, err := svc.Authenticate(context.Background(), "GYM001", " 9876543210 ", "1234")
	require.NoError(t, err)
	assert.Equal(t, "Asha", m.Name)

	_, err = svc.Authenticate(context.Background(), "GYM001", "9876543210", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = svc.Authenticate(context.Background(), "GYM001", "unknown", "1234")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}
