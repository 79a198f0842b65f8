package account

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/Ashutosh-Mohanty/wowb/internal/auth"
	"github.com/Ashutosh-Mohanty/wowb/internal/logger"
	"github.com/Ashutosh-Mohanty/wowb/internal/member"
	"github.com/Ashutosh-Mohanty/wowb/internal/metrics"
	"github.com/Ashutosh-Mohanty/wowb/internal/session"
	"github.com/Ashutosh-Mohanty/wowb/internal/tenant"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrGymRequired        = errors.New("gym id is required")
	ErrTenantPaused       = errors.New("gym access is paused")
	ErrPlatformExpired    = errors.New("gym platform subscription has expired")
)

const adminName = "Platform Admin"

type TenantAuthenticator interface {
	Access(ctx context.Context, id string) (*tenant.Tenant, error)
	Authenticate(ctx context.Context, id, password string) (*tenant.Tenant, error)
}

type MemberAuthenticator interface {
	Authenticate(ctx context.Context, tenantID, key, password string) (*member.Member, error)
}

type AdminCredentials struct {
	Username string
	Password string
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
}

type service struct {
	tenants   TenantAuthenticator
	members   MemberAuthenticator
	sessions  session.Store
	admin     AdminCredentials
	jwtSecret string
	tokenTTL  time.Duration
}

func NewService(tenants TenantAuthenticator, members MemberAuthenticator, sessions session.Store, admin AdminCredentials, jwtSecret string) Service {
	return &service{
		tenants:   tenants,
		members:   members,
		sessions:  sessions,
		admin:     admin,
		jwtSecret: jwtSecret,
		tokenTTL:  auth.AccessTokenTTL,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	principal, err := s.authenticate(ctx, req)
	if err != nil {
		metrics.RecordLogin(string(req.Role), "rejected")
		return nil, err
	}

	sess, err := s.sessions.Create(ctx, principal)
	if err != nil {
		metrics.RecordLogin(string(req.Role), "error")
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := auth.GenerateToken(sess.ID, principal.Subject(), principal.Role, s.jwtSecret, s.tokenTTL)
	if err != nil {
		metrics.RecordLogin(string(req.Role), "error")
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.RecordLogin(string(req.Role), "success")
	logger.Info("login", "role", principal.Role, "subject", principal.Subject(), "session_id", sess.ID)

	return &LoginResponse{
		AccessToken: token,
		ExpiresAt:   sess.ExpiresAt,
		Principal:   principal,
	}, nil
}

func (s *service) authenticate(ctx context.Context, req LoginRequest) (session.Principal, error) {
	if req.Role == auth.RoleSuperAdmin {
		userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.admin.Username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.admin.Password)) == 1
		if !userOK || !passOK {
			return session.Principal{}, ErrInvalidCredentials
		}
		return session.NewAdmin(adminName), nil
	}

	if req.GymID == "" {
		return session.Principal{}, ErrGymRequired
	}

	switch req.Role {
	case auth.RoleManager:
		t, err := s.tenants.Authenticate(ctx, req.GymID, req.Password)
		if err != nil {
			return session.Principal{}, mapTenantError(err)
		}
		return session.NewManager(t.ID, t.Name), nil

	case auth.RoleMember:
		t, err := s.tenants.Access(ctx, req.GymID)
		if err != nil {
			return session.Principal{}, mapTenantError(err)
		}
		m, err := s.members.Authenticate(ctx, t.ID, req.Username, req.Password)
		if err != nil {
			if errors.Is(err, member.ErrInvalidPassword) {
				return session.Principal{}, ErrInvalidCredentials
			}
			return session.Principal{}, err
		}
		return session.NewMember(m.ID, t.ID, m.Name), nil
	}

	return session.Principal{}, ErrInvalidCredentials
}

// mapTenantError hides whether a gym exists behind a generic credential
// error, but reports paused and expired gyms explicitly.
func mapTenantError(err error) error {
	switch {
	case errors.Is(err, tenant.ErrTenantNotFound), errors.Is(err, tenant.ErrInvalidPassword):
		return ErrInvalidCredentials
	case errors.Is(err, tenant.ErrTenantPaused):
		return ErrTenantPaused
	case errors.Is(err, tenant.ErrPlatformExpired):
		return ErrPlatformExpired
	default:
		return err
	}
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	logger.Info("logout", "session_id", sessionID)
	return nil
}
