package session

import (
	"errors"

	"github.com/Ashutosh-Mohanty/wowb/internal/auth"
)

var ErrInvalidPrincipal = errors.New("invalid principal")

type Admin struct {
	Name string `json:"name"`
}

type Manager struct {
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
}

type Member struct {
	MemberID string `json:"member_id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
}

// Principal is the authenticated identity. Exactly one of Admin, Manager or
// Member is set, matching Role.
type Principal struct {
	Role    auth.Role `json:"role"`
	Admin   *Admin    `json:"admin,omitempty"`
	Manager *Manager  `json:"manager,omitempty"`
	Member  *Member   `json:"member,omitempty"`
}

func NewAdmin(name string) Principal {
	return Principal{Role: auth.RoleSuperAdmin, Admin: &Admin{Name: name}}
}

func NewManager(tenantID, name string) Principal {
	return Principal{Role: auth.RoleManager, Manager: &Manager{TenantID: tenantID, Name: name}}
}

func NewMember(memberID, tenantID, name string) Principal {
	return Principal{Role: auth.RoleMember, Member: &Member{MemberID: memberID, TenantID: tenantID, Name: name}}
}

// Validate checks that the variant set matches Role. Rehydrated sessions
// are only trusted after this passes.
func (p Principal) Validate() error {
	set := 0
	for _, ok := range []bool{p.Admin != nil, p.Manager != nil, p.Member != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return ErrInvalidPrincipal
	}

	switch p.Role {
	case auth.RoleSuperAdmin:
		if p.Admin == nil {
			return ErrInvalidPrincipal
		}
	case auth.RoleManager:
		if p.Manager == nil || p.Manager.TenantID == "" {
			return ErrInvalidPrincipal
		}
	case auth.RoleMember:
		if p.Member == nil || p.Member.MemberID == "" || p.Member.TenantID == "" {
			return ErrInvalidPrincipal
		}
	default:
		return ErrInvalidPrincipal
	}
	return nil
}

// Subject is the identifier placed in the token subject.
func (p Principal) Subject() string {
	switch p.Role {
	case auth.RoleSuperAdmin:
		return "platform"
	case auth.RoleManager:
		return p.Manager.TenantID
	case auth.RoleMember:
		return p.Member.MemberID
	}
	return ""
}

func (p Principal) DisplayName() string {
	switch p.Role {
	case auth.RoleSuperAdmin:
		return p.Admin.Name
	case auth.RoleManager:
		return p.Manager.Name
	case auth.RoleMember:
		return p.Member.Name
	}
	return ""
}
