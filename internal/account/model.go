package account

import (
	"time"

	"github.com/Ashutosh-Mohanty/wowb/internal/auth"
	"github.com/Ashutosh-Mohanty/wowb/internal/session"
)

// LoginRequest carries the credentials for one of the three roles. GymID is
// required for managers and members; Username is the admin name for
// SUPER_ADMIN and the member id or phone for MEMBER.
type LoginRequest struct {
	Role     auth.Role `json:"role" binding:"required,oneof=SUPER_ADMIN MANAGER MEMBER" example:"MANAGER"`
	GymID    string    `json:"gym_id" example:"GYM001"`
	Username string    `json:"username"`
	Password string    `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string            `json:"access_token"`
	ExpiresAt   time.Time         `json:"expires_at"`
	Principal   session.Principal `json:"principal"`
}

type MeResponse struct {
	SessionID string            `json:"session_id"`
	Principal session.Principal `json:"principal"`
	ExpiresAt time.Time         `json:"expires_at"`
}
