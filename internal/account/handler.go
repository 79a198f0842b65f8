package account

import (
	"errors"
	"net/http"

	"github.com/Ashutosh-Mohanty/wowb/internal/api"
	"github.com/Ashutosh-Mohanty/wowb/internal/logger"
	"github.com/Ashutosh-Mohanty/wowb/internal/session"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Login godoc
// @Summary      Sign in
// @Description  Opens a session for a super admin, gym manager or member and returns a bearer token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      account.LoginRequest  true  "Credentials"
// @Success      200      {object}  account.LoginResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      429      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrGymRequired):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Gym ID is required"})
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid credentials"})
		case errors.Is(err, ErrTenantPaused):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Gym access is paused. Contact the platform admin."})
		case errors.Is(err, ErrPlatformExpired):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Gym platform subscription has expired"})
		default:
			logger.Error("login failed", "role", req.Role, "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary      Sign out
// @Description  Ends the current session; its token stops working immediately.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} api.MessageResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	if err := h.service.Logout(c.Request.Context(), sess.ID); err != nil {
		logger.Error("logout failed", "session_id", sess.ID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Logged out"})
}

// GetMe godoc
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} account.MeResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	sess, ok := session.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		SessionID: sess.ID,
		Principal: sess.Principal,
		ExpiresAt: sess.ExpiresAt,
	})
}
