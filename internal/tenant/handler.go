package tenant

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

// @Summary      List tenants
// @Description  Super admin: list gyms, optionally filtered by id, name or city
// @Tags         admin,tenants
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Search text"
// @Success      200 {array} tenant.Tenant
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/tenants [get]
func (h *Handler) List(c *gin.Context) {
	tenants, err := h.service.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		logger.Error("failed to list tenants", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch tenants"})
		return
	}

	c.JSON(http.StatusOK, tenants)
}

// @Summary      Get a tenant
// @Tags         admin,tenants
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Success      200 {object} tenant.Tenant
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/tenants/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	t, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "Failed to fetch tenant")
		return
	}

	c.JSON(http.StatusOK, t)
}

// @Summary      Create a tenant
// @Description  Super admin: onboard a gym with default pricing and policy
// @Tags         admin,tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body tenant.CreateTenantRequest true "Tenant payload"
// @Success      201 {object} tenant.Tenant
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/tenants [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	t, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to create tenant")
		return
	}

	c.JSON(http.StatusCreated, t)
}

// @Summary      Update a tenant
// @Description  Super admin: replace profile, pricing and platform plan; expiry is recomputed
// @Tags         admin,tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Param        request body tenant.UpdateTenantRequest true "Tenant payload"
// @Success      200 {object} tenant.Tenant
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/tenants/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	t, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err, "Failed to update tenant")
		return
	}

	c.JSON(http.StatusOK, t)
}

// @Summary      Pause or resume a tenant
// @Tags         admin,tenants
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Success      200 {object} tenant.Tenant
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/tenants/{id}/toggle-status [post]
func (h *Handler) ToggleStatus(c *gin.Context) {
	t, err := h.service.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "Failed to change tenant status")
		return
	}

	c.JSON(http.StatusOK, t)
}

// @Summary      Delete a tenant
// @Description  Super admin: removes the gym record only
// @Tags         admin,tenants
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Tenant ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/tenants/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "Failed to delete tenant")
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Tenant deleted"})
}

// @Summary      Platform statistics
// @Tags         admin,tenants
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} tenant.Stats
// @Router       /admin/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		logger.Error("failed to compute tenant stats", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary      Current manager's gym
// @Tags         manager
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} tenant.Tenant
// @Router       /manager/tenant [get]
func (h *Handler) Mine(c *gin.Context) {
	mgr, ok := session.ManagerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	t, err := h.service.Get(c.Request.Context(), mgr.TenantID)
	if err != nil {
		writeError(c, err, "Failed to fetch tenant")
		return
	}

	c.JSON(http.StatusOK, t)
}

// @Summary      Update gym policy
// @Tags         manager
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body tenant.UpdatePolicyRequest true "Policy text"
// @Success      200 {object} tenant.Tenant
// @Failure      400 {object} api.ErrorResponse
// @Router       /manager/policy [put]
func (h *Handler) UpdatePolicy(c *gin.Context) {
	mgr, ok := session.ManagerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	var req UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	t, err := h.service.UpdatePolicy(c.Request.Context(), mgr.TenantID, req.TermsAndConditions)
	if err != nil {
		writeError(c, err, "Failed to update policy")
		return
	}

	c.JSON(http.StatusOK, t)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrTenantNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Tenant not found"})
	case errors.Is(err, ErrTenantExists):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Tenant ID already in use"})
	case errors.Is(err, ErrInvalidJoinDate), errors.Is(err, ErrInvalidPlanDays):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		logger.Error(fallback, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}
