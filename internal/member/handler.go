package member

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Ashutosh-Mohanty/wowb/internal/api"
	"github.com/Ashutosh-Mohanty/wowb/internal/logger"
	"github.com/Ashutosh-Mohanty/wowb/internal/session"
	"github.com/Ashutosh-Mohanty/wowb/internal/tenant"
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

// @Summary      List members
// @Description  Members of the manager's gym with derived status. status=ACTIVE also includes EXPIRING_SOON.
// @Tags         manager,members
// @Produce      json
// @Security     BearerAuth
// @Param        q        query string false "Name or ID contains"
// @Param        status   query string false "ALL, ACTIVE, EXPIRING_SOON or EXPIRED"
// @Param        duration query int    false "Plan duration in days"
// @Success      200 {array} member.View
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /manager/members [get]
func (h *Handler) List(c *gin.Context) {
	mgr, ok := session.ManagerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	filter := ListFilter{Query: c.Query("q"), Status: c.Query("status")}
	if d := c.Query("duration"); d != "" && d != "ALL" {
		days, err := strconv.Atoi(d)
		if err != nil || days <= 0 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid duration filter"})
			return
		}
		filter.Duration = days
	}

	views, err := h.service.List(c.Request.Context(), mgr.TenantID, filter)
	if err != nil {
		writeError(c, err, "Failed to fetch members")
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary      Get a member
// @Tags         manager,members
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Member ID"
// @Success      200 {object} member.View
// @Failure      404 {object} api.ErrorResponse
// @Router       /manager/members/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	mgr, ok := session.ManagerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	v, err := h.service.Get(c.Request.Context(), mgr.TenantID, c.Param("id"))
	if err != nil {
		writeError(c, err, "Failed to fetch member")
		return
	}

	c.JSON(http.StatusOK, v)
}

// @Summary      Register a member
// @Description  Creates the member and records the joining payment in one step. ID defaults to the phone number.
// @Tags         manager,members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body member.RegisterRequest true "Member payload"
// @Success      201 {object} member.View
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /manager/members [post]
func (h *Handler) Register(c *gin.Context) {
	mgr, ok := session.ManagerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	v, err := h.service.Register(c.Request.Context(), mgr.TenantID, req)
	if err != nil {
		writeError(c, err, "Failed to register member")
		return
	}

	c.JSON(http.StatusCreated, v)
}

// @Summary      Update member profile
// @Tags         manager,members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Member ID"
// @Param        request body member.UpdateProfileRequest true "Profile payload"
// @Success      200 {object} member.View
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /manager/members/{id} [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	mgr, ok := session.ManagerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	v, err := h.service.UpdateProfile(c.Request.Context(), mgr.TenantID, c.Param("id"), req)
	if err != nil {
		writeError(c, err, "Failed to update member")
		return
	}

	c.JSON(http.StatusOK, v)
}

// @Summary      Delete a member
// @Tags         manager,members
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Member ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /manager/members/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	mgr, ok := session.ManagerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), mgr.TenantID, c.Param("id")); err != nil {
		writeError(c, err, "Failed to delete member")
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Member deleted"})
}

// @Summary      Extend a membership
// @Description  Extends from the later of the current expiry and now. Without an amount the gym's plan price is charged.
// @Tags         manager,members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Member ID"
// @Param        request body member.ExtendRequest true "Extension payload"
// @Success      200 {object} member.ExtendResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /manager/members/{id}/extend [post]
func (h *Handler) Extend(c *gin.Context) {
	mgr, ok := session.ManagerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	var req ExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	resp, err := h.service.Extend(c.Request.Context(), mgr.TenantID, c.Param("id"), req)
	if err != nil {
		writeError(c, err, "Failed to extend membership")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary      Bill a supplement
// @Tags         manager,members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Member ID"
// @Param        request body member.SupplementRequest true "Supplement payload"
// @Success      201 {object} member.SupplementResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /manager/members/{id}/supplements [post]
func (h *Handler) AddSupplement(c *gin.Context) {
	mgr, ok := session.ManagerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	var req SupplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	resp, err := h.service.AddSupplement(c.Request.Context(), mgr.TenantID, c.Param("id"), req)
	if err != nil {
		writeError(c, err, "Failed to bill supplement")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary      Set transformation photos
// @Tags         manager,members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Member ID"
// @Param        request body member.PhotosRequest true "Photo references"
// @Success      200 {object} member.View
// @Failure      404 {object} api.ErrorResponse
// @Router       /manager/members/{id}/photos [put]
func (h *Handler) SetPhotos(c *gin.Context) {
	mgr, ok := session.ManagerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	var req PhotosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	v, err := h.service.SetPhotos(c.Request.Context(), mgr.TenantID, c.Param("id"), req)
	if err != nil {
		writeError(c, err, "Failed to save photos")
		return
	}

	c.JSON(http.StatusOK, v)
}

// @Summary      Draft a WhatsApp message
// @Description  Picks a reminder, welcome or retention message for the member and returns a click-to-chat link
// @Tags         manager,members
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Member ID"
// @Success      200 {object} member.Outreach
// @Failure      404 {object} api.ErrorResponse
// @Router       /manager/members/{id}/outreach [post]
func (h *Handler) Outreach(c *gin.Context) {
	mgr, ok := session.ManagerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	out, err := h.service.Outreach(c.Request.Context(), mgr.TenantID, c.Param("id"))
	if err != nil {
		writeError(c, err, "Failed to draft message")
		return
	}

	c.JSON(http.StatusOK, out)
}

// @Summary      Member dashboard
// @Description  The signed-in member's plan, gym policy, own payments and a training tip
// @Tags         member
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} member.Dashboard
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /member/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	me, ok := session.MemberFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	d, err := h.service.Dashboard(c.Request.Context(), me.TenantID, me.MemberID)
	if err != nil {
		writeError(c, err, "Failed to load dashboard")
		return
	}

	c.JSON(http.StatusOK, d)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrMemberNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
	case errors.Is(err, tenant.ErrTenantNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Tenant not found"})
	case errors.Is(err, ErrMemberExists):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Member ID already in use"})
	case errors.Is(err, ErrInvalidJoinDate), errors.Is(err, ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		logger.Error(fallback, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}
