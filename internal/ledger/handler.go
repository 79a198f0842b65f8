package ledger

import (
	"net/http"

	"github.com/Ashutosh-Mohanty/wowb/internal/api"
	"github.com/Ashutosh-Mohanty/wowb/internal/billing"
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

// @Summary      List gym transactions
// @Tags         manager,ledger
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} billing.Transaction
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /manager/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	mgr, ok := session.ManagerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	txs, err := h.service.Transactions(c.Request.Context(), mgr.TenantID)
	if err != nil {
		logger.Error("failed to list transactions", "tenant_id", mgr.TenantID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, txs)
}

// @Summary      Revenue summary
// @Description  Totals by category for all time, today, this month, a specific date, or an inclusive date range
// @Tags         manager,ledger
// @Produce      json
// @Security     BearerAuth
// @Param        range query string false "all, today, month, date or range" default(month)
// @Param        start query string false "Date (date) or range start (range), YYYY-MM-DD"
// @Param        end   query string false "Range end, YYYY-MM-DD"
// @Success      200 {object} billing.Revenue
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /manager/revenue [get]
func (h *Handler) Revenue(c *gin.Context) {
	mgr, ok := session.ManagerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	w, err := billing.ParseWindow(c.Query("range"), c.Query("start"), c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	rev, err := h.service.Revenue(c.Request.Context(), mgr.TenantID, w)
	if err != nil {
		logger.Error("failed to compute revenue", "tenant_id", mgr.TenantID, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to compute revenue"})
		return
	}

	c.JSON(http.StatusOK, rev)
}
