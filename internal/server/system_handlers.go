package server

import (
	"context"
	"net/http"

	"github.com/Ashutosh-Mohanty/wowb/internal/api"
	"github.com/Ashutosh-Mohanty/wowb/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Mailer queues an outgoing email.
type Mailer interface {
	Send(ctx context.Context, emailType, to, name, subject, body string) error
}

type testEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

// @Summary      Queue a test email
// @Description  Checks the SMTP relay by queueing a message to the given address.
// @Tags         system
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body server.testEmailRequest true "Recipient"
// @Success      202 {object} api.MessageResponse
// @Failure      400 {object} api.ValidationErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/test-email [post]
func TestEmail(mailer Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req testEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			api.BindError(c, err)
			return
		}

		if err := mailer.Send(c.Request.Context(), "test", req.Email, "Platform Admin", "Test email from WOWB", "Email delivery is working."); err != nil {
			logger.Error("queue test email", "to", req.Email, "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to queue email"})
			return
		}

		c.JSON(http.StatusAccepted, api.MessageResponse{Message: "Email queued"})
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
