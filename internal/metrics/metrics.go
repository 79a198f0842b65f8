package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wowb_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wowb_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wowb_logins_total",
			Help: "Login attempts by role and outcome",
		},
		[]string{"role", "outcome"},
	)

	MembersRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wowb_members_registered_total",
			Help: "Total number of members registered",
		},
	)

	ExtensionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wowb_extensions_total",
			Help: "Total number of plan extensions",
		},
		[]string{"pricing"},
	)

	RevenueRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wowb_revenue_recorded_total",
			Help: "Sum of recorded transaction amounts in whole currency units",
		},
		[]string{"category"},
	)

	DraftsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wowb_drafts_total",
			Help: "Generated drafts by kind and source",
		},
		[]string{"kind", "source"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wowb_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wowb_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	TenantsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wowb_tenants",
			Help: "Number of tenants by lifecycle status, as of the last listing",
		},
		[]string{"status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordLogin(role, outcome string) {
	LoginsTotal.WithLabelValues(role, outcome).Inc()
}

func RecordMemberRegistered() {
	MembersRegisteredTotal.Inc()
}

// RecordExtension labels extensions by how the amount was decided:
// "plan", "prorated" or "override".
func RecordExtension(pricing string) {
	ExtensionsTotal.WithLabelValues(pricing).Inc()
}

func RecordRevenue(category string, amount int64) {
	if amount <= 0 {
		return
	}
	RevenueRecorded.WithLabelValues(category).Add(float64(amount))
}

func RecordDraft(kind, source string) {
	DraftsTotal.WithLabelValues(kind, source).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func SetTenantCounts(active, paused int) {
	TenantsByStatus.WithLabelValues("ACTIVE").Set(float64(active))
	TenantsByStatus.WithLabelValues("PAUSED").Set(float64(paused))
}
