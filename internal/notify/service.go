package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"github.com/Ashutosh-Mohanty/wowb/internal/logger"
	"github.com/Ashutosh-Mohanty/wowb/internal/metrics"
	"github.com/Ashutosh-Mohanty/wowb/internal/tenant"
	"github.com/redis/go-redis/v9"
)

const (
	queueKey    = "emails"
	failedKey   = "emails:failed"
	maxAttempts = 3
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Config struct {
	From     string
	FromName string
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Service queues operator mail in Redis and delivers it from a background
// worker. It implements tenant.Notifier.
type Service struct {
	redis      *redis.Client
	cfg        Config
	send       sendFunc
	retryDelay time.Duration
	now        func() time.Time
}

func New(rdb *redis.Client, cfg Config) *Service {
	return &Service{
		redis:      rdb,
		cfg:        cfg,
		send:       smtp.SendMail,
		retryDelay: 5 * time.Second,
		now:        time.Now,
	}
}

func (s *Service) Send(ctx context.Context, emailType, to, name, subject, body string) error {
	job := EmailJob{
		To:      to,
		Name:    name,
		Type:    emailType,
		Subject: subject,
		Body:    body,
		Created: s.now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		metrics.RecordEmail(emailType, "queue_failed")
		return fmt.Errorf("queue email to %s: %w", to, err)
	}

	metrics.RecordEmail(emailType, "queued")
	logger.Info("email queued", "type", emailType, "to", to)
	return nil
}

// Start runs the delivery loop until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.Error("email queue unavailable", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(s.retryDelay):
			}
		}
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("discarding malformed email job", "error", err)
		return
	}

	s.deliver(ctx, job)
	metrics.EmailQueueLength.Set(float64(s.QueueLength(ctx)))
}

func (s *Service) deliver(ctx context.Context, job EmailJob) {
	job.Tries++
	err := s.sendNow(job)
	if err == nil {
		metrics.RecordEmail(job.Type, "sent")
		logger.Info("email sent", "type", job.Type, "to", job.To, "attempt", job.Tries)
		return
	}

	logger.Warn("email delivery failed", "to", job.To, "attempt", job.Tries, "error", err)

	if job.Tries < maxAttempts {
		select {
		case <-ctx.Done():
		case <-time.After(s.retryDelay):
		}
		data, _ := json.Marshal(job)
		s.redis.LPush(context.WithoutCancel(ctx), queueKey, string(data))
		return
	}

	metrics.RecordEmail(job.Type, "failed")
	s.saveFailed(ctx, job, err)
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.cfg.SMTPUser != "" && s.cfg.SMTPPass != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	return s.send(addr, auth, s.cfg.From, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(ctx context.Context, job EmailJob, err error) {
	failed := map[string]any{
		"job":   job,
		"error": err.Error(),
		"time":  s.now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.WithoutCancel(ctx), failedKey, string(data))
	logger.Error("email moved to failed queue", "to", job.To, "attempts", job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) TenantCreated(ctx context.Context, t *tenant.Tenant) error {
	body := fmt.Sprintf(`Hi %s,

Your gym has been set up on the platform.

Gym ID: %s
Platform plan: %d days, valid until %s

Sign in with your Gym ID and the secret shared by the platform team.

- WOWB Platform`, t.Name, t.ID, t.SubscriptionPlanDays, t.SubscriptionExpiry.Format("Jan 2, 2006"))

	return s.Send(ctx, "tenant_welcome", t.ContactEmail, t.Name, "Welcome to WOWB - "+t.Name, body)
}

func (s *Service) TenantStatusChanged(ctx context.Context, t *tenant.Tenant) error {
	if t.Status == tenant.StatusPaused {
		body := fmt.Sprintf(`Hi %s,

Access for gym %s has been paused. Managers and members cannot sign in
until it is resumed. Please contact the platform team.

- WOWB Platform`, t.Name, t.ID)
		return s.Send(ctx, "tenant_paused", t.ContactEmail, t.Name, "Gym access paused - "+t.Name, body)
	}

	body := fmt.Sprintf(`Hi %s,

Access for gym %s has been restored. Welcome back!

- WOWB Platform`, t.Name, t.ID)
	return s.Send(ctx, "tenant_resumed", t.ContactEmail, t.Name, "Gym access restored - "+t.Name, body)
}
