package draft

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Ashutosh-Mohanty/wowb/internal/billing"
	"github.com/Ashutosh-Mohanty/wowb/internal/logger"
	"github.com/Ashutosh-Mohanty/wowb/internal/metrics"
)

type Kind string

const (
	KindRenewalReminder Kind = "RENEWAL_REMINDER"
	KindWelcome         Kind = "WELCOME"
	KindRetentionOffer  Kind = "RETENTION_OFFER"
)

const (
	FallbackMessage = "Hey! Just a reminder about your gym membership. See you soon! 💪"
	FallbackTip     = "Consistency is key to progress."
)

// WelcomeWindow is how long after joining a member is greeted rather than
// offered a renewal discount.
const WelcomeWindow = 7 * 24 * time.Hour

const requestTimeout = 15 * time.Second

type Request struct {
	Kind   Kind
	Name   string
	Expiry time.Time
}

// Drafter writes short member-facing texts. Its methods never fail: when
// generation is unavailable the fixed fallback text is returned.
type Drafter interface {
	DraftMessage(ctx context.Context, req Request) string
	DraftTip(ctx context.Context, daysActive int) string
}

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type drafter struct {
	gen Generator
}

// New returns a Drafter over gen. A nil gen yields a fallback-only Drafter.
func New(gen Generator) Drafter {
	return &drafter{gen: gen}
}

func (d *drafter) DraftMessage(ctx context.Context, req Request) string {
	return d.generate(ctx, string(req.Kind), messagePrompt(req), FallbackMessage)
}

func (d *drafter) DraftTip(ctx context.Context, daysActive int) string {
	prompt := fmt.Sprintf("Give me one single, powerful, and scientific workout tip for someone who has been working out for %d days. Keep it short (max 1 sentence).", daysActive)
	return d.generate(ctx, "TIP", prompt, FallbackTip)
}

func (d *drafter) generate(ctx context.Context, kind, prompt, fallback string) string {
	if d.gen == nil {
		metrics.RecordDraft(kind, "fallback")
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	text, err := d.gen.Generate(ctx, prompt)
	if err != nil {
		logger.Warn("draft generation failed", "kind", kind, "error", err)
		metrics.RecordDraft(kind, "fallback")
		return fallback
	}

	text = strings.TrimSpace(text)
	if text == "" {
		metrics.RecordDraft(kind, "fallback")
		return fallback
	}

	metrics.RecordDraft(kind, "model")
	return text
}

func messagePrompt(req Request) string {
	var situation string
	switch req.Kind {
	case KindRenewalReminder:
		situation = fmt.Sprintf("Their membership expires on %s. Remind them to renew.", req.Expiry.Format("02 Jan 2006"))
	case KindWelcome:
		situation = "They just joined! Welcome them to the gym family."
	case KindRetentionOffer:
		situation = "Offer them a 10% discount if they renew within 24 hours."
	}

	return fmt.Sprintf(`Act as a professional and friendly gym manager.
Write a short, engaging WhatsApp message for a member named %q.

Context:
%s

Requirements:
- Include emojis.
- Keep it under 50 words.
- Don't include subject lines or quotes.`, req.Name, situation)
}

// ChooseKind picks the outreach message for a member: lapsed or lapsing
// members get a renewal reminder, members who joined within the last week
// a welcome, everyone else a retention offer.
func ChooseKind(status billing.Status, joinDate, now time.Time) Kind {
	switch {
	case status == billing.StatusExpired || status == billing.StatusExpiringSoon:
		return KindRenewalReminder
	case now.Sub(joinDate) < WelcomeWindow:
		return KindWelcome
	default:
		return KindRetentionOffer
	}
}

// WhatsAppLink builds a click-to-chat link with text prefilled. Spaces are
// encoded as %20.
func WhatsAppLink(phone, text string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + url.PathEscape(phone) + "?text=" + escaped
}
