package draft

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ashutosh-Mohanty/wowb/internal/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func TestDraftMessage_UsesGenerator(t *testing.T) {
	gen := &fakeGenerator{text: "  Welcome aboard, Asha! 🏋️  "}
	d := New(gen)

	got := d.DraftMessage(context.Background(), Request{Kind: KindWelcome, Name: "Asha"})

	assert.Equal(t, "Welcome aboard, Asha! 🏋️", got)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], `"Asha"`)
	assert.Contains(t, gen.prompts[0], "Welcome them to the gym family")
}

func TestDraftMessage_ReminderPromptCarriesExpiry(t *testing.T) {
	gen := &fakeGenerator{text: "Renew soon!"}
	d := New(gen)

	d.DraftMessage(context.Background(), Request{
		Kind:   KindRenewalReminder,
		Name:   "Ravi",
		Expiry: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.Contains(t, gen.prompts[0], "01 Apr 2024")
}

func TestDraftMessage_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
	}{
		{"no generator", nil},
		{"generator error", &fakeGenerator{err: errors.New("quota exceeded")}},
		{"empty output", &fakeGenerator{text: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(tt.gen)
			assert.Equal(t, FallbackMessage, d.DraftMessage(context.Background(), Request{Kind: KindRetentionOffer, Name: "Asha"}))
			assert.Equal(t, FallbackTip, d.DraftTip(context.Background(), 12))
		})
	}
}

func TestDraftTip_Prompt(t *testing.T) {
	gen := &fakeGenerator{text: "Progressive overload builds strength."}
	d := New(gen)

	assert.Equal(t, "Progressive overload builds strength.", d.DraftTip(context.Background(), 42))
	assert.Contains(t, gen.prompts[0], "working out for 42 days")
}

func TestChooseKind(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status billing.Status
		joined time.Time
		want   Kind
	}{
		{"expired", billing.StatusExpired, now.AddDate(-1, 0, 0), KindRenewalReminder},
		{"expiring soon beats new joiner", billing.StatusExpiringSoon, now.Add(-time.Hour), KindRenewalReminder},
		{"joined three days ago", billing.StatusActive, now.AddDate(0, 0, -3), KindWelcome},
		{"joined exactly a week ago", billing.StatusActive, now.Add(-WelcomeWindow), KindRetentionOffer},
		{"long-standing member", billing.StatusActive, now.AddDate(0, -6, 0), KindRetentionOffer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChooseKind(tt.status, tt.joined, now))
		})
	}
}

func TestWhatsAppLink(t *testing.T) {
	got := WhatsAppLink("9876543210", "Hi Asha & team! 10% off")
	assert.Equal(t, "https://wa.me/9876543210?text=Hi%20Asha%20%26%20team%21%2010%25%20off", got)
}
