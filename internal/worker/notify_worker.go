package worker

// notify_worker.go
// Processes notification jobs from QueueNotify: a short "you bought X,
// balance is Y" message after purchases, undos and top-ups. Delivery is
// best-effort by design — a dead SMTP server must never block or fail a
// purchase, so every failure ends here in a log line or the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kiwiiwik/snackshack-nz/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Notification events.
const (
	EventPurchase = "purchase"
	EventUndo     = "undo"
	EventPayment  = "payment"
)

// NotifyJobPayload is the job envelope sent to QueueNotify.
type NotifyJobPayload struct {
	Event       string          `json:"event"`
	Name        string          `json:"name"`
	Email       *string         `json:"email,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
}

// NotifyWorker delivers notifications over email and SMS.
type NotifyWorker struct {
	mailer *infra.Mailer
	sms    *infra.SMSClient
	rdb    *redis.Client
}

func NewNotifyWorker(mailer *infra.Mailer, sms *infra.SMSClient, rdb *redis.Client) *NotifyWorker {
	return &NotifyWorker{mailer: mailer, sms: sms, rdb: rdb}
}

// Process sends the notification to whichever targets the user has.
func (w *NotifyWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload NotifyJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notify_worker: invalid payload")
		SendToDLQ(ctx, w.rdb, QueueNotify, "notify", raw, "unmarshal failed", 1)
		return
	}

	subject, body := composeMessage(payload)
	if subject == "" {
		log.Warn().Str("event", payload.Event).Msg("notify_worker: unknown event — skipping")
		return
	}

	attempted, delivered := 0, 0

	if payload.Email != nil && *payload.Email != "" {
		attempted++
		if err := w.mailer.Send(*payload.Email, subject, body, ""); err != nil {
			log.Error().Err(err).Str("to", *payload.Email).Msg("notify_worker: email failed")
		} else {
			delivered++
		}
	}

	if payload.Phone != nil && *payload.Phone != "" && w.sms.Enabled() {
		attempted++
		if err := w.sms.Send(ctx, *payload.Phone, body); err != nil {
			log.Error().Err(err).Str("to", *payload.Phone).Msg("notify_worker: sms failed")
		} else {
			delivered++
		}
	}

	if attempted > 0 && delivered == 0 {
		SendToDLQ(ctx, w.rdb, QueueNotify, "notify", raw, "all delivery targets failed", attempted)
		return
	}
	if attempted > 0 {
		log.Info().Str("event", payload.Event).Int("delivered", delivered).Msg("notify_worker: sent")
	}
}

func composeMessage(p NotifyJobPayload) (subject, body string) {
	switch p.Event {
	case EventPurchase:
		return "Snack purchase",
			fmt.Sprintf("Hi %s, you bought %s for %s. New balance: %s.",
				p.Name, p.Description, p.Amount.StringFixed(2), p.Balance.StringFixed(2))
	case EventUndo:
		return "Purchase undone",
			fmt.Sprintf("Hi %s, your last transaction of %s was reversed. New balance: %s.",
				p.Name, p.Amount.StringFixed(2), p.Balance.StringFixed(2))
	case EventPayment:
		return "Balance top-up",
			fmt.Sprintf("Hi %s, a payment of %s was recorded. New balance: %s.",
				p.Name, p.Amount.StringFixed(2), p.Balance.StringFixed(2))
	}
	return "", ""
}
