package worker

// report_worker.go
// Builds the daily statement (totals, per-user activity, restock list),
// renders it to PDF and emails it to every super admin. Runs from the
// jobs:report queue or directly via cmd/nightlyreport on a cron schedule.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kiwiiwik/snackshack-nz/internal/infra"
	"github.com/kiwiiwik/snackshack-nz/internal/repository"

	"github.com/rs/zerolog/log"
)

// ReportJobPayload is the job envelope sent to QueueReport.
// Date selects the day to report on; empty means yesterday.
type ReportJobPayload struct {
	Date string `json:"date,omitempty"` // YYYY-MM-DD
}

// ReportWorker assembles and delivers the daily statement.
type ReportWorker struct {
	users             repository.UserRepository
	products          repository.ProductRepository
	transactions      repository.TransactionRepository
	mailer            *infra.Mailer
	shopName          string
	storagePath       string
	lowStockThreshold int
}

func NewReportWorker(
	users repository.UserRepository,
	products repository.ProductRepository,
	transactions repository.TransactionRepository,
	mailer *infra.Mailer,
	shopName, storagePath string,
	lowStockThreshold int,
) *ReportWorker {
	return &ReportWorker{
		users:             users,
		products:          products,
		transactions:      transactions,
		mailer:            mailer,
		shopName:          shopName,
		storagePath:       storagePath,
		lowStockThreshold: lowStockThreshold,
	}
}

// Process handles a queued report job.
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReportJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return
	}

	day := time.Now().UTC().AddDate(0, 0, -1)
	if payload.Date != "" {
		parsed, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			log.Error().Err(err).Str("date", payload.Date).Msg("report_worker: bad date")
			return
		}
		day = parsed
	}

	if err := w.Run(ctx, day); err != nil {
		log.Error().Err(err).Msg("report_worker: daily statement failed")
	}
}

// Run builds the statement for the given day and mails it to all super
// admins. Returns an error for the caller's logging only — nothing on the
// kiosk path ever waits on this.
func (w *ReportWorker) Run(ctx context.Context, day time.Time) error {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	totals, err := w.transactions.TotalsRange(ctx, from, to)
	if err != nil {
		return fmt.Errorf("report: totals: %w", err)
	}
	summaries, err := w.transactions.SummarizeRange(ctx, from, to)
	if err != nil {
		return fmt.Errorf("report: summaries: %w", err)
	}
	lowStock, err := w.products.ListLowStock(ctx, w.lowStockThreshold)
	if err != nil {
		return fmt.Errorf("report: low stock: %w", err)
	}

	statement := infra.DailyStatement{
		ShopName:  w.shopName,
		Date:      from,
		Purchases: totals.Purchases,
		Payments:  totals.Payments,
		Count:     totals.Count,
	}
	for _, s := range summaries {
		name := strings.TrimSpace(s.FirstName + " " + s.LastName)
		if name == "" {
			name = "(deleted user)"
		}
		statement.Rows = append(statement.Rows, infra.StatementRow{
			Name:     name,
			Net:      s.Net,
			Spent:    s.Spent,
			Received: s.Received,
			Count:    s.Count,
		})
	}
	for _, p := range lowStock {
		statement.LowStock = append(statement.LowStock, infra.StockRow{
			Description: p.Description,
			UPCCode:     p.UPCCode,
			StockLevel:  *p.StockLevel,
		})
	}

	pdfPath, err := infra.BuildStatementPDF(w.storagePath, statement)
	if err != nil {
		return err
	}

	admins, err := w.users.ListSuperAdmins(ctx)
	if err != nil {
		return fmt.Errorf("report: recipients: %w", err)
	}

	subject := fmt.Sprintf("%s — daily statement %s", w.shopName, from.Format("2006-01-02"))
	body := fmt.Sprintf(
		"Transactions: %d\nPurchases: %s\nPayments received: %s\n\nFull statement attached.",
		totals.Count, totals.Purchases.StringFixed(2), totals.Payments.StringFixed(2))

	sent := 0
	for _, admin := range admins {
		if admin.Email == nil || *admin.Email == "" {
			continue
		}
		if err := w.mailer.Send(*admin.Email, subject, body, pdfPath); err != nil {
			log.Error().Err(err).Str("to", *admin.Email).Msg("report_worker: send failed")
			continue
		}
		sent++
	}

	log.Info().
		Str("date", from.Format("2006-01-02")).
		Int("recipients", sent).
		Int64("transactions", totals.Count).
		Msg("report_worker: daily statement delivered")
	return nil
}
