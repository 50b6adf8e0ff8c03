package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kiwiiwik/snackshack-nz/internal/dto"
	"github.com/kiwiiwik/snackshack-nz/internal/repository"
	"github.com/kiwiiwik/snackshack-nz/internal/worker"
)

// ReportService serves the management API's reporting endpoints. The nightly
// PDF statement runs in the worker; this covers the on-demand queries.
type ReportService interface {
	MonthlySummary(ctx context.Context, year, month int) (*dto.MonthlySummaryResponse, error)
	// ExportCSV streams the raw ledger for [from, to) directly to w.
	ExportCSV(ctx context.Context, w io.Writer, from, to time.Time) error
	// TriggerDailyReport enqueues a statement rebuild for the given day
	// (empty = yesterday).
	TriggerDailyReport(ctx context.Context, date string) error
}

type reportService struct {
	transactions repository.TransactionRepository
	dispatcher   *worker.Dispatcher
}

func NewReportService(transactions repository.TransactionRepository, dispatcher *worker.Dispatcher) ReportService {
	return &reportService{transactions: transactions, dispatcher: dispatcher}
}

func (s *reportService) MonthlySummary(ctx context.Context, year, month int) (*dto.MonthlySummaryResponse, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	summaries, err := s.transactions.SummarizeRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resp := dto.MonthlySummaryResponse{
		Year:  year,
		Month: month,
		Rows:  make([]dto.MonthlySummaryRow, 0, len(summaries)),
	}
	for _, sum := range summaries {
		row := dto.MonthlySummaryRow{
			DisplayName: strings.TrimSpace(sum.FirstName + " " + sum.LastName),
			NetSpend:    sum.Net,
			Spent:       sum.Spent,
			Received:    sum.Received,
			Count:       sum.Count,
		}
		if sum.UserID != nil {
			row.UserID = *sum.UserID
		}
		if row.DisplayName == "" {
			row.DisplayName = "(deleted user)"
		}
		resp.Rows = append(resp.Rows, row)
		resp.Total = resp.Total.Add(sum.Net)
	}
	return &resp, nil
}

func (s *reportService) ExportCSV(ctx context.Context, w io.Writer, from, to time.Time) error {
	txns, err := s.transactions.ListRange(ctx, from, to)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "user_id", "upc_code", "amount", "transaction_date"}); err != nil {
		return err
	}
	for _, t := range txns {
		userID, upc := "", ""
		if t.UserID != nil {
			userID = strconv.FormatInt(*t.UserID, 10)
		}
		if t.UPCCode != nil {
			upc = *t.UPCCode
		}
		record := []string{
			strconv.FormatInt(t.ID, 10),
			userID,
			upc,
			t.Amount.StringFixed(2),
			t.TransactionDate.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *reportService) TriggerDailyReport(ctx context.Context, date string) error {
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return err
		}
	}
	return s.dispatcher.EnqueueReport(ctx, worker.ReportJobPayload{Date: date})
}
