package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kiwiiwik/snackshack-nz/internal/apierror"
	"github.com/kiwiiwik/snackshack-nz/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ReportsHandler struct {
	reports  service.ReportService
	accounts service.AccountService
}

func NewReportsHandler(reports service.ReportService, accounts service.AccountService) *ReportsHandler {
	return &ReportsHandler{reports: reports, accounts: accounts}
}

// Monthly godoc
// @Summary      Per-user activity for one month
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        year  query int true "Year"
// @Param        month query int true "Month (1-12)"
// @Success      200  {object} dto.MonthlySummaryResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/admin/reports/monthly [get]
func (h *ReportsHandler) Monthly(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2200 {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid year"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid month"))
		return
	}
	resp, err := h.reports.MonthlySummary(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportCSV godoc
// @Summary      Export raw ledger rows as CSV
// @Tags         reports
// @Produce      text/csv
// @Security     BearerAuth
// @Param        from query string true "Start date YYYY-MM-DD (inclusive)"
// @Param        to   query string true "End date YYYY-MM-DD (exclusive)"
// @Success      200
// @Failure      400  {object} apierror.APIError
// @Router       /v1/admin/reports/export.csv [get]
func (h *ReportsHandler) ExportCSV(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid from date"))
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid to date"))
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := h.reports.ExportCSV(c.Request.Context(), c.Writer, from, to); err != nil {
		// Headers may already be out — log instead of writing a JSON error
		// into the middle of a CSV stream.
		log.Error().Err(err).Msg("csv export failed")
	}
}

// TriggerDaily godoc
// @Summary      Queue a daily statement rebuild
// @Tags         reports
// @Security     BearerAuth
// @Param        date query string false "Day YYYY-MM-DD (default yesterday)"
// @Success      202
// @Failure      400  {object} apierror.APIError
// @Router       /v1/admin/reports/daily [post]
func (h *ReportsHandler) TriggerDaily(c *gin.Context) {
	if err := h.reports.TriggerDailyReport(c.Request.Context(), c.Query("date")); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid date"))
		return
	}
	c.Status(http.StatusAccepted)
}

// PurgeTransactions godoc
// @Summary      Delete the entire ledger
// @Description  Balances are left untouched. Super admin only.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} map[string]int64
// @Router       /v1/admin/transactions [delete]
func (h *ReportsHandler) PurgeTransactions(c *gin.Context) {
	deleted, err := h.accounts.PurgeTransactions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	log.Warn().Int64("deleted", deleted).Msg("ledger purged")
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
