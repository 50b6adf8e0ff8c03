package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// StatementRow is one user line on the daily statement.
type StatementRow struct {
	Name     string
	Net      decimal.Decimal
	Spent    decimal.Decimal
	Received decimal.Decimal
	Count    int64
}

// StockRow is one restock line on the daily statement.
type StockRow struct {
	Description string
	UPCCode     string
	StockLevel  int
}

// DailyStatement holds everything rendered into the nightly report PDF.
type DailyStatement struct {
	ShopName  string
	Date      time.Time
	Purchases decimal.Decimal
	Payments  decimal.Decimal
	Count     int64
	Rows      []StatementRow
	LowStock  []StockRow
}

// BuildStatementPDF renders the daily statement and returns the file path.
func BuildStatementPDF(storagePath string, st DailyStatement) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: storage dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s — daily statement", st.ShopName), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, st.ShopName)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, "Daily statement — "+st.Date.Format("Monday, 2 January 2006"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Totals")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Transactions: %d", st.Count))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Purchases: "+st.Purchases.StringFixed(2))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Payments received: "+st.Payments.StringFixed(2))
	pdf.Ln(10)

	if len(st.Rows) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "By user")
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(60, 6, "User", "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, "Net", "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, "Spent", "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, "Received", "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, "Txns", "1", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for _, row := range st.Rows {
			pdf.CellFormat(60, 6, row.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, row.Net.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 6, row.Spent.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 6, row.Received.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(20, 6, fmt.Sprintf("%d", row.Count), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(6)
	}

	if len(st.LowStock) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Restock needed")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 9)
		for _, row := range st.LowStock {
			pdf.Cell(0, 5, fmt.Sprintf("%s (%s) — %d left", row.Description, row.UPCCode, row.StockLevel))
			pdf.Ln(5)
		}
	}

	path := filepath.Join(storagePath, "statement-"+st.Date.Format("2006-01-02")+".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", path, err)
	}
	return path, nil
}
