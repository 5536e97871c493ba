package infra

// pdf.go — internal transfer slip generation using go-pdf/fpdf.
// Every committed transfer gets an A6 slip with the transfer number, product,
// origin/destination locations, quantity and the acting user. The slip rides
// along with the physical goods; warehouse staff sign it on receipt.
//
// The output file is saved to storagePath/transfer_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
)

// SlipData carries the resolved display values for one transfer slip.
// Resolution (product name, location names) happens in the worker so this
// package stays free of repository dependencies.
type SlipData struct {
	TransferID   uint64
	ProductName  string
	ProductSKU   string
	FromLocation string
	ToLocation   string
	Quantity     int
	PerformedBy  string
	CreatedAt    time.Time
}

// GenerateTransferSlipPDF writes the slip for a committed transfer.
// storagePath is created if needed. Returns the absolute path to the file.
func GenerateTransferSlipPDF(slip SlipData, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("transfer_%d.pdf", slip.TransferID)
	filePath := filepath.Join(storagePath, fileName)

	// A6 landscape — fits the slip printers at the warehouses
	pdf := fpdf.New("L", "mm", "A6", "")
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 16

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Stock Transfer Slip", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Transfer #%d", slip.TransferID), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.Line(8, pdf.GetY(), pageW-8, pdf.GetY())
	pdf.Ln(3)

	// ── Body ─────────────────────────────────────────────────────────────────
	label := contentW * 0.32
	value := contentW * 0.68

	row := func(name, val string) {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(label, 5, name, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(value, 5, val, "", 1, "L", false, 0, "")
	}

	product := slip.ProductName
	if slip.ProductSKU != "" {
		product = fmt.Sprintf("%s (%s)", slip.ProductName, slip.ProductSKU)
	}
	row("Product:", product)
	row("From:", slip.FromLocation)
	row("To:", slip.ToLocation)
	row("Quantity:", fmt.Sprintf("%d", slip.Quantity))
	row("Performed by:", slip.PerformedBy)
	row("Date:", slip.CreatedAt.Format("02/01/2006 15:04"))

	// ── Signature line ───────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.Line(8, pdf.GetY(), 8+contentW*0.5, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW*0.5, 4, "Received by (signature)", "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
