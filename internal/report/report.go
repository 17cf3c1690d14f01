// Package report produit l'export PDF des factures pour l'espace admin.
package report

import (
	"fmt"
	"io"
	"time"

	"donpollo_back_end/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

var (
	headers   = []string{"Nro. Factura", "Nro. Orden", "Cliente", "Total", "Fecha"}
	colWidths = []float64{40, 40, 45, 35, 35}
)

// FormatMoney arrondit au peso et sépare les milliers : $30,000
func FormatMoney(d decimal.Decimal) string {
	return "$" + humanize.Comma(d.Round(0).IntPart())
}

// Filename renvoie le nom de pièce jointe du rapport généré à now
func Filename(now time.Time) string {
	return fmt.Sprintf("reporte_facturas_%s.pdf", now.Format("20060102_150405"))
}

// InvoiceReport écrit le PDF des factures (déjà triées, plus récentes d'abord) dans w
func InvoiceReport(w io.Writer, shopName string, rows []models.InvoiceRow, now time.Time) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetCreationDate(now)
	pdf.SetTitle("Reporte de Facturas", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, tr(shopName), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Reporte de Facturas", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Fecha: "+now.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, "No hay facturas registradas en el sistema.", "", "L", false)
		return pdf.Output(w)
	}

	pdf.SetDrawColor(128, 128, 128)

	// en-tête orange
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(255, 107, 53)
	pdf.SetTextColor(245, 245, 245)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 10, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	total := decimal.Zero
	for i, r := range rows {
		if i%2 == 1 {
			pdf.SetFillColor(248, 249, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		cells := []string{
			r.InvoiceNumber,
			r.OrderNumber,
			tr(r.CustomerName),
			FormatMoney(r.Total),
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for j, c := range cells {
			pdf.CellFormat(colWidths[j], 8, c, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		total = total.Add(r.Total)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(248, 249, 250)
	for j, c := range []string{"", "", "TOTAL GENERAL:", FormatMoney(total), ""} {
		pdf.CellFormat(colWidths[j], 8, c, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(38, 6, "Total de facturas:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d", len(rows)), "", 1, "L", false, 0, "")

	return pdf.Output(w)
}
