// Package pdfgen renders the consolidated billing PDF a property manager
// sends to the owner for a billing period.
package pdfgen

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// Item is one line of the consolidated invoice.
type Item struct {
	SupplierName string
	InvoiceDate  *time.Time
	Amount       float64
}

// ConsolidatedInvoice holds everything the renderer needs.
type ConsolidatedInvoice struct {
	InvoiceNumber string
	WorkspaceName string
	StartDate     time.Time
	EndDate       time.Time
	GeneratedAt   time.Time
	Items         []Item
}

// NewInvoiceNumber builds a timestamp-based invoice number.
func NewInvoiceNumber(now time.Time) string {
	return "INV-" + now.Format("20060102-150405")
}

// Total is the grand total across all items.
func (c *ConsolidatedInvoice) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Amount
	}
	return total
}

// Render produces the PDF bytes.
func Render(inv *ConsolidatedInvoice) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(19, 19, 19)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	// Title
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(26, 26, 26)
	pdf.CellFormat(usable, 12, "INVOICE", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// Invoice number and generation date
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(85, 85, 85)
	pdf.CellFormat(usable, 5, "Invoice #: "+inv.InvoiceNumber, "", 1, "C", false, 0, "")
	pdf.CellFormat(usable, 5, "Date: "+inv.GeneratedAt.Format("January 2, 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Property name
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(usable, 7, "Property: "+inv.WorkspaceName, "", 1, "C", false, 0, "")
	pdf.Ln(1)

	// Billing period
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(85, 85, 85)
	period := fmt.Sprintf("Billing Period: %s - %s",
		inv.StartDate.Format("January 2, 2006"),
		inv.EndDate.Format("January 2, 2006"))
	pdf.CellFormat(usable, 5, period, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	renderItemTable(pdf, inv, usable)

	// Footer
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(153, 153, 153)
	pdf.CellFormat(usable, 4, "Thank you for your business.", "", 1, "C", false, 0, "")
	pdf.CellFormat(usable, 4, "Please remit payment within 30 days of invoice date.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering consolidated invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func renderItemTable(pdf *fpdf.Fpdf, inv *ConsolidatedInvoice, usable float64) {
	colSupplier := usable * 0.54
	colDate := usable * 0.23
	colAmount := usable * 0.23

	// Header row
	pdf.SetFillColor(44, 62, 80)
	pdf.SetTextColor(245, 245, 245)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(colSupplier, 10, "Service Provider", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colDate, 10, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colAmount, 10, "Amount", "1", 1, "C", true, 0, "")

	// Data rows with alternating background
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	for i, item := range inv.Items {
		if i%2 == 1 {
			pdf.SetFillColor(248, 249, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		date := "N/A"
		if item.InvoiceDate != nil {
			date = item.InvoiceDate.Format("01/02/2006")
		}

		pdf.CellFormat(colSupplier, 8, item.SupplierName, "1", 0, "L", true, 0, "")
		pdf.CellFormat(colDate, 8, date, "1", 0, "C", true, 0, "")
		pdf.CellFormat(colAmount, 8, FormatMoney(item.Amount), "1", 1, "C", true, 0, "")
	}

	// Total row
	pdf.SetDrawColor(44, 62, 80)
	pdf.SetLineWidth(0.7)
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+usable, pdf.GetY())
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(222, 226, 230)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(colSupplier+colDate, 12, "TOTAL DUE:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colAmount, 12, FormatMoney(inv.Total()), "", 1, "R", false, 0, "")
}

// FormatMoney renders a dollar amount with thousands separators.
func FormatMoney(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%s", sign, b.String(), fracPart)
}
