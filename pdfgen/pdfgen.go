package pdfgen

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"courier-backend/models/shipment"
)

// A4 portrait documents rendered on demand and streamed to clients. Nothing is
// cached: the PDFs are small and the queries behind them cheap.

const docDateLayout = "02-01-2006"

// ManifestLine is one shipment row on a manifest document.
type ManifestLine struct {
	AwbNo   string
	DocType string
	Pcs     string
	Wt      string
}

// DRSDocLine is one shipment row on a delivery run sheet.
type DRSDocLine struct {
	AwbNo        string
	ReceiverName string
	Address      string
	Pcs          string
	Status       string
}

func newDoc(title string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(2)
	return pdf
}

func headerField(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(45, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func tableHeader(pdf *fpdf.Fpdf, widths []float64, headers []string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Manifest renders the outscan manifest document: header fields followed by
// the shipment table.
func Manifest(m shipment.Manifest, fromName, toName string, lines []ManifestLine) ([]byte, error) {
	pdf := newDoc("Shipment Manifest")

	headerField(pdf, "Manifest Number:", m.ManifestNumber)
	headerField(pdf, "Date:", m.Date.Format(docDateLayout))
	headerField(pdf, "From:", fromName)
	headerField(pdf, "To:", toName)
	if m.Vehicle != nil {
		headerField(pdf, "Vehicle:", m.Vehicle.VehicleNumber)
	}
	pdf.Ln(4)

	widths := []float64{12, 60, 40, 28, 28}
	tableHeader(pdf, widths, []string{"#", "AWB No", "Doc Type", "Pcs", "Weight"})
	for i, line := range lines {
		pdf.CellFormat(widths[0], 7, fmt.Sprint(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, line.AwbNo, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, line.DocType, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 7, line.Pcs, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 7, line.Wt, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total shipments: %d", len(lines)), "", 1, "L", false, 0, "")
	signatureRow(pdf, "Dispatched By", "Received By")
	return output(pdf)
}

// DRS renders the delivery run sheet handed to the field agent.
func DRS(run shipment.DRS, branchName, areaName string, lines []DRSDocLine) ([]byte, error) {
	pdf := newDoc("Delivery Run Sheet")

	headerField(pdf, "DRS Number:", run.DRSNo)
	headerField(pdf, "Date:", run.Date.Format(docDateLayout))
	headerField(pdf, "Branch:", branchName)
	headerField(pdf, "Delivery Agent:", run.Agent.Name)
	if run.Agent.PhoneNumber != "" {
		headerField(pdf, "Agent Phone:", run.Agent.PhoneNumber)
	}
	if areaName != "" {
		headerField(pdf, "Area:", areaName)
	}
	pdf.Ln(4)

	widths := []float64{10, 42, 38, 58, 14, 28}
	tableHeader(pdf, widths, []string{"#", "AWB No", "Receiver", "Address", "Pcs", "Status"})
	for i, line := range lines {
		pdf.CellFormat(widths[0], 7, fmt.Sprint(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, line.AwbNo, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, trim(line.ReceiverName, 22), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, trim(line.Address, 34), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 7, line.Pcs, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 7, line.Status, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total shipments: %d", len(lines)), "", 1, "L", false, 0, "")
	signatureRow(pdf, "Branch Incharge", "Delivery Agent")
	return output(pdf)
}

// BookingReceipt renders the consignment note for a booking, including its
// child piece AWBs when the booking has more than one piece.
func BookingReceipt(b shipment.Booking, destinationName string, childAwbs []string) ([]byte, error) {
	pdf := newDoc("Consignment Note")

	headerField(pdf, "AWB Number:", b.AwbNo)
	if b.RefNo != "" {
		headerField(pdf, "Reference Number:", b.RefNo)
	}
	headerField(pdf, "Booking Date:", b.Date.Format(docDateLayout))
	headerField(pdf, "Destination:", destinationName)
	headerField(pdf, "Document Type:", b.DocType)
	headerField(pdf, "Pieces:", fmt.Sprint(b.Pcs))
	headerField(pdf, "Weight:", b.Wt)
	if b.Mode != "" {
		headerField(pdf, "Mode:", b.Mode)
	}
	pdf.Ln(4)

	partyBlock(pdf, "Sender", b.SenderName, b.SenderPhone, b.SenderAddress)
	partyBlock(pdf, "Receiver", b.ReceiverName, b.ReceiverPhone, b.ReceiverAddress+pincodeSuffix(b.Pincode))

	if len(childAwbs) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, "Child Pieces", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, awb := range childAwbs {
			pdf.CellFormat(0, 6, awb, "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}

	if b.Contents != "" {
		headerField(pdf, "Contents:", b.Contents)
	}
	pdf.Ln(8)
	signatureRow(pdf, "Booked By", "Sender Signature")
	return output(pdf)
}

func partyBlock(pdf *fpdf.Fpdf, role, name, phone, address string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, role, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, name, "", 1, "L", false, 0, "")
	if phone != "" {
		pdf.CellFormat(0, 6, phone, "", 1, "L", false, 0, "")
	}
	pdf.MultiCell(0, 6, address, "", "L", false)
	pdf.Ln(2)
}

func signatureRow(pdf *fpdf.Fpdf, left, right string) {
	pdf.Ln(14)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 6, "_________________________", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "_________________________", "", 1, "R", false, 0, "")
	pdf.CellFormat(95, 6, left, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, right, "", 1, "R", false, 0, "")
}

func pincodeSuffix(pin string) string {
	if pin == "" {
		return ""
	}
	return " - " + pin
}

func trim(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "."
}
