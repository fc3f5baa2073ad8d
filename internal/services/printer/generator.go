// Package printer renders printable invoice documents.
package printer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/pesanort/tallergo/internal/models"
	"github.com/skip2/go-qrcode"
)

// GenerateInvoicePDF renders an A4 invoice. The invoice must be loaded with
// its customer and its service order (with part requests and parts).
// verifyURL is encoded into a QR code printed on the document.
func GenerateInvoicePDF(inv *models.Invoice, verifyURL string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Core fonts are cp1252; translate UTF-8 strings before drawing
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(249, 115, 22)
	pdf.Cell(120, 10, "PESANORT")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(60, 10, inv.InvoiceNumber, "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(107, 114, 128)
	pdf.Cell(120, 5, "Taller Automotriz")
	pdf.CellFormat(60, 5, inv.CreatedAt.Format("02/01/2006"), "", 1, "R", false, 0, "")
	pdf.Ln(8)

	// Billing details
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Facturar a:")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, tr(inv.BusinessName))
	pdf.Ln(5)
	pdf.Cell(0, 5, "DNI/RUC: "+inv.DNI)
	pdf.Ln(5)
	if order := inv.ServiceOrder; order != nil && order.Vehicle != nil {
		pdf.Cell(0, 5, tr(fmt.Sprintf("Vehículo: %s %s (%s)", order.Vehicle.Brand, order.Vehicle.Model, order.Vehicle.Plate)))
		pdf.Ln(5)
	}
	pdf.Ln(6)

	// Line items table
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(243, 244, 246)
	pdf.CellFormat(90, 8, tr("Descripción"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Cantidad", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Precio", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Importe", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	if order := inv.ServiceOrder; order != nil {
		if order.Cost > 0 {
			pdf.CellFormat(90, 8, "Mano de obra", "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 8, "1", "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", order.Cost), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", order.Cost), "1", 1, "R", false, 0, "")
		}
		for _, pr := range order.PartRequests {
			if pr.Part == nil {
				continue
			}
			amount := pr.Part.Price * float64(pr.Quantity)
			pdf.CellFormat(90, 8, tr(pr.Part.Name), "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 8, fmt.Sprintf("%d", pr.Quantity), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", pr.Part.Price), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", amount), "1", 1, "R", false, 0, "")
		}
	}

	// Totals
	pdf.Ln(4)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(145, 7, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("S/ %.2f", inv.Subtotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(145, 7, "IGV (18%)", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("S/ %.2f", inv.IGV), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(145, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("S/ %.2f", inv.Total), "", 1, "R", false, 0, "")

	// Verification QR bottom left
	qrPng, err := qrcode.Encode(verifyURL, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}
	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	_ = pdf.RegisterImageOptionsReader("verify_qr", imgOptions, bytes.NewReader(qrPng))
	pdf.ImageOptions("verify_qr", 15, 240, 30, 30, false, imgOptions, 0, "")

	pdf.SetXY(50, 252)
	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(107, 114, 128)
	pdf.Cell(0, 5, tr("Escanee el código para verificar esta factura"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
