package services

import (
	"bytes"
	"fmt"

	"trznica/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// ReceiptService renders order receipts as PDF documents.
type ReceiptService interface {
	GenerateReceipt(order *models.OrderDetail, buyerName string) ([]byte, error)
}

type receiptService struct{}

func NewReceiptService() ReceiptService {
	return &receiptService{}
}

func (s *receiptService) GenerateReceipt(order *models.OrderDetail, buyerName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "TRZNICA - POTRDILO O NAROCILU")
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Stevilka narocila: %s", order.ID.String()))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Datum: %s", order.CreatedAt.Format("02.01.2006 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", order.Status))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "DOSTAVA:")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, buyerName)
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("%s, %s %s", order.DeliveryAddress, order.DeliveryPostal, order.DeliveryCity))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Telefon: %s", order.Phone))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)

	headers := []string{"Izdelek", "Kmetija", "Kolicina", "Cena", "Znesek"}
	colWidths := []float64{55, 45, 20, 25, 25}
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)
	for _, item := range order.Items {
		pdf.CellFormat(colWidths[0], 8, item.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, item.FarmName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, fmt.Sprintf("%d %s", item.Quantity, item.Unit), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, fmt.Sprintf("%.2f EUR", item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 8, fmt.Sprintf("%.2f EUR", item.Price*float64(item.Quantity)), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(145, 8, "SKUPAJ:", "0", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, fmt.Sprintf("%.2f EUR", order.TotalAmount), "0", 0, "R", false, 0, "")
	pdf.Ln(12)

	if order.Notes != nil && *order.Notes != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Opombe:")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, *order.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
