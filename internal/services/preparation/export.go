package preparation

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/malabro/eshop-backend/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// Export renders the report in the requested format and returns the file bytes
// with their content type.
func Export(report models.PreparationReport, format string) ([]byte, string, error) {
	switch format {
	case FormatXLSX:
		data, err := BuildXLSX(report)
		return data, ContentTypeXLSX, err
	case FormatPDF:
		data, err := BuildPDF(report)
		return data, ContentTypePDF, err
	}
	return nil, "", fmt.Errorf("unsupported export format %q", format)
}

// BuildXLSX writes a "summary" sheet, a "products" sheet with one row per
// product, and an "orders" sheet with one row per product occurrence.
func BuildXLSX(report models.PreparationReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "summary"
	productsSheet := "products"
	ordersSheet := "orders"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(productsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(ordersSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Delivery preparation")
	_ = f.SetCellValue(summarySheet, "A3", "Paid orders")
	_ = f.SetCellValue(summarySheet, "B3", report.Summary.TotalPaidOrders)
	_ = f.SetCellValue(summarySheet, "A4", "Products")
	_ = f.SetCellValue(summarySheet, "B4", report.Summary.TotalUniqueProducts)
	_ = f.SetCellValue(summarySheet, "A5", "Revenue")
	_ = f.SetCellValue(summarySheet, "B5", report.Summary.TotalRevenue)
	_ = f.SetCellValue(summarySheet, "A6", "From")
	_ = f.SetCellValue(summarySheet, "B6", deref(report.DateRange.DateFrom, "-"))
	_ = f.SetCellValue(summarySheet, "A7", "To")
	_ = f.SetCellValue(summarySheet, "B7", deref(report.DateRange.DateTo, "-"))
	_ = f.SetCellValue(summarySheet, "A8", "Generated")
	_ = f.SetCellValue(summarySheet, "B8", report.Summary.LastUpdated.Format(time.RFC3339))

	for i, header := range []string{"Product", "Quantity", "Unit", "Orders", "Customers"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(productsSheet, cell, header)
	}
	for i, header := range []string{"Product", "Order reference", "Customer", "Quantity", "Ordered at"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(ordersSheet, cell, header)
	}

	orderRow := 2
	for i, p := range report.Products {
		row := i + 2
		_ = f.SetCellValue(productsSheet, fmt.Sprintf("A%d", row), p.ProductName)
		_ = f.SetCellValue(productsSheet, fmt.Sprintf("B%d", row), p.TotalQuantity)
		_ = f.SetCellValue(productsSheet, fmt.Sprintf("C%d", row), deref(p.Unit, ""))
		_ = f.SetCellValue(productsSheet, fmt.Sprintf("D%d", row), p.OrderCount)
		_ = f.SetCellValue(productsSheet, fmt.Sprintf("E%d", row), p.UniqueCustomers)

		for _, o := range p.Orders {
			_ = f.SetCellValue(ordersSheet, fmt.Sprintf("A%d", orderRow), p.ProductName)
			_ = f.SetCellValue(ordersSheet, fmt.Sprintf("B%d", orderRow), o.OrderReference)
			_ = f.SetCellValue(ordersSheet, fmt.Sprintf("C%d", orderRow), o.CustomerName)
			_ = f.SetCellValue(ordersSheet, fmt.Sprintf("D%d", orderRow), o.Quantity)
			_ = f.SetCellValue(ordersSheet, fmt.Sprintf("E%d", orderRow), o.CreatedAt.Format("2006-01-02 15:04"))
			orderRow++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildPDF renders a pick list: one table of product totals followed by the
// per-order breakdown of each product.
func BuildPDF(report models.PreparationReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, "Delivery preparation")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s",
		deref(report.DateRange.DateFrom, "start"), deref(report.DateRange.DateTo, "today")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Paid orders: %d   Products: %d   Revenue: %.2f",
		report.Summary.TotalPaidOrders, report.Summary.TotalUniqueProducts, report.Summary.TotalRevenue))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", report.Summary.LastUpdated.Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(80, 6, "Product", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 6, "Quantity", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Unit", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Orders", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Customers", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, p := range report.Products {
		pdf.CellFormat(80, 6, tr(p.ProductName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", p.TotalQuantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, tr(deref(p.Unit, "")), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", p.OrderCount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", p.UniqueCustomers), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	for _, p := range report.Products {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 6, tr(fmt.Sprintf("%s (%d %s)", p.ProductName, p.TotalQuantity, deref(p.Unit, ""))))
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 9)
		for _, o := range p.Orders {
			pdf.CellFormat(40, 5, o.OrderReference, "1", 0, "L", false, 0, "")
			pdf.CellFormat(80, 5, tr(o.CustomerName), "1", 0, "L", false, 0, "")
			pdf.CellFormat(20, 5, fmt.Sprintf("%d", o.Quantity), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 5, o.CreatedAt.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
