package apihttp

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	backtestapp "energy-backtest/internal/backtest/application"
)

// BuildReportXLSX renders the cost report as a workbook with a summary sheet
// and a monthly breakdown sheet.
func BuildReportXLSX(result backtestapp.Result, monthly []monthlyRow) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	monthlySheet := "monthly"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(monthlySheet); err != nil {
		return nil, err
	}

	report := result.Report
	_ = f.SetCellValue(summarySheet, "A1", "Consumption Backtest Report")
	_ = f.SetCellValue(summarySheet, "A3", "Total Cost (EUR)")
	_ = f.SetCellValue(summarySheet, "B3", round2(report.TotalCost))
	_ = f.SetCellValue(summarySheet, "A4", "Reference Cost (EUR)")
	_ = f.SetCellValue(summarySheet, "B4", round2(report.ReferenceCost))
	_ = f.SetCellValue(summarySheet, "A5", "Difference (EUR)")
	_ = f.SetCellValue(summarySheet, "B5", round2(report.Difference))
	_ = f.SetCellValue(summarySheet, "A6", "Difference (%)")
	_ = f.SetCellValue(summarySheet, "B6", round1(report.DifferencePct))
	_ = f.SetCellValue(summarySheet, "A7", "Peak Share (%)")
	_ = f.SetCellValue(summarySheet, "B7", round1(result.PeakShare*100))

	_ = f.SetCellValue(monthlySheet, "A1", "Month")
	_ = f.SetCellValue(monthlySheet, "B1", "Cost (EUR)")
	_ = f.SetCellValue(monthlySheet, "C1", "Reference Cost (EUR)")
	for i, row := range monthly {
		line := i + 2
		_ = f.SetCellValue(monthlySheet, fmt.Sprintf("A%d", line), row.Period)
		_ = f.SetCellValue(monthlySheet, fmt.Sprintf("B%d", line), row.CostEUR)
		_ = f.SetCellValue(monthlySheet, fmt.Sprintf("C%d", line), row.ReferenceEUR)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildReportPDF renders the cost report as a minimal PDF.
func BuildReportPDF(result backtestapp.Result, monthly []monthlyRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	report := result.Report
	pdf.Cell(0, 8, "Consumption Backtest Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total Cost (EUR): %.2f", report.TotalCost))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Reference Cost (EUR): %.2f", report.ReferenceCost))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Difference (EUR): %.2f", report.Difference))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Difference: %.1f%%", report.DifferencePct))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Peak Share: %.1f%%", result.PeakShare*100))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Month", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Cost (EUR)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Reference (EUR)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, row := range monthly {
		pdf.CellFormat(40, 6, row.Period, "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", row.CostEUR), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", row.ReferenceEUR), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
