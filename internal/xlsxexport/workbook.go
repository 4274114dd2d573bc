// Package xlsxexport renders a period summary as an Excel workbook.
package xlsxexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Maxx-Protein/compliance-companion/internal/report"
)

// Sheet names, in workbook order.
const (
	SheetGSTR1    = "GSTR-1"
	SheetGSTR3B   = "GSTR-3B"
	SheetGSTR9    = "GSTR-9"
	SheetTrend    = "Trend"
	SheetProducts = "Products"
	SheetHSN      = "HSN"
	SheetWarnings = "Warnings"
)

// ContentType is the MIME type of the rendered workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheet struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

// WriteSummary writes the summary workbook to w.
func WriteSummary(w io.Writer, s *report.Summary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E8EEF7"}},
	})
	if err != nil {
		return fmt.Errorf("xlsx header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("xlsx money style: %w", err)
	}

	for i, sh := range sheets(s) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				return fmt.Errorf("xlsx rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("xlsx new sheet %s: %w", sh.name, err)
		}
		if err := writeSheet(f, sh, headerStyle, moneyStyle); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sh sheet, headerStyle, moneyStyle int) error {
	header := sh.header
	if err := f.SetSheetRow(sh.name, "A1", &header); err != nil {
		return fmt.Errorf("xlsx %s header: %w", sh.name, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(sh.header), 1)
	if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("xlsx %s header style: %w", sh.name, err)
	}

	for i := range sh.rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := sh.rows[i]
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return fmt.Errorf("xlsx %s row %d: %w", sh.name, i+2, err)
		}
		for col, v := range row {
			if _, ok := v.(float64); !ok {
				continue
			}
			ref, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellStyle(sh.name, ref, ref, moneyStyle); err != nil {
				return fmt.Errorf("xlsx %s money style: %w", sh.name, err)
			}
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(sh.header))
	return f.SetColWidth(sh.name, "A", lastCol, 18)
}

func sheets(s *report.Summary) []sheet {
	trend := make([][]interface{}, len(s.Trend))
	for i, p := range s.Trend {
		trend[i] = []interface{}{p.Month, p.Sales, p.GST, p.TCS}
	}
	products := make([][]interface{}, len(s.Products))
	for i, p := range s.Products {
		products[i] = []interface{}{p.Name, p.Sales, p.GST}
	}
	hsn := make([][]interface{}, len(s.HSN))
	for i, r := range s.HSN {
		hsn[i] = []interface{}{r.HSNCode, r.InvoiceCount, r.LineItemCount, r.TotalQuantity,
			r.TaxableAmount, r.CGST, r.SGST, r.IGST, r.TotalTax}
	}
	warnings := make([][]interface{}, len(s.Warnings))
	for i, w := range s.Warnings {
		warnings[i] = []interface{}{w.Code, w.FieldPath, w.ExpectedValue, w.ActualValue, w.Message}
	}

	return []sheet{
		{
			name:   SheetGSTR1,
			header: []interface{}{"Period", "Total Invoices", "Taxable Value", "Total GST"},
			rows:   [][]interface{}{{s.Filter.Key(), s.GSTR1.TotalInvoices, s.GSTR1.TaxableValue, s.GSTR1.TotalGST}},
		},
		{
			name:   SheetGSTR3B,
			header: []interface{}{"Period", "GST Liability", "ITC Claimed", "Net Payable"},
			rows:   [][]interface{}{{s.Filter.Key(), s.GSTR3B.GSTLiability, s.GSTR3B.ITCClaimed, s.GSTR3B.NetPayable}},
		},
		{
			name:   SheetGSTR9,
			header: []interface{}{"Period", "Total Sales", "Total Purchases", "Total GST Paid", "Total TCS"},
			rows: [][]interface{}{{s.Filter.Key(), s.GSTR9.TotalSales, s.GSTR9.TotalPurchases,
				s.GSTR9.TotalGSTPaid, s.GSTR9.TotalTCS}},
		},
		{name: SheetTrend, header: []interface{}{"Month", "Sales", "GST", "TCS"}, rows: trend},
		{name: SheetProducts, header: []interface{}{"Product", "Sales", "GST"}, rows: products},
		{
			name: SheetHSN,
			header: []interface{}{"HSN/SAC", "Invoices", "Line Items", "Quantity", "Taxable Amount",
				"CGST", "SGST", "IGST", "Total Tax"},
			rows: hsn,
		},
		{name: SheetWarnings, header: []interface{}{"Code", "Field", "Expected", "Actual", "Message"}, rows: warnings},
	}
}
