package payroll

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// RenderBreakdownPDF writes a one-page A4 summary of the breakdown.
func RenderBreakdownPDF(w io.Writer, b SalaryBreakdown) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Salary breakdown")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Mode: %s    Tax method: %s    Currency: %s", b.Mode, b.TaxMethod, b.Currency))
	pdf.Ln(10)

	section := func(title string, rows []pdfRow) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, row := range rows {
			pdf.CellFormat(110, 7, row.label, "B", 0, "L", false, 0, "")
			pdf.CellFormat(70, 7, FormatAmountCode(row.value, b.Currency), "B", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	section("Employee", []pdfRow{
		{"Gross salary", b.GrossSalary},
		{"Social insurance", b.EmployeeSocialInsurance},
		{"Health insurance", b.EmployeeHealthInsurance},
		{"Unemployment insurance", b.EmployeeUnemploymentInsurance},
		{"Salary before tax", b.SalaryBeforeTax},
		{"Personal deduction", b.PersonalDeduction},
		{"Dependent deduction", b.DependentDeduction},
		{"Taxable salary", b.TaxableSalary},
		{"Personal income tax", b.PersonalIncomeTax},
		{"Net salary", b.NetSalary},
	})

	if len(b.TaxByBracket) > 0 {
		rows := make([]pdfRow, 0, len(b.TaxByBracket))
		for _, line := range b.TaxByBracket {
			label := fmt.Sprintf("Bracket %d (%s%%) on %s", line.Bracket,
				line.Rate.Mul(decimal.NewFromInt(100)).String(), FormatAmountCode(line.Taxed, b.Currency))
			rows = append(rows, pdfRow{label, line.Tax})
		}
		section("Income tax by bracket", rows)
	}

	section("Employer", []pdfRow{
		{"Social insurance", b.EmployerSocialInsurance},
		{"Health insurance", b.EmployerHealthInsurance},
		{"Unemployment insurance", b.EmployerUnemploymentInsurance},
		{"Trade union", b.TradeUnion},
		{"Total employer cost", b.TotalEmployerCost},
	})

	return pdf.Output(w)
}

type pdfRow struct {
	label string
	value decimal.Decimal
}
