package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/cloud-ru/mcp-living-annuity-go/internal/calculations"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// Стандартные шрифты PDF не содержат кириллицы, поэтому подписи в отчете на английском.
var (
	annualHeaders = []string{"Period", "Start balance", "Interest", "Withdrawal", "End balance", "Drawdown", "Withdrawn to date"}
	annualWidths  = []float64{18, 30, 24, 24, 30, 20, 34}
)

type pdfReport struct {
	pdf *fpdf.Fpdf
}

func newPDFReport(title, subtitle string) *pdfReport {
	r := &pdfReport{pdf: fpdf.New("P", "mm", "A4", "")}
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetTitle(title, false)
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 20)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 12, title, "", 1, "L", false, 0, "")
	r.pdf.SetFont("Arial", "", 11)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.CellFormat(contentWidth, 7, subtitle, "", 1, "L", false, 0, "")
	r.pdf.Ln(4)
	return r
}

// TermPDF строит PDF отчет по сроку аннуитета
func TermPDF(result *calculations.TermResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("report: пустой результат")
	}
	s := result.Summary

	r := newPDFReport("Living Annuity Term", fmt.Sprintf("Capital lasts %s", englishTerm(s)))
	r.drawSectionHeader("Summary")
	r.drawKeyValues([][2]string{
		{"Principal", FormatMoney(s.Principal)},
		{"Annual interest rate", fmt.Sprintf("%.2f%% (compounded %d times a year)", s.AnnualRatePercent, s.CompoundingFrequency)},
		{"Annual drawdown", fmt.Sprintf("%.2f%%", s.AnnualDrawdownPercent)},
		{"Initial monthly income", FormatMoney(s.InitialMonthlyIncome)},
		{"Months simulated", strconv.Itoa(s.Months)},
		{"Total withdrawn", FormatMoney(s.TotalWithdrawn)},
		{"Total interest", FormatMoney(s.TotalInterest)},
		{"Final balance", FormatMoney(s.FinalBalance)},
	})
	r.drawAnnualTable(result.Annual)
	return r.output()
}

// IncomePDF строит PDF отчет по подобранному доходу
func IncomePDF(result *calculations.IncomeResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("report: пустой результат")
	}
	s := result.Summary

	r := newPDFReport("Living Annuity Income", fmt.Sprintf("Sustainable monthly income over %d years", s.AnnuityTermYears))
	r.drawSectionHeader("Summary")
	r.drawKeyValues([][2]string{
		{"Principal", FormatMoney(s.Principal)},
		{"Annual interest rate", fmt.Sprintf("%.2f%% (compounded %d times a year)", s.AnnualRatePercent, s.CompoundingFrequency)},
		{"Annual income increase", fmt.Sprintf("%.2f%%", s.AnnualIncreasePercent)},
		{"Monthly income", FormatMoney(s.MonthlyIncome)},
		{"Initial annual income", FormatMoney(s.InitialAnnualIncome)},
		{"Initial drawdown", fmt.Sprintf("%.1f%%", s.DrawdownPercent)},
		{"Total withdrawn", FormatMoney(s.TotalWithdrawn)},
		{"Total interest", FormatMoney(s.TotalInterest)},
		{"Final balance", FormatMoney(s.FinalBalance)},
	})
	r.drawAnnualTable(result.Annual)
	return r.output()
}

func englishTerm(s calculations.TermSummary) string {
	if s.ReachedCap {
		return fmt.Sprintf("%.0f+ years", s.TermYears)
	}
	return fmt.Sprintf("%.1f years", s.TermYears)
}

func (r *pdfReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 14)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 9, title, "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(3)
}

func (r *pdfReport) drawKeyValues(rows [][2]string) {
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	for _, row := range rows {
		r.pdf.CellFormat(60, 6, row[0], "", 0, "L", false, 0, "")
		r.pdf.CellFormat(contentWidth-60, 6, row[1], "", 1, "L", false, 0, "")
	}
	r.pdf.Ln(4)
}

func (r *pdfReport) drawAnnualTable(annual []calculations.AnnualRecord) {
	r.drawSectionHeader("Year-by-Year Schedule")
	if len(annual) == 0 {
		r.pdf.SetFont("Arial", "I", 10)
		r.pdf.CellFormat(contentWidth, 6, "Principal is below the minimum balance, nothing was simulated.", "", 1, "L", false, 0, "")
		return
	}

	r.drawTableHeader(annualHeaders, annualWidths)
	for _, a := range annual {
		if r.pdf.GetY() > 265 {
			r.pdf.AddPage()
			r.drawTableHeader(annualHeaders, annualWidths)
		}
		r.drawTableRow([]string{
			strconv.Itoa(a.PeriodIndex),
			FormatMoney(a.StartBalance),
			FormatMoney(a.InterestPayment),
			FormatMoney(a.Withdrawal),
			FormatMoney(a.EndBalance),
			fmt.Sprintf("%.2f%%", a.DrawdownPercent),
			FormatMoney(a.TotalWithdrawnToDate),
		}, annualWidths)
	}
}

func (r *pdfReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 8)

	for i, header := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, header, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfReport) drawTableRow(cells []string, widths []float64) {
	r.pdf.SetFillColor(250, 250, 250)
	r.pdf.SetTextColor(50, 50, 50)
	r.pdf.SetFont("Arial", "", 8)

	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 5, cell, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfReport) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
