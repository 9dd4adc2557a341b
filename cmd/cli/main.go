package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cloud-ru/mcp-living-annuity-go/internal/apperrors"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/calculations"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/config"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/report"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	calc := service.NewCalculator(cfg, nil, nil, nil)

	switch os.Args[1] {
	case "term":
		err = cmdTerm(calc, os.Args[2:])
	case "income":
		err = cmdIncome(calc, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli term --principal 1000000 --rate 6 --drawdown 5 [--compound 12] [--age 65] [--csv annual.csv] [--monthly-csv monthly.csv] [--pdf report.pdf]")
	fmt.Println("  cli income --principal 1000000 --rate 6 --term 25 --increase 5 [--compound 12] [--age 65] [--csv annual.csv] [--pdf report.pdf]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - term shows how long the capital lasts at a fixed annual drawdown percent")
	fmt.Println("  - income solves for the starting monthly income that leaves the minimum balance at the end of the term")
	fmt.Println("  - --compound-index 0..6 selects 12, 2, 4, 24, 26, 52, 365 periods a year")
}

type outputs struct {
	csv        *string
	monthlyCSV *string
	pdf        *string
}

type common struct {
	principal     *float64
	rate          *float64
	compound      *int
	compoundIndex *int
	age           *int
	out           outputs
}

func commonFlags(fs *flag.FlagSet) common {
	return common{
		principal:     fs.Float64("principal", 0, "Capital at retirement"),
		rate:          fs.Float64("rate", 0, "Annual interest rate, percent"),
		compound:      fs.Int("compound", 12, "Compounding periods per year"),
		compoundIndex: fs.Int("compound-index", -1, "Compounding option index (overrides --compound)"),
		age:           fs.Int("age", 0, "Retirement age used to number annual rows (0 = years from 1)"),
		out: outputs{
			csv:        fs.String("csv", "", "Write annual schedule CSV to this path"),
			monthlyCSV: fs.String("monthly-csv", "", "Write monthly schedule CSV to this path"),
			pdf:        fs.String("pdf", "", "Write PDF report to this path"),
		},
	}
}

func (c common) resolveCompound() (int, error) {
	if *c.compoundIndex >= 0 {
		return calculations.CompoundFromIndex(*c.compoundIndex)
	}
	return *c.compound, nil
}

func (c common) retirementAge() *int {
	if *c.age <= 0 {
		return nil
	}
	return c.age
}

func cmdTerm(calc *service.Calculator, args []string) error {
	fs := flag.NewFlagSet("term", flag.ExitOnError)
	c := commonFlags(fs)
	drawdown := fs.Float64("drawdown", 5, "Annual drawdown, percent of balance")
	_ = fs.Parse(args)

	compound, err := c.resolveCompound()
	if err != nil {
		return err
	}

	result, err := calc.AnnuityTerm(context.Background(), service.TermInput{
		Principal:             c.principal,
		AnnualRatePercent:     c.rate,
		CompoundingFrequency:  &compound,
		AnnualDrawdownPercent: drawdown,
		RetirementAge:         c.retirementAge(),
		IncludeMonthly:        *c.out.monthlyCSV != "",
	})
	if err != nil {
		return err
	}

	s := result.Summary
	fmt.Printf("Capital lasts:          %s\n", s.TermLabel)
	fmt.Printf("Months simulated:       %d\n", s.Months)
	fmt.Printf("Initial monthly income: %s\n", report.FormatMoney(s.InitialMonthlyIncome))
	fmt.Printf("Total withdrawn:        %s\n", report.FormatMoney(s.TotalWithdrawn))
	fmt.Printf("Total interest:         %s\n", report.FormatMoney(s.TotalInterest))
	fmt.Printf("Final balance:          %s\n", report.FormatMoney(s.FinalBalance))

	return writeOutputs(c.out, result.Annual, result.Monthly, func() ([]byte, error) {
		return report.TermPDF(result)
	})
}

func cmdIncome(calc *service.Calculator, args []string) error {
	fs := flag.NewFlagSet("income", flag.ExitOnError)
	c := commonFlags(fs)
	term := fs.Int("term", 20, "Annuity term, years")
	increase := fs.Float64("increase", 0, "Annual income increase, percent")
	_ = fs.Parse(args)

	compound, err := c.resolveCompound()
	if err != nil {
		return err
	}

	result, err := calc.MonthlyIncome(context.Background(), service.IncomeInput{
		Principal:             c.principal,
		AnnualRatePercent:     c.rate,
		CompoundingFrequency:  &compound,
		AnnuityTermYears:      term,
		AnnualIncreasePercent: increase,
		RetirementAge:         c.retirementAge(),
		IncludeMonthly:        *c.out.monthlyCSV != "",
	})
	if err != nil {
		return err
	}

	s := result.Summary
	fmt.Printf("Monthly income:         %s\n", report.FormatMoney(s.MonthlyIncome))
	fmt.Printf("Initial annual income:  %s\n", report.FormatMoney(s.InitialAnnualIncome))
	fmt.Printf("Initial drawdown:       %.1f%%\n", s.DrawdownPercent)
	fmt.Printf("Total withdrawn:        %s\n", report.FormatMoney(s.TotalWithdrawn))
	fmt.Printf("Total interest:         %s\n", report.FormatMoney(s.TotalInterest))
	fmt.Printf("Final balance:          %s\n", report.FormatMoney(s.FinalBalance))
	if s.ToleranceWidened {
		fmt.Printf("Warning: minimum balance not reached (solver tolerance %g, ratio %.4f)\n", s.SolverTolerance, s.SolverRatio)
	}

	return writeOutputs(c.out, result.Annual, result.Monthly, func() ([]byte, error) {
		return report.IncomePDF(result)
	})
}

func writeOutputs(out outputs, annual []calculations.AnnualRecord, monthly []calculations.MonthlyRecord, pdf func() ([]byte, error)) error {
	if *out.csv != "" {
		var buf bytes.Buffer
		if err := report.WriteAnnualCSV(&buf, annual); err != nil {
			return err
		}
		if err := writeFile(*out.csv, buf.Bytes()); err != nil {
			return err
		}
	}
	if *out.monthlyCSV != "" {
		var buf bytes.Buffer
		if err := report.WriteMonthlyCSV(&buf, monthly); err != nil {
			return err
		}
		if err := writeFile(*out.monthlyCSV, buf.Bytes()); err != nil {
			return err
		}
	}
	if *out.pdf != "" {
		data, err := pdf()
		if err != nil {
			return err
		}
		if err := writeFile(*out.pdf, data); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func printError(err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	fmt.Fprintln(os.Stderr, appErr.UserMessage())
	for _, v := range appErr.Violations {
		fmt.Fprintf(os.Stderr, "  - %s: %s\n", v.Field, v.Message)
	}
	if len(appErr.Violations) == 0 {
		fmt.Fprintf(os.Stderr, "  %s\n", appErr.Message)
	}
}
