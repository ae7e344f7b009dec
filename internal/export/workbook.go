// Package export renders a report bundle as an Excel workbook, one sheet per view.
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"coop-reconciliation/internal/domain"
)

const (
	SheetSummary    = "Summary"
	SheetLedger     = "Daily Ledger"
	SheetCashbook   = "Cashbook"
	SheetMembers    = "Members"
	SheetMaturity   = "Maturity"
	SheetDefaulters = "Defaulters"
)

// Workbook builds the workbook for b. The caller owns the returned file and must Close it.
func Workbook(b *domain.ReportBundle) (*excelize.File, error) {
	f := excelize.NewFile()

	sheets := []struct {
		name string
		fill func(*excelize.File, string, *domain.ReportBundle) error
	}{
		{SheetSummary, writeSummary},
		{SheetLedger, writeLedger},
		{SheetCashbook, writeCashbook},
		{SheetMembers, writeMembers},
		{SheetMaturity, writeMaturity},
		{SheetDefaulters, writeDefaulters},
	}
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			f.Close()
			return nil, err
		}
		if err := s.fill(f, s.name, b); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write sheet %s: %w", s.name, err)
		}
	}
	return f, nil
}

// Write renders b straight to w.
func Write(w io.Writer, b *domain.ReportBundle) error {
	f, err := Workbook(b)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// SaveAs renders b to a file on disk.
func SaveAs(path string, b *domain.ReportBundle) error {
	f, err := Workbook(b)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// writeRows writes a header row and the data rows below it, starting at A1.
func writeRows(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// num converts an amount to a spreadsheet number. Report amounts are well inside float
// precision.
func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func writeSummary(f *excelize.File, sheet string, b *domain.ReportBundle) error {
	s := b.Summary
	rows := [][]any{
		{"Tenant", b.TenantID},
		{"Window start", b.WindowStart},
		{"Window end", b.WindowEnd},
		{"As of", b.AsOf},
		{"Interest income", num(s.Income.Interest)},
		{"Fine income", num(s.Income.Fine)},
		{"Other income", num(s.Income.Other)},
		{"Deposits", num(s.Income.Deposits)},
		{"Total income", num(s.Income.Total)},
		{"Ops expense", num(s.Expense.Ops)},
		{"Total expense", num(s.Expense.Total)},
		{"Net profit", num(s.NetProfit)},
		{"Loans issued", s.Loans.IssuedCount},
		{"Loan amount issued", num(s.Loans.IssuedAmount)},
		{"Loan recovered", num(s.Loans.Recovered)},
		{"Loan pending", num(s.Loans.Pending)},
		{"Active loans", s.Loans.ActiveCount},
		{"Closed loans", s.Loans.ClosedCount},
		{"Cash balance", num(s.Assets.Cash)},
		{"Bank balance", num(s.Assets.Bank)},
		{"UPI balance", num(s.Assets.UPI)},
		{"Loan receivable", num(s.Assets.LoanReceivable)},
		{"Total assets", num(s.Assets.Total)},
	}
	return writeRows(f, sheet, []any{"Item", "Value"}, rows)
}

func writeLedger(f *excelize.File, sheet string, b *domain.ReportBundle) error {
	rows := make([][]any, 0, len(b.DailyLedger))
	for _, d := range b.DailyLedger {
		rows = append(rows, []any{
			d.Date, num(d.Deposit), num(d.EMI), num(d.Interest), num(d.Fine), num(d.LoanOut), num(d.Expense),
			num(d.TotalIn), num(d.TotalOut), num(d.RunningBalance),
		})
	}
	header := []any{"Date", "Deposit", "EMI", "Interest", "Fine", "Loan Out", "Expense", "Total In", "Total Out", "Running Balance"}
	return writeRows(f, sheet, header, rows)
}

func writeCashbook(f *excelize.File, sheet string, b *domain.ReportBundle) error {
	rows := make([][]any, 0, len(b.Cashbook))
	for _, c := range b.Cashbook {
		rows = append(rows, []any{
			c.Date, num(c.Opening), num(c.CashIn), num(c.CashOut), num(c.BankIn), num(c.BankOut),
			num(c.UPIIn), num(c.UPIOut), num(c.Closing),
		})
	}
	header := []any{"Date", "Opening", "Cash In", "Cash Out", "Bank In", "Bank Out", "UPI In", "UPI Out", "Closing"}
	return writeRows(f, sheet, header, rows)
}

func writeMembers(f *excelize.File, sheet string, b *domain.ReportBundle) error {
	rows := make([][]any, 0, len(b.MemberReports))
	for _, m := range b.MemberReports {
		rows = append(rows, []any{
			m.MemberID, m.Name, m.Phone, num(m.TotalDeposits), num(m.LoanTaken), num(m.PrincipalPaid),
			num(m.InterestPaid), num(m.FinePaid), num(m.ActiveLoanBalance), num(m.NetWorth), m.LastPaymentDate,
		})
	}
	header := []any{"Member", "Name", "Phone", "Deposits", "Loan Taken", "Principal Paid", "Interest Paid", "Fine Paid", "Active Loan", "Net Worth", "Last Payment"}
	return writeRows(f, sheet, header, rows)
}

func writeMaturity(f *excelize.File, sheet string, b *domain.ReportBundle) error {
	rows := make([][]any, 0, len(b.Maturity))
	for _, m := range b.Maturity {
		rows = append(rows, []any{
			m.MemberID, m.Name, m.Tenure, num(m.MonthlyDeposit), num(m.TargetDeposit), string(m.Settlement),
			num(m.SettledInterest), num(m.MaturityAmount), num(m.OutstandingLoan), num(m.NetPayable),
			m.MaturityDate, m.DaysRemaining,
		})
	}
	header := []any{"Member", "Name", "Tenure", "Monthly Deposit", "Target Deposit", "Settlement", "Interest", "Maturity Amount", "Outstanding Loan", "Net Payable", "Maturity Date", "Days Remaining"}
	return writeRows(f, sheet, header, rows)
}

func writeDefaulters(f *excelize.File, sheet string, b *domain.ReportBundle) error {
	rows := make([][]any, 0, len(b.Defaulters))
	for _, d := range b.Defaulters {
		rows = append(rows, []any{
			d.LoanID, d.MemberID, d.MemberName, num(d.LoanAmount), num(d.RemainingBalance), d.IssuedOn,
			d.DaysOverdue, string(d.Severity),
		})
	}
	header := []any{"Loan", "Member", "Name", "Loan Amount", "Remaining", "Issued On", "Days Overdue", "Severity"}
	return writeRows(f, sheet, header, rows)
}
