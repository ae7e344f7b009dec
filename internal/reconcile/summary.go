package reconcile

import (
	"strings"

	"github.com/shopspring/decimal"

	"coop-reconciliation/internal/domain"
)

// Summarize aggregates the windowed streams. Issuance is counted from loans issued in
// the window while balance state comes from loans, which must cover the full history.
func Summarize(w Window, loans []domain.LoanBalance, stats domain.ModeStats) domain.Summary {
	var s domain.Summary

	for _, d := range w.Deposits {
		s.Income.Interest = s.Income.Interest.Add(d.InterestAmount)
		s.Income.Fine = s.Income.Fine.Add(d.FineAmount)
		s.Income.Deposits = s.Income.Deposits.Add(d.DepositAmount)
		s.Income.Total = s.Income.Total.Add(d.TotalAmount)
		if d.InstallmentAmount.IsPositive() {
			s.Loans.Recovered = s.Loans.Recovered.Add(d.InstallmentAmount)
		}
	}
	s.Income.Other = s.Income.Total.Sub(s.Income.Interest).Sub(s.Income.Fine)

	for _, e := range w.Expenses {
		s.Expense.Total = s.Expense.Total.Add(e.Amount)
		if isOpsExpense(e) {
			s.Expense.Ops = s.Expense.Ops.Add(e.Amount)
		}
	}
	s.NetProfit = s.Income.Total.Sub(s.Expense.Total)

	for _, l := range w.Loans {
		s.Loans.IssuedCount++
		s.Loans.IssuedAmount = s.Loans.IssuedAmount.Add(l.Amount)
	}
	for _, l := range loans {
		s.Loans.Pending = s.Loans.Pending.Add(l.RemainingBalance)
		if l.Status == domain.LoanStatusActive {
			s.Loans.ActiveCount++
		} else {
			s.Loans.ClosedCount++
		}
	}

	s.Assets = domain.AssetSummary{
		Cash:           stats.CashBalance,
		Bank:           stats.BankBalance,
		UPI:            stats.UPIBalance,
		LoanReceivable: s.Loans.Pending,
	}
	s.Assets.Total = decimal.Sum(s.Assets.Cash, s.Assets.Bank, s.Assets.UPI, s.Assets.LoanReceivable)
	return s
}

func isOpsExpense(e domain.ExpenseEntry) bool {
	return strings.EqualFold(string(e.Type), string(domain.ExpenseTypeOperational))
}
