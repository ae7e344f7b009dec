package reconcile

import "coop-reconciliation/internal/domain"

// Window is the part of a snapshot that falls inside a date range. Loans are placed by
// their issue date.
type Window struct {
	Deposits []domain.DepositEntry
	Expenses []domain.ExpenseEntry
	Loans    []domain.LoanRecord
}

// FilterByRange restricts the three transaction streams to r. Entries without a usable
// date are dropped.
func FilterByRange(s domain.Snapshot, r domain.DateRange) Window {
	w := Window{
		Deposits: make([]domain.DepositEntry, 0, len(s.Deposits)),
		Expenses: make([]domain.ExpenseEntry, 0, len(s.Expenses)),
		Loans:    make([]domain.LoanRecord, 0, len(s.Loans)),
	}
	for _, d := range s.Deposits {
		if r.Contains(d.Date) {
			w.Deposits = append(w.Deposits, d)
		}
	}
	for _, e := range s.Expenses {
		if r.Contains(e.Date) {
			w.Expenses = append(w.Expenses, e)
		}
	}
	for _, l := range s.Loans {
		if r.Contains(l.IssuedAt()) {
			w.Loans = append(w.Loans, l)
		}
	}
	return w
}
