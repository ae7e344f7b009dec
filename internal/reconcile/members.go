package reconcile

import (
	"time"

	"github.com/shopspring/decimal"

	"coop-reconciliation/internal/domain"
)

// BuildMemberReports produces one statement per roster member. Statements are always as
// of now: deposits and loans must be the full unfiltered history.
func BuildMemberReports(members []domain.MemberRecord, deposits []domain.DepositEntry, loans []domain.LoanBalance) []domain.MemberReport {
	type totals struct {
		deposits, interest, fine decimal.Decimal
		lastPaid                 time.Time
	}
	byMember := make(map[string]*totals)
	for _, d := range deposits {
		t, ok := byMember[d.MemberID]
		if !ok {
			t = &totals{}
			byMember[d.MemberID] = t
		}
		t.deposits = t.deposits.Add(d.DepositAmount)
		t.interest = t.interest.Add(d.InterestAmount)
		t.fine = t.fine.Add(d.FineAmount)
		if d.Date.After(t.lastPaid) {
			t.lastPaid = d.Date
		}
	}

	reports := make([]domain.MemberReport, 0, len(members))
	for _, m := range members {
		r := domain.MemberReport{MemberID: m.ID, Name: m.Name, Phone: m.Phone}
		if t, ok := byMember[m.ID]; ok {
			r.TotalDeposits = t.deposits
			r.InterestPaid = t.interest
			r.FinePaid = t.fine
			r.LastPaymentDate = domain.FormatDate(t.lastPaid)
		}
		for _, l := range loans {
			if l.MemberID != m.ID {
				continue
			}
			r.LoanCount++
			r.LoanTaken = r.LoanTaken.Add(l.Amount)
			r.ActiveLoanBalance = r.ActiveLoanBalance.Add(l.RemainingBalance)
			if l.Status == domain.LoanStatusActive {
				r.ActiveLoanCount++
			}
		}
		r.PrincipalPaid = r.LoanTaken.Sub(r.ActiveLoanBalance)
		r.NetWorth = r.TotalDeposits.Sub(r.ActiveLoanBalance)
		reports = append(reports, r)
	}
	return reports
}
