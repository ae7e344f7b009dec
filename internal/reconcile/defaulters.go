package reconcile

import (
	"sort"

	"coop-reconciliation/internal/domain"
)

// DetectDefaulters flags open loans older than the overdue threshold. Overdue is
// approximated by loan age because loans carry no repayment schedule.
func DetectDefaulters(loans []domain.LoanBalance, members []domain.MemberRecord, p Policy) []domain.DefaulterEntry {
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}

	out := make([]domain.DefaulterEntry, 0)
	for _, l := range loans {
		issued := l.IssuedAt()
		if !l.RemainingBalance.IsPositive() || issued.IsZero() {
			continue
		}
		daysOpen := domain.DaysBetween(issued, p.Today)
		if daysOpen <= p.OverdueAfterDays {
			continue
		}
		severity := domain.SeverityOverdue
		if daysOpen > p.CriticalAfterDays {
			severity = domain.SeverityCritical
		}
		out = append(out, domain.DefaulterEntry{
			LoanID:           l.ID,
			MemberID:         l.MemberID,
			MemberName:       names[l.MemberID],
			LoanAmount:       l.Amount,
			RemainingBalance: l.RemainingBalance,
			IssuedOn:         domain.FormatDate(issued),
			DaysOverdue:      daysOpen,
			Severity:         severity,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysOverdue != out[j].DaysOverdue {
			return out[i].DaysOverdue > out[j].DaysOverdue
		}
		return out[i].LoanID < out[j].LoanID
	})
	return out
}
