package reconcile

import (
	"time"

	"github.com/shopspring/decimal"

	"coop-reconciliation/internal/domain"
)

// ProjectMaturity projects each member's savings payout at the end of the tenure. The
// member's earliest recorded deposit is taken as the fixed monthly deposit; a member
// without deposits projects to zero.
func ProjectMaturity(members []domain.MemberRecord, deposits []domain.DepositEntry, outstanding map[string]decimal.Decimal, p Policy) []domain.MaturityProjection {
	first := make(map[string]domain.DepositEntry)
	deposited := make(map[string]decimal.Decimal)
	for _, d := range deposits {
		if !d.DepositAmount.IsPositive() {
			continue
		}
		deposited[d.MemberID] = deposited[d.MemberID].Add(d.DepositAmount)
		cur, ok := first[d.MemberID]
		if !ok || earlier(d.Date, cur.Date) {
			first[d.MemberID] = d
		}
	}

	tenure := decimal.NewFromInt(int64(p.MaturityTenure))
	out := make([]domain.MaturityProjection, 0, len(members))
	for _, m := range members {
		firstDeposit, hasDeposit := first[m.ID]

		mp := domain.MaturityProjection{
			MemberID:        m.ID,
			Name:            m.Name,
			Tenure:          p.MaturityTenure,
			MonthlyDeposit:  firstDeposit.DepositAmount,
			DepositedToDate: deposited[m.ID],
			OutstandingLoan: outstanding[m.ID],
		}
		if !hasDeposit {
			mp.MonthlyDeposit = decimal.Zero
		}
		mp.TargetDeposit = mp.MonthlyDeposit.Mul(tenure)
		mp.ProjectedInterest = ProjectedSettlementFor(p).Interest(mp.TargetDeposit)

		settlement := domain.SettlementFor(m.Maturity, p.MaturityRate)
		mp.Settlement = settlement.Source()
		mp.SettledInterest = settlement.Interest(mp.TargetDeposit)
		mp.MaturityAmount = mp.TargetDeposit.Add(mp.SettledInterest)
		mp.NetPayable = mp.MaturityAmount.Sub(mp.OutstandingLoan)

		start := m.JoinDate
		if start.IsZero() && hasDeposit {
			start = firstDeposit.Date
		}
		if !start.IsZero() {
			maturesOn := start.AddDate(0, p.MaturityTenure, 0)
			mp.StartDate = domain.FormatDate(start)
			mp.MaturityDate = domain.FormatDate(maturesOn)
			if days := domain.DaysBetween(p.Today, maturesOn); days > 0 {
				mp.DaysRemaining = days
			}
		}
		out = append(out, mp)
	}
	return out
}

// ProjectedSettlementFor is the flat-rate settlement the policy would apply without an
// override.
func ProjectedSettlementFor(p Policy) domain.ProjectedSettlement {
	return domain.ProjectedSettlement{Rate: p.MaturityRate}
}

// earlier orders dated entries before undated ones.
func earlier(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	return b.IsZero() || a.Before(b)
}
