package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"

	"coop-reconciliation/internal/domain"
)

// RecomputeLoans rederives every loan's remaining balance from the installment history.
// It must be given the unfiltered deposit stream; the stored loan status is ignored.
// The result keeps the order of loans.
func RecomputeLoans(loans []domain.LoanRecord, deposits []domain.DepositEntry, alloc Allocation) []domain.LoanBalance {
	paid := installmentsByMember(deposits)
	out := make([]domain.LoanBalance, len(loans))

	if alloc == AllocationOldestFirst {
		remaining := make(map[string]decimal.Decimal, len(paid))
		for k, v := range paid {
			remaining[k] = v
		}
		for _, i := range issueOrder(loans) {
			l := loans[i]
			pool := remaining[l.MemberID]
			applied := decimal.Min(pool, clampZero(l.Amount))
			remaining[l.MemberID] = pool.Sub(applied)
			out[i] = newLoanBalance(l, l.Amount.Sub(applied))
		}
		return out
	}

	for i, l := range loans {
		out[i] = newLoanBalance(l, l.Amount.Sub(paid[l.MemberID]))
	}
	return out
}

func newLoanBalance(l domain.LoanRecord, balance decimal.Decimal) domain.LoanBalance {
	balance = clampZero(balance)
	status := domain.LoanStatusClosed
	if balance.IsPositive() {
		status = domain.LoanStatusActive
	}
	return domain.LoanBalance{LoanRecord: l, RemainingBalance: balance, Status: status}
}

func installmentsByMember(deposits []domain.DepositEntry) map[string]decimal.Decimal {
	paid := make(map[string]decimal.Decimal)
	for _, d := range deposits {
		if d.InstallmentAmount.IsPositive() {
			paid[d.MemberID] = paid[d.MemberID].Add(d.InstallmentAmount)
		}
	}
	return paid
}

// issueOrder returns loan indexes sorted by issue date, undated loans last.
func issueOrder(loans []domain.LoanRecord) []int {
	idx := make([]int, len(loans))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ta, tb := loans[idx[a]].IssuedAt(), loans[idx[b]].IssuedAt()
		if ta.IsZero() != tb.IsZero() {
			return tb.IsZero()
		}
		return ta.Before(tb)
	})
	return idx
}

// OutstandingByMember sums the recomputed balances per member.
func OutstandingByMember(loans []domain.LoanBalance) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, l := range loans {
		out[l.MemberID] = out[l.MemberID].Add(l.RemainingBalance)
	}
	return out
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
