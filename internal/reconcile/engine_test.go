package reconcile_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coop-reconciliation/internal/domain"
	"coop-reconciliation/internal/reconcile"
)

func sampleSnapshot() domain.Snapshot {
	return domain.Snapshot{
		TenantID: "society-1",
		Members: []domain.MemberRecord{
			{ID: "M1", Name: "Asha", JoinDate: day("2023-06-01")},
			{ID: "M2", Name: "Ravi", JoinDate: day("2023-06-01"), Maturity: domain.MaturityOverride{IsOverride: true, ManualAmount: dec("1500")}},
		},
		Deposits: []domain.DepositEntry{
			{ID: "D0", MemberID: "M2", Date: day("2023-12-20"), InstallmentAmount: dec("1000"), TotalAmount: dec("1000"), PaymentMode: "cash"},
			{ID: "D1", MemberID: "M1", Date: day("2024-01-05"), DepositAmount: dec("500"), TotalAmount: dec("500"), PaymentMode: "cash"},
			{ID: "D2", MemberID: "M2", Date: day("2024-01-06"), DepositAmount: dec("1000"), InstallmentAmount: dec("2000"), InterestAmount: dec("100"), FineAmount: dec("10"), TotalAmount: dec("3110"), PaymentMode: "UPI"},
			{ID: "D3", MemberID: "M2", Date: day("2024-01-20"), InstallmentAmount: dec("3000"), TotalAmount: dec("3000"), PaymentMode: "bank transfer"},
			{ID: "D4", MemberID: "M1", DepositAmount: dec("100"), TotalAmount: dec("100")},
		},
		Expenses: []domain.ExpenseEntry{
			{ID: "E1", Date: day("2024-01-06"), Amount: dec("250"), Type: domain.ExpenseTypeOperational, PaymentMode: "cash"},
			{ID: "E2", Date: day("2024-02-02"), Amount: dec("99")},
		},
		Loans: []domain.LoanRecord{
			{ID: "L1", MemberID: "M2", Amount: dec("10000"), CreatedAt: day("2023-12-01"), StoredStatus: domain.LoanStatusClosed},
			{ID: "L2", MemberID: "M1", Amount: dec("2000"), CreatedAt: day("2024-01-10")},
		},
	}
}

var january = domain.DateRange{Start: day("2024-01-01"), End: day("2024-01-31")}

func TestCompute_SingleDepositExample(t *testing.T) {
	s := domain.Snapshot{Deposits: []domain.DepositEntry{{
		MemberID: "M1", Date: day("2024-01-05"), DepositAmount: dec("500"), TotalAmount: dec("500"), PaymentMode: "cash",
	}}}

	b := reconcile.Compute(s, january, reconcile.DefaultPolicy(day("2024-02-01")))

	require.Len(t, b.DailyLedger, 1)
	assertDec(t, "500", b.DailyLedger[0].Deposit)
	assertDec(t, "500", b.DailyLedger[0].CashIn)
	assertDec(t, "500", b.DailyLedger[0].RunningBalance)
	require.Len(t, b.Cashbook, 1)
	assertDec(t, "500", b.Cashbook[0].CashIn)
	assertDec(t, "500", b.Cashbook[0].Closing)
}

func TestCompute_LoanBalancesUseFullHistory(t *testing.T) {
	b := reconcile.Compute(sampleSnapshot(), january, reconcile.DefaultPolicy(day("2024-02-01")))

	require.Len(t, b.Loans, 2)
	// D0 predates the window but still pays L1 down
	assertDec(t, "4000", b.Loans[0].RemainingBalance)
	assert.Equal(t, domain.LoanStatusActive, b.Loans[0].Status)
	assertDec(t, "2000", b.Loans[1].RemainingBalance)

	assert.Equal(t, 1, b.Summary.Loans.IssuedCount)
	assertDec(t, "2000", b.Summary.Loans.IssuedAmount)
	assertDec(t, "5000", b.Summary.Loans.Recovered)
	assertDec(t, "6000", b.Summary.Loans.Pending)
}

func TestCompute_ConservationAndRunningBalance(t *testing.T) {
	b := reconcile.Compute(sampleSnapshot(), january, reconcile.DefaultPolicy(day("2024-02-01")))

	sumIn, sumOut := decimal.Zero, decimal.Zero
	for _, c := range b.Cashbook {
		sumIn = sumIn.Add(c.CashIn).Add(c.BankIn).Add(c.UPIIn)
		sumOut = sumOut.Add(c.CashOut).Add(c.BankOut).Add(c.UPIOut)
	}
	net := b.Summary.Income.Total.Sub(b.Summary.Expense.Total).Sub(b.Summary.Loans.IssuedAmount)

	assertDec(t, "4360", net)
	assert.True(t, sumIn.Sub(sumOut).Equal(net))
	assert.True(t, b.ModeStats.CashBalance.Add(b.ModeStats.BankBalance).Add(b.ModeStats.UPIBalance).Equal(net))

	require.NotEmpty(t, b.DailyLedger)
	assert.Equal(t, "2024-01-20", b.DailyLedger[0].Date, "newest first")
	assert.True(t, b.DailyLedger[0].RunningBalance.Equal(net))
}

func TestCompute_MemberViewsIgnoreWindow(t *testing.T) {
	b := reconcile.Compute(sampleSnapshot(), january, reconcile.DefaultPolicy(day("2024-02-01")))

	require.Len(t, b.MemberReports, 2)
	assertDec(t, "600", b.MemberReports[0].TotalDeposits, "undated D4 still counts")
	assertDec(t, "6000", b.MemberReports[1].PrincipalPaid)

	require.Len(t, b.Maturity, 2)
	assertDec(t, "500", b.Maturity[0].MonthlyDeposit)
	assertDec(t, "1500", b.Maturity[1].SettledInterest)
	assertDec(t, "37500", b.Maturity[1].MaturityAmount)
	assertDec(t, "33500", b.Maturity[1].NetPayable)

	require.Len(t, b.Defaulters, 1)
	assert.Equal(t, "L1", b.Defaulters[0].LoanID)
	assert.Equal(t, 62, b.Defaulters[0].DaysOverdue)
}

func TestCompute_Idempotent(t *testing.T) {
	p := reconcile.DefaultPolicy(day("2024-02-01"))

	first, err := json.Marshal(reconcile.Compute(sampleSnapshot(), january, p))
	require.NoError(t, err)
	second, err := json.Marshal(reconcile.Compute(sampleSnapshot(), january, p))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestBundleID(t *testing.T) {
	p := reconcile.DefaultPolicy(day("2024-02-01"))
	a := reconcile.BundleID("t1", january, p)

	assert.Equal(t, a, reconcile.BundleID("t1", january, p))
	assert.NotEqual(t, a, reconcile.BundleID("t2", january, p))
	assert.NotEqual(t, a, reconcile.BundleID("t1", january, reconcile.DefaultPolicy(day("2024-02-02"))))
}
