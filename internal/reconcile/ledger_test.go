package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coop-reconciliation/internal/domain"
	"coop-reconciliation/internal/reconcile"
)

func TestBuildLedger_SingleCashDeposit(t *testing.T) {
	w := reconcile.Window{Deposits: []domain.DepositEntry{{
		MemberID:      "M1",
		Date:          day("2024-01-05"),
		DepositAmount: dec("500"),
		TotalAmount:   dec("500"),
		PaymentMode:   "cash",
	}}}

	ledger, cashbook, stats := reconcile.BuildLedger(w)
	require.Len(t, ledger, 1)
	require.Len(t, cashbook, 1)

	assert.Equal(t, "2024-01-05", ledger[0].Date)
	assertDec(t, "500", ledger[0].Deposit)
	assertDec(t, "500", ledger[0].CashIn)
	assertDec(t, "500", ledger[0].RunningBalance)
	assertDec(t, "500", cashbook[0].CashIn)
	assertDec(t, "500", cashbook[0].Closing)
	assertDec(t, "0", cashbook[0].Opening)
	assertDec(t, "500", stats.CashBalance)
}

func TestBuildLedger_InstrumentDefaults(t *testing.T) {
	w := reconcile.Window{
		Deposits: []domain.DepositEntry{
			{Date: day("2024-01-01"), TotalAmount: dec("100"), PaymentMode: "UPI/GPay"},
			{Date: day("2024-01-01"), TotalAmount: dec("40"), PaymentMode: "cheque"},
			{Date: day("2024-01-01"), TotalAmount: dec("60"), PaymentMode: "Bank Transfer"},
		},
		Expenses: []domain.ExpenseEntry{
			{Date: day("2024-01-01"), Amount: dec("15"), PaymentMode: ""},
		},
		Loans: []domain.LoanRecord{
			{CreatedAt: day("2024-01-01"), Amount: dec("70"), PaymentMode: "neft"},
			{CreatedAt: day("2024-01-01"), Amount: dec("5"), PaymentMode: "Cash"},
		},
	}

	ledger, _, stats := reconcile.BuildLedger(w)
	require.Len(t, ledger, 1)
	d := ledger[0]
	assertDec(t, "40", d.CashIn, "unknown income mode goes to cash")
	assertDec(t, "60", d.BankIn)
	assertDec(t, "100", d.UPIIn)
	assertDec(t, "20", d.CashOut, "blank expense mode goes to cash, plus the cash loan")
	assertDec(t, "70", d.BankOut, "unknown loan mode goes to bank")
	assertDec(t, "75", d.LoanOut)
	assertDec(t, "15", d.Expense)
	assertDec(t, "110", d.RunningBalance)

	assertDec(t, "20", stats.CashBalance)
	assertDec(t, "-10", stats.BankBalance)
	assertDec(t, "100", stats.UPIBalance)
}

func TestBuildLedger_RunningBalanceCarriesAcrossDaysNewestFirst(t *testing.T) {
	w := reconcile.Window{
		Deposits: []domain.DepositEntry{
			{Date: day("2024-01-03"), DepositAmount: dec("300"), TotalAmount: dec("300"), PaymentMode: "cash"},
			{Date: day("2024-01-01"), DepositAmount: dec("1000"), InterestAmount: dec("20"), FineAmount: dec("5"), InstallmentAmount: dec("200"), TotalAmount: dec("1225"), PaymentMode: "bank"},
		},
		Expenses: []domain.ExpenseEntry{
			{Date: day("2024-01-02"), Amount: dec("25"), PaymentMode: "cash"},
		},
		Loans: []domain.LoanRecord{
			{StartDate: day("2024-01-02"), Amount: dec("800")},
		},
	}

	ledger, cashbook, _ := reconcile.BuildLedger(w)
	require.Len(t, ledger, 3)

	assert.Equal(t, []string{"2024-01-03", "2024-01-02", "2024-01-01"}, []string{ledger[0].Date, ledger[1].Date, ledger[2].Date})
	assertDec(t, "1225", ledger[2].RunningBalance)
	assertDec(t, "200", ledger[2].EMI)
	assertDec(t, "20", ledger[2].Interest)
	assertDec(t, "5", ledger[2].Fine)
	assertDec(t, "400", ledger[1].RunningBalance)
	assertDec(t, "800", ledger[1].LoanOut)
	assertDec(t, "700", ledger[0].RunningBalance)

	for i := range ledger {
		assert.Equal(t, ledger[i].Date, cashbook[i].Date)
		assert.True(t, ledger[i].RunningBalance.Equal(cashbook[i].Closing))
	}
	assertDec(t, "1225", cashbook[1].Opening)
}

func TestBuildLedger_Empty(t *testing.T) {
	ledger, cashbook, stats := reconcile.BuildLedger(reconcile.Window{})
	assert.Empty(t, ledger)
	assert.NotNil(t, ledger)
	assert.Empty(t, cashbook)
	assertDec(t, "0", stats.CashBalance)
}
