package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeSummary splits the window's income. Other is Total minus interest and fine.
type IncomeSummary struct {
	Interest decimal.Decimal `json:"interest"`
	Fine     decimal.Decimal `json:"fine"`
	Other    decimal.Decimal `json:"other"`
	Deposits decimal.Decimal `json:"deposits"`
	Total    decimal.Decimal `json:"total"`
}

// ExpenseSummary holds the window's outflows. Ops only counts EXPENSE-tagged entries.
type ExpenseSummary struct {
	Ops   decimal.Decimal `json:"ops"`
	Total decimal.Decimal `json:"total"`
}

// LoanSummary mixes windowed issuance figures with balance state from the full history.
type LoanSummary struct {
	IssuedCount  int             `json:"issued_count"`
	IssuedAmount decimal.Decimal `json:"issued_amount"`
	Recovered    decimal.Decimal `json:"recovered"`
	Pending      decimal.Decimal `json:"pending"`
	ActiveCount  int             `json:"active_count"`
	ClosedCount  int             `json:"closed_count"`
}

// AssetSummary is the window's net position per instrument plus outstanding loans.
type AssetSummary struct {
	Cash           decimal.Decimal `json:"cash"`
	Bank           decimal.Decimal `json:"bank"`
	UPI            decimal.Decimal `json:"upi"`
	LoanReceivable decimal.Decimal `json:"loan_receivable"`
	Total          decimal.Decimal `json:"total"`
}

type Summary struct {
	Income    IncomeSummary   `json:"income"`
	Expense   ExpenseSummary  `json:"expense"`
	Loans     LoanSummary     `json:"loans"`
	Assets    AssetSummary    `json:"assets"`
	NetProfit decimal.Decimal `json:"net_profit"`
}

// InstrumentFlows is the in/out split across the three payment instruments.
type InstrumentFlows struct {
	CashIn  decimal.Decimal `json:"cash_in"`
	CashOut decimal.Decimal `json:"cash_out"`
	BankIn  decimal.Decimal `json:"bank_in"`
	BankOut decimal.Decimal `json:"bank_out"`
	UPIIn   decimal.Decimal `json:"upi_in"`
	UPIOut  decimal.Decimal `json:"upi_out"`
}

// DailyLedgerEntry aggregates one calendar day. RunningBalance is the balance after the
// day's transactions, carried forward from the previous days of the window.
type DailyLedgerEntry struct {
	Date     string          `json:"date"`
	Deposit  decimal.Decimal `json:"deposit"`
	EMI      decimal.Decimal `json:"emi"`
	LoanOut  decimal.Decimal `json:"loan_out"`
	Interest decimal.Decimal `json:"interest"`
	Fine     decimal.Decimal `json:"fine"`
	Expense  decimal.Decimal `json:"expense"`
	TotalIn  decimal.Decimal `json:"total_in"`
	TotalOut decimal.Decimal `json:"total_out"`
	InstrumentFlows
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// CashbookEntry is the instrument-wise view of one day. Closing equals the ledger's
// running balance for the same day.
type CashbookEntry struct {
	Date    string          `json:"date"`
	Opening decimal.Decimal `json:"opening"`
	InstrumentFlows
	Closing decimal.Decimal `json:"closing"`
}

// ModeStats is the window's net flow per instrument.
type ModeStats struct {
	CashBalance decimal.Decimal `json:"cash_balance"`
	BankBalance decimal.Decimal `json:"bank_balance"`
	UPIBalance  decimal.Decimal `json:"upi_balance"`
}

// LoanBalance is a loan with its balance rederived from installment history.
type LoanBalance struct {
	LoanRecord
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           LoanStatus      `json:"status"`
}

type MemberReport struct {
	MemberID          string          `json:"member_id"`
	Name              string          `json:"name"`
	Phone             string          `json:"phone,omitempty"`
	TotalDeposits     decimal.Decimal `json:"total_deposits"`
	LoanTaken         decimal.Decimal `json:"loan_taken"`
	PrincipalPaid     decimal.Decimal `json:"principal_paid"`
	InterestPaid      decimal.Decimal `json:"interest_paid"`
	FinePaid          decimal.Decimal `json:"fine_paid"`
	ActiveLoanBalance decimal.Decimal `json:"active_loan_balance"`
	NetWorth          decimal.Decimal `json:"net_worth"`
	LoanCount         int             `json:"loan_count"`
	ActiveLoanCount   int             `json:"active_loan_count"`
	LastPaymentDate   string          `json:"last_payment_date,omitempty"`
}

type MaturityProjection struct {
	MemberID          string           `json:"member_id"`
	Name              string           `json:"name"`
	Tenure            int              `json:"tenure"`
	MonthlyDeposit    decimal.Decimal  `json:"monthly_deposit"`
	TargetDeposit     decimal.Decimal  `json:"target_deposit"`
	DepositedToDate   decimal.Decimal  `json:"deposited_to_date"`
	ProjectedInterest decimal.Decimal  `json:"projected_interest"`
	Settlement        SettlementSource `json:"settlement"`
	SettledInterest   decimal.Decimal  `json:"settled_interest"`
	MaturityAmount    decimal.Decimal  `json:"maturity_amount"`
	OutstandingLoan   decimal.Decimal  `json:"outstanding_loan"`
	NetPayable        decimal.Decimal  `json:"net_payable"`
	StartDate         string           `json:"start_date,omitempty"`
	MaturityDate      string           `json:"maturity_date,omitempty"`
	DaysRemaining     int              `json:"days_remaining"`
}

type Severity string

const (
	SeverityOverdue  Severity = "Overdue"
	SeverityCritical Severity = "Critical"
)

type DefaulterEntry struct {
	LoanID           string          `json:"loan_id"`
	MemberID         string          `json:"member_id"`
	MemberName       string          `json:"member_name,omitempty"`
	LoanAmount       decimal.Decimal `json:"loan_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	IssuedOn         string          `json:"issued_on"`
	DaysOverdue      int             `json:"days_overdue"`
	Severity         Severity        `json:"severity"`
}

// ReportBundle is the full output of one computation pass.
type ReportBundle struct {
	ID            string               `json:"id"`
	TenantID      string               `json:"tenant_id"`
	WindowStart   string               `json:"window_start,omitempty"`
	WindowEnd     string               `json:"window_end,omitempty"`
	AsOf          string               `json:"as_of"`
	Summary       Summary              `json:"summary"`
	DailyLedger   []DailyLedgerEntry   `json:"daily_ledger"`
	Cashbook      []CashbookEntry      `json:"cashbook"`
	ModeStats     ModeStats            `json:"mode_stats"`
	Loans         []LoanBalance        `json:"loans"`
	MemberReports []MemberReport       `json:"member_reports"`
	Maturity      []MaturityProjection `json:"maturity"`
	Defaulters    []DefaulterEntry     `json:"defaulters"`
}

// FormatDate renders t as a calendar date, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return DayKey(t)
}
