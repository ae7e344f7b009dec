package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositEntry is one passbook line for a member. Any of the component amounts may be
// zero, and TotalAmount is recorded independently of the components.
type DepositEntry struct {
	ID                string          `json:"id"`
	MemberID          string          `json:"member_id"`
	Date              time.Time       `json:"date"` // zero when the source date was missing or unparseable
	DepositAmount     decimal.Decimal `json:"deposit_amount"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	InterestAmount    decimal.Decimal `json:"interest_amount"`
	FineAmount        decimal.Decimal `json:"fine_amount"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	PaymentMode       string          `json:"payment_mode"`
}

// ExpenseType tags an expense entry. Only ExpenseTypeOperational counts as an ops expense.
type ExpenseType string

const ExpenseTypeOperational ExpenseType = "EXPENSE"

// ExpenseEntry is one operational outflow.
type ExpenseEntry struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Type        ExpenseType     `json:"type"`
	PaymentMode string          `json:"payment_mode"`
	Description string          `json:"description,omitempty"`
}

// LoanStatus is either the advisory status found in storage or the recomputed one.
type LoanStatus string

const (
	LoanStatusActive LoanStatus = "active"
	LoanStatusClosed LoanStatus = "closed"
)

// LoanRecord is one loan disbursement as stored. StoredStatus is advisory only.
type LoanRecord struct {
	ID           string          `json:"id"`
	MemberID     string          `json:"member_id"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    time.Time       `json:"created_at"`
	StartDate    time.Time       `json:"start_date"`
	StoredStatus LoanStatus      `json:"stored_status,omitempty"`
	PaymentMode  string          `json:"payment_mode"`
}

// IssuedAt is the effective disbursement date: CreatedAt, falling back to StartDate.
func (l LoanRecord) IssuedAt() time.Time {
	if !l.CreatedAt.IsZero() {
		return l.CreatedAt
	}
	return l.StartDate
}

// MaturityOverride carries the member's manual interest settlement, if any.
type MaturityOverride struct {
	IsOverride   bool            `json:"is_override"`
	ManualAmount decimal.Decimal `json:"manual_amount"`
}

// MemberRecord is a tenant member.
type MemberRecord struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Phone    string           `json:"phone,omitempty"`
	JoinDate time.Time        `json:"join_date"`
	Maturity MaturityOverride `json:"maturity"`
}

// Snapshot is a consistent read of one tenant's raw records.
type Snapshot struct {
	TenantID string
	Deposits []DepositEntry
	Expenses []ExpenseEntry
	Loans    []LoanRecord
	Members  []MemberRecord
}
