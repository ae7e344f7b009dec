// Package intake maps heterogeneous upstream rows onto the canonical domain records.
// Every fallback between alternative column names lives here, so the reconciliation
// engine only ever sees one shape per record kind.
package intake

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"coop-reconciliation/internal/domain"
)

// RawRecord is one upstream row keyed by column name.
type RawRecord map[string]string

// first returns the first non-blank value among keys. Keys are matched case-insensitively.
func (r RawRecord) first(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		for rk, v := range r {
			if strings.EqualFold(rk, k) && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

var (
	modeKeys = []string{"payment_mode", "mode", "category"}
	dateKeys = []string{"date", "created_at"}
)

// NormalizeDeposit builds a DepositEntry. Missing amounts are zero and an unreadable
// date leaves Date zero.
func NormalizeDeposit(r RawRecord) domain.DepositEntry {
	return domain.DepositEntry{
		ID:                r.first("id"),
		MemberID:          r.first("member_id", "memberId"),
		Date:              ParseDate(r.first(dateKeys...)),
		DepositAmount:     ParseAmount(r.first("deposit_amount", "depositAmount")),
		InstallmentAmount: ParseAmount(r.first("installment_amount", "installmentAmount")),
		InterestAmount:    ParseAmount(r.first("interest_amount", "interestAmount")),
		FineAmount:        ParseAmount(r.first("fine_amount", "fineAmount")),
		TotalAmount:       ParseAmount(r.first("total_amount", "totalAmount")),
		PaymentMode:       r.first(modeKeys...),
	}
}

func NormalizeExpense(r RawRecord) domain.ExpenseEntry {
	return domain.ExpenseEntry{
		ID:          r.first("id"),
		Date:        ParseDate(r.first(dateKeys...)),
		Amount:      ParseAmount(r.first("amount")),
		Type:        domain.ExpenseType(strings.ToUpper(r.first("type"))),
		PaymentMode: r.first(modeKeys...),
		Description: r.first("description", "title"),
	}
}

func NormalizeLoan(r RawRecord) domain.LoanRecord {
	return domain.LoanRecord{
		ID:           r.first("id"),
		MemberID:     r.first("member_id", "memberId"),
		Amount:       ParseAmount(r.first("amount")),
		CreatedAt:    ParseDate(r.first("created_at", "createdAt")),
		StartDate:    ParseDate(r.first("start_date", "startDate")),
		StoredStatus: domain.LoanStatus(strings.ToLower(r.first("status"))),
		PaymentMode:  r.first(modeKeys...),
	}
}

func NormalizeMember(r RawRecord) domain.MemberRecord {
	return domain.MemberRecord{
		ID:       r.first("id"),
		Name:     r.first("name"),
		Phone:    r.first("phone"),
		JoinDate: ParseDate(r.first("join_date", "joinDate", "created_at")),
		Maturity: domain.MaturityOverride{
			IsOverride:   ParseBool(r.first("is_override", "isOverride")),
			ManualAmount: ParseAmount(r.first("manual_amount", "manualAmount")),
		},
	}
}

// ParseAmount coerces s to a decimal. Blank or malformed input yields zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func ParseBool(s string) bool {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "yes") || strings.EqualFold(s, "y") {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateTime,
	"2006-01-02 15:04:05.999999999-07:00",
	time.DateOnly,
	"02/01/2006",
}

// ParseDate tries the known layouts in order and returns the zero time when none match.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
