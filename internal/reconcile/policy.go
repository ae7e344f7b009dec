package reconcile

import (
	"time"

	"github.com/shopspring/decimal"
)

// Allocation decides how a member's pooled installment payments reduce their loans.
type Allocation string

const (
	// AllocationPooled reduces every loan of the member by the member's full installment
	// total. A member with several open loans can therefore show a lower combined balance
	// than disbursed minus paid.
	AllocationPooled Allocation = "pooled"
	// AllocationOldestFirst spends the pool on the member's loans in issue order.
	AllocationOldestFirst Allocation = "oldest_first"
)

// Policy holds every tunable number the engine uses, plus the reference day.
type Policy struct {
	Today             time.Time
	MaturityTenure    int
	MaturityRate      decimal.Decimal
	OverdueAfterDays  int
	CriticalAfterDays int
	Allocation        Allocation
}

const (
	DefaultMaturityTenure    = 36
	DefaultOverdueAfterDays  = 30
	DefaultCriticalAfterDays = 90
)

var DefaultMaturityRate = decimal.RequireFromString("0.12")

func DefaultPolicy(today time.Time) Policy {
	return Policy{
		Today:             today,
		MaturityTenure:    DefaultMaturityTenure,
		MaturityRate:      DefaultMaturityRate,
		OverdueAfterDays:  DefaultOverdueAfterDays,
		CriticalAfterDays: DefaultCriticalAfterDays,
		Allocation:        AllocationPooled,
	}
}
