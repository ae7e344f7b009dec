package domain

import "github.com/shopspring/decimal"

type SettlementSource string

const (
	SettlementProjected SettlementSource = "projected"
	SettlementManual    SettlementSource = "manual"
)

// InterestSettlement decides a member's settled maturity interest. It is either
// ProjectedSettlement or ManualSettlement, never both.
type InterestSettlement interface {
	Source() SettlementSource
	Interest(targetDeposit decimal.Decimal) decimal.Decimal
}

// ProjectedSettlement applies a flat rate to the target deposit.
type ProjectedSettlement struct {
	Rate decimal.Decimal
}

func (p ProjectedSettlement) Source() SettlementSource { return SettlementProjected }

func (p ProjectedSettlement) Interest(target decimal.Decimal) decimal.Decimal {
	return target.Mul(p.Rate)
}

// ManualSettlement pins the interest to an amount entered by an administrator.
type ManualSettlement struct {
	Amount decimal.Decimal
}

func (m ManualSettlement) Source() SettlementSource { return SettlementManual }

func (m ManualSettlement) Interest(decimal.Decimal) decimal.Decimal {
	return m.Amount
}

// SettlementFor picks the member's settlement: manual when the override flag is set,
// otherwise the flat-rate projection.
func SettlementFor(o MaturityOverride, rate decimal.Decimal) InterestSettlement {
	if o.IsOverride {
		return ManualSettlement{Amount: o.ManualAmount}
	}
	return ProjectedSettlement{Rate: rate}
}
