package reconcile

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"coop-reconciliation/internal/domain"
)

type txKind int

const (
	txIn txKind = iota
	txExpense
	txLoan
)

// txn is one entry of the merged stream. Only the field matching kind is set.
type txn struct {
	kind    txKind
	at      time.Time
	deposit domain.DepositEntry
	expense domain.ExpenseEntry
	loan    domain.LoanRecord
}

// dayBook is a date-keyed accumulator that iterates in calendar order.
type dayBook struct {
	days map[string]*domain.DailyLedgerEntry
}

func newDayBook() *dayBook {
	return &dayBook{days: make(map[string]*domain.DailyLedgerEntry)}
}

func (b *dayBook) day(at time.Time) *domain.DailyLedgerEntry {
	key := domain.DayKey(at)
	e, ok := b.days[key]
	if !ok {
		e = &domain.DailyLedgerEntry{Date: key}
		b.days[key] = e
	}
	return e
}

// ascending returns the accumulated days oldest first.
func (b *dayBook) ascending() []*domain.DailyLedgerEntry {
	keys := make([]string, 0, len(b.days))
	for k := range b.days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*domain.DailyLedgerEntry, len(keys))
	for i, k := range keys {
		out[i] = b.days[k]
	}
	return out
}

// mergeStreams tags and merges the windowed streams into one ascending sequence. Entries
// on the same instant keep deposit, expense, loan order.
func mergeStreams(w Window) []txn {
	txns := make([]txn, 0, len(w.Deposits)+len(w.Expenses)+len(w.Loans))
	for _, d := range w.Deposits {
		txns = append(txns, txn{kind: txIn, at: d.Date, deposit: d})
	}
	for _, e := range w.Expenses {
		txns = append(txns, txn{kind: txExpense, at: e.Date, expense: e})
	}
	for _, l := range w.Loans {
		txns = append(txns, txn{kind: txLoan, at: l.IssuedAt(), loan: l})
	}
	sort.SliceStable(txns, func(i, j int) bool { return txns[i].at.Before(txns[j].at) })
	return txns
}

// BuildLedger merges the windowed streams into the daily ledger and the cashbook, both
// newest first, and returns the window's net flow per instrument.
func BuildLedger(w Window) ([]domain.DailyLedgerEntry, []domain.CashbookEntry, domain.ModeStats) {
	book := newDayBook()

	for _, t := range mergeStreams(w) {
		day := book.day(t.at)
		switch t.kind {
		case txIn:
			d := t.deposit
			day.Deposit = day.Deposit.Add(d.DepositAmount)
			day.EMI = day.EMI.Add(d.InstallmentAmount)
			day.Interest = day.Interest.Add(d.InterestAmount)
			day.Fine = day.Fine.Add(d.FineAmount)
			day.TotalIn = day.TotalIn.Add(d.TotalAmount)
			addIn(&day.InstrumentFlows, domain.ClassifyInstrument(d.PaymentMode, domain.InstrumentCash), d.TotalAmount)
		case txExpense:
			e := t.expense
			day.Expense = day.Expense.Add(e.Amount)
			day.TotalOut = day.TotalOut.Add(e.Amount)
			addOut(&day.InstrumentFlows, domain.ClassifyInstrument(e.PaymentMode, domain.InstrumentCash), e.Amount)
		case txLoan:
			l := t.loan
			day.LoanOut = day.LoanOut.Add(l.Amount)
			day.TotalOut = day.TotalOut.Add(l.Amount)
			// disbursements are rarely literal cash, so an unlabelled loan goes to bank
			addOut(&day.InstrumentFlows, domain.ClassifyInstrument(l.PaymentMode, domain.InstrumentBank), l.Amount)
		}
	}

	days := book.ascending()
	ledger := make([]domain.DailyLedgerEntry, len(days))
	cashbook := make([]domain.CashbookEntry, len(days))
	var stats domain.ModeStats
	balance := decimal.Zero

	for i, day := range days {
		opening := balance
		balance = balance.Add(day.TotalIn).Sub(day.TotalOut)
		day.RunningBalance = balance

		stats.CashBalance = stats.CashBalance.Add(day.CashIn).Sub(day.CashOut)
		stats.BankBalance = stats.BankBalance.Add(day.BankIn).Sub(day.BankOut)
		stats.UPIBalance = stats.UPIBalance.Add(day.UPIIn).Sub(day.UPIOut)

		// newest first for consumers
		j := len(days) - 1 - i
		ledger[j] = *day
		cashbook[j] = domain.CashbookEntry{
			Date:            day.Date,
			Opening:         opening,
			InstrumentFlows: day.InstrumentFlows,
			Closing:         balance,
		}
	}
	return ledger, cashbook, stats
}

func addIn(f *domain.InstrumentFlows, inst domain.Instrument, amt decimal.Decimal) {
	switch inst {
	case domain.InstrumentBank:
		f.BankIn = f.BankIn.Add(amt)
	case domain.InstrumentUPI:
		f.UPIIn = f.UPIIn.Add(amt)
	default:
		f.CashIn = f.CashIn.Add(amt)
	}
}

func addOut(f *domain.InstrumentFlows, inst domain.Instrument, amt decimal.Decimal) {
	switch inst {
	case domain.InstrumentBank:
		f.BankOut = f.BankOut.Add(amt)
	case domain.InstrumentUPI:
		f.UPIOut = f.UPIOut.Add(amt)
	default:
		f.CashOut = f.CashOut.Add(amt)
	}
}
