package domain

import "strings"

// Instrument is the payment channel a transaction moved through.
type Instrument string

const (
	InstrumentCash Instrument = "cash"
	InstrumentBank Instrument = "bank"
	InstrumentUPI  Instrument = "upi"
)

// ClassifyInstrument matches the mode against cash, bank and upi in that order and
// returns fallback when none of them appear.
func ClassifyInstrument(mode string, fallback Instrument) Instrument {
	m := strings.ToLower(mode)
	switch {
	case strings.Contains(m, "cash"):
		return InstrumentCash
	case strings.Contains(m, "bank"):
		return InstrumentBank
	case strings.Contains(m, "upi"):
		return InstrumentUPI
	}
	return fallback
}
