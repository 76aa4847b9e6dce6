package bank

import (
	"log"

	"github.com/shopspring/decimal"
)

// Ledger counts the coins in the bank. The totals are always computed from
// the per-denomination counts.
type Ledger struct {
	counts [NumDenominations]uint64
}

// LedgerSnapshot is a copy of the ledger at one moment.
type LedgerSnapshot struct {
	Counts      [NumDenominations]uint64
	TotalCoins  uint64
	TotalAmount decimal.Decimal
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// RecordInsertion counts one more coin of the given denomination.
func (l *Ledger) RecordInsertion(index int) {
	if index < 0 || index >= NumDenominations {
		log.Panicf("invalid coin index %d", index)
	}

	l.counts[index]++
}

// Reset forgets all the coins.
func (l *Ledger) Reset() {
	l.counts = [NumDenominations]uint64{}
}

// Count returns the number of coins of a denomination.
func (l *Ledger) Count(index int) uint64 {
	return l.counts[index]
}

// TotalCoins returns the number of coins of all denominations.
func (l *Ledger) TotalCoins() uint64 {
	var total uint64
	for _, c := range l.counts {
		total += c
	}

	return total
}

// TotalAmount returns the value of all the coins.
func (l *Ledger) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i, c := range l.counts {
		value := catalog[i].Value.Mul(decimal.NewFromInt(int64(c)))
		total = total.Add(value)
	}

	return total
}

// Snapshot returns a copy of the current counts and totals.
func (l *Ledger) Snapshot() LedgerSnapshot {
	return LedgerSnapshot{
		Counts:      l.counts,
		TotalCoins:  l.TotalCoins(),
		TotalAmount: l.TotalAmount(),
	}
}
