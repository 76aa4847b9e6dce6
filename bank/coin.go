// Package bank simulates a coin-counting piggy bank and the companion
// application that talks to it.
//
// Everything in the package runs on a single sim.Engine. Commands are called
// between events and callbacks run as events, so no two of them ever overlap.
package bank

import (
	"log"

	"github.com/shopspring/decimal"
)

// NumDenominations is the number of coin kinds the bank can sense.
const NumDenominations = 5

// A Coin is one denomination the bank accepts.
type Coin struct {
	Index int
	Label string
	Value decimal.Decimal
}

var catalog = [NumDenominations]Coin{
	{Index: 0, Label: "50 kopecks", Value: decimal.New(50, -2)},
	{Index: 1, Label: "1 ruble", Value: decimal.NewFromInt(1)},
	{Index: 2, Label: "2 rubles", Value: decimal.NewFromInt(2)},
	{Index: 3, Label: "5 rubles", Value: decimal.NewFromInt(5)},
	{Index: 4, Label: "10 rubles", Value: decimal.NewFromInt(10)},
}

// Catalog returns all the denominations, smallest first.
func Catalog() [NumDenominations]Coin {
	return catalog
}

// CoinAt returns the denomination at the given index.
func CoinAt(index int) Coin {
	if index < 0 || index >= NumDenominations {
		log.Panicf("invalid coin index %d", index)
	}

	return catalog[index]
}
