package go_bsmodel

import (
	"math"

	"github.com/shopspring/decimal"
)

type OptionType int

const (
	Call OptionType = iota
	Put
)

func (t OptionType) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	}
	return "unknown"
}

// ParseOptionType accepts exactly "call" or "put".
func ParseOptionType(s string) (OptionType, error) {
	switch s {
	case "call":
		return Call, nil
	case "put":
		return Put, nil
	}
	return 0, &InvalidOptionTypeError{Value: s}
}

// CalculatePnL returns the profit or loss of an option bought at
// purchasePrice and now worth currentPrice. Decimal arithmetic keeps
// round inputs round (8 - 5 is exactly 3).
func CalculatePnL(optionType string, purchasePrice, currentPrice float64) (decimal.Decimal, error) {
	if _, err := ParseOptionType(optionType); err != nil {
		return decimal.Zero, err
	}
	if !isFinite(purchasePrice) {
		return decimal.Zero, newInvalidParameters("purchase_price", purchasePrice, "must be a finite number")
	}
	if !isFinite(currentPrice) {
		return decimal.Zero, newInvalidParameters("current_price", currentPrice, "must be a finite number")
	}
	return decimal.NewFromFloat(currentPrice).Sub(decimal.NewFromFloat(purchasePrice)), nil
}

// PnL returns the call and put PnL for a priced parameter set.
func (r PriceResult) PnL(callPurchase, putPurchase float64) (call, put decimal.Decimal, err error) {
	if call, err = CalculatePnL(Call.String(), callPurchase, r.CallPrice); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if put, err = CalculatePnL(Put.String(), putPurchase, r.PutPrice); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return call, put, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
