package service

import (
	"github.com/shopspring/decimal"
)

// RoundMoney rounds a monetary amount to two decimal places, half away
// from zero. All ledger arithmetic funnels through decimals so repeated
// float operations cannot accumulate drift.
func RoundMoney(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// LineTotal computes unitPrice * quantity rounded to two decimals
func LineTotal(unitPrice, quantity float64) float64 {
	total := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromFloat(quantity))
	f, _ := total.Round(2).Float64()
	return f
}

// MarginPercent computes profit/cost as a percentage rounded to two
// decimals. A zero cost basis yields zero rather than a division error.
func MarginPercent(profit, cost float64) float64 {
	if cost == 0 {
		return 0
	}
	margin := decimal.NewFromFloat(profit).
		Div(decimal.NewFromFloat(cost)).
		Mul(decimal.NewFromInt(100))
	f, _ := margin.Round(2).Float64()
	return f
}

// SumMoney adds amounts without float drift and rounds to two decimals
func SumMoney(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Round(2).Float64()
	return f
}
