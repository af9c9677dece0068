package models

import "github.com/shopspring/decimal"

func init() {
	// money goes over the wire as plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Round2 rounds a money amount to 2 decimals.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
