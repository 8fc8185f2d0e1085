package domain

import "github.com/shopspring/decimal"

// currencyPlaces lists the decimal places of currencies that deviate from the
// default of 2. The same table must be used in both conversion directions for
// amounts to round-trip exactly.
var currencyPlaces = map[string]int32{
	"BHD": 3,
	"IQD": 3,
	"JOD": 3,
	"KWD": 3,
	"LYD": 3,
	"OMR": 3,
	"TND": 3,
	"CLP": 0,
	"ISK": 0,
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
}

// CurrencyPlaces returns the number of decimal places for a currency code.
func CurrencyPlaces(currency string) int32 {
	if p, ok := currencyPlaces[currency]; ok {
		return p
	}
	return 2
}

// ToMinorUnits converts a decimal amount to the smallest currency unit,
// rounding half away from zero (e.g. 12.34 EUR -> 1234).
func ToMinorUnits(amount decimal.Decimal, currency string) int64 {
	return amount.Shift(CurrencyPlaces(currency)).Round(0).IntPart()
}

// FromMinorUnits converts minor units back to a decimal amount.
func FromMinorUnits(minor int64, currency string) decimal.Decimal {
	return decimal.NewFromInt(minor).Shift(-CurrencyPlaces(currency))
}
