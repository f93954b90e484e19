package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyValue is the persisted conversion rate of Base quoted in Counter
// for one date. Values for past dates never change, so records are written
// once and never updated or deleted.
type CurrencyValue struct {
	Base    Currency
	Counter Currency
	Date    time.Time
	Value   decimal.Decimal
}
