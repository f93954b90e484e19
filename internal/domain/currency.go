package domain

import "fmt"

type Currency string

const (
	CLP Currency = "CLP"
	CLF Currency = "CLF"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// CounterCurrency is the single currency all persisted values are quoted
// against. Pairs with any other counter are derived arithmetically.
const CounterCurrency = CLP

// AdvancePublished is the only currency whose values are published ahead of
// time (CLF values for the coming month are announced on day 9).
const AdvancePublished = CLF

var KnownCurrencies = map[Currency]bool{
	CLP: true,
	CLF: true,
	USD: true,
	EUR: true,
}

func IsKnownCurrency(c Currency) bool { return KnownCurrencies[c] }

// CurrencyPair is the dyadic quotation of a base currency against the
// counter currency. It carries no persisted identity and is recreated per
// query.
type CurrencyPair struct {
	Base    Currency
	Counter Currency
}

func NewCurrencyPair(base, counter Currency) (CurrencyPair, error) {
	if !IsKnownCurrency(base) {
		return CurrencyPair{}, fmt.Errorf("%w: base %q", ErrInvalidCurrency, base)
	}
	if !IsKnownCurrency(counter) {
		return CurrencyPair{}, fmt.Errorf("%w: counter %q", ErrInvalidCurrency, counter)
	}
	if counter != CounterCurrency {
		return CurrencyPair{}, fmt.Errorf("%w: %q", ErrUnsupportedCounterCurrency, counter)
	}
	return CurrencyPair{Base: base, Counter: counter}, nil
}

func (p CurrencyPair) String() string {
	return string(p.Base) + "/" + string(p.Counter)
}
