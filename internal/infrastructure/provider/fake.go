package provider

import (
	"context"
	"time"

	"magnetdata-service/internal/application"
	"magnetdata-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Fake serves a flat value for every day of the requested month and a fixed
// new-year holiday; useful for dev without network access.
type Fake struct {
	value decimal.Decimal
}

var (
	_ application.RateFetcher    = (*Fake)(nil)
	_ application.HolidayFetcher = (*Fake)(nil)
)

func NewFake(value string) *Fake {
	return &Fake{value: decimal.RequireFromString(value)}
}

func (f *Fake) FetchMonth(_ context.Context, year int, month time.Month, base, counter domain.Currency) ([]domain.CurrencyValue, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	var out []domain.CurrencyValue
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		out = append(out, domain.CurrencyValue{Base: base, Counter: counter, Date: d, Value: f.value})
	}
	return out, nil
}

func (f *Fake) FetchYear(_ context.Context, country string, year int) ([]domain.Holiday, error) {
	return []domain.Holiday{{
		CountryCode: country,
		Date:        time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		Name:        "Año Nuevo",
		ExternalID:  "fake/1",
	}}, nil
}
