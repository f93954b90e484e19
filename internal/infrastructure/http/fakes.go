package httpserver

import (
	"context"
	"time"

	"magnetdata-service/internal/application"
	"magnetdata-service/internal/domain"
)

// Hand-rolled in-memory collaborators for handler tests and local hacking.

var _ application.CurrencyValueRepo = (*fakeValueRepo)(nil)
var _ application.HolidayRepo = (*fakeHolidayRepo)(nil)
var _ application.RateFetcher = (*fakeRateFetcher)(nil)
var _ application.HolidayFetcher = (*fakeHolidayFetcher)(nil)
var _ application.Cache = (*fakeCache)(nil)

type fixedClock struct{ t time.Time }

func (f fixedClock) Today() time.Time { return f.t }

type fakeValueRepo struct {
	store map[string]domain.CurrencyValue
}

func vkey(base, counter domain.Currency, d time.Time) string {
	return string(base) + "/" + string(counter) + ":" + d.Format("2006-01-02")
}

func (f *fakeValueRepo) Find(_ context.Context, base, counter domain.Currency, d time.Time) (domain.CurrencyValue, error) {
	v, ok := f.store[vkey(base, counter, d)]
	if !ok {
		return domain.CurrencyValue{}, application.ErrNotFound
	}
	return v, nil
}

func (f *fakeValueRepo) UpsertBatch(_ context.Context, values []domain.CurrencyValue) error {
	if f.store == nil {
		f.store = map[string]domain.CurrencyValue{}
	}
	for _, v := range values {
		k := vkey(v.Base, v.Counter, v.Date)
		if _, ok := f.store[k]; !ok {
			f.store[k] = v
		}
	}
	return nil
}

type fakeHolidayRepo struct {
	records map[string]domain.Holiday
}

func hkey(country string, d time.Time) string { return country + ":" + d.Format("2006-01-02") }

func (f *fakeHolidayRepo) FindByCountry(_ context.Context, country string) ([]domain.Holiday, error) {
	var out []domain.Holiday
	for _, h := range f.records {
		if h.CountryCode == country {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHolidayRepo) FindRange(_ context.Context, country string, from, to time.Time) ([]domain.Holiday, error) {
	var out []domain.Holiday
	for _, h := range f.records {
		if h.CountryCode == country && !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHolidayRepo) Upsert(_ context.Context, h domain.Holiday) error {
	if f.records == nil {
		f.records = map[string]domain.Holiday{}
	}
	f.records[hkey(h.CountryCode, h.Date)] = h
	return nil
}

func (f *fakeHolidayRepo) DeleteByDate(_ context.Context, country string, d time.Time) error {
	delete(f.records, hkey(country, d))
	return nil
}

type fakeRateFetcher struct {
	values []domain.CurrencyValue
}

func (f *fakeRateFetcher) FetchMonth(_ context.Context, _ int, _ time.Month, _, _ domain.Currency) ([]domain.CurrencyValue, error) {
	return f.values, nil
}

type fakeHolidayFetcher struct {
	holidays []domain.Holiday
}

func (f *fakeHolidayFetcher) FetchYear(_ context.Context, _ string, _ int) ([]domain.Holiday, error) {
	return f.holidays, nil
}

type fakeCache struct {
	entries map[string]string
}

func (f *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := f.entries[key]
	return v, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string) error {
	if f.entries == nil {
		f.entries = map[string]string{}
	}
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Reset(_ context.Context) error {
	f.entries = map[string]string{}
	return nil
}
