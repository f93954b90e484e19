package application

import (
	"context"
	"sync"
	"time"

	"magnetdata-service/internal/domain"
)

type fakeClock struct{ t time.Time }

func (f fakeClock) Today() time.Time { return midnight(f.t) }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakeValueRepo struct {
	mu          sync.Mutex
	store       map[string]domain.CurrencyValue
	findCalls   int
	upsertCalls int
	err         error
}

func valueKey(base, counter domain.Currency, d time.Time) string {
	return string(base) + "/" + string(counter) + ":" + dateKey(d)
}

func (f *fakeValueRepo) Find(_ context.Context, base, counter domain.Currency, d time.Time) (domain.CurrencyValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	if f.err != nil {
		return domain.CurrencyValue{}, f.err
	}
	v, ok := f.store[valueKey(base, counter, d)]
	if !ok {
		return domain.CurrencyValue{}, ErrNotFound
	}
	return v, nil
}

func (f *fakeValueRepo) UpsertBatch(_ context.Context, values []domain.CurrencyValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++
	if f.err != nil {
		return f.err
	}
	if f.store == nil {
		f.store = map[string]domain.CurrencyValue{}
	}
	for _, v := range values {
		k := valueKey(v.Base, v.Counter, v.Date)
		if _, ok := f.store[k]; !ok {
			f.store[k] = v
		}
	}
	return nil
}

type fakeRateFetcher struct {
	months map[string][]domain.CurrencyValue
	calls  int
	err    error
}

func monthKey(year int, month time.Month, base domain.Currency) string {
	return date(year, month, 1).Format("2006-01:") + string(base)
}

func (f *fakeRateFetcher) FetchMonth(_ context.Context, year int, month time.Month, base, _ domain.Currency) ([]domain.CurrencyValue, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.months[monthKey(year, month, base)], nil
}

type fakeHolidayRepo struct {
	records map[string]domain.Holiday
	upserts int
	deletes int
	byCtry  int
	err     error
}

func holidayKey(country string, d time.Time) string { return country + ":" + dateKey(d) }

func (f *fakeHolidayRepo) FindByCountry(_ context.Context, country string) ([]domain.Holiday, error) {
	f.byCtry++
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Holiday
	for _, h := range f.records {
		if h.CountryCode == country {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHolidayRepo) FindRange(_ context.Context, country string, from, to time.Time) ([]domain.Holiday, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Holiday
	for _, h := range f.records {
		if h.CountryCode == country && !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHolidayRepo) Upsert(_ context.Context, h domain.Holiday) error {
	f.upserts++
	if f.err != nil {
		return f.err
	}
	if f.records == nil {
		f.records = map[string]domain.Holiday{}
	}
	f.records[holidayKey(h.CountryCode, h.Date)] = h
	return nil
}

func (f *fakeHolidayRepo) DeleteByDate(_ context.Context, country string, d time.Time) error {
	f.deletes++
	if f.err != nil {
		return f.err
	}
	delete(f.records, holidayKey(country, d))
	return nil
}

type fakeHolidayFetcher struct {
	responses [][]domain.Holiday
	calls     int
	err       error
}

func (f *fakeHolidayFetcher) FetchYear(_ context.Context, _ string, _ int) ([]domain.Holiday, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return nil, nil
	}
	r := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return r, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	gets    int
	sets    int
	resets  int
	err     error
}

func (f *fakeCache) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.entries[key]
	return v, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.err != nil {
		return f.err
	}
	if f.entries == nil {
		f.entries = map[string]string{}
	}
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Reset(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	f.entries = map[string]string{}
	return nil
}
