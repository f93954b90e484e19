package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"magnetdata-service/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var one = decimal.NewFromInt(1)

// CurrencyService resolves currency pair values with cache → store → fetch
// escalation. All persisted values are quoted against the fixed counter
// currency; inverse and cross pairs are derived from those legs.
type CurrencyService struct {
	values CurrencyValueRepo
	rates  RateFetcher
	cache  Cache
	clock  Clock
	log    *zap.Logger
}

type CurrencyOption func(*CurrencyService)

func WithCurrencyClock(c Clock) CurrencyOption {
	return func(s *CurrencyService) { s.clock = c }
}

func WithCurrencyLogger(l *zap.Logger) CurrencyOption {
	return func(s *CurrencyService) { s.log = l }
}

func NewCurrencyService(values CurrencyValueRepo, rates RateFetcher, cache Cache, opts ...CurrencyOption) *CurrencyService {
	s := &CurrencyService{values: values, rates: rates, cache: cache}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = NewMarketClock(time.UTC)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Today exposes the service clock's current date.
func (s *CurrencyService) Today() time.Time { return s.clock.Today() }

// Converter answers value questions for one base/counter combination. It is
// a throwaway value object; build one per query via Pair.
type Converter struct {
	base    domain.Currency
	counter domain.Currency
	svc     *CurrencyService
}

// Pair validates both codes and returns a converter. Direct pairs are built
// through domain.NewCurrencyPair; other known counters are accepted here and
// resolve through the CLP hub.
func (s *CurrencyService) Pair(base, counter domain.Currency) (*Converter, error) {
	if counter == domain.CounterCurrency {
		p, err := domain.NewCurrencyPair(base, counter)
		if err != nil {
			return nil, err
		}
		return &Converter{base: p.Base, counter: p.Counter, svc: s}, nil
	}
	if !domain.IsKnownCurrency(base) {
		return nil, fmt.Errorf("%w: base %q", domain.ErrInvalidCurrency, base)
	}
	if !domain.IsKnownCurrency(counter) {
		return nil, fmt.Errorf("%w: counter %q", domain.ErrInvalidCurrency, counter)
	}
	return &Converter{base: base, counter: counter, svc: s}, nil
}

func (c *Converter) String() string {
	return string(c.base) + "/" + string(c.counter)
}

// LastKnowableDate is the latest date a value can legitimately be resolved
// for. Values are only quoted through today, except the advance-published
// currency: once today's day-of-month reaches 10, its values are known
// through the 9th of the following month (wrapping the year in December).
func (c *Converter) LastKnowableDate() time.Time {
	today := c.svc.clock.Today()
	horizon := time.Time{}
	for _, cur := range []domain.Currency{c.base, c.counter} {
		if cur == domain.CounterCurrency {
			continue // identity leg, no constraint
		}
		h := currencyHorizon(cur, today)
		if horizon.IsZero() || h.Before(horizon) {
			horizon = h
		}
	}
	if horizon.IsZero() {
		return today
	}
	return horizon
}

func currencyHorizon(cur domain.Currency, today time.Time) time.Time {
	if cur != domain.AdvancePublished {
		return today
	}
	if today.Day() < 10 {
		return time.Date(today.Year(), today.Month(), 9, 0, 0, 0, 0, time.UTC)
	}
	if today.Month() < time.December {
		return time.Date(today.Year(), today.Month()+1, 9, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(today.Year()+1, time.January, 9, 0, 0, 0, 0, time.UTC)
}

func (c *Converter) IsConversionPossible(date time.Time) bool {
	return !midnight(date).After(c.LastKnowableDate())
}

// ValueOn resolves the pair's value for a date.
func (c *Converter) ValueOn(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	date = midnight(date)
	if c.base == c.counter {
		return one, nil
	}
	if !c.IsConversionPossible(date) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s on %s", domain.ErrValueNotFound, c, dateKey(date))
	}

	switch {
	case c.counter == domain.CounterCurrency:
		return c.svc.resolveLeg(ctx, c.base, date)
	case c.base == domain.CounterCurrency:
		v, err := c.svc.resolveLeg(ctx, c.counter, date)
		if err != nil {
			return decimal.Decimal{}, err
		}
		if v.IsZero() {
			return decimal.Decimal{}, fmt.Errorf("zero value persisted for %s/%s on %s", c.counter, domain.CounterCurrency, dateKey(date))
		}
		return one.Div(v), nil
	default:
		b, err := c.svc.resolveLeg(ctx, c.base, date)
		if err != nil {
			return decimal.Decimal{}, err
		}
		q, err := c.svc.resolveLeg(ctx, c.counter, date)
		if err != nil {
			return decimal.Decimal{}, err
		}
		if q.IsZero() {
			return decimal.Decimal{}, fmt.Errorf("zero value persisted for %s/%s on %s", c.counter, domain.CounterCurrency, dateKey(date))
		}
		return b.Div(q), nil
	}
}

// Now resolves today's value.
func (c *Converter) Now(ctx context.Context) (decimal.Decimal, error) {
	return c.ValueOn(ctx, c.svc.clock.Today())
}

// Latest resolves the value at the last knowable date.
func (c *Converter) Latest(ctx context.Context) (decimal.Decimal, error) {
	return c.ValueOn(ctx, c.LastKnowableDate())
}

func valueCacheKey(base domain.Currency, date time.Time) string {
	return fmt.Sprintf("currencies:%s/%s:%s", base, domain.CounterCurrency, dateKey(date))
}

// resolveLeg resolves base quoted in the counter currency: cache, then
// store, then one month-wide fetch followed by a single store retry.
// Concurrent callers may fetch the same month twice; the batch upsert is
// idempotent so the race only costs a redundant network call.
func (s *CurrencyService) resolveLeg(ctx context.Context, base domain.Currency, date time.Time) (decimal.Decimal, error) {
	if base == domain.CounterCurrency {
		return one, nil
	}

	key := valueCacheKey(base, date)
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.log.Warn("cache_get_failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		if v, perr := decimal.NewFromString(raw); perr == nil {
			return v, nil
		}
		s.log.Warn("cache_entry_corrupt", zap.String("key", key), zap.String("raw", raw))
	}

	cv, err := s.values.Find(ctx, base, domain.CounterCurrency, date)
	if errors.Is(err, ErrNotFound) {
		batch, ferr := s.rates.FetchMonth(ctx, date.Year(), date.Month(), base, domain.CounterCurrency)
		if ferr != nil {
			return decimal.Decimal{}, fmt.Errorf("fetch %s/%s %d-%02d: %w", base, domain.CounterCurrency, date.Year(), date.Month(), ferr)
		}
		if uerr := s.values.UpsertBatch(ctx, batch); uerr != nil {
			return decimal.Decimal{}, fmt.Errorf("persist %s/%s values: %w", base, domain.CounterCurrency, uerr)
		}
		cv, err = s.values.Find(ctx, base, domain.CounterCurrency, date)
		if errors.Is(err, ErrNotFound) {
			// Knowable date with no quoted value, e.g. a market holiday.
			return decimal.Decimal{}, fmt.Errorf("%w: %s/%s on %s", domain.ErrValueNotFound, base, domain.CounterCurrency, dateKey(date))
		}
	}
	if err != nil {
		return decimal.Decimal{}, err
	}

	if err := s.cache.Set(ctx, key, cv.Value.String()); err != nil {
		s.log.Warn("cache_set_failed", zap.String("key", key), zap.Error(err))
	}
	return cv.Value, nil
}
