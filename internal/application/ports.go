package application

import (
	"context"
	"time"

	"magnetdata-service/internal/domain"
)

type CurrencyValueRepo interface {
	// Find returns the value persisted for an exact (base, counter, date)
	// key, or ErrNotFound.
	Find(ctx context.Context, base, counter domain.Currency, date time.Time) (domain.CurrencyValue, error)
	// UpsertBatch persists a batch of values. Re-inserting an existing key
	// must be a no-op; concurrent callers may write the same month twice.
	UpsertBatch(ctx context.Context, values []domain.CurrencyValue) error
}

type HolidayRepo interface {
	FindByCountry(ctx context.Context, country string) ([]domain.Holiday, error)
	FindRange(ctx context.Context, country string, from, to time.Time) ([]domain.Holiday, error)
	Upsert(ctx context.Context, h domain.Holiday) error
	DeleteByDate(ctx context.Context, country string, date time.Time) error
}

// RateFetcher pulls values from the authoritative source. One call returns
// the whole (year, month) window for the pair, not a single day.
type RateFetcher interface {
	FetchMonth(ctx context.Context, year int, month time.Month, base, counter domain.Currency) ([]domain.CurrencyValue, error)
}

type HolidayFetcher interface {
	FetchYear(ctx context.Context, country string, year int) ([]domain.Holiday, error)
}

// Cache is the process-wide read-through cache. Entries have no TTL; they
// are only dropped by Reset. A miss is not an error.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Reset(ctx context.Context) error
}
