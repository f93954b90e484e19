package pg

import (
	"context"
	"errors"
	"time"

	"magnetdata-service/internal/application"
	"magnetdata-service/internal/domain"

	"github.com/jackc/pgx/v5"
)

type CurrencyValueRepo struct{ db *DB }

func NewCurrencyValueRepo(db *DB) *CurrencyValueRepo { return &CurrencyValueRepo{db: db} }

var _ application.CurrencyValueRepo = (*CurrencyValueRepo)(nil)

func (r *CurrencyValueRepo) Find(ctx context.Context, base, counter domain.Currency, date time.Time) (domain.CurrencyValue, error) {
	const q = `
        SELECT base_currency, counter_currency, date, value
        FROM currency_values
        WHERE base_currency=$1 AND counter_currency=$2 AND date=$3`
	var out domain.CurrencyValue
	err := r.db.Pool.QueryRow(ctx, q, base, counter, date).
		Scan(&out.Base, &out.Counter, &out.Date, &out.Value)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CurrencyValue{}, application.ErrNotFound
	}
	if err != nil {
		return domain.CurrencyValue{}, err
	}
	return out, nil
}

// UpsertBatch inserts a month of values in one round trip. Existing keys are
// left untouched; persisted values never change.
func (r *CurrencyValueRepo) UpsertBatch(ctx context.Context, values []domain.CurrencyValue) error {
	if len(values) == 0 {
		return nil
	}
	const up = `
        INSERT INTO currency_values(base_currency, counter_currency, date, value)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (base_currency, counter_currency, date) DO NOTHING`
	b := &pgx.Batch{}
	for _, v := range values {
		b.Queue(up, v.Base, v.Counter, v.Date, v.Value)
	}
	br := r.db.Pool.SendBatch(ctx, b)
	defer br.Close()
	for range values {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
