package pg

import (
	"context"
	"time"

	"magnetdata-service/internal/application"
	"magnetdata-service/internal/domain"
)

type HolidayRepo struct{ db *DB }

func NewHolidayRepo(db *DB) *HolidayRepo { return &HolidayRepo{db: db} }

var _ application.HolidayRepo = (*HolidayRepo)(nil)

func (r *HolidayRepo) FindByCountry(ctx context.Context, country string) ([]domain.Holiday, error) {
	const q = `
        SELECT country_code, date, name, external_id
        FROM holidays
        WHERE country_code=$1
        ORDER BY date`
	rows, err := r.db.Pool.Query(ctx, q, country)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHolidays(rows)
}

func (r *HolidayRepo) FindRange(ctx context.Context, country string, from, to time.Time) ([]domain.Holiday, error) {
	const q = `
        SELECT country_code, date, name, external_id
        FROM holidays
        WHERE country_code=$1 AND date BETWEEN $2 AND $3
        ORDER BY date`
	rows, err := r.db.Pool.Query(ctx, q, country, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHolidays(rows)
}

func (r *HolidayRepo) Upsert(ctx context.Context, h domain.Holiday) error {
	const up = `
        INSERT INTO holidays(country_code, date, name, external_id, updated_at)
        VALUES ($1, $2, $3, $4, now())
        ON CONFLICT (country_code, date) DO UPDATE
          SET name=EXCLUDED.name, external_id=EXCLUDED.external_id, updated_at=now()`
	_, err := r.db.Pool.Exec(ctx, up, h.CountryCode, h.Date, h.Name, h.ExternalID)
	return err
}

func (r *HolidayRepo) DeleteByDate(ctx context.Context, country string, date time.Time) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM holidays WHERE country_code=$1 AND date=$2`, country, date)
	return err
}

type pgRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanHolidays(rows pgRows) ([]domain.Holiday, error) {
	var out []domain.Holiday
	for rows.Next() {
		var h domain.Holiday
		if err := rows.Scan(&h.CountryCode, &h.Date, &h.Name, &h.ExternalID); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
