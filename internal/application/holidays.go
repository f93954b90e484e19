package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"magnetdata-service/internal/domain"

	"go.uber.org/zap"
)

// HolidayService keeps per-country holiday sets in sync with the
// authoritative source and answers business-day arithmetic over them.
type HolidayService struct {
	holidays HolidayRepo
	fetcher  HolidayFetcher
	cache    Cache
	clock    Clock
	log      *zap.Logger
}

type HolidayOption func(*HolidayService)

func WithHolidayClock(c Clock) HolidayOption {
	return func(s *HolidayService) { s.clock = c }
}

func WithHolidayLogger(l *zap.Logger) HolidayOption {
	return func(s *HolidayService) { s.log = l }
}

func NewHolidayService(holidays HolidayRepo, fetcher HolidayFetcher, cache Cache, opts ...HolidayOption) *HolidayService {
	s := &HolidayService{holidays: holidays, fetcher: fetcher, cache: cache}
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

func holidaySetCacheKey(country string) string { return "holidays:" + country }

// Update fetches the remote holiday list for (country, year) and reconciles
// the local records against it. Year 0 means the current year.
//
// Reconciliation is keyed on the source's external id: a holiday reported at
// a new date is deleted at its old date and recreated, a renamed holiday is
// updated in place, and local records inside the year window whose id the
// source no longer reports are deleted. All deletions run before any upsert:
// a date vacated by one record may be occupied by another record of the same
// response, and that record must survive the pass. Records dated outside the
// window are upserted when reported but never deleted by this window's pass.
// A fetch failure leaves the store untouched.
func (s *HolidayService) Update(ctx context.Context, country string, year int) error {
	if year == 0 {
		year = s.clock.Today().Year()
	}

	remote, err := s.fetcher.FetchYear(ctx, country, year)
	if err != nil {
		return fmt.Errorf("fetch holidays %s/%d: %w", country, year, err)
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	local, err := s.holidays.FindRange(ctx, country, from, to)
	if err != nil {
		return fmt.Errorf("load holidays %s/%d: %w", country, year, err)
	}

	// Snapshot of what was persisted before this pass. Lookups during the
	// pass must not observe records the pass itself created: the source may
	// legitimately report one id at several dates in a single response.
	byID := make(map[string]domain.Holiday, len(local))
	for _, h := range local {
		if h.ExternalID != "" {
			byID[h.ExternalID] = h
		}
	}

	seen := make(map[string]bool, len(remote))
	for i := range remote {
		remote[i].CountryCode = country
		remote[i].Date = midnight(remote[i].Date)
		seen[remote[i].ExternalID] = true
	}

	// Delete phase: stale dates of moved holidays, then dropped ids. An
	// upsert written before these deletions could land on a date about to be
	// vacated and be wiped with it.
	for _, r := range remote {
		prev, ok := byID[r.ExternalID]
		if !ok || sameDate(prev.Date, r.Date) {
			continue
		}
		if err := s.holidays.DeleteByDate(ctx, country, prev.Date); err != nil {
			return fmt.Errorf("delete moved holiday %s@%s: %w", r.ExternalID, dateKey(prev.Date), err)
		}
		s.log.Info("holiday_moved",
			zap.String("country", country),
			zap.String("external_id", r.ExternalID),
			zap.String("from", dateKey(prev.Date)),
			zap.String("to", dateKey(r.Date)))
	}
	for _, h := range local {
		if seen[h.ExternalID] {
			continue
		}
		if err := s.holidays.DeleteByDate(ctx, country, h.Date); err != nil {
			return fmt.Errorf("delete dropped holiday %s@%s: %w", h.ExternalID, dateKey(h.Date), err)
		}
		s.log.Info("holiday_dropped",
			zap.String("country", country),
			zap.String("external_id", h.ExternalID),
			zap.String("date", dateKey(h.Date)))
	}

	for _, r := range remote {
		if prev, ok := byID[r.ExternalID]; ok && sameDate(prev.Date, r.Date) && prev.Name == r.Name {
			// Unchanged; re-running update must not touch the store.
			continue
		}
		if err := s.holidays.Upsert(ctx, r); err != nil {
			return fmt.Errorf("upsert holiday %s@%s: %w", r.ExternalID, dateKey(r.Date), err)
		}
	}

	if _, err := s.refreshHolidaySet(ctx, country); err != nil {
		return err
	}
	return nil
}

// ResetCache drops every cached holiday set; persisted records are
// untouched. The next predicate call recomputes from the store.
func (s *HolidayService) ResetCache(ctx context.Context) error {
	return s.cache.Reset(ctx)
}

// IsWorkday reports whether date is a business day for the country:
// Saturdays, Sundays and persisted holidays are not. It reads the cached
// holiday set or the store, never the remote source.
func (s *HolidayService) IsWorkday(ctx context.Context, date time.Time, country string) (bool, error) {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false, nil
	}
	set, err := s.holidaySet(ctx, country)
	if err != nil {
		return false, err
	}
	return !set[dateKey(date)], nil
}

// NextBusinessDay steps forward from fromDate: businessDaysCount times
// (default 1), advance step calendar days (default 1) and then snap forward
// to the next workday. The result is strictly after fromDate.
func (s *HolidayService) NextBusinessDay(ctx context.Context, country string, fromDate time.Time, step, businessDaysCount int) (time.Time, error) {
	if step < 1 {
		step = 1
	}
	if businessDaysCount < 1 {
		businessDaysCount = 1
	}
	d := midnight(fromDate)
	for i := 0; i < businessDaysCount; i++ {
		d = d.AddDate(0, 0, step)
		for {
			ok, err := s.IsWorkday(ctx, d, country)
			if err != nil {
				return time.Time{}, err
			}
			if ok {
				break
			}
			d = d.AddDate(0, 0, 1)
		}
	}
	return d, nil
}

// HolidaysCountDuringWeekdays counts holidays in [start, end] that fall on a
// Monday–Friday, i.e. the ones that actually remove a business day.
func (s *HolidayService) HolidaysCountDuringWeekdays(ctx context.Context, country string, start, end time.Time) (int, error) {
	hs, err := s.holidays.FindRange(ctx, country, midnight(start), midnight(end))
	if err != nil {
		return 0, err
	}
	count := 0
	for _, h := range hs {
		switch h.Date.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count, nil
}

// holidaySet returns the country's holiday dates as a "2006-01-02" keyed
// set, reading through the cache.
func (s *HolidayService) holidaySet(ctx context.Context, country string) (map[string]bool, error) {
	key := holidaySetCacheKey(country)
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.log.Warn("cache_get_failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var dates []string
		if jerr := json.Unmarshal([]byte(raw), &dates); jerr == nil {
			set := make(map[string]bool, len(dates))
			for _, d := range dates {
				set[d] = true
			}
			return set, nil
		}
		s.log.Warn("cache_entry_corrupt", zap.String("key", key))
	}
	return s.refreshHolidaySet(ctx, country)
}

// refreshHolidaySet rebuilds the cached set from the store.
func (s *HolidayService) refreshHolidaySet(ctx context.Context, country string) (map[string]bool, error) {
	hs, err := s.holidays.FindByCountry(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("load holidays %s: %w", country, err)
	}
	set := make(map[string]bool, len(hs))
	dates := make([]string, 0, len(hs))
	for _, h := range hs {
		k := dateKey(h.Date)
		set[k] = true
		dates = append(dates, k)
	}
	raw, err := json.Marshal(dates)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, holidaySetCacheKey(country), string(raw)); err != nil {
		s.log.Warn("cache_set_failed", zap.String("key", holidaySetCacheKey(country)), zap.Error(err))
	}
	return set, nil
}
