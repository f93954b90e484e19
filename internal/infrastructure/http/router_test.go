package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"magnetdata-service/internal/application"
	"magnetdata-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type testEnv struct {
	handler        http.Handler
	values         *fakeValueRepo
	holidays       *fakeHolidayRepo
	holidayFetcher *fakeHolidayFetcher
}

func newTestEnv(today time.Time) *testEnv {
	env := &testEnv{
		values:         &fakeValueRepo{},
		holidays:       &fakeHolidayRepo{},
		holidayFetcher: &fakeHolidayFetcher{},
	}
	currencies := application.NewCurrencyService(env.values, &fakeRateFetcher{}, &fakeCache{},
		application.WithCurrencyClock(fixedClock{t: today}))
	holidays := application.NewHolidayService(env.holidays, env.holidayFetcher, &fakeCache{},
		application.WithHolidayClock(fixedClock{t: today}))
	env.handler = NewRouter(NewServer(currencies, holidays), nil)
	return env
}

func (e *testEnv) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

type valueBody struct {
	Pair  string          `json:"pair"`
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

func TestGetCurrencyValue(t *testing.T) {
	env := newTestEnv(day(2022, time.July, 15))
	require.NoError(t, env.values.UpsertBatch(nil, []domain.CurrencyValue{{
		Base: domain.CLF, Counter: domain.CLP,
		Date:  day(2022, time.July, 5),
		Value: decimal.RequireFromString("33152.680000"),
	}}))

	rec := env.do(t, http.MethodGet, "/api/v1/currencies/CLF/CLP/value?date=2022-07-05")
	require.Equal(t, http.StatusOK, rec.Code)

	var body valueBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "CLF/CLP", body.Pair)
	require.Equal(t, "2022-07-05", body.Date)
	require.True(t, body.Value.Equal(decimal.RequireFromString("33152.68")))
}

func TestGetCurrencyValue_UnknownCurrency(t *testing.T) {
	env := newTestEnv(day(2022, time.July, 15))
	rec := env.do(t, http.MethodGet, "/api/v1/currencies/UF/CLP/value?date=2022-07-05")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCurrencyValue_BadDate(t *testing.T) {
	env := newTestEnv(day(2022, time.July, 15))
	rec := env.do(t, http.MethodGet, "/api/v1/currencies/USD/CLP/value?date=05-07-2022")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCurrencyValue_BeyondHorizon(t *testing.T) {
	env := newTestEnv(day(2022, time.July, 15))
	rec := env.do(t, http.MethodGet, "/api/v1/currencies/USD/CLP/value?date=2022-07-20")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetLatestCurrencyValue(t *testing.T) {
	// With today at the 15th, the advance-published horizon is Aug 9th.
	env := newTestEnv(day(2022, time.July, 15))
	require.NoError(t, env.values.UpsertBatch(nil, []domain.CurrencyValue{{
		Base: domain.CLF, Counter: domain.CLP,
		Date:  day(2022, time.August, 9),
		Value: decimal.RequireFromString("33300.01"),
	}}))

	rec := env.do(t, http.MethodGet, "/api/v1/currencies/CLF/CLP/latest")
	require.Equal(t, http.StatusOK, rec.Code)

	var body valueBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "2022-08-09", body.Date)
	require.True(t, body.Value.Equal(decimal.RequireFromString("33300.01")))
}

func TestSyncHolidaysAndWorkday(t *testing.T) {
	env := newTestEnv(day(2023, time.January, 10))
	env.holidayFetcher.holidays = []domain.Holiday{{
		CountryCode: "CL",
		Date:        day(2023, time.January, 2),
		Name:        "Feriado Adicional",
		ExternalID:  "/api/v1/holidays/cl/163/",
	}}

	rec := env.do(t, http.MethodPost, "/api/v1/holidays/CL/sync?year=2023")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/holidays/CL/workday?date=2023-01-02")
	require.Equal(t, http.StatusOK, rec.Code)
	var wd struct {
		Workday bool `json:"workday"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wd))
	require.False(t, wd.Workday)

	rec = env.do(t, http.MethodGet, "/api/v1/holidays/CL/workday?date=2023-01-03")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wd))
	require.True(t, wd.Workday)
}

func TestGetNextBusinessDay(t *testing.T) {
	env := newTestEnv(day(2023, time.January, 10))
	seed := []domain.Holiday{
		{CountryCode: "CL", Date: day(2023, time.January, 1), Name: "Año Nuevo", ExternalID: "/api/v1/holidays/cl/161/"},
		{CountryCode: "CL", Date: day(2023, time.January, 2), Name: "Feriado Adicional", ExternalID: "/api/v1/holidays/cl/163/"},
	}
	for _, h := range seed {
		require.NoError(t, env.holidays.Upsert(nil, h))
	}

	rec := env.do(t, http.MethodGet, "/api/v1/holidays/CL/next-business-day?from=2022-12-31")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Date string `json:"date"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "2023-01-03", body.Date)

	rec = env.do(t, http.MethodGet, "/api/v1/holidays/CL/next-business-day?from=2022-12-31&count=3")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "2023-01-05", body.Date)
}

func TestGetNextBusinessDay_MissingFrom(t *testing.T) {
	env := newTestEnv(day(2023, time.January, 10))
	rec := env.do(t, http.MethodGet, "/api/v1/holidays/CL/next-business-day")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetWeekdayHolidaysCount(t *testing.T) {
	env := newTestEnv(day(2023, time.January, 10))
	seed := []domain.Holiday{
		{CountryCode: "CL", Date: day(2023, time.January, 1), Name: "Año Nuevo", ExternalID: "/api/v1/holidays/cl/161/"},
		{CountryCode: "CL", Date: day(2023, time.January, 2), Name: "Feriado Adicional", ExternalID: "/api/v1/holidays/cl/163/"},
	}
	for _, h := range seed {
		require.NoError(t, env.holidays.Upsert(nil, h))
	}

	rec := env.do(t, http.MethodGet, "/api/v1/holidays/CL/weekday-count?start=2022-12-30&end=2023-01-07")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
}

func TestResetCache(t *testing.T) {
	env := newTestEnv(day(2023, time.January, 10))
	rec := env.do(t, http.MethodPost, "/api/v1/cache/reset")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(day(2023, time.January, 10))
	rec := env.do(t, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
}
