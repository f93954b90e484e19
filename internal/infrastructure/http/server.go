package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"magnetdata-service/internal/application"
	"magnetdata-service/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

type Server struct {
	currencies *application.CurrencyService
	holidays   *application.HolidayService
}

func NewServer(currencies *application.CurrencyService, holidays *application.HolidayService) *Server {
	return &Server{currencies: currencies, holidays: holidays}
}

type currencyValueResponse struct {
	Pair  string          `json:"pair"`
	Date  types.Date      `json:"date"`
	Value decimal.Decimal `json:"value"`
}

type workdayResponse struct {
	Date    types.Date `json:"date"`
	Workday bool       `json:"workday"`
}

type businessDayResponse struct {
	Date types.Date `json:"date"`
}

type weekdayCountResponse struct {
	Count int `json:"count"`
}

// GET /api/v1/currencies/{base}/{counter}/value?date=YYYY-MM-DD
func (s *Server) GetCurrencyValue(w http.ResponseWriter, r *http.Request) {
	conv, err := s.currencies.Pair(
		domain.Currency(chi.URLParam(r, "base")),
		domain.Currency(chi.URLParam(r, "counter")),
	)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	date, ok, err := dateParam(r, "date")
	if err != nil {
		badRequest(w, "invalid date, want YYYY-MM-DD")
		return
	}
	if !ok {
		date = s.currencies.Today()
	}

	value, err := conv.ValueOn(r.Context(), date)
	if err != nil {
		writeResolutionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, currencyValueResponse{
		Pair:  conv.String(),
		Date:  types.Date{Time: date},
		Value: value,
	})
}

// GET /api/v1/currencies/{base}/{counter}/latest
func (s *Server) GetLatestCurrencyValue(w http.ResponseWriter, r *http.Request) {
	conv, err := s.currencies.Pair(
		domain.Currency(chi.URLParam(r, "base")),
		domain.Currency(chi.URLParam(r, "counter")),
	)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	value, err := conv.Latest(r.Context())
	if err != nil {
		writeResolutionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, currencyValueResponse{
		Pair:  conv.String(),
		Date:  types.Date{Time: conv.LastKnowableDate()},
		Value: value,
	})
}

// POST /api/v1/holidays/{country}/sync?year=2023
func (s *Server) SyncHolidays(w http.ResponseWriter, r *http.Request) {
	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(w, "invalid year")
			return
		}
		year = y
	}
	if err := s.holidays.Update(r.Context(), chi.URLParam(r, "country"), year); err != nil {
		internalError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/holidays/{country}/workday?date=YYYY-MM-DD
func (s *Server) GetWorkday(w http.ResponseWriter, r *http.Request) {
	date, ok, err := dateParam(r, "date")
	if err != nil || !ok {
		badRequest(w, "date is required, want YYYY-MM-DD")
		return
	}
	workday, err := s.holidays.IsWorkday(r.Context(), date, chi.URLParam(r, "country"))
	if err != nil {
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, workdayResponse{Date: types.Date{Time: date}, Workday: workday})
}

// GET /api/v1/holidays/{country}/next-business-day?from=YYYY-MM-DD&step=1&count=1
func (s *Server) GetNextBusinessDay(w http.ResponseWriter, r *http.Request) {
	from, ok, err := dateParam(r, "from")
	if err != nil || !ok {
		badRequest(w, "from is required, want YYYY-MM-DD")
		return
	}
	step, err := intParam(r, "step")
	if err != nil {
		badRequest(w, "invalid step")
		return
	}
	count, err := intParam(r, "count")
	if err != nil {
		badRequest(w, "invalid count")
		return
	}
	d, err := s.holidays.NextBusinessDay(r.Context(), chi.URLParam(r, "country"), from, step, count)
	if err != nil {
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, businessDayResponse{Date: types.Date{Time: d}})
}

// GET /api/v1/holidays/{country}/weekday-count?start=YYYY-MM-DD&end=YYYY-MM-DD
func (s *Server) GetWeekdayHolidaysCount(w http.ResponseWriter, r *http.Request) {
	start, ok, err := dateParam(r, "start")
	if err != nil || !ok {
		badRequest(w, "start is required, want YYYY-MM-DD")
		return
	}
	end, ok, err := dateParam(r, "end")
	if err != nil || !ok {
		badRequest(w, "end is required, want YYYY-MM-DD")
		return
	}
	n, err := s.holidays.HolidaysCountDuringWeekdays(r.Context(), chi.URLParam(r, "country"), start, end)
	if err != nil {
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, weekdayCountResponse{Count: n})
}

// POST /api/v1/cache/reset
func (s *Server) ResetCache(w http.ResponseWriter, r *http.Request) {
	if err := s.holidays.ResetCache(r.Context()); err != nil {
		internalError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func dateParam(r *http.Request, name string) (time.Time, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, false, nil
	}
	d, err := time.Parse(types.DateFormat, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return d, true, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func writeResolutionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValueNotFound):
		notFound(w)
	case errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrUnsupportedCounterCurrency):
		badRequest(w, err.Error())
	default:
		internalError(w)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	http.Error(w, msg, http.StatusBadRequest)
}

func notFound(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

func internalError(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
