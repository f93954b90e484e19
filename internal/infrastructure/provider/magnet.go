package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"magnetdata-service/internal/application"
	"magnetdata-service/internal/domain"
	"magnetdata-service/internal/infrastructure/httpx"

	"github.com/shopspring/decimal"
)

// MagnetAPIProvider talks to the authoritative magnet-data HTTP API. It
// implements both fetcher ports; transport or parse failures surface as
// plain errors and the caller treats them as "no data obtained".
type MagnetAPIProvider struct {
	BaseURL string
	Client  *httpx.Client
}

var (
	_ application.RateFetcher    = (*MagnetAPIProvider)(nil)
	_ application.HolidayFetcher = (*MagnetAPIProvider)(nil)
)

const dateLayout = "2006-01-02"

type currencyValuesResp struct {
	Objects []struct {
		Date  string      `json:"date"`
		Value json.Number `json:"value"`
	} `json:"objects"`
}

type holidaysResp struct {
	Objects []struct {
		CountryCode string `json:"countryCode"`
		Date        string `json:"date"`
		Name        string `json:"name"`
		ResourceURI string `json:"resourceUri"`
	} `json:"objects"`
}

func (p *MagnetAPIProvider) endpoint(parts ...string) (string, error) {
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return "", fmt.Errorf("magnet: invalid base url: %w", err)
	}
	u.Path = "/api/v1/" + strings.Join(parts, "/") + "/"
	return u.String(), nil
}

func (p *MagnetAPIProvider) FetchMonth(ctx context.Context, year int, month time.Month, base, counter domain.Currency) ([]domain.CurrencyValue, error) {
	u, err := p.endpoint("currencies",
		strings.ToLower(string(base)), strings.ToLower(string(counter)),
		fmt.Sprint(year), fmt.Sprint(int(month)))
	if err != nil {
		return nil, err
	}

	var body currencyValuesResp
	if err := p.Client.GetJSON(ctx, u, &body); err != nil {
		return nil, fmt.Errorf("magnet: get %s/%s %d-%02d: %w", base, counter, year, month, err)
	}

	out := make([]domain.CurrencyValue, 0, len(body.Objects))
	for _, o := range body.Objects {
		d, err := time.Parse(dateLayout, o.Date)
		if err != nil {
			return nil, fmt.Errorf("magnet: parse date %q: %w", o.Date, err)
		}
		v, err := decimal.NewFromString(o.Value.String())
		if err != nil {
			return nil, fmt.Errorf("magnet: parse value %q: %w", o.Value, err)
		}
		out = append(out, domain.CurrencyValue{Base: base, Counter: counter, Date: d, Value: v})
	}
	return out, nil
}

func (p *MagnetAPIProvider) FetchYear(ctx context.Context, country string, year int) ([]domain.Holiday, error) {
	u, err := p.endpoint("holidays", strings.ToLower(country), fmt.Sprint(year))
	if err != nil {
		return nil, err
	}

	var body holidaysResp
	if err := p.Client.GetJSON(ctx, u, &body); err != nil {
		return nil, fmt.Errorf("magnet: get holidays %s/%d: %w", country, year, err)
	}

	out := make([]domain.Holiday, 0, len(body.Objects))
	for _, o := range body.Objects {
		d, err := time.Parse(dateLayout, o.Date)
		if err != nil {
			return nil, fmt.Errorf("magnet: parse date %q: %w", o.Date, err)
		}
		out = append(out, domain.Holiday{
			CountryCode: o.CountryCode,
			Date:        d,
			Name:        o.Name,
			ExternalID:  o.ResourceURI,
		})
	}
	return out, nil
}
