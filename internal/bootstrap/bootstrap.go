package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"magnetdata-service/internal/application"
	"magnetdata-service/internal/config"
	"magnetdata-service/internal/infrastructure/cache"
	"magnetdata-service/internal/infrastructure/httpx"
	"magnetdata-service/internal/infrastructure/logx"
	"magnetdata-service/internal/infrastructure/pg"
	"magnetdata-service/internal/infrastructure/provider"

	"github.com/redis/go-redis/v9"
)

type Repos struct {
	Values   application.CurrencyValueRepo
	Holidays application.HolidayRepo
	DB       *pg.DB
}

type Fetchers struct {
	Rates    application.RateFetcher
	Holidays application.HolidayFetcher
}

// BuildRepos connects to postgres, runs migrations and returns the repos plus
// a cleanup func.
func BuildRepos(ctx context.Context, cfg config.Config) (Repos, func(), error) {
	log := logx.L()
	if cfg.DatabaseURL == "" {
		return Repos{}, func() {}, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return Repos{}, func() {}, err
	}
	if err := pg.RunMigrations(ctx, db); err != nil {
		db.Close()
		return Repos{}, func() {}, err
	}
	cleanup := func() {
		log.Info("closing pg")
		db.Close()
	}
	return Repos{
		Values:   pg.NewCurrencyValueRepo(db),
		Holidays: pg.NewHolidayRepo(db),
		DB:       db,
	}, cleanup, nil
}

// BuildCache picks the cache backend from CACHE_BACKEND ("memory" or "redis").
func BuildCache(cfg config.Config) (application.Cache, func(), error) {
	switch cfg.CacheBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return cache.NewRedis(client), func() { _ = client.Close() }, nil
	case "", "memory":
		return cache.NewMemory(), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unsupported CACHE_BACKEND=%q", cfg.CacheBackend)
	}
}

// BuildFetchers picks the upstream source from PROVIDER ("magnet" or "fake").
func BuildFetchers(cfg config.Config) (Fetchers, error) {
	switch cfg.Provider {
	case "magnet":
		p := &provider.MagnetAPIProvider{
			BaseURL: cfg.MagnetAPIBase,
			Client: &httpx.Client{
				HTTP:  &http.Client{Timeout: cfg.RequestTimeout},
				Token: cfg.MagnetAPIToken,
			},
		}
		return Fetchers{Rates: p, Holidays: p}, nil
	case "", "fake":
		f := provider.NewFake("33152.68")
		return Fetchers{Rates: f, Holidays: f}, nil
	default:
		return Fetchers{}, fmt.Errorf("unsupported PROVIDER=%q", cfg.Provider)
	}
}

// BuildClock returns a clock anchored to the market timezone.
func BuildClock(cfg config.Config) (application.Clock, error) {
	loc, err := time.LoadLocation(cfg.MarketTZ)
	if err != nil {
		return nil, fmt.Errorf("load market tz %q: %w", cfg.MarketTZ, err)
	}
	return application.NewMarketClock(loc), nil
}
