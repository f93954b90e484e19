package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"magnetdata-service/internal/application"
	"magnetdata-service/internal/bootstrap"
	"magnetdata-service/internal/config"
	infraconfig "magnetdata-service/internal/infrastructure/config"
	httpserver "magnetdata-service/internal/infrastructure/http"
	"magnetdata-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	ctx := context.Background()
	logger := logx.L()
	cfg := config.Load()
	addr := ":" + cfg.Port

	repos, closeRepos, err := bootstrap.BuildRepos(ctx, cfg)
	if err != nil {
		logger.Fatal("bootstrap repos", zap.Error(err))
	}
	defer closeRepos()

	store, closeCache, err := bootstrap.BuildCache(cfg)
	if err != nil {
		logger.Fatal("bootstrap cache", zap.Error(err))
	}
	defer closeCache()

	fetchers, err := bootstrap.BuildFetchers(cfg)
	if err != nil {
		logger.Fatal("bootstrap fetchers", zap.Error(err))
	}
	clock, err := bootstrap.BuildClock(cfg)
	if err != nil {
		logger.Fatal("bootstrap clock", zap.Error(err))
	}

	currencies := application.NewCurrencyService(repos.Values, fetchers.Rates, store,
		application.WithCurrencyClock(clock),
		application.WithCurrencyLogger(logger))
	holidays := application.NewHolidayService(repos.Holidays, fetchers.Holidays, store,
		application.WithHolidayClock(clock),
		application.WithHolidayLogger(logger))

	srv := httpserver.NewServer(currencies, holidays)
	mux := httpserver.NewRouter(srv, repos.DB.Ping)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer shCancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
