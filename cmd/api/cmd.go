package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/bootstrap"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/cache"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/client/webfetch"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/config"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/crypto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/handlers"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/response"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/router"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/services"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/store"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/widgets"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/logger"
)

const shutdownGrace = 15 * time.Second

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	kmsHelper := crypto.NewKMS(bs.KMS, cfg.KMSKeyName)
	fetcher := webfetch.New(cfg.FetchTimeout)
	cacheSvc := cache.New(bs.Redis)

	// stores
	wstore := store.NewWidgetStore(bs.Firestore)
	hstore := store.NewHabitStore(bs.Firestore)
	sstore := store.NewSettingsStore(bs.Firestore, kmsHelper)
	ustore := store.NewUserStore(bs.Firestore)

	// services
	setserv := services.NewSettingsService(sstore, services.GlobalKeys{
		Weather:      cfg.WeatherAPIKey,
		News:         cfg.NewsAPIKey,
		ExchangeRate: cfg.ExchangeRateAPIKey,
	})
	userv := services.NewUserService(ustore)
	hserv := services.NewHabitsService(hstore)

	// widget runtime
	registry := widgets.NewRegistry(widgets.Deps{
		Fetch:  fetcher,
		Keys:   setserv,
		Habits: hstore,
	}, wstore)
	scheduler := widgets.NewScheduler(registry, cacheSvc, bs.Log)
	wserv := services.NewWidgetsService(wstore, registry, scheduler, cacheSvc)

	appCtx := logger.ToContext(context.Background(), bs.Log)
	exitOnError("scheduler start failed", scheduler.Start(appCtx), bs.Log)

	// response handler
	rh := response.New(bs.Log)

	// dependencies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.WidgetsSvc = wserv
	deps.HabitsSvc = hserv
	deps.SettingsSvc = setserv
	deps.UserSvc = userv

	// server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.NewRouter(deps),
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		bs.Log.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			bs.Log.Error("server start failed", "error", err)
			stop()
		}
	}()

	<-stopCtx.Done()
	bs.Log.Info("shutting down")

	graceCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(graceCtx); err != nil {
		bs.Log.Error("server shutdown failed", "error", err)
	}
	scheduler.Shutdown(graceCtx)
}
