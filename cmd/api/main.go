package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"traderesult/internal/config"
	"traderesult/internal/db"
	"traderesult/internal/events"
	"traderesult/internal/httpserver"
	"traderesult/internal/ledger"
	"traderesult/internal/logging"
	"traderesult/internal/traderesult"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The structured logger needs the config, so this one is raw.
		stdlog.Fatal(err)
	}
	log := logging.New(cfg.LogLevel)

	if err := db.Migrate(cfg.DBDSN); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	bus := events.NewBus()
	store := ledger.NewStore()
	svc := traderesult.NewService(pool, store, log, bus)
	handler := httpserver.NewHandler(svc, cfg.JWTSecret, cfg.JWTTTL)
	router := httpserver.NewRouter(httpserver.RouterDeps{
		Handler:         handler,
		InternalToken:   cfg.InternalToken,
		JWTSecret:       cfg.JWTSecret,
		EventsWSHandler: httpserver.NewEventsWSHandler(bus, cfg.WebSocketOrigin),
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	log.Info("server listening", "addr", cfg.HTTPAddr)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
