package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tenders/db"
	"tenders/db/migrations"
	"tenders/internal/auth"
	"tenders/internal/config"
	"tenders/internal/handlers"
	"tenders/internal/metrics"
	"tenders/internal/service"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	dbConn, err := sqlx.Connect("postgres", cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Cannot connect to DB: %v", err)
	}
	defer dbConn.Close()

	dbConn.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	dbConn.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	dbConn.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	if cfg.DB.MigrationsEnabled {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := migrations.Run(ctx, dbConn.DB)
		cancel()
		if err != nil {
			log.Fatalf("failed to apply migrations: %v", err)
		}
	}

	tokens, err := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("failed to init tokens: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(reg); err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	store := db.NewStorage(dbConn)
	svc := service.New(service.NewSQLStore(store), tokens)
	h := handlers.NewHandler(svc)

	router := handlers.NewRouter(h, handlers.RouterDeps{
		Tokens:  tokens,
		Limiter: handlers.NewIPRateLimiter(cfg.Auth.RateLimit, cfg.Auth.RateBurst),
		Metrics: metrics.Handler(reg),
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Printf("Starting server on %s", cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		if err := srv.Close(); err != nil {
			log.Printf("server close failed: %v", err)
		}
	}
	log.Println("server stopped")
}
