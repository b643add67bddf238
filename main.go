package main

// POST /customers           - register a customer
// POST /products            - create a product with its starting stock
// GET  /products/list       - list products
// PUT  /products/{id}/stock - set a product's stock
// POST /orders              - place an order
// GET  /orders/{id}         - fetch an order with its items

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-management/config"
	"order-management/handler"
	"order-management/logger"
	"order-management/service"
	"order-management/store"

	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	st, err := openStore(cfg, log)
	if err != nil {
		log.Error("store setup failed", "backend", cfg.Database.Backend, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// --- Service ---
	svc := service.NewService(st, log)
	var serviceInterface service.ServiceInterface = svc

	// --- Handlers ---
	h := handler.NewHandler(serviceInterface, log)

	// --- Router ---
	r := mux.NewRouter()
	r.Use(handler.RequestLogger(log))
	h.RegisterRoutes(r)

	// --- Server ---
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", "address", addr, "backend", cfg.Database.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	log.Info("server stopped")
}

func openStore(cfg *config.Config, log *slog.Logger) (store.Store, error) {
	if cfg.Database.Backend == "memory" {
		return store.NewMemoryStore(), nil
	}

	pg, err := store.NewPostgresStore(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.Database.RunMigrations {
		if err := pg.Migrate(context.Background()); err != nil {
			_ = pg.Close()
			return nil, err
		}
		log.Info("database migrations executed")
	}
	return pg, nil
}
