package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"textile-trade-tracker/internal/docstore"
	"textile-trade-tracker/internal/dyeing"
	"textile-trade-tracker/internal/httpapi"
	"textile-trade-tracker/internal/order"
	"textile-trade-tracker/internal/pkg/config"
	"textile-trade-tracker/internal/price"
	"textile-trade-tracker/internal/reconciler"
	"textile-trade-tracker/internal/report"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal(err)
	}

	pool, err := pgxpool.New(ctx, cfg.DB.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	documents := docstore.NewDefaultService(&cfg.Documents)

	orderRepo := order.NewDefaultRepo(pool)
	orderService := order.NewDefaultService(orderRepo)
	reportService := report.NewDefaultService(orderRepo)
	priceService := price.NewDefaultService(orderRepo)
	dyeingService := dyeing.NewDefaultService(dyeing.NewDefaultRepo(pool))

	reconcilerService := reconciler.NewDefaultService(orderService, documents)
	reconcilerService.Start(ctx)

	server := httpapi.NewServer(&cfg.HTTP, orderService, reportService, priceService, dyeingService, documents)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")
	ctx, shutdown := context.WithTimeout(context.Background(), time.Second*15)
	defer shutdown()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
	if err := reconcilerService.Stop(ctx); err != nil {
		log.Fatal(err)
	}
}
