// Package main boots the Retail Chain Simulator HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/retail-chain-simulator/internal/config"
	"github.com/fairyhunter13/retail-chain-simulator/internal/demo"
	httpapi "github.com/fairyhunter13/retail-chain-simulator/internal/http"
	"github.com/fairyhunter13/retail-chain-simulator/internal/journal"
	"github.com/fairyhunter13/retail-chain-simulator/internal/obs"
	"github.com/fairyhunter13/retail-chain-simulator/internal/retail"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting")

	warehouse := retail.NewMagazine(1, "TechSupply Warehouse")
	shop := retail.NewShop(1, "TechMart")
	customers := []*retail.Customer{
		retail.NewCustomer(1, "Alice Johnson", 2000.00),
		retail.NewCustomer(2, "Bob Smith", 500.00),
		retail.NewCustomer(3, "Carol Williams", 1500.00),
	}

	j := journal.New(cfg.JournalBuffer)
	writer := journal.NewWriter(j)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	writer.Start(ctx, cfg.JournalHighWatermark)

	demo.Seed(warehouse, cfg.SeedInitialStock)
	if cfg.RunDemo {
		demo.Run(warehouse, shop, customers, j)
	}

	app := httpapi.NewApp(cfg, j)
	app.AddMagazine(warehouse)
	app.AddShop(shop)
	for _, c := range customers {
		app.AddCustomer(c)
	}
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", zap.Error(err))
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", zap.String("signal", s.String()))

	app.StartShutdown()
	obs.Logger.Info("shutdown_drain_begin", zap.Int("backlog_size", j.BacklogSize()))

	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelDrain()
	if drained := writer.DrainUntil(ctxDrain); !drained {
		obs.Logger.Warn("shutdown_drain_timeout")
	} else {
		obs.Logger.Info("shutdown_drain_complete")
	}

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", zap.Error(err))
	}
	writer.Stop()
	obs.Logger.Info("service_stopped")
}
