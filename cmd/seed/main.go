package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/wichananm65/elite-shop-backend/internal/config"
	"github.com/wichananm65/elite-shop-backend/internal/logger"
	"github.com/wichananm65/elite-shop-backend/internal/seed"
	"github.com/wichananm65/elite-shop-backend/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Server.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Store.Driver == config.DriverMemory {
		log.Fatal("nothing to seed: the memory store does not outlive this process")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stores, err := server.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}
	defer stores.Close(ctx)

	svc := server.NewServices(cfg, stores, log)
	if err := seed.Run(ctx, svc.Users, svc.Products, log); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}

	fmt.Println("Seed complete. Accounts:")
	for _, a := range seed.Accounts() {
		fmt.Printf("  %-5s %s / %s\n", a.Role, a.Email, a.Password)
	}
}
