package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coinfolio/internal/advisor"
	"coinfolio/internal/assets"
	"coinfolio/internal/config"
	"coinfolio/internal/database"
	"coinfolio/internal/handlers"
	"coinfolio/internal/logger"
	"coinfolio/internal/market"
	"coinfolio/internal/routes"
	"coinfolio/internal/scheduler"
	"coinfolio/internal/services"
)

func main() {
	// Parse command line flags
	configFile := flag.String("config", "config.yaml", "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Load configuration, falling back to defaults when no file exists
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Printf("Config %s not loaded (%v), using defaults", *configFile, err)
		cfg = config.Default()
	}

	if err := logger.Init(*debug); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := database.Init(cfg.Database.DSN)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Supported-asset table, loaded once and injected everywhere
	registry := assets.NewRegistry(assetsFromConfig(cfg.Assets))

	// Wire services
	priceService := services.NewPriceService(db)
	ruleService := services.NewRuleService(db, registry)
	portfolioService := services.NewPortfolioService(db, registry)
	notificationService := services.NewNotificationService(db)

	advisorClient := advisor.NewClient(cfg.Advisor)
	advisorTimeout := time.Duration(cfg.Advisor.TimeoutSeconds) * time.Second
	pipeline := services.NewPipeline(priceService, ruleService, portfolioService, notificationService, advisorClient, advisorTimeout)

	// Price ingestion scheduler
	source := market.NewBinanceSource()
	interval := time.Duration(cfg.Ingestion.IntervalSeconds) * time.Second
	sched := scheduler.New(source, pipeline, registry, interval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sched.Run(ctx)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	r.Use(gin.Recovery())

	handler := handlers.NewHandler(notificationService, ruleService, portfolioService, pipeline, registry)
	routes.SetupRoutes(r, handler)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logger.Log.Info("Starting server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server shutdown failed", zap.Error(err))
	}

	// Drain in-flight advisory dispatches so their notifications land
	pipeline.Wait()
}

func assetsFromConfig(list []config.AssetConfig) []assets.Asset {
	out := make([]assets.Asset, 0, len(list))
	for _, a := range list {
		out = append(out, assets.Asset{CoinID: a.CoinID, Symbol: a.Symbol, Market: a.Market})
	}
	return out
}
