package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/oryxerp/inventory-service/config"
	"github.com/oryxerp/inventory-service/internal/auth"
	"github.com/oryxerp/inventory-service/pkg/broker"
	"github.com/oryxerp/inventory-service/pkg/cache"
	"github.com/oryxerp/inventory-service/pkg/database/postgres"
	"github.com/oryxerp/inventory-service/pkg/logger"

	alertH "github.com/oryxerp/inventory-service/internal/alert/handler"
	alertRepoPkg "github.com/oryxerp/inventory-service/internal/alert/repository"
	alertUCPkg "github.com/oryxerp/inventory-service/internal/alert/usecase"

	batchH "github.com/oryxerp/inventory-service/internal/batch/handler"
	batchRepoPkg "github.com/oryxerp/inventory-service/internal/batch/repository"
	batchUCPkg "github.com/oryxerp/inventory-service/internal/batch/usecase"

	catalogRepoPkg "github.com/oryxerp/inventory-service/internal/catalog/repository"

	movH "github.com/oryxerp/inventory-service/internal/movement/handler"
	movListenerPkg "github.com/oryxerp/inventory-service/internal/movement/listener"
	movRepoPkg "github.com/oryxerp/inventory-service/internal/movement/repository"
	movUCPkg "github.com/oryxerp/inventory-service/internal/movement/usecase"

	policyH "github.com/oryxerp/inventory-service/internal/policy/handler"
	policyRepoPkg "github.com/oryxerp/inventory-service/internal/policy/repository"
	policyUCPkg "github.com/oryxerp/inventory-service/internal/policy/usecase"

	stockH "github.com/oryxerp/inventory-service/internal/stock/handler"
	stockRepoPkg "github.com/oryxerp/inventory-service/internal/stock/repository"
	stockUCPkg "github.com/oryxerp/inventory-service/internal/stock/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     false,
		DisableStacktrace: false,
	}

	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Repositories
	batchRepo := batchRepoPkg.NewPGRepository(db)
	movRepo := movRepoPkg.NewPGRepository(db)
	stockRepo := stockRepoPkg.NewPGRepository(db)
	policyRepo := policyRepoPkg.NewPGRepository(db)
	alertRepo := alertRepoPkg.NewPGRepository(db)
	catalogRepo := catalogRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Redis (caching and allocation locks disabled)", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5.5 Initialize Kafka Consumer
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 6. Initialize UseCases
	batchUC := batchUCPkg.NewBatchUseCase(batchRepo, redisClient, appLogger)
	stockUC := stockUCPkg.NewStockUseCase(stockRepo, redisClient, appLogger)
	policyUC := policyUCPkg.NewPolicyUseCase(policyRepo, appLogger)
	movUC := movUCPkg.NewMovementUseCase(movRepo, batchRepo, policyRepo, redisClient, appLogger)
	alertUC := alertUCPkg.NewAlertUseCase(alertRepo, catalogRepo, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 6.5 Start Listener
	movListener := movListenerPkg.NewMovementListener(kafkaConsumer, movUC, appLogger)
	go movListener.Start(ctx)

	// 6.8 Start Expiry Sweep
	go runExpirySweep(ctx, alertUC, appLogger, time.Duration(cfg.Sweep.IntervalMinutes)*time.Minute)

	// 7. Initialize Handlers and Router
	// AllowAll is the standalone default; deployments behind the API gateway
	// swap in the gateway-backed Authorizer here.
	authz := auth.AllowAll{}

	if cfg.Server.AppEnv != "development" && cfg.Server.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), auth.Identify())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1/inventory")
	batchH.NewBatchHandler(batchUC, appLogger).Register(api, authz)
	movH.NewMovementHandler(movUC, appLogger).Register(api, authz)
	stockH.NewStockHandler(stockUC, appLogger).Register(api, authz)
	policyH.NewPolicyHandler(policyUC, appLogger).Register(api, authz)
	alertH.NewAlertHandler(alertUC, appLogger).Register(api, authz)

	// 8. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	appLogger.Info("Server stopped")
}

func runExpirySweep(ctx context.Context, uc interface {
	CheckExpiringBatches(ctx context.Context) (int, error)
}, appLogger logger.ZapLogger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			opened, err := uc.CheckExpiringBatches(ctx)
			if err != nil {
				appLogger.Error("expiry sweep failed", zap.Error(err))
				continue
			}
			if opened > 0 {
				appLogger.Info("expiry sweep opened alerts", zap.Int("count", opened))
			}
		}
	}
}
