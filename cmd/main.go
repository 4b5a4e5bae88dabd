package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafeteria-backend/internal/adapter/logger"
	"cafeteria-backend/internal/adapter/postgres"
	"cafeteria-backend/internal/adapter/rabbitmq"
	redisAdapter "cafeteria-backend/internal/adapter/redis"
	"cafeteria-backend/internal/app/idempotency"
	"cafeteria-backend/internal/app/inventory"
	"cafeteria-backend/internal/app/menu"
	"cafeteria-backend/internal/app/order"
	"cafeteria-backend/internal/config"

	httpAdapter "cafeteria-backend/internal/adapter/http"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	ctx := context.Background()

	lgr := logger.New("cafeteria-backend")

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := redisAdapter.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	lgr.Info("redis_connected", "Connected to Redis", "startup", map[string]interface{}{
		"host": cfg.Redis.Host,
	})

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	// Repositories
	ingredientRepo := postgres.NewIngredientRepository(db)
	menuRepo := postgres.NewMenuRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	// Messaging
	publisher := rabbitmq.NewPublisher(mqConn)

	// Services
	inventoryService := inventory.NewService(ingredientRepo, lgr)
	menuService := menu.NewService(menuRepo, ingredientRepo, lgr)
	orderService := order.NewService(orderRepo, menuRepo, publisher, lgr)

	// Idempotency and rate limiting on Redis
	guard := idempotency.NewGuard(
		redisAdapter.NewIdempotencyStore(redisClient),
		time.Duration(cfg.Idempotency.TTLHours)*time.Hour,
		lgr,
	)
	limiter := redisAdapter.NewRateLimiter(redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		Orders:    httpAdapter.NewOrderHandler(orderService, lgr),
		Menu:      httpAdapter.NewMenuHandler(menuService, lgr),
		Inventory: httpAdapter.NewInventoryHandler(inventoryService, lgr),
		Limiter:   limiter,
		Guard:     guard,
		RateLimit: cfg.RateLimit,
		Logger:    lgr,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSec) * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Cafeteria backend started on port %d", cfg.Server.Port), "startup", map[string]interface{}{
		"port": cfg.Server.Port,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down cafeteria backend", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}
