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

	"github.com/redis/go-redis/v9"
	"github.com/techbuilddotgg/mycandys-carts-service/internal/auth"
	"github.com/techbuilddotgg/mycandys-carts-service/internal/cache"
	"github.com/techbuilddotgg/mycandys-carts-service/internal/catalog"
	h "github.com/techbuilddotgg/mycandys-carts-service/internal/http"
	"github.com/techbuilddotgg/mycandys-carts-service/internal/repository"
	"github.com/techbuilddotgg/mycandys-carts-service/internal/service"
	"github.com/techbuilddotgg/mycandys-carts-service/internal/telemetry"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	CatalogURL      string
	IdentityURL     string
	StatsURL        string
	KafkaBrokers    []string
	LogTopic        string
	ServiceName     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	brokers := []string{}
	if v := getEnv("KAFKA_BROKERS", ""); v != "" {
		brokers = strings.Split(v, ",")
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "cartsdb"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		CatalogURL:      getEnv("CATALOG_URL", "http://localhost:8081"),
		IdentityURL:     getEnv("IDENTITY_URL", "http://localhost:8082"),
		StatsURL:        getEnv("STATS_URL", "http://localhost:8083/stats"),
		KafkaBrokers:    brokers,
		LogTopic:        getEnv("LOG_TOPIC", "service-logs"),
		ServiceName:     getEnv("SERVICE_NAME", "carts-service"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	// Set up MongoDB connection
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	repo := repository.NewMongoRepository(mongoDB)
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	log.Printf("Redis ping succeeded")

	// Broker is optional: without brokers every log record is dropped
	logs := telemetry.NewLogPublisher(cfg.LogTopic, cfg.KafkaBrokers...)
	defer logs.Close()
	if logs.Available() {
		log.Printf("Publishing log records to topic %s", cfg.LogTopic)
	} else {
		log.Printf("No Kafka brokers configured, log records will be dropped")
	}

	cartService := service.NewCartService(
		repo,
		cache.NewRedisCache(redisClient),
		catalog.NewHTTPClient(cfg.CatalogURL),
	)
	verifier := auth.NewHTTPVerifier(cfg.IdentityURL)
	handler := h.NewCartHandler(cartService, verifier, cfg.RequestTimeout)

	router := h.NewRouter(handler, &h.Telemetry{
		Stats:       telemetry.NewStatsNotifier(cfg.StatsURL),
		Logs:        logs,
		ServiceName: cfg.ServiceName,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Carts service starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	if err := mongoDB.Client().Disconnect(ctx); err != nil {
		log.Printf("mongo disconnect error: %v", err)
	}

	log.Println("server exited")
}
