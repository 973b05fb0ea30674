package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"narrator-server/internal/config"
	"narrator-server/internal/database"
	"narrator-server/internal/handler"
	"narrator-server/internal/logger"
	"narrator-server/internal/messaging"
	"narrator-server/internal/middleware"
	"narrator-server/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	dbPool, err := database.NewPool(ctx, cfg.GetDSN(), cfg.DBMaxConns)
	cancel()
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer dbPool.Close()
	zapLogger.Info("Connected to PostgreSQL")

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	err = database.Bootstrap(ctx, dbPool)
	cancel()
	if err != nil {
		zapLogger.Fatal("Failed to bootstrap database schema", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	err = redisClient.Ping(ctx).Err()
	cancel()
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	zapLogger.Info("Connected to Redis")

	rabbitConn, err := connectRabbitMQ(cfg.RabbitMQURL, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer rabbitConn.Close()
	zapLogger.Info("Connected to RabbitMQ")

	sessionRepo := database.NewPgSessionRepository(zapLogger)
	contextCache := database.NewRedisContextCache(redisClient, cfg.ContextTTL, zapLogger)
	taskPublisher, err := messaging.NewRabbitMQTaskPublisher(rabbitConn, cfg.NarrativeTaskQueue, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create task publisher", zap.Error(err))
	}

	txRunner := &database.PoolRunner{Pool: dbPool, Logger: zapLogger}
	sessionService := service.NewSessionService(txRunner, dbPool, sessionRepo, contextCache, taskPublisher, zapLogger)
	sessionHandler := handler.NewSessionHandler(sessionService, zapLogger)

	resultConsumer := messaging.NewNarrativeResultConsumer(rabbitConn, sessionService, cfg.NarrativeResultQueue, zapLogger)
	go func() {
		if err := resultConsumer.StartConsuming(); err != nil {
			zapLogger.Error("Narrative result consumer stopped with error", zap.Error(err))
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(middleware.EchoZapLogger(zapLogger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	sessionHandler.RegisterRoutes(e)

	go func() {
		zapLogger.Info("Narrator server listening", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutdown signal received, stopping...")

	resultConsumer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shut down HTTP server cleanly", zap.Error(err))
	}

	zapLogger.Info("Narrator server stopped")
}

// connectRabbitMQ retries the connection a few times so the server can come
// up before the broker does.
func connectRabbitMQ(url string, log *zap.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	maxRetries := 5
	retryDelay := 5 * time.Second
	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		log.Warn("Failed to connect to RabbitMQ",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_delay", retryDelay),
			zap.Error(err),
		)
		time.Sleep(retryDelay)
	}
	return nil, err
}
