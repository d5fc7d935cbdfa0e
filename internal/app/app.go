package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	emailadapter "github.com/Abdurahmanit/GroupProject/rental-service/internal/adapter/email"
	mongoadapter "github.com/Abdurahmanit/GroupProject/rental-service/internal/adapter/mongo"
	natsadapter "github.com/Abdurahmanit/GroupProject/rental-service/internal/adapter/nats"
	redisadapter "github.com/Abdurahmanit/GroupProject/rental-service/internal/adapter/redis"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/platform/logger"
	httpserver "github.com/Abdurahmanit/GroupProject/rental-service/internal/port/http"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/port/http/handler"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/port/http/router"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/service"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type App struct {
	cfg         *config.Config
	log         logger.Logger
	server      *httpserver.Server
	mongoClient *mongo.Client
	redisClient *redis.Client
	natsConn    *nats.Conn
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s", cfg.Env, cfg.HTTPServer.Port)

	appLogger.Info("Initializing MongoDB client...")
	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		appLogger.Errorf("Failed to initialize MongoDB client: %v", err)
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	appLogger.Info("MongoDB client initialized successfully")

	appLogger.Info("Initializing Redis client...")
	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Errorf("Failed to initialize Redis client: %v", err)
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	appLogger.Info("Redis client initialized successfully")

	appLogger.Info("Initializing NATS connection...")
	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		appLogger.Errorf("Failed to initialize NATS connection: %v", err)
		return nil, fmt.Errorf("failed to initialize NATS connection: %w", err)
	}
	msgPublisher, err := natsadapter.NewNATSPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NATS publisher: %w", err)
	}
	appLogger.Info("NATS publisher initialized successfully")

	listingRepo := mongoadapter.NewListingRepository(mongoClient, cfg.MongoDB)
	escrowRepo := mongoadapter.NewEscrowRepository(mongoClient, cfg.MongoDB)
	eventRepo := mongoadapter.NewEventRepository(mongoClient, cfg.MongoDB)
	txRunner := mongoadapter.NewTxRunner(mongoClient)
	listingCache := redisadapter.NewListingCacheRepository(redisClient)
	appLogger.Info("Repositories initialized")

	var notifier service.Notifier = service.NoOpNotifier{}
	if cfg.SMTP.Host != "" {
		emailSender, err := emailadapter.NewSMTPSender(cfg.SMTP, appLogger)
		if err != nil {
			appLogger.Errorf("Failed to initialize SMTP sender: %v", err)
			return nil, fmt.Errorf("failed to initialize SMTP sender: %w", err)
		}
		notifier = service.NewEmailNotifier(emailSender, appLogger)
		appLogger.Info("Email notifier initialized")
	} else {
		appLogger.Info("SMTP host not configured, owner notifications disabled")
	}

	escrowService := service.NewEscrowService(escrowRepo, appLogger)
	registryService := service.NewRegistryService(
		listingRepo,
		eventRepo,
		listingCache,
		txRunner,
		msgPublisher,
		appLogger,
		service.RegistryServiceConfig{ListingCacheTTL: cfg.ListingCache.TTL},
	)
	rentalService := service.NewRentalService(
		listingRepo,
		eventRepo,
		listingCache,
		escrowService,
		txRunner,
		msgPublisher,
		notifier,
		appLogger,
	)
	receiptService := service.NewReceiptService(listingRepo, eventRepo, escrowService, appLogger)
	appLogger.Info("Services initialized")

	rentalHandler := handler.NewRentalHandler(registryService, rentalService, escrowService, receiptService, appLogger)
	mux := router.New(rentalHandler, cfg.Auth.JWTSecret, appLogger)

	srv := httpserver.NewServer(cfg.HTTPServer, mux, appLogger)
	appLogger.Info("HTTP server instance created")

	application := &App{
		cfg:         cfg,
		log:         appLogger,
		server:      srv,
		mongoClient: mongoClient,
		redisClient: redisClient,
		natsConn:    natsConn,
	}

	return application, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Info("HTTP server started in a goroutine")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	} else {
		a.log.Info("HTTP server stopped successfully")
	}

	a.log.Info("Closing external connections...")

	if a.natsConn != nil {
		a.natsConn.Close()
		a.log.Info("NATS connection closed")
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed successfully")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}

	a.log.Info("Application shut down successfully")
}
