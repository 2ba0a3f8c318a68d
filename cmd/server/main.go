package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cutoff-alert-service/internal/domain/repository"
	"cutoff-alert-service/internal/infrastructure/config"
	"cutoff-alert-service/internal/infrastructure/kafka"
	"cutoff-alert-service/internal/infrastructure/persistence"
	"cutoff-alert-service/internal/interface/handler"
	"cutoff-alert-service/internal/interface/notifier"
	repo "cutoff-alert-service/internal/interface/repository"
	"cutoff-alert-service/internal/usecase"
	"cutoff-alert-service/pkg/logger"
	"cutoff-alert-service/pkg/metrics"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Cutoff Alert Service", "version", cfg.AppVersion, "notifierMode", cfg.NotifierMode)

	// Set up context with cancellation on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set up PostgreSQL connection
	log.Info("Connecting to PostgreSQL")
	gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}
	if cfg.AutoMigrate {
		if err := repo.Migrate(gormDB); err != nil {
			log.Fatal("Failed to migrate schema", "error", err)
		}
	}
	deadlineRepo := repo.NewGormDeadlineRepository(gormDB)

	readiness := map[string]handler.Pinger{
		"postgres": handler.PingFunc(func(ctx context.Context) error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}

	// Set up notification delivery
	var (
		sender           repository.NotificationSender
		notificationRepo repository.NotificationRepository
		mongoClient      *mongo.Client
		publisher        *notifier.KafkaNotificationPublisher
	)

	switch cfg.NotifierMode {
	case config.NotifierHTTP:
		auth := repo.ServiceAuth{
			BearerToken:  cfg.NotificationServiceToken,
			ClientID:     cfg.NotificationClientID,
			ClientSecret: cfg.NotificationClientSecret,
			TokenURL:     cfg.NotificationTokenURL,
			Scopes:       cfg.NotificationScopes,
		}
		sender = repo.NewHTTPNotificationRepository(cfg.NotificationServiceURL, auth, cfg.OperationTimeout, log)

	default:
		log.Info("Connecting to MongoDB")
		mongoClient, err = persistence.NewMongoClient(ctx, persistence.MongoConfig{
			URI:         cfg.MongoURI,
			Username:    cfg.MongoUser,
			Password:    cfg.MongoPassword,
			AppName:     "cutoff-alert-service",
			MaxPoolSize: uint64(cfg.MongoMaxPool),
			Timeout:     cfg.OperationTimeout,
		})
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		db := persistence.GetDatabase(mongoClient, cfg.MongoDB)
		notificationRepo = repo.NewMongoNotificationRepository(db, log)
		readiness["mongodb"] = handler.PingFunc(func(ctx context.Context) error {
			return mongoClient.Ping(ctx, nil)
		})

		var pub repository.NotificationPublisher
		if cfg.KafkaEnabled() {
			publisher, err = newPublisher(cfg, log)
			if err != nil {
				log.Fatal("Failed to create Kafka publisher", "error", err)
			}
			pub = publisher
		} else {
			log.Warn("Kafka not configured, real-time fan-out disabled")
		}
		sender = notifier.NewDirectSender(notificationRepo, pub, log)
	}

	// Set up escalation
	m := metrics.NewMetrics("cutoff_alert", prometheus.DefaultRegisterer)
	if cfg.DefaultRecipientID == "" {
		log.Warn("DEFAULT_RECIPIENT_ID not set, deadlines without a sales owner will fail to dispatch")
	}
	dispatcher := usecase.NewAlertDispatcher(sender, cfg.AppBaseURL, cfg.DefaultRecipientID)
	engine := usecase.NewEscalationEngine(deadlineRepo, dispatcher, log, m, cfg.OperationTimeout)
	scheduler := usecase.NewEscalationScheduler(engine, cfg.SweepInterval, log, m)

	// Set up HTTP server
	router := httprouter.New()
	handler.NewHealthHandler(readiness, log).RegisterRoutes(router)
	handler.NewEscalationHandler(scheduler, cfg.WriteTimeout-cfg.WriteTimeout/10, log).RegisterRoutes(router)
	if notificationRepo != nil {
		handler.NewNotificationHandler(notificationRepo, log).RegisterRoutes(router)
	}
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scheduler.Start(gctx)
		return nil
	})

	g.Go(func() error {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	runErr := g.Wait()
	if runErr != nil {
		log.Error("Service stopped with error", "error", runErr)
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error("Kafka publisher close error", "error", err)
		}
	}

	// Disconnect from MongoDB
	if mongoClient != nil {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info("Cutoff Alert Service stopped")
	if runErr != nil {
		log.Sync()
		os.Exit(1)
	}
}

func newPublisher(cfg *config.Config, log logger.Logger) (*notifier.KafkaNotificationPublisher, error) {
	writer, err := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaAlertTopic,
	}, log)
	if err != nil {
		return nil, err
	}

	if cfg.KafkaDLQTopic == "" {
		return notifier.NewKafkaNotificationPublisher(writer, nil, cfg.KafkaAlertTopic), nil
	}

	dlqWriter, err := kafka.NewWriter(kafka.WriterConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaDLQTopic,
		MaxAttempts: 3,
	}, log)
	if err != nil {
		writer.Close()
		return nil, err
	}
	return notifier.NewKafkaNotificationPublisher(writer, dlqWriter, cfg.KafkaAlertTopic), nil
}
