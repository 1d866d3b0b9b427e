package main

import (
	"context"
	"healthcard-service/internal/app/config"
	"healthcard-service/internal/app/delivery/http/controllers"
	"healthcard-service/internal/app/delivery/http/middlewares"
	"healthcard-service/internal/app/delivery/http/routers"
	"healthcard-service/internal/app/drivers/database"
	"healthcard-service/internal/app/drivers/logger"
	"healthcard-service/internal/app/drivers/messaging"
	"healthcard-service/internal/app/drivers/storage"
	"healthcard-service/internal/app/models"
	"healthcard-service/internal/app/services/core/abandonment"
	"healthcard-service/internal/app/services/core/checkout"
	"healthcard-service/internal/app/services/core/deeplink"
	"healthcard-service/internal/app/services/core/ledger"
	"healthcard-service/internal/app/services/core/payments"
	"healthcard-service/internal/app/services/core/reconciliation"
	"healthcard-service/internal/app/services/core/uploads"
	"healthcard-service/internal/app/services/shared/blob"
	"healthcard-service/internal/app/services/shared/jwtmanager"
	"healthcard-service/internal/app/services/shared/locker"
	"healthcard-service/internal/app/services/shared/paymentevents"
	"healthcard-service/internal/app/services/shared/platform"
	"healthcard-service/internal/app/services/shared/receiptstorage"
	sharedredis "healthcard-service/internal/app/services/shared/redis"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	bootstrapLog := logger.NewLogrusLogger(internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		bootstrapLog.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		Redis:          redisClient,
		MongoDB:        mongoDB,
		RabbitMQ:       rabbitMQ,
		Logger:         zapLogger,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}

	bootstrapingTheApp(&bootstrap, minioClient)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			bootstrapLog.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		bootstrapLog.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		bootstrapLog.Fatalf("Error shutting down dependencies: %v", err)
	}

	bootstrapLog.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap, minioClient *minio.Client) {
	internalConfig := bootstrap.InternalConfig
	zapLogger := bootstrap.Logger

	// Shared services
	redisRepository := sharedredis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, zapLogger)
	jwtManager := jwtmanager.NewJWTManager(internalConfig, zapLogger)
	blobUploader := blob.NewBlobUploader(time.Duration(internalConfig.Payments.UploadTimeoutInSeconds)*time.Second, zapLogger)
	receiptStorage := receiptstorage.NewMinioStorage(minioClient, internalConfig)
	urlDispatcher := platform.NewURLDispatcher(internalConfig, zapLogger)
	deepLinkSource := platform.NewDeepLinkSource()
	lifecycleSource := platform.NewLifecycleSource()

	eventPublisher, err := paymentevents.NewService(bootstrap.RabbitMQ, zapLogger)
	if err != nil {
		logrus.Fatalf("Failed to initialize payment events service: %v", err)
	}

	// Ledger
	ledgerService := ledger.NewLedgerHTTPClient(internalConfig, jwtManager, zapLogger)

	// Uploads
	uploadQueueRepository := uploads.NewUploadQueueRepository(redisRepository, internalConfig)
	fileSource := uploads.NewLocalFileSource()
	uploadUsecase := uploads.NewUploadQueueUsecase(uploadQueueRepository, fileSource, blobUploader, ledgerService, zapLogger)

	// Reconciliation
	stateRepository := reconciliation.NewPaymentStateRepository(redisRepository, internalConfig)
	watchRepository := reconciliation.NewProcessingWatchRepository(redisRepository)
	auditRepository := reconciliation.NewPaymentAuditRepository(bootstrap.MongoDB, internalConfig)
	sessionRepository := checkout.NewCheckoutSessionRepository(redisRepository, internalConfig)
	reconciliationUsecase := reconciliation.NewReconciliationUsecase(
		ledgerService,
		stateRepository,
		sessionRepository,
		watchRepository,
		auditRepository,
		eventPublisher,
		zapLogger,
	)

	// Payments
	submissionUsecase := payments.NewPaymentSubmissionUsecase(ledgerService, uploadUsecase, stateRepository, zapLogger)
	checkoutUsecase := checkout.NewCheckoutUsecase(
		ledgerService,
		sessionRepository,
		stateRepository,
		watchRepository,
		urlDispatcher,
		internalConfig,
		zapLogger,
	)

	// Deep-link router
	deepLinkRouter := deeplink.NewDeepLinkRouter(
		deepLinkSource,
		redisRepository,
		func(ctx context.Context, event *models.DeepLinkEvent) {
			if err := reconciliationUsecase.OnStatus(ctx, event); err != nil {
				zapLogger.Error("Deep-link reconciliation failed", zap.Error(err))
			}
		},
		internalConfig,
		zapLogger,
	)
	bootstrap.RouterStop = deepLinkRouter.Start(context.Background())

	// Abandoned-payment monitor
	monitor := abandonment.NewMonitor(
		reconciliationUsecase,
		stateRepository,
		watchRepository,
		lifecycleSource,
		lockerService,
		internalConfig,
		zapLogger,
	)
	bootstrap.MonitorStop = monitor.Start(context.Background())

	// Delivery
	appMiddlewares := middlewares.NewMiddlewares(zapLogger, internalConfig)
	bootstrap.Router.Use(appMiddlewares.RequestIDMiddleware)
	bootstrap.Router.Use(appMiddlewares.Logging(zapLogger))

	paymentController := controllers.NewPaymentController(
		zapLogger,
		submissionUsecase,
		checkoutUsecase,
		reconciliationUsecase,
		uploadUsecase,
		deepLinkSource,
	)
	receiptController := controllers.NewReceiptController(
		zapLogger,
		receiptStorage,
		uploadUsecase,
		internalConfig.Minio.ReceiptMaxUploadSizeInMB,
	)

	routers.SetupRoutes(bootstrap.Router, internalConfig, appMiddlewares, paymentController, receiptController)
}
