package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ftth-viability-be/internal/config"
	"ftth-viability-be/internal/controller"
	"ftth-viability-be/internal/entity"
	"ftth-viability-be/internal/handler"
	"ftth-viability-be/internal/pkg/logger"
	"ftth-viability-be/internal/pkg/mailer"
	"ftth-viability-be/internal/repository/implementation"
	"ftth-viability-be/internal/repository/unitofwork"
	"ftth-viability-be/internal/service"
	"ftth-viability-be/internal/websocket"
	"ftth-viability-be/pkg/geocode"
	"ftth-viability-be/pkg/inventory"

	pktNats "ftth-viability-be/pkg/nats"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	UserController      controller.IUserController
	ViabilityController controller.IViabilityController
	AuditController     controller.IAuditController
	ReportController    controller.IReportController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Domain Infrastructure
	region := geocode.Region{
		Lat:     cfg.Region.RefLat,
		Lon:     cfg.Region.RefLon,
		RadiusM: cfg.Region.RadiusM,
	}

	inventoryFetcher := inventory.NewFetcher(
		map[string]string{
			string(entity.KindFTTH): cfg.Inventory.FTTHSourceURL,
			string(entity.KindFTTA): cfg.Inventory.FTTASourceURL,
		},
		cfg.Inventory.CacheTTL,
		region,
		sysLogger,
	)

	publisherService := service.NewPublisherService(pubSub, cfg.Inventory.RefreshTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Inventory.RefreshTopic,
		inventoryFetcher,
	)

	// 4. Services
	userService := service.NewUserService(uowFactory)
	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	viabilityService := service.NewViabilityService(uowFactory, region, natsPub)
	auditService := service.NewAuditService(
		uowFactory,
		inventoryFetcher,
		region,
		service.MatcherConfig{
			DefaultRadiusM: cfg.Inventory.DefaultRadiusM,
			DefaultLimit:   cfg.Inventory.DefaultLimit,
		},
		natsPub,
	)
	reportService := service.NewReportService(uowFactory, inventoryFetcher, publisherService)

	// 4.5 Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, emailService, wsLogger)

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	// 5. Controllers
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		AuthController:      controller.NewAuthController(authService, userService),
		UserController:      controller.NewUserController(userService),
		ViabilityController: controller.NewViabilityController(viabilityService),
		AuditController:     controller.NewAuditController(auditService),
		ReportController:    controller.NewReportController(reportService, auditService),

		ConsumerService: consumerService,
	}
}
