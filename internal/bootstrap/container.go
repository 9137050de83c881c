package bootstrap

import (
	"context"
	"log"

	"eras-capsule-be/internal/authgate"
	"eras-capsule-be/internal/config"
	"eras-capsule-be/internal/controller"
	"eras-capsule-be/internal/handler"
	"eras-capsule-be/internal/pkg/logger"
	"eras-capsule-be/internal/pkg/mailer"
	"eras-capsule-be/internal/repository/implementation"
	"eras-capsule-be/internal/repository/unitofwork"
	"eras-capsule-be/internal/service"
	"eras-capsule-be/internal/websocket"
	"eras-capsule-be/internal/workflow"
	"eras-capsule-be/pkg/sidestore"
	"eras-capsule-be/pkg/store"

	pktNats "eras-capsule-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController        controller.IAuthController
	OAuthController       controller.IOAuthController
	WorkflowController    controller.IWorkflowController
	CapsuleController     controller.ICapsuleController
	VaultController       controller.IVaultController
	AchievementController controller.IAchievementController

	// Background services (run by main.go)
	ConsumerService service.IConsumerService
	DeliveryService service.IDeliveryService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. In-process pipeline for vault media post-processing
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
	redisUp := true
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		redisUp = false
	}

	// Side-channel state follows Redis availability so single-node dev
	// setups still work.
	var side sidestore.Store
	if redisUp {
		side = sidestore.NewRedisStore(rdb)
	} else {
		side = sidestore.NewMemoryStore()
	}

	// WebSocket hub with its own log file
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	var hubRedis *redis.Client
	if redisUp {
		hubRedis = rdb
	}
	wsHub := websocket.NewHub(hubRedis, wsLogger)
	go wsHub.Run()

	// 3. Session orchestration
	sessions := workflow.NewManager(side, nil, sysLogger)

	// A committed login lands the client on Home with any stale workflow
	// state cleared.
	gate := authgate.NewManager(authgate.NewRealClock(), func(sessionID string) {
		if sess, ok := sessions.Get(sessionID); ok {
			if _, err := sess.Nav.ChangeTab(store.TabHome, true); err != nil {
				sysLogger.Warn("Bootstrap", "Post-login tab reset failed", map[string]interface{}{"session_id": sessionID, "error": err.Error()})
			}
		}
	}, sysLogger)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.App.MediaTopic, pubSub)
	consumerService := service.NewMediaPipelineService(
		pubSub,
		cfg.App.MediaTopic,
		cfg.App.UploadDir,
		uowFactory,
	)

	notifRepo := implementation.NewNotificationRepository(db)
	echoRepo := implementation.NewEchoRepository(db)
	migrationService := service.NewEchoMigrationService(notifRepo, echoRepo, sysLogger)

	authService := service.NewAuthService(
		uowFactory,
		emailService,
		natsPub,
		gate,
		sessions,
		migrationService,
		cfg.Auth,
	)
	oauthService := service.NewOAuthService(
		uowFactory,
		side,
		gate,
		sessions,
		sysLogger,
		cfg.Auth,
	)
	workflowService := service.NewWorkflowService(sessions)
	capsuleService := service.NewCapsuleService(uowFactory, sessions, natsPub)
	echoService := service.NewEchoService(uowFactory, natsPub)
	vaultService := service.NewVaultService(
		uowFactory,
		publisherService,
		natsPub,
		cfg.App.UploadDir,
		cfg.App.BaseURL,
		sysLogger,
	)
	achievementService := service.NewAchievementService(uowFactory, natsSub, natsPub, sysLogger)
	deliveryService := service.NewDeliveryService(
		uowFactory,
		emailService,
		natsPub,
		cfg.Delivery.SweepInterval(),
		cfg.App.ClientURL,
		sysLogger,
	)

	// 5. Notification pipeline
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
		go achievementService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	// 6. Controllers
	return &Container{
		AuthController:        controller.NewAuthController(authService),
		OAuthController:       controller.NewOAuthController(oauthService),
		WorkflowController:    controller.NewWorkflowController(workflowService),
		CapsuleController:     controller.NewCapsuleController(capsuleService, echoService),
		VaultController:       controller.NewVaultController(vaultService),
		AchievementController: controller.NewAchievementController(achievementService),

		ConsumerService: consumerService,
		DeliveryService: deliveryService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
