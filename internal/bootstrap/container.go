package bootstrap

import (
	"context"
	"time"

	"ai-crm-be/internal/config"
	"ai-crm-be/internal/controller"
	"ai-crm-be/internal/handler"
	"ai-crm-be/internal/pkg/logger"
	"ai-crm-be/internal/repository/memory"
	"ai-crm-be/internal/repository/unitofwork"
	"ai-crm-be/internal/service"
	"ai-crm-be/internal/websocket"
	"ai-crm-be/pkg/contactstore"
	"ai-crm-be/pkg/extraction"
	"ai-crm-be/pkg/llm"
	"ai-crm-be/pkg/llm/factory"
	pktNats "ai-crm-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const historyCacheTTL = 5 * time.Minute

type Container struct {
	// Controllers
	ContactController controller.IContactController
	SystemController  controller.ISystemController

	// Background Services (Exposed for main.go to run)
	ContactService  service.IContactService
	ConsumerService service.IConsumerService

	// Live feed
	LiveHandler  *handler.LiveHandler
	WebSocketHub *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. LLM
	var provider llm.LLMProvider
	p, err := factory.NewLLMProvider(context.Background(), cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL, cfg.Keys.GoogleGemini)
	if err != nil {
		sysLogger.Warn("Bootstrap", "LLM provider unavailable, extraction disabled", map[string]interface{}{
			"provider": cfg.Ai.LLMProvider,
			"error":    err.Error(),
		})
	} else {
		provider = p
		sysLogger.Info("Bootstrap", "Using LLM provider", map[string]interface{}{"provider": p.Name()})
	}
	bridge := extraction.NewBridge(provider, sysLogger,
		extraction.WithSearchGrounding(cfg.Ai.SearchGrounding),
		extraction.WithTemperature(cfg.Ai.Temperature),
	)

	// 4. Infrastructure
	var eventPublisher service.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("Bootstrap", "NATS unavailable, events stay local", map[string]interface{}{"error": err.Error()})
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	rdb := newRedisClient(cfg.App.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// WebSocket Hub. The contact service is created after the hub, so the
	// remote handler resolves it lazily.
	liveLogger := logger.NewIsolatedLogger(cfg.App.LiveLogFilePath)
	wsHub := websocket.NewHub(rdb, liveLogger,
		websocket.WithRemoteHandler(func(ctx context.Context, message []byte) {
			c.ContactService.HandleRemoteChange(ctx, message)
		}),
	)

	// 5. Services
	store := contactstore.New(service.NewContactBackend(uowFactory, sysLogger), sysLogger)
	publisherService := service.NewPublisherService(cfg.Keys.ContactEventsTopic, pubSub)
	c.ContactService = service.NewContactService(
		store,
		bridge,
		uowFactory,
		memory.NewHistoryCache(historyCacheTTL),
		publisherService,
		sysLogger,
	)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Keys.ContactEventsTopic,
		wsHub,
		eventPublisher,
		sysLogger,
	)

	// 6. Controllers
	c.ContactController = controller.NewContactController(c.ContactService, cfg.App.JwtSecret)
	c.SystemController = controller.NewSystemController(c.ContactService, wsHub.ClientCount)
	c.LiveHandler = handler.NewLiveHandler(wsHub, cfg.App.JwtSecret, liveLogger)
	c.WebSocketHub = wsHub

	return c
}

// Close releases the broker connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func newRedisClient(url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("Bootstrap", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Bootstrap", "Redis unavailable, live feed is single-instance", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}
