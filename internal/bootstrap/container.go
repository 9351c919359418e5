package bootstrap

import (
	"log"
	"os"

	"github.com/anup4khandelwal/travel-planner-agent/internal/config"
	"github.com/anup4khandelwal/travel-planner-agent/internal/controller"
	"github.com/anup4khandelwal/travel-planner-agent/internal/pkg/logger"
	"github.com/anup4khandelwal/travel-planner-agent/internal/repository/memory"
	"github.com/anup4khandelwal/travel-planner-agent/internal/service"
	"github.com/anup4khandelwal/travel-planner-agent/internal/websocket"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/dialog"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/dialog/extract"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/dialog/fallback"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/dialog/intent"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/dialog/search"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/llm/factory"

	pktNats "github.com/anup4khandelwal/travel-planner-agent/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	ChatController controller.IChatController
	ChatService    service.IChatService

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	WebSocketHub *websocket.Hub
	Logger       logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Dialog Pipeline
	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	sessionRepo := memory.NewSessionRepository(cfg.Dialog.SessionTTL)

	dialogLogger := log.New(os.Stdout, "", log.LstdFlags)
	classifier := intent.NewClassifier(llmProvider, dialogLogger)
	extractor := extract.NewExtractor(llmProvider, dialogLogger)
	searchAgent := search.NewMockAgent()
	fallbackAgent := fallback.NewAgent()

	manager := dialog.NewManager(
		sessionRepo,
		classifier,
		extractor,
		searchAgent,
		fallbackAgent,
		cfg.Dialog.CollaboratorTimeout,
		dialogLogger,
	)

	// 3.5 Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	publisherService := service.NewPublisherService(cfg.Dialog.TurnTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Dialog.TurnTopic)

	chatService := service.NewChatService(
		manager,
		sessionRepo,
		publisherService,
		natsPub,
		sysLogger,
	)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(wsLogger)
	go wsHub.Run()

	// 4. Controllers
	return &Container{
		ChatController:  controller.NewChatController(chatService, consumerService),
		ChatService:     chatService,
		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
		Logger:          sysLogger,
	}
}
