package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/anup4khandelwal/travel-planner-agent/internal/dto"
	"github.com/anup4khandelwal/travel-planner-agent/internal/pkg/logger"
	"github.com/anup4khandelwal/travel-planner-agent/internal/repository/memory"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/dialog"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/events"
	pktNats "github.com/anup4khandelwal/travel-planner-agent/pkg/nats"
	"github.com/anup4khandelwal/travel-planner-agent/pkg/store"
)

type IChatService interface {
	ProcessMessage(ctx context.Context, userID, message string) dialog.Response
	GetSession(userID string) *store.Session
	ClearSession(userID string)
	SessionCount() int
}

type chatService struct {
	manager          *dialog.Manager
	sessions         *memory.SessionRepository
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher // nil when NATS is unavailable
	logger           logger.ILogger
}

func NewChatService(
	manager *dialog.Manager,
	sessions *memory.SessionRepository,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		manager:          manager,
		sessions:         sessions,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

// ProcessMessage runs one dialog turn and fans the outcome out to the
// in-process bus and, when connected, the NATS event stream. Event
// publishing is best-effort; a bus hiccup never fails the turn.
func (s *chatService) ProcessMessage(ctx context.Context, userID, message string) dialog.Response {
	resp := s.manager.ProcessMessage(ctx, userID, message)

	s.logger.Info("ChatService", "Turn processed", map[string]interface{}{
		"user_id":       userID,
		"response_type": string(resp.Type),
	})

	payload, err := json.Marshal(dto.TurnProcessedMessage{
		UserId:       userID,
		ResponseType: string(resp.Type),
	})
	if err == nil {
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.logger.Warn("ChatService", "Failed to publish turn message", map[string]interface{}{"error": err})
		}
	}

	if s.eventPublisher != nil {
		pubCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.eventPublisher.Publish(pubCtx, events.NewTurnProcessed(userID, string(resp.Type))); err != nil {
			s.logger.Warn("ChatService", "Failed to publish turn event to NATS", map[string]interface{}{"error": err})
		}
	}

	return resp
}

func (s *chatService) GetSession(userID string) *store.Session {
	return s.sessions.GetOrCreate(userID)
}

func (s *chatService) ClearSession(userID string) {
	s.sessions.Clear(userID)
	s.logger.Info("ChatService", "Session cleared", map[string]interface{}{"user_id": userID})
}

func (s *chatService) SessionCount() int {
	return s.sessions.Count()
}
