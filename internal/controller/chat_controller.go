package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/anup4khandelwal/travel-planner-agent/internal/dto"
	"github.com/anup4khandelwal/travel-planner-agent/internal/pkg/serverutils"
	"github.com/anup4khandelwal/travel-planner-agent/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService     service.IChatService
	consumerService service.IConsumerService
}

func NewChatController(chatService service.IChatService, consumerService service.IConsumerService) IChatController {
	return &chatController{
		chatService:     chatService,
		consumerService: consumerService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.Chat)
	h.Get("session/:userId", c.GetSession)
	h.Delete("session/:userId", c.ClearSession)
}

// Chat streams one turn over SSE: a status frame, the typed response,
// then a complete frame.
func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")

	userID, message := req.UserId, req.Message
	svc := c.chatService

	// The stream writer runs after this handler returns, so it must
	// not touch the fiber context.
	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		writeStreamEvent(w, dto.ChatStreamEvent{Type: "status", Message: "Processing your request..."})

		resp := svc.ProcessMessage(context.Background(), userID, message)
		writeStreamEvent(w, dto.ChatStreamEvent{Type: "response", Response: &resp})

		writeStreamEvent(w, dto.ChatStreamEvent{Type: "complete"})
	})

	return nil
}

func writeStreamEvent(w *bufio.Writer, ev dto.ChatStreamEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	w.Flush()
}

func (c *chatController) GetSession(ctx *fiber.Ctx) error {
	userID := ctx.Params("userId")

	session := c.chatService.GetSession(userID)

	// Only the tail of the conversation goes over the wire.
	history := session.History
	if len(history) > 10 {
		history = history[len(history)-10:]
	}

	res := dto.SessionInfoResponse{
		UserId:        session.UserID,
		Stage:         session.Stage,
		Intent:        session.Intent,
		FlightSlots:   session.FlightSlots,
		HotelSlots:    session.HotelSlots,
		CombinedSlots: session.CombinedSlots,
		History:       history,
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *chatController) ClearSession(ctx *fiber.Ctx) error {
	userID := ctx.Params("userId")
	c.chatService.ClearSession(userID)
	return ctx.JSON(serverutils.SuccessResponse("Success clear session", nil))
}

func (c *chatController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.HealthResponse{
		Status:         "healthy",
		ActiveSessions: c.chatService.SessionCount(),
		TurnCounts:     c.consumerService.TurnCounts(),
	})
}
