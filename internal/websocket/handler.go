package websocket

import (
	"context"

	"github.com/gofiber/websocket/v2"

	"github.com/anup4khandelwal/travel-planner-agent/pkg/dialog"
)

// TurnProcessor runs one dialog turn. Implemented by the chat service.
type TurnProcessor interface {
	ProcessMessage(ctx context.Context, userID, message string) dialog.Response
}

// ServeWs handles a websocket chat connection for the given user.
func ServeWs(hub *Hub, c *websocket.Conn, userID string, processor TurnProcessor) {
	client := &Client{
		Hub:       hub,
		Conn:      c,
		UserID:    userID,
		Send:      make(chan []byte, 256),
		processor: processor,
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in the handler's goroutine
}
