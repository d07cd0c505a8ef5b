package websocket

import (
	"ai-crm-be/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection and blocks until the peer goes away.
func ServeWs(hub *Hub, conn *websocket.Conn, log logger.ILogger) {
	client := NewClient(hub, conn, log)
	if !hub.Register(client) {
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
