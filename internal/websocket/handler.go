package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection, queues the initial frame and blocks until
// the peer goes away.
func ServeWs(hub *Hub, conn *websocket.Conn, sessionID string, initial []byte) {
	client := NewClient(hub, conn, sessionID)
	if initial != nil {
		client.Send <- initial
	}
	if !hub.Register(client) {
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
