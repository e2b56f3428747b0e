package realtime

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 50 * time.Second
	maxMessageSize = 512
	sendBuffer     = 16
)

// Client is one websocket connection owned by a user.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and streams balance updates for userID until
// the peer goes away. It blocks for the life of the connection.
func ServeWS(w http.ResponseWriter, r *http.Request, hub *Hub, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		hub.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	hub.Register(userID, client)
	hub.log.Debug().Str("user_id", userID).Msg("websocket connected")

	go client.writePump()
	client.readPump()

	hub.Unregister(userID, client)
	hub.log.Debug().Str("user_id", userID).Msg("websocket disconnected")
}

// readPump drains inbound frames so pongs and close frames are processed.
func (c *Client) readPump() {
	defer func() {
		close(c.done)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
