package realtime

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"gogo-api/logger"
	"gogo-api/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is enforced on the HTTP API; the socket relies on token auth.
		return true
	},
}

// Client is one websocket connection of one authenticated user.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// clientCommand is what clients send upstream: room membership changes.
type clientCommand struct {
	Action string `json:"action"`
	Room   string `json:"room"`
}

// Handler upgrades an authenticated request to a websocket connection.
// The token comes from the Authorization header or a token query
// parameter (mobile websocket clients cannot always set headers).
func Handler(hub *Hub, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			header := c.GetHeader("Authorization")
			token = strings.TrimPrefix(header, "Bearer ")
		}

		claims, err := utils.ParseToken(token, jwtSecret)
		if err != nil {
			utils.Unauthorized(c, "Invalid or missing token")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Error("Websocket upgrade failed", "error", err)
			return
		}

		client := &Client{
			hub:    hub,
			conn:   conn,
			userID: claims.UserID,
			send:   make(chan []byte, sendBufferSize),
		}

		hub.join(UserRoom(client.userID), client)
		logger.Info("Websocket client connected", "userId", client.userID)

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.removeClient(c)
		c.conn.Close()
		logger.Info("Websocket client disconnected", "userId", c.userID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("Websocket read error", "error", err, "userId", c.userID)
			}
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			logger.Warn("Ignoring malformed websocket command", "userId", c.userID)
			continue
		}
		c.handleCommand(cmd)
	}
}

func (c *Client) handleCommand(cmd clientCommand) {
	if !joinableRooms[cmd.Room] {
		logger.Warn("Ignoring command for unknown room", "room", cmd.Room, "userId", c.userID)
		return
	}

	switch cmd.Action {
	case "join":
		c.hub.join(cmd.Room, c)
		logger.Debug("Client joined room", "room", cmd.Room, "userId", c.userID)
	case "leave":
		c.hub.leave(cmd.Room, c)
		logger.Debug("Client left room", "room", cmd.Room, "userId", c.userID)
	default:
		logger.Warn("Ignoring unknown websocket action", "action", cmd.Action, "userId", c.userID)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
