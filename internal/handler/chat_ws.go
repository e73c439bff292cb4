package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tripmate/config"
	"tripmate/internal/auth"
	"tripmate/internal/models"
	"tripmate/internal/repository"
	"tripmate/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeChatWS upgrades to WebSocket for trip chat; query: token, trip_id.
// The user must be a member of the trip.
func UpgradeChatWS(cfg *config.JWTConfig, chatHub *ws.Hub, tripRepo *repository.TripRepository, msgRepo *repository.MessageRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		tripIDStr := c.Query("trip_id")
		if token == "" || tripIDStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token and trip_id required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		var tid uint
		if _, err := fmt.Sscanf(tripIDStr, "%d", &tid); err != nil || tid == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip_id"})
			return
		}
		if _, err := tripRepo.GetMember(tid, claims.UserID); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this trip"})
			return
		}
		conn, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		client := &ws.Client{
			UserID: claims.UserID,
			Send:   make(chan []byte, 256),
		}
		room := chatHub.GetOrCreateRoom(tid)
		room.Join(client)
		defer func() {
			room.Leave(client)
			client.Close()
		}()
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		go ws.WritePump(client, conn)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var msg struct {
				Type     string `json:"type"`
				Content  string `json:"content"`
				MediaURL string `json:"media_url"`
			}
			if json.Unmarshal(raw, &msg) != nil || msg.Type != "message" {
				continue
			}
			if msg.Content == "" && msg.MediaURL == "" {
				continue
			}
			m := &models.Message{
				TripID:   tid,
				SenderID: claims.UserID,
				Content:  msg.Content,
				MediaURL: msg.MediaURL,
			}
			if err := msgRepo.Create(m); err != nil {
				continue
			}
			payload := map[string]interface{}{
				"type":       "message",
				"id":         m.ID,
				"trip_id":    m.TripID,
				"sender_id":  m.SenderID,
				"content":    m.Content,
				"media_url":  m.MediaURL,
				"created_at": m.CreatedAt,
			}
			room.Broadcast(client, payload)
		}
	}
}
