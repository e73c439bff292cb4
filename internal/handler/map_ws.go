package handler

import (
	"fmt"
	"net/http"
	"time"

	"tripmate/config"
	"tripmate/internal/auth"
	"tripmate/internal/repository"
	"tripmate/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var mapUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeMapWS upgrades to WebSocket for the trip map channel; query:
// token, trip_id. Receive-only: the server pushes pin events, client
// messages are ignored.
func UpgradeMapWS(cfg *config.JWTConfig, mapHub *ws.Hub, tripRepo *repository.TripRepository) gin.HandlerFunc {
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
		conn, err := mapUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		client := &ws.Client{
			UserID: claims.UserID,
			Send:   make(chan []byte, 64),
		}
		room := mapHub.GetOrCreateRoom(tid)
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
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
