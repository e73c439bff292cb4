package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tripmate/internal/repository"
)

type MessageHandler struct {
	msgRepo  *repository.MessageRepository
	tripRepo *repository.TripRepository
}

func NewMessageHandler(msgRepo *repository.MessageRepository, tripRepo *repository.TripRepository) *MessageHandler {
	return &MessageHandler{msgRepo: msgRepo, tripRepo: tripRepo}
}

// List returns chat history for a trip, newest first.
func (h *MessageHandler) List(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.msgRepo.ListByTripID(tripID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}
