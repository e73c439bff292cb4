package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripmate/internal/middleware"
	"tripmate/internal/repository"
)

type MeHandler struct {
	userRepo *repository.UserRepository
	tripRepo *repository.TripRepository
}

func NewMeHandler(userRepo *repository.UserRepository, tripRepo *repository.TripRepository) *MeHandler {
	return &MeHandler{userRepo: userRepo, tripRepo: tripRepo}
}

func (h *MeHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	trips, _ := h.tripRepo.ListByUserID(userID)
	c.JSON(http.StatusOK, gin.H{"user": u, "trip_count": len(trips)})
}

func (h *MeHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Username  string `json:"username" binding:"omitempty,min=3,max=64"`
		AvatarURL string `json:"avatar_url" binding:"omitempty,max=512"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if req.Username != "" && req.Username != u.Username {
		if _, err := h.userRepo.GetByUsername(req.Username); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		u.Username = req.Username
	}
	if req.AvatarURL != "" {
		u.AvatarURL = req.AvatarURL
	}
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// RegisterFCMToken stores the device token for push notifications.
func (h *MeHandler) RegisterFCMToken(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.userRepo.UpdateFCMToken(userID, req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
