package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tripmate/internal/domain"
	"tripmate/internal/middleware"
	"tripmate/internal/models"
	"tripmate/internal/repository"
	"tripmate/internal/service"
)

type TripHandler struct {
	tripRepo *repository.TripRepository
	notifSvc *service.NotificationService
}

func NewTripHandler(tripRepo *repository.TripRepository, notifSvc *service.NotificationService) *TripHandler {
	return &TripHandler{tripRepo: tripRepo, notifSvc: notifSvc}
}

// tripID parses the :trip_id path param.
func tripID(c *gin.Context) uint {
	id, _ := strconv.ParseUint(c.Param("trip_id"), 10, 64)
	return uint(id)
}

// requireMember loads the caller's membership or aborts with 403/404.
func requireMember(c *gin.Context, tripRepo *repository.TripRepository) *models.TripMember {
	m, err := tripRepo.GetMember(tripID(c), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not a member of this trip"})
		} else {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "membership check failed"})
		}
		return nil
	}
	return m
}

// requireAdmin is requireMember plus a CREATOR/ADMIN role check.
func requireAdmin(c *gin.Context, tripRepo *repository.TripRepository) *models.TripMember {
	m := requireMember(c, tripRepo)
	if m == nil {
		return nil
	}
	if m.Role != domain.TripRoleCreator && m.Role != domain.TripRoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return nil
	}
	return m
}

type tripRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"` // ISO date
	EndDate     string `json:"end_date"`
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *TripHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req tripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date format (use YYYY-MM-DD)"})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format (use YYYY-MM-DD)"})
		return
	}
	if start != nil && end != nil && end.Before(*start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date before start_date"})
		return
	}
	t := &models.Trip{
		Name:        req.Name,
		Description: req.Description,
		Destination: req.Destination,
		StartDate:   start,
		EndDate:     end,
		CreatorID:   userID,
	}
	if err := h.tripRepo.Create(t); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	// Remind everyone the day before departure.
	if start != nil {
		sendAt := start.Add(-24 * time.Hour)
		if sendAt.After(time.Now()) {
			tid := t.ID
			_ = h.notifSvc.ScheduleForTripMembers(t.ID, domain.NotifTypeTripReminder, &tid,
				"Trip starting soon", "Your trip \""+t.Name+"\" starts tomorrow!", domain.ChannelPush, sendAt)
		}
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TripHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	trips, err := h.tripRepo.ListByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

func (h *TripHandler) Get(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	t, err := h.tripRepo.GetByID(tripID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TripHandler) Update(c *gin.Context) {
	if requireAdmin(c, h.tripRepo) == nil {
		return
	}
	t, err := h.tripRepo.GetByID(tripID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		return
	}
	var req tripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date format (use YYYY-MM-DD)"})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format (use YYYY-MM-DD)"})
		return
	}
	t.Name = req.Name
	t.Description = req.Description
	t.Destination = req.Destination
	if start != nil {
		t.StartDate = start
	}
	if end != nil {
		t.EndDate = end
	}
	if err := h.tripRepo.Update(t); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TripHandler) Delete(c *gin.Context) {
	m := requireMember(c, h.tripRepo)
	if m == nil {
		return
	}
	if m.Role != domain.TripRoleCreator {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the creator can delete a trip"})
		return
	}
	if err := h.tripRepo.Delete(tripID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *TripHandler) ListMembers(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	members, err := h.tripRepo.ListMembers(tripID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *TripHandler) UpdateMemberRole(c *gin.Context) {
	if requireAdmin(c, h.tripRepo) == nil {
		return
	}
	targetID, _ := strconv.ParseUint(c.Param("user_id"), 10, 64)
	var req struct {
		Role string `json:"role" binding:"required,oneof=ADMIN MEMBER"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target, err := h.tripRepo.GetMember(tripID(c), uint(targetID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}
	if target.Role == domain.TripRoleCreator {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot change the creator's role"})
		return
	}
	if err := h.tripRepo.UpdateMemberRole(tripID(c), uint(targetID), req.Role); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RemoveMember removes another member (admin) or lets a member leave.
func (h *TripHandler) RemoveMember(c *gin.Context) {
	m := requireMember(c, h.tripRepo)
	if m == nil {
		return
	}
	targetID64, _ := strconv.ParseUint(c.Param("user_id"), 10, 64)
	targetID := uint(targetID64)
	userID := middleware.GetUserID(c)
	isSelf := targetID == userID
	isAdmin := m.Role == domain.TripRoleCreator || m.Role == domain.TripRoleAdmin
	if !isSelf && !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}
	target, err := h.tripRepo.GetMember(tripID(c), targetID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}
	if target.Role == domain.TripRoleCreator {
		c.JSON(http.StatusForbidden, gin.H{"error": "the creator cannot be removed"})
		return
	}
	if err := h.tripRepo.RemoveMember(tripID(c), targetID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "remove failed"})
		return
	}
	tid := tripID(c)
	_ = h.notifSvc.NotifyTripMembers(tid, userID, domain.NotifTypeMemberLeft, &tid,
		"Member left", "A member has left the trip", nil)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
