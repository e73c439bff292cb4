package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tripmate/internal/domain"
	"tripmate/internal/middleware"
	"tripmate/internal/models"
	"tripmate/internal/repository"
	"tripmate/internal/service"
)

// eventReminderLead is how far before an event its reminder fires.
const eventReminderLead = 30 * time.Minute

type EventHandler struct {
	eventRepo *repository.EventRepository
	tripRepo  *repository.TripRepository
	notifSvc  *service.NotificationService
}

func NewEventHandler(eventRepo *repository.EventRepository, tripRepo *repository.TripRepository, notifSvc *service.NotificationService) *EventHandler {
	return &EventHandler{eventRepo: eventRepo, tripRepo: tripRepo, notifSvc: notifSvc}
}

type eventRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartsAt    string `json:"starts_at" binding:"required"` // RFC3339
	EndsAt      string `json:"ends_at"`
}

func (h *EventHandler) Create(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid starts_at (use RFC3339)"})
		return
	}
	var endsAt *time.Time
	if req.EndsAt != "" {
		t, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ends_at (use RFC3339)"})
			return
		}
		endsAt = &t
	}
	userID := middleware.GetUserID(c)
	e := &models.ItineraryEvent{
		TripID:      tripID(c),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		CreatedByID: userID,
	}
	if err := h.eventRepo.Create(e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	eid := e.ID
	_ = h.notifSvc.NotifyTripMembers(e.TripID, userID, domain.NotifTypeEventCreated, &eid,
		"New itinerary event", "\""+e.Title+"\" was added to the itinerary", nil)
	// Queue a reminder shortly before the event for every member.
	if sendAt := startsAt.Add(-eventReminderLead); sendAt.After(time.Now()) {
		_ = h.notifSvc.ScheduleForTripMembers(e.TripID, domain.NotifTypeEventReminder, &eid,
			"Upcoming event", "\""+e.Title+"\" starts in 30 minutes", domain.ChannelPush, sendAt)
	}
	c.JSON(http.StatusCreated, e)
}

func (h *EventHandler) List(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	list, err := h.eventRepo.ListByTripID(tripID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": list})
}

// canMutateEvent: trip admins or the event author.
func (h *EventHandler) canMutateEvent(c *gin.Context) *models.ItineraryEvent {
	m := requireMember(c, h.tripRepo)
	if m == nil {
		return nil
	}
	id, _ := strconv.ParseUint(c.Param("event_id"), 10, 64)
	e, err := h.eventRepo.GetByID(uint(id))
	if err != nil || e.TripID != tripID(c) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return nil
	}
	isAdmin := m.Role == domain.TripRoleCreator || m.Role == domain.TripRoleAdmin
	if !isAdmin && e.CreatedByID != middleware.GetUserID(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not allowed to modify this event"})
		return nil
	}
	return e
}

func (h *EventHandler) Update(c *gin.Context) {
	e := h.canMutateEvent(c)
	if e == nil {
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid starts_at (use RFC3339)"})
		return
	}
	e.Title = req.Title
	e.Description = req.Description
	e.Location = req.Location
	e.StartsAt = startsAt
	if req.EndsAt != "" {
		if t, err := time.Parse(time.RFC3339, req.EndsAt); err == nil {
			e.EndsAt = &t
		}
	}
	if err := h.eventRepo.Update(e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EventHandler) Delete(c *gin.Context) {
	e := h.canMutateEvent(c)
	if e == nil {
		return
	}
	if err := h.eventRepo.Delete(e.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
