package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tripmate/internal/domain"
	"tripmate/internal/middleware"
	"tripmate/internal/models"
	"tripmate/internal/repository"
	"tripmate/internal/ws"
	"tripmate/pkg/location"
)

type LocationHandler struct {
	locRepo  *repository.LocationRepository
	tripRepo *repository.TripRepository
	mapHub   *ws.Hub
}

func NewLocationHandler(locRepo *repository.LocationRepository, tripRepo *repository.TripRepository, mapHub *ws.Hub) *LocationHandler {
	return &LocationHandler{locRepo: locRepo, tripRepo: tripRepo, mapHub: mapHub}
}

type locationRequest struct {
	Name      string  `json:"name" binding:"required,max=255"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	Category  string  `json:"category"`
	Note      string  `json:"note"`
}

func (h *LocationHandler) Create(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l := &models.MarkedLocation{
		TripID:      tripID(c),
		Name:        req.Name,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Category:    req.Category,
		Note:        req.Note,
		CreatedByID: middleware.GetUserID(c),
	}
	if err := h.locRepo.Create(l); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	// Anyone looking at the trip map sees the new pin immediately.
	h.mapHub.BroadcastToTrip(l.TripID, gin.H{"type": "location_added", "location": l})
	c.JSON(http.StatusCreated, l)
}

func (h *LocationHandler) List(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	list, err := h.locRepo.ListByTripID(tripID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": list})
}

func (h *LocationHandler) getOwned(c *gin.Context) *models.MarkedLocation {
	m := requireMember(c, h.tripRepo)
	if m == nil {
		return nil
	}
	id, _ := strconv.ParseUint(c.Param("location_id"), 10, 64)
	l, err := h.locRepo.GetByID(uint(id))
	if err != nil || l.TripID != tripID(c) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return nil
	}
	isAdmin := m.Role == domain.TripRoleCreator || m.Role == domain.TripRoleAdmin
	if !isAdmin && l.CreatedByID != middleware.GetUserID(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not allowed to modify this location"})
		return nil
	}
	return l
}

func (h *LocationHandler) Update(c *gin.Context) {
	l := h.getOwned(c)
	if l == nil {
		return
	}
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l.Name = req.Name
	l.Address = req.Address
	l.Latitude = req.Latitude
	l.Longitude = req.Longitude
	l.Category = req.Category
	l.Note = req.Note
	if err := h.locRepo.Update(l); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.mapHub.BroadcastToTrip(l.TripID, gin.H{"type": "location_updated", "location": l})
	c.JSON(http.StatusOK, l)
}

func (h *LocationHandler) Delete(c *gin.Context) {
	l := h.getOwned(c)
	if l == nil {
		return
	}
	if err := h.locRepo.Delete(l.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	h.mapHub.BroadcastToTrip(l.TripID, gin.H{"type": "location_removed", "location_id": l.ID})
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Distance returns the distance in km between two marked locations.
func (h *LocationHandler) Distance(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	fromID, _ := strconv.ParseUint(c.Query("from"), 10, 64)
	toID, _ := strconv.ParseUint(c.Query("to"), 10, 64)
	from, err := h.locRepo.GetByID(uint(fromID))
	if err != nil || from.TripID != tripID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "from location not found"})
		return
	}
	to, err := h.locRepo.GetByID(uint(toID))
	if err != nil || to.TripID != tripID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "to location not found"})
		return
	}
	km := location.HaversineKm(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
	c.JSON(http.StatusOK, gin.H{"distance_km": km})
}
