package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tripmate/internal/domain"
	"tripmate/internal/jobs"
	"tripmate/internal/middleware"
	"tripmate/internal/models"
	"tripmate/internal/repository"
	"tripmate/internal/service"
)

type PollHandler struct {
	pollRepo *repository.PollRepository
	tripRepo *repository.TripRepository
	notifSvc *service.NotificationService
	resolver *jobs.Reconciler
}

func NewPollHandler(pollRepo *repository.PollRepository, tripRepo *repository.TripRepository, notifSvc *service.NotificationService, resolver *jobs.Reconciler) *PollHandler {
	return &PollHandler{pollRepo: pollRepo, tripRepo: tripRepo, notifSvc: notifSvc, resolver: resolver}
}

func (h *PollHandler) Create(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	var req struct {
		Question  string   `json:"question" binding:"required,max=500"`
		Options   []string `json:"options" binding:"required,min=2,dive,required,max=255"`
		ExpiresAt string   `json:"expires_at" binding:"required"` // RFC3339
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expires_at (use RFC3339)"})
		return
	}
	if !expiresAt.After(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be in the future"})
		return
	}
	userID := middleware.GetUserID(c)
	p := &models.Poll{
		TripID:      tripID(c),
		Question:    req.Question,
		Status:      domain.PollStatusActive,
		ExpiresAt:   expiresAt,
		CreatedByID: userID,
	}
	if err := h.pollRepo.Create(p, req.Options); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	pid := p.ID
	_ = h.notifSvc.NotifyTripMembers(p.TripID, userID, domain.NotifTypePollCreated, &pid,
		"New poll", "Cast your vote: "+p.Question, nil)
	c.JSON(http.StatusCreated, p)
}

// pollView adds per-option vote counts for the frontend.
func pollView(p *models.Poll) gin.H {
	tally := jobs.TallyVotes(p.Options)
	options := make([]gin.H, len(p.Options))
	for i, opt := range p.Options {
		options[i] = gin.H{"id": opt.ID, "option": opt.Option, "votes": tally.Counts[opt.ID]}
	}
	return gin.H{
		"id":           p.ID,
		"trip_id":      p.TripID,
		"question":     p.Question,
		"status":       p.Status,
		"expires_at":   p.ExpiresAt,
		"completed_at": p.CompletedAt,
		"winner_id":    p.WinnerID,
		"options":      options,
		"total_votes":  tally.TotalVotes,
	}
}

func (h *PollHandler) List(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	polls, err := h.pollRepo.ListByTripID(tripID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	out := make([]gin.H, len(polls))
	for i := range polls {
		out[i] = pollView(&polls[i])
	}
	c.JSON(http.StatusOK, gin.H{"polls": out})
}

func (h *PollHandler) Get(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	p, err := h.pollRepo.GetByID(pollID(c))
	if err != nil || p.TripID != tripID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "poll not found"})
		return
	}
	c.JSON(http.StatusOK, pollView(p))
}

func pollID(c *gin.Context) uint {
	id, _ := strconv.ParseUint(c.Param("poll_id"), 10, 64)
	return uint(id)
}

func (h *PollHandler) Vote(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	var req struct {
		OptionID uint `json:"option_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.pollRepo.GetByID(pollID(c))
	if err != nil || p.TripID != tripID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "poll not found"})
		return
	}
	if !p.IsActive() || p.ExpiresAt.Before(time.Now()) {
		c.JSON(http.StatusConflict, gin.H{"error": "poll is closed"})
		return
	}
	valid := false
	for _, opt := range p.Options {
		if opt.ID == req.OptionID {
			valid = true
			break
		}
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "option does not belong to this poll"})
		return
	}
	if err := h.pollRepo.CastVote(p.ID, req.OptionID, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "vote failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Close ends a poll before its deadline and resolves it immediately
// with the same logic the background job uses.
func (h *PollHandler) Close(c *gin.Context) {
	m := requireMember(c, h.tripRepo)
	if m == nil {
		return
	}
	p, err := h.pollRepo.GetByID(pollID(c))
	if err != nil || p.TripID != tripID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "poll not found"})
		return
	}
	isAdmin := m.Role == domain.TripRoleCreator || m.Role == domain.TripRoleAdmin
	if !isAdmin && p.CreatedByID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the poll creator or an admin can close a poll"})
		return
	}
	if !p.IsActive() {
		c.JSON(http.StatusConflict, gin.H{"error": "poll already resolved"})
		return
	}
	// Pull the deadline up to now so completed_at reflects the actual end.
	now := time.Now()
	if err := h.pollRepo.UpdateExpiry(p.ID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "close failed"})
		return
	}
	p.ExpiresAt = now
	if err := h.resolver.ResolvePoll(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve failed"})
		return
	}
	c.JSON(http.StatusOK, pollView(p))
}
