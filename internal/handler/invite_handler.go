package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripmate/config"
	"tripmate/internal/domain"
	"tripmate/internal/middleware"
	"tripmate/internal/models"
	"tripmate/internal/repository"
	"tripmate/internal/service"
)

type InviteHandler struct {
	cfg        *config.Config
	inviteRepo *repository.InviteRepository
	tripRepo   *repository.TripRepository
	userRepo   *repository.UserRepository
	notifSvc   *service.NotificationService
}

func NewInviteHandler(cfg *config.Config, inviteRepo *repository.InviteRepository, tripRepo *repository.TripRepository, userRepo *repository.UserRepository, notifSvc *service.NotificationService) *InviteHandler {
	return &InviteHandler{cfg: cfg, inviteRepo: inviteRepo, tripRepo: tripRepo, userRepo: userRepo, notifSvc: notifSvc}
}

func (h *InviteHandler) Create(c *gin.Context) {
	m := requireMember(c, h.tripRepo)
	if m == nil {
		return
	}
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tid := tripID(c)
	// Already a member?
	if u, err := h.userRepo.GetByEmail(req.Email); err == nil {
		if _, err := h.tripRepo.GetMember(tid, u.ID); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "user is already a member"})
			return
		}
	}
	if pending, _ := h.inviteRepo.HasPending(tid, req.Email); pending {
		c.JSON(http.StatusConflict, gin.H{"error": "invite already pending"})
		return
	}
	inv := &models.Invite{
		TripID:    tid,
		InviterID: middleware.GetUserID(c),
		Email:     req.Email,
		Token:     uuid.NewString(),
		Status:    domain.InviteStatusPending,
		ExpiresAt: time.Now().Add(h.cfg.Invite.Expiry),
	}
	if err := h.inviteRepo.Create(inv); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	// Invitee with an account gets an in-app notification.
	if u, err := h.userRepo.GetByEmail(req.Email); err == nil {
		_ = h.notifSvc.Notify(u.ID, domain.NotifTypeTripInvite, &tid,
			"Trip invitation", "You have been invited to a trip", map[string]interface{}{"token": inv.Token})
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *InviteHandler) ListForTrip(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	list, err := h.inviteRepo.ListByTripID(tripID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invites": list})
}

// MyInvites lists pending invites addressed to the caller's email.
func (h *InviteHandler) MyInvites(c *gin.Context) {
	list, err := h.inviteRepo.ListPendingByEmail(middleware.GetEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invites": list})
}

func (h *InviteHandler) Accept(c *gin.Context) {
	h.answer(c, true)
}

func (h *InviteHandler) Decline(c *gin.Context) {
	h.answer(c, false)
}

func (h *InviteHandler) answer(c *gin.Context, accept bool) {
	userID := middleware.GetUserID(c)
	inv, err := h.inviteRepo.GetByToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invite not found"})
		return
	}
	if inv.Status != domain.InviteStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "invite already answered"})
		return
	}
	if inv.IsExpired(time.Now()) {
		c.JSON(http.StatusGone, gin.H{"error": "invite expired"})
		return
	}
	if inv.Email != middleware.GetEmail(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "invite addressed to a different email"})
		return
	}
	now := time.Now()
	inv.AnsweredAt = &now
	if !accept {
		inv.Status = domain.InviteStatusDeclined
		if err := h.inviteRepo.Update(inv); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "declined"})
		return
	}
	inv.Status = domain.InviteStatusAccepted
	if err := h.inviteRepo.Update(inv); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if err := h.tripRepo.AddMember(&models.TripMember{
		TripID:   inv.TripID,
		UserID:   userID,
		Role:     domain.TripRoleMember,
		JoinedAt: now,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "join failed"})
		return
	}
	tid := inv.TripID
	_ = h.notifSvc.NotifyTripMembers(tid, userID, domain.NotifTypeMemberJoined, &tid,
		"New member", "Someone new joined your trip", nil)
	c.JSON(http.StatusOK, gin.H{"status": "accepted", "trip_id": inv.TripID})
}
