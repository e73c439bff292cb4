package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tripmate/internal/domain"
	"tripmate/internal/middleware"
	"tripmate/internal/models"
	"tripmate/internal/repository"
	"tripmate/internal/service"
)

type ExpenseHandler struct {
	expenseRepo *repository.ExpenseRepository
	tripRepo    *repository.TripRepository
	notifSvc    *service.NotificationService
}

func NewExpenseHandler(expenseRepo *repository.ExpenseRepository, tripRepo *repository.TripRepository, notifSvc *service.NotificationService) *ExpenseHandler {
	return &ExpenseHandler{expenseRepo: expenseRepo, tripRepo: tripRepo, notifSvc: notifSvc}
}

type splitRequest struct {
	UserID      uint  `json:"user_id" binding:"required"`
	AmountCents int64 `json:"amount_cents"`
}

// SplitEqually divides amount over n users; the remainder cents go to
// the first splits so the total always matches.
func SplitEqually(amountCents int64, userIDs []uint) []models.ExpenseSplit {
	n := int64(len(userIDs))
	if n == 0 {
		return nil
	}
	base := amountCents / n
	remainder := amountCents % n
	splits := make([]models.ExpenseSplit, len(userIDs))
	for i, id := range userIDs {
		amount := base
		if int64(i) < remainder {
			amount++
		}
		splits[i] = models.ExpenseSplit{UserID: id, AmountCents: amount}
	}
	return splits
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	var req struct {
		Description string         `json:"description" binding:"required,max=255"`
		AmountCents int64          `json:"amount_cents" binding:"required,gt=0"`
		Category    string         `json:"category" binding:"omitempty,oneof=FOOD TRANSPORT LODGING ACTIVITY OTHER"`
		Splits      []splitRequest `json:"splits"` // empty: equal split across all members
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Category == "" {
		req.Category = domain.ExpenseCategoryOther
	}
	userID := middleware.GetUserID(c)
	tid := tripID(c)

	var splits []models.ExpenseSplit
	if len(req.Splits) == 0 {
		ids, err := h.tripRepo.MemberUserIDs(tid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "member lookup failed"})
			return
		}
		splits = SplitEqually(req.AmountCents, ids)
	} else {
		var total int64
		for _, s := range req.Splits {
			if _, err := h.tripRepo.GetMember(tid, s.UserID); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "split user is not a trip member"})
				return
			}
			total += s.AmountCents
			splits = append(splits, models.ExpenseSplit{UserID: s.UserID, AmountCents: s.AmountCents})
		}
		if total != req.AmountCents {
			c.JSON(http.StatusBadRequest, gin.H{"error": "splits must sum to amount_cents"})
			return
		}
	}
	// The payer's own share is settled from the start.
	for i := range splits {
		if splits[i].UserID == userID {
			splits[i].Settled = true
		}
	}
	e := &models.Expense{
		TripID:      tid,
		PaidByID:    userID,
		Description: req.Description,
		AmountCents: req.AmountCents,
		Category:    req.Category,
	}
	if err := h.expenseRepo.Create(e, splits); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	eid := e.ID
	_ = h.notifSvc.NotifyTripMembers(tid, userID, domain.NotifTypeExpenseAdded, &eid,
		"New expense", "\""+e.Description+"\" was added to the trip expenses", nil)
	e.Splits = splits
	c.JSON(http.StatusCreated, e)
}

func (h *ExpenseHandler) List(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	list, err := h.expenseRepo.ListByTripID(tripID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": list})
}

// Balances summarizes what each member paid, owes, and their net
// position (positive: others owe them).
func (h *ExpenseHandler) Balances(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	expenses, err := h.expenseRepo.ListByTripID(tripID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	paid := map[uint]int64{}
	owed := map[uint]int64{}
	for _, e := range expenses {
		paid[e.PaidByID] += e.AmountCents
		for _, s := range e.Splits {
			owed[s.UserID] += s.AmountCents
		}
	}
	users := map[uint]struct{}{}
	for id := range paid {
		users[id] = struct{}{}
	}
	for id := range owed {
		users[id] = struct{}{}
	}
	balances := make([]gin.H, 0, len(users))
	for id := range users {
		balances = append(balances, gin.H{
			"user_id":    id,
			"paid_cents": paid[id],
			"owed_cents": owed[id],
			"net_cents":  paid[id] - owed[id],
		})
	}
	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

// SettleSplit marks a split as paid back. Only the expense payer or
// the debtor themselves can settle it.
func (h *ExpenseHandler) SettleSplit(c *gin.Context) {
	if requireMember(c, h.tripRepo) == nil {
		return
	}
	splitID, _ := strconv.ParseUint(c.Param("split_id"), 10, 64)
	s, err := h.expenseRepo.GetSplit(uint(splitID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "split not found"})
		return
	}
	e, err := h.expenseRepo.GetByID(s.ExpenseID)
	if err != nil || e.TripID != tripID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
		return
	}
	userID := middleware.GetUserID(c)
	if userID != e.PaidByID && userID != s.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to settle this split"})
		return
	}
	if err := h.expenseRepo.SettleSplit(s.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settle failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Delete removes an expense with its splits. Payer or trip admin only.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	m := requireMember(c, h.tripRepo)
	if m == nil {
		return
	}
	expenseID, _ := strconv.ParseUint(c.Param("expense_id"), 10, 64)
	e, err := h.expenseRepo.GetByID(uint(expenseID))
	if err != nil || e.TripID != tripID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
		return
	}
	isAdmin := m.Role == domain.TripRoleCreator || m.Role == domain.TripRoleAdmin
	if !isAdmin && e.PaidByID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to delete this expense"})
		return
	}
	if err := h.expenseRepo.Delete(e.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
