package jobs

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tripmate/internal/domain"
	"tripmate/internal/models"
	"tripmate/internal/repository"
	"tripmate/internal/service"
)

// Reconciler holds the two reconciliation passes run on every scheduler
// tick: delivering due scheduled notifications and resolving expired
// polls. Both are idempotent; the database filter conditions
// (is_sent = false, status = ACTIVE) act as the claim, which assumes a
// single running instance of this job.
type Reconciler struct {
	notifRepo *repository.NotificationRepository
	pollRepo  *repository.PollRepository
	notifier  *service.NotificationService
}

func NewReconciler(notifRepo *repository.NotificationRepository, pollRepo *repository.PollRepository, notifier *service.NotificationService) *Reconciler {
	return &Reconciler{notifRepo: notifRepo, pollRepo: pollRepo, notifier: notifier}
}

// DispatchDueNotifications delivers scheduled notifications whose send
// time has arrived. Rows are marked sent BEFORE the recipient-facing
// rows are written: a crash between the two steps loses the batch
// rather than delivering it twice (at-most-once delivery).
func (r *Reconciler) DispatchDueNotifications(now time.Time) error {
	due, err := r.notifRepo.FindDueScheduled(now)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}
	ids := make([]uint, len(due))
	for i, sn := range due {
		ids[i] = sn.ID
	}
	if err := r.notifRepo.MarkScheduledSent(ids); err != nil {
		// Nothing was claimed; the whole batch is retried next tick.
		return err
	}
	batch := make([]models.Notification, len(due))
	for i, sn := range due {
		batch[i] = models.Notification{
			UserID:    sn.UserID,
			Type:      sn.Type,
			RelatedID: sn.RelatedID,
			Title:     sn.Title,
			Message:   sn.Message,
			Data:      sn.Data,
		}
	}
	if err := r.notifRepo.CreateBatch(batch); err != nil {
		// The rows are already marked sent and no longer match the due
		// query, so this batch is lost. Surface it loudly for the
		// operator; there is no automatic recovery.
		logrus.WithError(err).WithField("count", len(batch)).
			Error("dispatcher: notifications lost after mark-sent (at-most-once window)")
		return err
	}
	logrus.WithField("count", len(batch)).Info("dispatcher: delivered scheduled notifications")
	return nil
}

// ResolveExpiredPolls finalizes every ACTIVE poll past its deadline.
// Each poll is processed independently; one failure does not stop the
// rest, and a failed poll stays ACTIVE for the next tick.
func (r *Reconciler) ResolveExpiredPolls(now time.Time) error {
	expired, err := r.pollRepo.FindExpiredActive(now)
	if err != nil {
		return err
	}
	var failed int
	for i := range expired {
		if err := r.ResolvePoll(&expired[i]); err != nil {
			failed++
			logrus.WithError(err).WithField("poll_id", expired[i].ID).Error("resolver: poll resolution failed")
		}
	}
	if failed > 0 {
		return fmt.Errorf("resolver: %d of %d expired polls failed", failed, len(expired))
	}
	return nil
}

// ResolvePoll tallies one poll and persists the outcome. The poll must
// have Options and their Votes loaded. No-op unless the poll is still
// ACTIVE, so re-running after completion cannot double-resolve. Also
// used by the early-close endpoint.
func (r *Reconciler) ResolvePoll(p *models.Poll) error {
	if !p.IsActive() {
		return nil
	}
	tally := TallyVotes(p.Options)

	status := domain.PollStatusTie
	var winnerID *uint
	var message string
	switch {
	case tally.TotalVotes == 0:
		message = fmt.Sprintf("Poll %q ended with no votes.", p.Question)
	case tally.Winner() != nil:
		w := tally.Winner()
		status = domain.PollStatusCompleted
		winnerID = &w.ID
		message = fmt.Sprintf("Poll %q ended. Winner: %s (%d votes).", p.Question, w.Option, tally.MaxVotes)
	default:
		texts := make([]string, len(tally.Leaders))
		for i, opt := range tally.Leaders {
			texts[i] = opt.Option
		}
		message = fmt.Sprintf("Poll %q ended in a tie between %s.", p.Question, strings.Join(texts, ", "))
	}

	// completed_at records the deadline itself, not when this tick ran.
	if err := r.pollRepo.SetResolution(p.ID, status, winnerID, p.ExpiresAt); err != nil {
		return err
	}
	p.Status = status
	p.WinnerID = winnerID

	// Everyone on the trip hears the outcome, the creator included.
	pollID := p.ID
	return r.notifier.NotifyTripMembers(p.TripID, 0, domain.NotifTypePollCompleted, &pollID,
		"Poll ended", message, map[string]interface{}{"poll_id": p.ID, "trip_id": p.TripID, "status": status})
}
