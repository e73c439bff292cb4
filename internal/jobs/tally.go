package jobs

import (
	"tripmate/internal/models"
)

// Tally is the vote count breakdown for one poll.
type Tally struct {
	// Counts maps option ID to its vote count.
	Counts     map[uint]int
	TotalVotes int
	MaxVotes   int
	// Leaders are the options sharing the maximum count, in option
	// order. With zero votes every option is a leader at zero.
	Leaders []models.PollOption
}

// TallyVotes counts votes per option and finds the leaders. Pure;
// same input always yields the same classification. There is no
// secondary tie-break: every option at the max is reported.
func TallyVotes(options []models.PollOption) Tally {
	t := Tally{Counts: make(map[uint]int, len(options))}
	for _, opt := range options {
		n := len(opt.Votes)
		t.Counts[opt.ID] = n
		t.TotalVotes += n
		if n > t.MaxVotes {
			t.MaxVotes = n
		}
	}
	for _, opt := range options {
		if t.Counts[opt.ID] == t.MaxVotes {
			t.Leaders = append(t.Leaders, opt)
		}
	}
	return t
}

// Winner returns the single leading option, or nil on a tie. A poll
// where all options (or none) share the max has no winner.
func (t Tally) Winner() *models.PollOption {
	if len(t.Leaders) != 1 {
		return nil
	}
	return &t.Leaders[0]
}
