package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmate/internal/models"
)

func opt(id uint, text string, voterIDs ...uint) models.PollOption {
	o := models.PollOption{ID: id, Option: text}
	for _, uid := range voterIDs {
		o.Votes = append(o.Votes, models.Vote{PollOptionID: id, UserID: uid})
	}
	return o
}

func TestTallyVotes(t *testing.T) {
	t.Run("single winner", func(t *testing.T) {
		options := []models.PollOption{
			opt(1, "Beach", 10, 11, 12),
			opt(2, "Mountains", 13),
			opt(3, "City"),
		}
		tally := TallyVotes(options)

		assert.Equal(t, 4, tally.TotalVotes)
		assert.Equal(t, 3, tally.MaxVotes)
		assert.Equal(t, map[uint]int{1: 3, 2: 1, 3: 0}, tally.Counts)

		w := tally.Winner()
		require.NotNil(t, w)
		assert.Equal(t, uint(1), w.ID)
		assert.Equal(t, "Beach", w.Option)
	})

	t.Run("two way tie has no winner", func(t *testing.T) {
		options := []models.PollOption{
			opt(1, "Beach", 10, 11),
			opt(2, "Mountains", 12, 13),
			opt(3, "City"),
		}
		tally := TallyVotes(options)

		assert.Equal(t, 4, tally.TotalVotes)
		assert.Equal(t, 2, tally.MaxVotes)
		assert.Nil(t, tally.Winner())

		require.Len(t, tally.Leaders, 2)
		assert.Equal(t, "Beach", tally.Leaders[0].Option)
		assert.Equal(t, "Mountains", tally.Leaders[1].Option)
	})

	t.Run("zero votes makes every option a leader", func(t *testing.T) {
		options := []models.PollOption{
			opt(1, "Beach"),
			opt(2, "Mountains"),
		}
		tally := TallyVotes(options)

		assert.Equal(t, 0, tally.TotalVotes)
		assert.Equal(t, 0, tally.MaxVotes)
		assert.Nil(t, tally.Winner())
		assert.Len(t, tally.Leaders, 2)
	})

	t.Run("deterministic for the same input", func(t *testing.T) {
		options := []models.PollOption{
			opt(1, "Beach", 10),
			opt(2, "Mountains", 11),
			opt(3, "City", 12),
		}
		first := TallyVotes(options)
		for i := 0; i < 10; i++ {
			again := TallyVotes(options)
			assert.Equal(t, first.Counts, again.Counts)
			assert.Equal(t, first.Leaders, again.Leaders)
		}
	})

	t.Run("no options", func(t *testing.T) {
		tally := TallyVotes(nil)
		assert.Equal(t, 0, tally.TotalVotes)
		assert.Nil(t, tally.Winner())
		assert.Empty(t, tally.Leaders)
	})
}
