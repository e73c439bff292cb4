package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEqually(t *testing.T) {
	t.Run("even division", func(t *testing.T) {
		splits := SplitEqually(3000, []uint{1, 2, 3})
		require.Len(t, splits, 3)
		for _, s := range splits {
			assert.Equal(t, int64(1000), s.AmountCents)
		}
	})

	t.Run("remainder cents go to the first splits", func(t *testing.T) {
		splits := SplitEqually(1000, []uint{1, 2, 3})
		require.Len(t, splits, 3)
		assert.Equal(t, int64(334), splits[0].AmountCents)
		assert.Equal(t, int64(333), splits[1].AmountCents)
		assert.Equal(t, int64(333), splits[2].AmountCents)

		var total int64
		for _, s := range splits {
			total += s.AmountCents
		}
		assert.Equal(t, int64(1000), total)
	})

	t.Run("single user gets everything", func(t *testing.T) {
		splits := SplitEqually(999, []uint{7})
		require.Len(t, splits, 1)
		assert.Equal(t, uint(7), splits[0].UserID)
		assert.Equal(t, int64(999), splits[0].AmountCents)
	})

	t.Run("no users yields no splits", func(t *testing.T) {
		assert.Nil(t, SplitEqually(1000, nil))
	})
}
