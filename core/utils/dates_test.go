package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		parsed, err := ParseDate("25-12-2024")
		require.NoError(t, err)
		assert.Equal(t, 2024, parsed.Year())
		assert.Equal(t, time.December, parsed.Month())
		assert.Equal(t, 25, parsed.Day())
	})

	t.Run("Round Trip", func(t *testing.T) {
		parsed, err := ParseDate("01-02-2024")
		require.NoError(t, err)
		assert.Equal(t, "01-02-2024", FormatDate(parsed))
	})

	t.Run("Rejects ISO Format", func(t *testing.T) {
		_, err := ParseDate("2024-12-25")
		assert.Error(t, err)
	})
}

func TestDayRange(t *testing.T) {
	now := time.Date(2024, 12, 25, 15, 4, 5, 0, time.Local)
	start, end := DayRange(now)
	assert.Equal(t, time.Date(2024, 12, 25, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2024, 12, 26, 0, 0, 0, 0, time.Local), end)
	assert.True(t, now.After(start) && now.Before(end))
}
