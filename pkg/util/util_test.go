package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextSunday(t *testing.T) {
	loc := time.UTC
	// Wednesday 2025-02-12
	got := NextSunday(time.Date(2025, 2, 12, 15, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 2, 16, 9, 0, 0, 0, loc), got)

	// Sunday rolls a full week
	got = NextSunday(time.Date(2025, 2, 16, 8, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 2, 23, 9, 0, 0, 0, loc), got)
}

func TestEditionWindow(t *testing.T) {
	start, end := EditionWindow(time.Date(2025, 2, 12, 15, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 2, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Saturday, end.Weekday())
	assert.Equal(t, 15, end.Day())
	assert.Equal(t, 23, end.Hour())
}

func TestWeekAfter(t *testing.T) {
	mon, sat := WeekAfter(time.Date(2025, 2, 16, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, "Feb 17, 2025", FormatShortDate(mon))
	assert.Equal(t, "Feb 22, 2025", FormatShortDate(sat))
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("2d")
	assert.NoError(t, err)
	assert.Equal(t, 48*time.Hour, d)

	d, err = ParseDuration("30")
	assert.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)
}

func TestTextHelpers(t *testing.T) {
	assert.Equal(t, "china-s-chip-push-hits-a-wall", Slugify("China’s Chip Push Hits a Wall!"))
	assert.Equal(t, `"quoted" - it's`, NormalizeQuotes("“quoted” — it’s"))
	assert.Equal(t, "Tom & Jerry", DecodeEntities(" Tom &amp; Jerry "))
	assert.Equal(t, "abc", Excerpt("abcdef", 3))
	assert.True(t, InSlice([]string{"a", "b"}, "b"))
	assert.Equal(t, int64(25<<20), ParseSize("25MB", 1))
}
