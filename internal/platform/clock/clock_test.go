package clock

import (
	"testing"
	"time"

	ulid "github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday_TruncatesToUTCMidnight(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	c := Fixed(time.Date(2024, 3, 1, 23, 30, 0, 0, berlin))

	got := Today(c)

	// 23:30 CET is still March 1st in local terms; Date uses the instant's own calendar day
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestAddWeeks(t *testing.T) {
	d := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-12", FormatDate(AddWeeks(d, 3)))
	assert.Equal(t, "2024-02-27", FormatDate(AddWeeks(d, 1)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, d.Location())

	_, err = ParseDate("31.01.2024")
	assert.Error(t, err)
}

func TestULIDGen(t *testing.T) {
	now := time.Now()
	id := ULIDGen{}.NewULID(now)

	parsed, err := ulid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(now), parsed.Time())
}
