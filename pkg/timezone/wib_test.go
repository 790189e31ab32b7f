package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayRange(t *testing.T) {
	// 2024-03-10 18:30 UTC is already 2024-03-11 01:30 WIB
	r := DayRange(time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2024, 3, 10, 17, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2024, 3, 11, 17, 0, 0, 0, time.UTC), r.End)
}

func TestParseDay(t *testing.T) {
	r, err := ParseDay("2024-01-01")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, 12, 31, 17, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, 24*time.Hour, r.End.Sub(r.Start))
	assert.True(t, r.Contains(r.Start))
	assert.False(t, r.Contains(r.End))

	_, err = ParseDay("01/01/2024")
	assert.Error(t, err)
}

func TestMonthRange(t *testing.T) {
	r, err := MonthRange(2024, 2)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 17, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2024, 2, 29, 17, 0, 0, 0, time.UTC), r.End)

	dec, err := MonthRange(2023, 12)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 31, 17, 0, 0, 0, time.UTC), dec.End)

	_, err = MonthRange(2024, 13)
	assert.Error(t, err)
	_, err = MonthRange(0, 1)
	assert.Error(t, err)
}

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2024-03-11", DateKey(time.Date(2024, 3, 10, 17, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-10", DateKey(time.Date(2024, 3, 10, 16, 59, 59, 0, time.UTC)))
}
