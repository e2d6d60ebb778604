package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRangeBothBounds(t *testing.T) {
	r, err := parseDateRange("2025-11-03", "2025-11-07")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2025, 11, 7, 0, 0, 0, 0, time.UTC), r.End)
}

func TestParseDateRangeEmpty(t *testing.T) {
	r, err := parseDateRange("", "")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestParseDateRangeFromOnlyEndsToday(t *testing.T) {
	r, err := parseDateRange("2025-01-01", "")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, today(), r.End)
}

func TestParseDateRangeToOnlyIsSingleDay(t *testing.T) {
	r, err := parseDateRange("", "2025-11-03")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, r.Start, r.End)
}

func TestParseDateRangeInvalid(t *testing.T) {
	_, err := parseDateRange("2025-13-40", "2025-11-07")
	assert.Error(t, err)

	_, err = parseDateRange("2025-11-07", "2025-11-03")
	assert.Error(t, err)
}
