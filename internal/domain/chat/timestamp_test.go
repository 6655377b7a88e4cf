package chat

import (
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}

func TestTimestampConverter_Format(t *testing.T) {
	c := &TimestampConverter{Location: time.UTC}

	tests := []struct {
		name     string
		raw      int64
		expected string
	}{
		{"epoch anchor", 0, "2001-01-01 00:00:00"},
		{"one minute", 60_000_000_000, "2001-01-01 00:01:00"},
		{"sub second truncated", 1_999_999_999, "2001-01-01 00:00:01"},
		{"before anchor", -1_000_000_000, "2000-12-31 23:59:59"},
		{"recent", 700_000_000_000_000_000, "2023-03-08 20:26:40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Format(ts(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTimestampConverter_LocalZone(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	c := &TimestampConverter{Location: loc}

	got, err := c.Format(ts(0))
	require.NoError(t, err)
	assert.Equal(t, "2001-01-01 08:00:00", got)
}

func TestTimestampConverter_Invalid(t *testing.T) {
	c := &TimestampConverter{Location: time.UTC}

	_, err := c.Format(sql.NullInt64{})
	assert.True(t, errors.Is(err, ErrInvalidTimestamp))

}

func TestTimestampConverter_Extremes(t *testing.T) {
	c := &TimestampConverter{Location: time.UTC}

	got, err := c.Format(ts(math.MaxInt64))
	require.NoError(t, err)
	assert.Equal(t, "2293-04-11 23:47:16", got)

	got, err = c.Format(ts(math.MinInt64))
	require.NoError(t, err)
	assert.Equal(t, "1708-09-22 00:12:43", got)
}

func TestTimestampConverter_NilLocationUsesLocal(t *testing.T) {
	c := &TimestampConverter{}
	got, err := c.Time(ts(0))
	require.NoError(t, err)
	assert.Equal(t, time.Local, got.Location())
	assert.Equal(t, int64(AppleEpochOffset), got.Unix())
}
