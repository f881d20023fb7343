package dateutil_test

import (
	"testing"
	"time"

	"go-worktrack/internal/shared/dateutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("calendar date", func(t *testing.T) {
		d, err := dateutil.Parse("2024-03-01")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("timestamp truncated to day", func(t *testing.T) {
		d, err := dateutil.Parse("2024-03-01T15:04:05Z")
		require.NoError(t, err)
		assert.Equal(t, "2024-03-01", dateutil.Format(d))
	})

	t.Run("negative garbage", func(t *testing.T) {
		_, err := dateutil.Parse("01/03/2024")
		assert.Error(t, err)
	})
}

func TestDaysInclusive(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2024-01-01", "2024-01-05", 5},
		{"2024-03-01", "2024-03-03", 3},
		{"2024-03-01", "2024-03-01", 1},
		{"2024-02-28", "2024-03-01", 3},
		{"2023-12-31", "2024-01-01", 2},
	}

	for _, tc := range cases {
		s, _ := dateutil.Parse(tc.start)
		e, _ := dateutil.Parse(tc.end)
		assert.Equal(t, tc.want, dateutil.DaysInclusive(s, e), "%s..%s", tc.start, tc.end)
	}
}

func TestFormatPtr(t *testing.T) {
	assert.Nil(t, dateutil.FormatPtr(nil))
	d := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-02", *dateutil.FormatPtr(&d))
}
