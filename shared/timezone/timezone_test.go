package timezone_test

import (
	"testing"
	"time"

	"rentals/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUse(t *testing.T) {
	t.Cleanup(func() { timezone.Use("UTC") })

	timezone.Use("Asia/Jakarta")
	assert.Equal(t, "Asia/Jakarta", timezone.Location().String())
	assert.Equal(t, "Asia/Jakarta", timezone.Now().Location().String())

	timezone.Use("Mars/Olympus_Mons")
	assert.Equal(t, time.UTC, timezone.Location())

	timezone.Use("")
	assert.Equal(t, time.UTC, timezone.Location())
}

func TestFormat(t *testing.T) {
	t.Cleanup(func() { timezone.Use("UTC") })

	timezone.Use("Asia/Jakarta")

	noonUTC := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-16T19:00:00+07:00", timezone.Format(noonUTC, time.RFC3339))
}

func TestDay(t *testing.T) {
	layouts := []string{"2006-01-02", time.RFC3339, "Mon Jan 02 2006"}

	tests := []struct {
		name     string
		zone     string
		value    string
		want     time.Time
		wantFail bool
	}{
		{name: "iso day", zone: "UTC", value: "2026-10-16", want: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)},
		{name: "browser date string", zone: "UTC", value: " Fri Oct 16 2026 ", want: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)},
		{
			name:  "timestamp lands on the local day",
			zone:  "Asia/Jakarta",
			value: "2026-10-16T20:00:00Z",
			want:  time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
		},
		{name: "garbage", zone: "UTC", value: "next friday", wantFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() { timezone.Use("UTC") })
			timezone.Use(tt.zone)

			got, err := timezone.Day(tt.value, layouts...)
			if tt.wantFail {
				require.ErrorIs(t, err, timezone.ErrUnparseable)

				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}
