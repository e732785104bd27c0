package timeconv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utcEpoch(year int, month time.Month, day, hour, min, sec int) float64 {
	return float64(time.Date(year, month, day, hour, min, sec, 0, time.UTC).Unix())
}

func TestParseISO(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  float64
		expectErr bool
	}{
		{
			name:     "zulu zone",
			input:    "2019-01-02T03:04:05Z",
			expected: utcEpoch(2019, time.January, 2, 3, 4, 5),
		},
		{
			name:     "fractional seconds",
			input:    "2019-01-02T03:04:05.250Z",
			expected: utcEpoch(2019, time.January, 2, 3, 4, 5) + 0.25,
		},
		{
			name:     "positive offset",
			input:    "2019-01-02T03:04:05+0130",
			expected: utcEpoch(2019, time.January, 2, 3, 4, 5) - 90*60,
		},
		{
			name:     "negative offset",
			input:    "2019-01-02T03:04:05-0500",
			expected: utcEpoch(2019, time.January, 2, 3, 4, 5) + 5*3600,
		},
		{name: "missing zone", input: "2019-01-02T03:04:05", expectErr: true},
		{name: "named zone rejected", input: "2019-01-02T03:04:05EST", expectErr: true},
		{name: "not a datetime", input: "yesterday", expectErr: true},
		{name: "empty", input: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseISO(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-6)
		})
	}
}

func TestValueEpoch(t *testing.T) {
	secs, err := Millis(1500).Epoch()
	require.NoError(t, err)
	assert.InDelta(t, 1.5, secs, 1e-9)

	secs, err = Seconds(12.25).Epoch()
	require.NoError(t, err)
	assert.InDelta(t, 12.25, secs, 1e-9)

	secs, err = IsoText("2019-01-02T03:04:05Z").Epoch()
	require.NoError(t, err)
	assert.InDelta(t, utcEpoch(2019, time.January, 2, 3, 4, 5), secs, 1e-6)

	_, err = IsoText("garbage").Epoch()
	assert.Error(t, err)
}

func TestMillisSecsRoundTrip(t *testing.T) {
	assert.InDelta(t, 1.5, MillisToSecs(1500, 0), 1e-9)
	assert.InDelta(t, 3.0, MillisToSecs(1500, 1.5), 1e-9)
	assert.Equal(t, int64(1500), SecsToMillis(1.5, 0))
	assert.Equal(t, int64(1500), SecsToMillis(3.0, 1.5))
}

func TestZoneFormat(t *testing.T) {
	z, err := NewZone("UTC")
	require.NoError(t, err)

	epoch := utcEpoch(2019, time.April, 1, 12, 30, 0)

	assert.Equal(t, "2019-04-01T12:30:00", z.Format(Seconds(epoch), DefaultLayout, false))
	assert.Equal(t, "2019-04-01T12:30:00", z.Format(Millis(int64(epoch)*1000), DefaultLayout, false))
	assert.Equal(t, "2019-04-01T12:30:00.250", z.Format(Seconds(epoch+0.25), DefaultLayout, true))
	assert.Equal(t, "19-04-01T12:30:00", z.Format(Seconds(epoch), TimestampLayout, false))

	// ISO text round-trips through the zone.
	assert.Equal(t, "2019-04-01T12:30:00", z.Format(IsoText("2019-04-01T12:30:00Z"), DefaultLayout, false))

	// Unparseable text passes through unchanged.
	assert.Equal(t, "not a date", z.Format(IsoText("not a date"), DefaultLayout, false))
}

func TestZoneFormatHomeZone(t *testing.T) {
	z, err := NewZone("America/New_York")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	// Noon UTC in January is 07:00 Eastern.
	epoch := utcEpoch(2019, time.January, 15, 12, 0, 0)
	assert.Equal(t, "2019-01-15T07:00:00", z.Format(Seconds(epoch), DefaultLayout, false))
}

func TestZoneParse(t *testing.T) {
	z, err := NewZone("UTC")
	require.NoError(t, err)

	epoch, err := z.Parse("2019-04-01T12:30:00", DefaultLayout)
	require.NoError(t, err)
	assert.InDelta(t, utcEpoch(2019, time.April, 1, 12, 30, 0), epoch, 1e-6)

	_, err = z.Parse("nope", DefaultLayout)
	assert.Error(t, err)
}

func TestZoneFromEpoch(t *testing.T) {
	z, err := NewZone("UTC")
	require.NoError(t, err)

	dt := z.FromEpoch(utcEpoch(2019, time.April, 1, 12, 30, 0) + 0.5)
	assert.Equal(t, 2019, dt.Year())
	assert.Equal(t, 30, dt.Minute())
	assert.Equal(t, 500000000, dt.Nanosecond())
}

func TestNewZoneUnknown(t *testing.T) {
	_, err := NewZone("Nowhere/Special")
	assert.Error(t, err)
}
