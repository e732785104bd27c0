// Package timeconv converts between epoch milliseconds, epoch seconds, and
// ISO datetime text, formatting for display in a configured home timezone.
package timeconv

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
	_ "time/tzdata" // home zone must resolve even without a system zoneinfo db
)

const (
	// DefaultZoneName is the home timezone used when none is configured.
	DefaultZoneName = "America/New_York"

	// DefaultLayout is the default display layout for formatted times.
	DefaultLayout = "2006-01-02T15:04:05"

	// TimestampLayout is the short layout used for log timestamps.
	TimestampLayout = "06-01-02T15:04:05"
)

// Value is a time value in one of the three wire formats this library deals
// with: server epoch milliseconds, local epoch seconds, or ISO datetime text.
type Value interface {
	// Epoch returns the value as UTC epoch seconds.
	Epoch() (float64, error)
}

// Millis is an epoch timestamp in integer milliseconds.
type Millis int64

func (m Millis) Epoch() (float64, error) {
	return float64(m) / 1000.0, nil
}

// Seconds is an epoch timestamp in fractional seconds, as from time.Now().
type Seconds float64

func (s Seconds) Epoch() (float64, error) {
	return float64(s), nil
}

// IsoText is an ISO datetime string such as "2019-04-01T12:30:00.25Z".
type IsoText string

func (t IsoText) Epoch() (float64, error) {
	return ParseISO(string(t))
}

// isoRe matches YYYY-MM-DDTHH:MM:SS with optional fractional seconds and a
// Zulu or +-HHMM zone suffix. Other zone spellings are rejected.
var isoRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2})(\.\d+)?(Z|[+-]\d{4})$`)

// ParseISO parses ISO-like datetime text to UTC epoch seconds. The zone
// suffix must be 'Z' or +-HHMM; fractional seconds may have any number of
// digits.
func ParseISO(s string) (float64, error) {
	m := isoRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%q does not match ISO datetime format", s)
	}

	base, err := time.Parse(DefaultLayout, m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid datetime %q: %w", s, err)
	}
	secs := float64(base.Unix())

	if m[2] != "" {
		frac, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid fractional seconds in %q: %w", s, err)
		}
		secs += frac
	}

	if zone := m[3]; zone != "Z" {
		hours, _ := strconv.Atoi(zone[1:3])
		mins, _ := strconv.Atoi(zone[3:5])
		offset := float64((hours*60 + mins) * 60)
		if zone[0] == '+' {
			secs -= offset
		} else {
			secs += offset
		}
	}
	return secs, nil
}

// MillisToSecs converts server epoch milliseconds to local epoch seconds,
// applying delta to correct for server clock skew.
func MillisToSecs(millis int64, delta float64) float64 {
	return float64(millis)/1000.0 + delta
}

// SecsToMillis converts local epoch seconds to server epoch milliseconds,
// applying delta to correct for server clock skew.
func SecsToMillis(secs float64, delta float64) int64 {
	return int64((secs - delta) * 1000.0)
}

// Zone formats and parses times in a fixed home timezone.
type Zone struct {
	loc *time.Location
}

// NewZone resolves an IANA timezone name, e.g. "America/New_York".
func NewZone(name string) (*Zone, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return &Zone{loc: loc}, nil
}

// Default returns the default home zone, falling back to UTC when the
// timezone database is unavailable.
func Default() *Zone {
	loc, err := time.LoadLocation(DefaultZoneName)
	if err != nil {
		loc = time.UTC
	}
	return &Zone{loc: loc}
}

// Location returns the underlying *time.Location.
func (z *Zone) Location() *time.Location {
	return z.loc
}

// FromEpoch converts UTC epoch seconds to a time in the home zone.
func (z *Zone) FromEpoch(secs float64) time.Time {
	sec := int64(secs)
	nsec := int64((secs - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).In(z.loc)
}

// Format renders v in the home zone using the given layout. IsoText that
// cannot be parsed is returned unchanged rather than failing, so callers can
// pass through already-formatted text. When millis is true a 3-digit
// fractional seconds suffix is appended.
func (z *Zone) Format(v Value, layout string, millis bool) string {
	secs, err := v.Epoch()
	if err != nil {
		if txt, ok := v.(IsoText); ok {
			return string(txt)
		}
		return fmt.Sprint(v)
	}

	dt := z.FromEpoch(secs)
	s := dt.Format(layout)
	if millis {
		frac := fmt.Sprintf("%.3f", float64(dt.Nanosecond())/1e9)
		s += frac[1:] // keep ".mmm"
	}
	return s
}

// Parse interprets value as home-zone local time in the given layout and
// returns UTC epoch seconds.
func (z *Zone) Parse(value, layout string) (float64, error) {
	dt, err := time.ParseInLocation(layout, value, z.loc)
	if err != nil {
		return 0, err
	}
	return float64(dt.UnixNano()) / 1e9, nil
}
