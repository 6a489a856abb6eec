package types

import (
	"math"
	"time"
)

// MacTime is a classic Mac OS timestamp: unsigned seconds since
// 1904-01-01 00:00:00. Volumes store local time without a zone; it is
// interpreted as UTC.
type MacTime uint32

// macEpochDelta is the number of seconds between 1904-01-01 and 1970-01-01.
const macEpochDelta = 2082844800

// Time converts the timestamp to a time.Time. A zero timestamp yields the
// zero time.Time.
func (t MacTime) Time() time.Time {
	if t == 0 {
		return time.Time{}
	}
	return time.Unix(int64(t)-macEpochDelta, 0).UTC()
}

// IsZero reports whether the timestamp was never set
func (t MacTime) IsZero() bool {
	return t == 0
}

// MacTimeFrom converts a time.Time to a MacTime, clamping to the
// representable range.
func MacTimeFrom(t time.Time) MacTime {
	if t.IsZero() {
		return 0
	}
	secs := t.Unix() + macEpochDelta
	switch {
	case secs < 0:
		return 0
	case secs > math.MaxUint32:
		return MacTime(math.MaxUint32)
	}
	return MacTime(secs)
}
