package time

import (
	"strings"
	"time"
)

// ShortDur shortens d.String() by dropping trailing zero units: 2m0s becomes 2m, 1h0m0s becomes 1h.
func ShortDur(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}

// Elapsed formats the time between start and end at second precision, the
// way round summaries show it. Under a second reads as "0s".
func Elapsed(start, end time.Time) string {
	d := end.Sub(start)
	if d < 0 {
		d = 0
	}
	return ShortDur(d.Round(time.Second))
}

// PerItem is the average share of d over n items, at millisecond precision.
func PerItem(d time.Duration, n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return (d / time.Duration(n)).Round(time.Millisecond)
}
