package utils

import (
	"fmt"
	"time"
)

// CalendarDateLayout is used once a timestamp is a week old or more (en-US style).
const CalendarDateLayout = "1/2/2006"

// FormatRelativeTime renders how long ago ts happened relative to now:
// "just now", "5m ago", "3h ago", "2d ago", or a calendar date after a week.
// Counts are floored. Timestamps in the future count as "just now".
func FormatRelativeTime(now, ts time.Time) string {
	seconds := int64(now.Sub(ts) / time.Second)

	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh ago", seconds/3600)
	case seconds < 604800:
		return fmt.Sprintf("%dd ago", seconds/86400)
	default:
		return ts.In(now.Location()).Format(CalendarDateLayout)
	}
}
