package league

import (
	"fmt"
	"time"
)

// NextReset returns the next Monday 00:00 in now's location, strictly after
// now. At exactly Monday midnight the following Monday is returned.
func NextReset(now time.Time) time.Time {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	days := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	next := midnight.AddDate(0, 0, days)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// Remaining returns the time left until the next reset. It is never
// negative.
func Remaining(now time.Time) time.Duration {
	return max(NextReset(now).Sub(now), 0)
}

// FormatRemaining renders d as "Xd Yh Zm".
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	mins := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
}

// Countdown is the formatted time until the next reset.
func Countdown(now time.Time) string {
	return FormatRemaining(Remaining(now))
}
