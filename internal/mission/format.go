package mission

import (
	"fmt"
	"time"
)

// FormatRemaining renders a countdown as H:MM:SS from one hour up, M:SS
// below that, and ReadyToCompleteText once nothing is left. Partial
// seconds round up so a countdown never shows 0:00 before it is ready.
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return ReadyToCompleteText
	}

	secs := int((d + time.Second - 1) / time.Second)
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
