package dashboard

import (
	"fmt"
	"time"
)

// FormatDuration formats seconds as "<m>m <s>s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// TimeAgo labels ts relative to now. Future timestamps read "Just now".
func TimeAgo(ts, now time.Time) string {
	secs := int(now.Sub(ts) / time.Second)
	switch {
	case secs < 60:
		return "Just now"
	case secs < 3600:
		return fmt.Sprintf("%d min ago", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%d hours ago", secs/3600)
	default:
		return fmt.Sprintf("%d days ago", secs/86400)
	}
}
