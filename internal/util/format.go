package util

import (
	"fmt"
	"math"
	"time"
)

func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// FormatDuration prints load and frame timings: "850ms", "2.4s", "1m 05s".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm %02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}

// FormatBytes prints a file size using binary units.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatYear renders an astronomical year as "500 BC" or "AD 1066".
// Fractional years are floored; infinities print as "-∞" and "+∞".
func FormatYear(year float64) string {
	switch {
	case math.IsInf(year, -1):
		return "-∞"
	case math.IsInf(year, 1):
		return "+∞"
	case math.IsNaN(year):
		return "?"
	}
	y := int(math.Floor(year))
	if y < 0 {
		return fmt.Sprintf("%d BC", -y)
	}
	return fmt.Sprintf("AD %d", y)
}

// FormatYearRange renders a validity range, e.g. "27 BC – AD 476".
func FormatYearRange(start, end float64) string {
	return FormatYear(start) + " – " + FormatYear(end)
}
