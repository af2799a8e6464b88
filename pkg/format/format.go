package format

import (
	"fmt"
	"math"
	"strconv"
)

const (
	KB = 1024
	MB = KB * 1024
	GB = MB * 1024
)

// Size formats a byte count into a readable string using base-1024 units
// up to GB. One decimal place, with a trailing ".0" trimmed: 1024 -> "1 KB",
// 1536 -> "1.5 KB". Zero and negative counts render as "0 B".
func Size(b int64) string {
	if b <= 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	v := float64(b)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*10) / 10
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + units[i]
}

// Duration formats a second count as minutes:seconds, e.g. 65 -> "1:05".
// Fractional seconds are floored.
func Duration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// SizeCompact formats a byte count to compact units without a space,
// e.g. 1536 -> "1.50K". Used for dense list rows.
func SizeCompact(b int64) string {
	switch {
	case b >= GB:
		return fmt.Sprintf("%.2fG", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2fM", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2fK", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%dB", b)
	}
}
