package services

import (
	"strconv"
	"time"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders bytes in base-1024 units with at most two decimals and
// no trailing zeros: 1536 is "1.5 KB", 1048576 is "1 MB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}

	s := strconv.FormatFloat(v, 'f', 2, 64)
	f, _ := strconv.ParseFloat(s, 64)
	return strconv.FormatFloat(f, 'f', -1, 64) + " " + sizeUnits[i]
}

// FormatDate renders a download timestamp in local time, or "never".
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}
