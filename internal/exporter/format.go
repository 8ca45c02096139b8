package exporter

import (
	"math"
	"strconv"
	"time"
)

// TimeLayout is the timestamp format of every persisted table.
const TimeLayout = "2006-01-02 15:04:05"

// formatFloat writes the shortest representation that round-trips. NaN and
// infinities are missing values.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatBool writes flags as 0/1.
func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}
