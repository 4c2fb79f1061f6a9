package components

import (
	"fmt"
	"strconv"
	"time"
)

// Millis renders a duration as whole milliseconds
func Millis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
}

// Clock renders a duration as m:ss
func Clock(d time.Duration) string {
	total := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Percent renders a percentage with one decimal place
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// Rate renders a per-minute rate with one decimal place
func Rate(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
