package services

import (
	"fmt"
	"time"
)

// ComputeDuration formats the elapsed time between start and end as
// "<hours> hrs <minutes> min". Hours are whole hours and minutes the
// remainder below one hour, both taken from the same delta. An end before
// start yields "0 hrs 0 min".
func ComputeDuration(start, end time.Time) string {
	d := end.Sub(start)
	if d < 0 {
		d = 0
	}
	hours := int64(d / time.Hour)
	minutes := int64((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%d hrs %d min", hours, minutes)
}
