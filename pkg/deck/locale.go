package deck

import (
	"fmt"
	"time"
)

// monthShort holds Indonesian short month names, January first.
var monthShort = [12]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// MonthShort returns the Indonesian short name for m.
func MonthShort(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthShort[m-1]
}

// FormatTimestamp renders t the way id-ID locales print date and time,
// e.g. "5/3/2025, 14.07.09".
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d, %02d.%02d.%02d",
		t.Day(), int(t.Month()), t.Year(), t.Hour(), t.Minute(), t.Second())
}

// FormatDayLabel renders a short axis label such as "5 Mar".
func FormatDayLabel(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), MonthShort(t.Month()))
}
