package deck

import (
	"time"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
)

// ActivitySeries buckets current-period logs for the activity line chart.
// The yearly range yields one point per month of now's year; other ranges
// yield one point per local calendar day with missing days zero-filled.
func ActivitySeries(current []chatlog.ChatLog, rng TimeRange, now, customStart, customEnd time.Time) []ChartPoint {
	if len(current) == 0 {
		return []ChartPoint{}
	}

	loc := now.Location()
	if rng == RangeYearly {
		return monthlySeries(current, now.Year(), loc)
	}

	today := startOfDay(now)
	var start, end time.Time
	switch rng {
	case Range7Days:
		start, end = today.AddDate(0, 0, -6), today
	case Range30Days:
		start, end = today.AddDate(0, 0, -29), today
	case RangeMonthDate:
		start, end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), today
	case RangeCustom:
		if customStart.IsZero() || customEnd.IsZero() {
			return []ChartPoint{}
		}
		start, end = dateIn(customStart, loc), dateIn(customEnd, loc)
	default:
		return []ChartPoint{}
	}

	if start.After(end) {
		return []ChartPoint{}
	}

	counts := map[string]int{}
	for _, log := range current {
		counts[log.Timestamp.In(loc).Format(dateLayout)]++
	}

	points := []ChartPoint{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateLayout)
		points = append(points, ChartPoint{
			Date:  key,
			Label: FormatDayLabel(day),
			Value: counts[key],
		})
	}

	return points
}

func monthlySeries(current []chatlog.ChatLog, year int, loc *time.Location) []ChartPoint {
	points := make([]ChartPoint, 12)
	for i := range points {
		month := time.Month(i + 1)
		points[i] = ChartPoint{
			Date:  time.Date(year, month, 1, 0, 0, 0, 0, loc).Format(dateLayout),
			Label: MonthShort(month),
		}
	}

	for _, log := range current {
		ts := log.Timestamp.In(loc)
		if ts.Year() != year {
			continue
		}
		points[ts.Month()-1].Value++
	}

	return points
}
