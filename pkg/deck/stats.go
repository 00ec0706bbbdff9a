package deck

import (
	"sort"
	"unicode/utf8"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
)

// ComputeMainStats builds the headline metrics for the current period and
// their change against the previous one.
func ComputeMainStats(current, previous []chatlog.ChatLog) MainStats {
	stats := MainStats{
		TotalSessions:     len(current),
		UniqueUsers:       estimateUniqueUsers(current),
		UnresolvedQueries: countUnresolved(current),
		AvgResponseTime:   averageResponseTime(current),
	}

	prevUsers := estimateUniqueUsers(previous)
	prevUnresolved := countUnresolved(previous)
	prevAvg := averageResponseTime(previous)

	stats.SessionsChange = CalculateChange(float64(stats.TotalSessions), float64(len(previous)))
	stats.UsersChange = CalculateChange(float64(stats.UniqueUsers), float64(prevUsers))
	stats.UnresolvedChange = CalculateChange(float64(stats.UnresolvedQueries), float64(prevUnresolved))
	// Arguments swapped: a faster average response reads as an increase.
	stats.ResponseTimeChange = CalculateChange(prevAvg, stats.AvgResponseTime)

	return stats
}

// estimateUniqueUsers approximates distinct users from query lengths. Chat
// logs carry no user identity, so this is only a rough signal.
func estimateUniqueUsers(logs []chatlog.ChatLog) int {
	seen := map[int]struct{}{}
	for _, log := range logs {
		seen[utf8.RuneCountInString(log.Query)%100] = struct{}{}
	}
	return len(seen)
}

func countUnresolved(logs []chatlog.ChatLog) int {
	count := 0
	for _, log := range logs {
		if !log.WasSuccessful {
			count++
		}
	}
	return count
}

func averageResponseTime(logs []chatlog.ChatLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	var total int64
	for _, log := range logs {
		total += log.ResponseTime
	}
	return float64(total) / float64(len(logs))
}

// RecentFailures returns up to limit unsuccessful logs, newest first.
func RecentFailures(current []chatlog.ChatLog, limit int) []chatlog.ChatLog {
	failures := []chatlog.ChatLog{}
	for _, log := range current {
		if !log.WasSuccessful {
			failures = append(failures, log)
		}
	}
	sort.SliceStable(failures, func(i, j int) bool {
		return failures[i].Timestamp.After(failures[j].Timestamp)
	})
	if limit > 0 && len(failures) > limit {
		failures = failures[:limit]
	}
	return failures
}
