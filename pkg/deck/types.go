package deck

import (
	"time"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
)

// TimeRange names a dashboard reporting window.
type TimeRange string

const (
	Range7Days     TimeRange = "7d"
	Range30Days    TimeRange = "30d"
	RangeMonthDate TimeRange = "mtd"
	RangeYearly    TimeRange = "yearly"
	RangeCustom    TimeRange = "custom"
)

// Period is the current reporting window plus the window it is compared with.
type Period struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	PrevStart time.Time `json:"prev_start"`
	PrevEnd   time.Time `json:"prev_end"`
}

type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
	DirectionNone     Direction = "none"
)

// Change compares a metric between two periods.
type Change struct {
	Percent   float64   `json:"percent"`
	Direction Direction `json:"direction"`
	Text      string    `json:"text"`
}

type MainStats struct {
	TotalSessions      int     `json:"total_sessions"`
	UniqueUsers        int     `json:"unique_users"`
	UnresolvedQueries  int     `json:"unresolved_queries"`
	AvgResponseTime    float64 `json:"avg_response_time_ms"`
	SessionsChange     Change  `json:"sessions_change"`
	UsersChange        Change  `json:"users_change"`
	UnresolvedChange   Change  `json:"unresolved_change"`
	ResponseTimeChange Change  `json:"response_time_change"`
}

type ChartPoint struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

type ServiceSlice struct {
	Name  string  `json:"name"`
	Value int     `json:"value"`
	Color string  `json:"color"`
	Share float64 `json:"share"`
}

type KeywordCount struct {
	Keyword   string `json:"keyword"`
	Count     int    `json:"count"`
	PrevCount int    `json:"prev_count"`
}

// Dashboard is everything the analytics view renders for one time range.
type Dashboard struct {
	Range        TimeRange         `json:"range"`
	Period       Period            `json:"period"`
	GeneratedAt  time.Time         `json:"generated_at"`
	MainStats    MainStats         `json:"main_stats"`
	Series       []ChartPoint      `json:"series"`
	Services     []ServiceSlice    `json:"services"`
	Keywords     []KeywordCount    `json:"keywords"`
	Failures     []chatlog.ChatLog `json:"failures"`
	CurrentCount int               `json:"current_count"`
}

// Filters selects the time range a dashboard is built for. CustomStart and
// CustomEnd are only read for RangeCustom.
type Filters struct {
	Range       TimeRange
	CustomStart time.Time
	CustomEnd   time.Time
}

const (
	DefaultTopKeywords  = 7
	DefaultTopFailures  = 7
	DefaultLookbackDays = 365
)
