// Package chatlog defines the chat-log record produced by every kiosk
// assistant interaction and consumed by the analytics deck.
package chatlog

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ChatLog is one user query handled by the kiosk assistant.
type ChatLog struct {
	ID              string    `json:"id"`
	Query           string    `json:"query"`
	ServiceInquired string    `json:"service_inquired"`
	ResponseTime    int64     `json:"response_time_ms"`
	Timestamp       time.Time `json:"timestamp"`
	WasSuccessful   bool      `json:"was_successful"`
}

// New builds a ChatLog with a fresh ID. The response time is stored in
// milliseconds.
func New(query, service string, responseTime time.Duration, at time.Time, ok bool) ChatLog {
	return ChatLog{
		ID:              uuid.NewString(),
		Query:           query,
		ServiceInquired: service,
		ResponseTime:    responseTime.Milliseconds(),
		Timestamp:       at,
		WasSuccessful:   ok,
	}
}

// Validate reports whether the record can be persisted.
func (l *ChatLog) Validate() error {
	if strings.TrimSpace(l.Query) == "" {
		return errors.New("chat log query is empty")
	}
	if l.ResponseTime < 0 {
		return errors.New("chat log response time is negative")
	}
	if l.Timestamp.IsZero() {
		return errors.New("chat log timestamp is zero")
	}
	return nil
}

// EnsureID assigns a random ID when none is set.
func (l *ChatLog) EnsureID() {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
}

// SortByTimestampDesc orders logs newest first. Equal timestamps fall back
// to ID order so results are deterministic.
func SortByTimestampDesc(logs []ChatLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].Timestamp.Equal(logs[j].Timestamp) {
			return logs[i].ID < logs[j].ID
		}
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
}
