package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeChatLogRecorded is emitted after a chat log is persisted.
	EventTypeChatLogRecorded = "kiosk.chatlog.recorded"
)

// ChatLoggedEvent is a transport-neutral event payload for a persisted chat log.
type ChatLoggedEvent struct {
	SchemaVersion int             `json:"schema_version"`
	EventType     string          `json:"event_type"`
	EventID       string          `json:"event_id"`
	EmittedAt     time.Time       `json:"emitted_at"`
	Source        EventSource     `json:"source"`
	Log           chatlog.ChatLog `json:"log"`
}

// EventSource identifies the kiosk that recorded the log.
type EventSource struct {
	Kiosk string `json:"kiosk,omitempty"`
	Model string `json:"model,omitempty"`
}

// NewChatLoggedEvent wraps log in a v1 event.
func NewChatLoggedEvent(log chatlog.ChatLog, source EventSource, at time.Time) *ChatLoggedEvent {
	return &ChatLoggedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeChatLogRecorded,
		EventID:       "evt_" + uuid.NewString(),
		EmittedAt:     at,
		Source:        source,
		Log:           log,
	}
}
