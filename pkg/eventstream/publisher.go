package eventstream

import "context"

// Publisher publishes chat log events to an event stream backend.
type Publisher interface {
	Publish(ctx context.Context, event *ChatLoggedEvent) error
	Close() error
}
