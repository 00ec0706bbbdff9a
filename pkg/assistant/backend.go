// Package assistant wraps a generative-AI chat session for the kiosk. It
// keeps one conversation, tells service-detail JSON apart from plain text
// answers and logs every exchange for the analytics deck.
package assistant

import "context"

// Backend opens chat sessions against a generative model.
type Backend interface {
	StartSession(ctx context.Context, systemInstruction string) (Session, error)
}

// Session is one multi-turn conversation. Implementations keep the history.
type Session interface {
	// Send returns the full answer to message.
	Send(ctx context.Context, message string) (string, error)

	// SendStream passes each chunk to onChunk as it arrives and returns the
	// concatenated answer.
	SendStream(ctx context.Context, message string, onChunk func(chunk string)) (string, error)
}
